package khmerseg

import "fmt"

const initialWordStoreSlots = 2 // include slot 0 + root slot

// wordStore keeps word IDs directly indexed by trie position.
// IDs are stored with an offset of 1, leaving 0 for states which do not
// terminate a lexicon word.
type wordStore struct {
	ids []uint32 // will grow with demand
}

func newWordStore(capacity int) *wordStore {
	return &wordStore{
		ids: make([]uint32, max(capacity, initialWordStoreSlots)),
	}
}

func (s *wordStore) ensure(pos int) {
	if pos < len(s.ids) {
		return
	}
	s.ids = append(s.ids, make([]uint32, pos+1-len(s.ids))...)
}

// Put marks trie position pos as the end of word id.
func (s *wordStore) Put(pos int, id int) error {
	if pos <= 0 {
		return fmt.Errorf("invalid trie position: %d", pos)
	}
	if id < 0 || id >= int(^uint32(0)) {
		return fmt.Errorf("word id out of range: %d", id)
	}
	s.ensure(pos)
	s.ids[pos] = uint32(id) + 1
	return nil
}

// Get returns the word ID terminating at trie position pos.
func (s *wordStore) Get(pos int) (int, bool) {
	if pos <= 0 || pos >= len(s.ids) {
		return 0, false
	}
	v := s.ids[pos]
	if v == 0 {
		return 0, false
	}
	return int(v - 1), true
}

// Len returns the number of positions holding a word.
func (s *wordStore) Len() int {
	n := 0
	for _, v := range s.ids {
		if v != 0 {
			n++
		}
	}
	return n
}
