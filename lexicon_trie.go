package khmerseg

import (
	"fmt"
	"maps"
	"slices"

	"github.com/npillmayer/khmerseg/dat"
)

// TrieStats reports density metrics for the trie index of a lexicon.
type TrieStats struct {
	UsedSlots  int
	TotalSlots int
	MaxStateID int
	Sigma      int // size of the dense alphabet
}

// FillRatio is the share of used slots in the double array.
func (s TrieStats) FillRatio() float64 {
	if s.TotalSlots == 0 {
		return 0
	}
	return float64(s.UsedSlots) / float64(s.TotalSlots)
}

// lexiconTrie collects lexicon words in a pointer trie and compiles them
// into a double-array trie. Until compile, the end of a word is known by the
// provisional number of its trie node; stateOf translates these numbers into
// states of the compiled trie.
type lexiconTrie struct {
	root    *stagingNode
	nodes   int             // provisional node numbers handed out, root included
	symbols map[rune]uint16 // rune → dense symbol, 1-based
	states  []uint32        // provisional node number → compiled state
	dat     *dat.DAT
	sealed  bool
	stats   TrieStats
}

type stagingNode struct {
	id    int
	state uint32
	next  map[uint16]*stagingNode
}

func newLexiconTrie() *lexiconTrie {
	return &lexiconTrie{
		root:    &stagingNode{id: 1, next: make(map[uint16]*stagingNode)},
		nodes:   1,
		symbols: make(map[rune]uint16),
		dat:     &dat.DAT{Root: 1},
	}
}

// insert adds word to the staging trie and returns the provisional number
// of the node ending it. Words with runes beyond the BMP cannot be inserted,
// and neither can words which would overflow the dense alphabet.
func (lt *lexiconTrie) insert(word string) (int, bool) {
	assert(!lt.sealed, "insert into a compiled lexicon trie")
	key, ok := lt.symbolize(word)
	if !ok || len(key) == 0 {
		return 0, false
	}
	n := lt.root
	for _, c := range key {
		child, found := n.next[c]
		if !found {
			lt.nodes++
			child = &stagingNode{id: lt.nodes, next: make(map[uint16]*stagingNode)}
			n.next[c] = child
		}
		n = child
	}
	return n.id, true
}

// symbolize maps the runes of word to dense symbols, extending the alphabet
// with runes seen for the first time. The alphabet is left unchanged if word
// cannot be mapped.
func (lt *lexiconTrie) symbolize(word string) ([]uint16, bool) {
	var fresh []rune
	key := make([]uint16, 0, len(word)/3+1)
	for _, r := range word {
		if r > 0xFFFF {
			return nil, false
		}
		c, known := lt.symbols[r]
		if !known {
			i := slices.Index(fresh, r)
			if i < 0 {
				i = len(fresh)
				fresh = append(fresh, r)
			}
			c = uint16(len(lt.symbols) + i + 1)
		}
		key = append(key, c)
	}
	if len(lt.symbols)+len(fresh) > int(^uint16(0)) {
		return nil, false
	}
	for _, r := range fresh {
		c := uint16(len(lt.symbols) + 1)
		lt.symbols[r] = c
		lt.dat.Alpha.Set(uint16(r), c)
	}
	return key, true
}

// compile lays out the staging trie as a double array, breadth first. The
// children of a node are placed at the lowest base where all of their slots
// are free. After compile the trie is read-only.
func (lt *lexiconTrie) compile() {
	if lt.sealed {
		return
	}
	d := lt.dat
	root := int(d.Root)
	d.Sigma = uint16(len(lt.symbols))
	d.Base = make([]int32, root+1)
	d.Check = make([]int32, root+1)
	lt.states = make([]uint32, lt.nodes+1)
	lt.root.state = d.Root
	lt.states[lt.root.id] = d.Root
	maxState := root
	var slots freeSlots
	for t := 0; t <= root; t++ {
		slots.take(t)
	}
	queue := []*stagingNode{lt.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if len(n.next) == 0 {
			continue
		}
		labels := slices.Sorted(maps.Keys(n.next))
		base := placeChildren(d, &slots, labels)
		d.Base[n.state] = int32(base)
		for _, c := range labels {
			child := n.next[c]
			child.state = uint32(base + int(c))
			d.Check[child.state] = int32(n.state)
			lt.states[child.id] = child.state
			maxState = max(maxState, int(child.state))
			queue = append(queue, child)
		}
	}
	lt.stats = TrieStats{
		UsedSlots:  lt.nodes,
		TotalSlots: d.NStates(),
		MaxStateID: maxState,
		Sigma:      int(d.Sigma),
	}
	lt.root = nil
	lt.symbols = nil
	lt.sealed = true
}

// placeChildren returns the lowest base for which all slots base+c, c in
// labels, are free, takes these slots and grows the arrays to cover them.
// labels are sorted. Candidates are enumerated by the free slots for the
// first label, so runs of taken slots are skipped in one step.
func placeChildren(d *dat.DAT, slots *freeSlots, labels []uint16) int {
	first := int(labels[0])
	base := 0
	for t := slots.next(first + 1); ; t = slots.next(t + 1) {
		if base = t - first; slots.fit(labels, base) {
			break
		}
	}
	for _, c := range labels {
		slots.take(base + int(c))
	}
	if top := base + int(labels[len(labels)-1]); top >= len(d.Base) {
		grow := top + 1 - len(d.Base)
		d.Base = append(d.Base, make([]int32, grow)...)
		d.Check = append(d.Check, make([]int32, grow)...)
	}
	return base
}

// freeSlots tracks the taken slots of a double array under construction.
// link[t] == t for a free slot; for a taken slot it points further right,
// towards the next free slot (a union-find over runs of taken slots).
// Slots beyond the end of link are free.
type freeSlots struct {
	link []int32
}

// next returns the lowest free slot >= t.
func (fs *freeSlots) next(t int) int {
	for t < len(fs.link) && int(fs.link[t]) != t {
		up := int(fs.link[t])
		if up < len(fs.link) {
			fs.link[t] = fs.link[up] // path halving
		}
		t = up
	}
	return t
}

func (fs *freeSlots) isFree(t int) bool {
	return t >= len(fs.link) || int(fs.link[t]) == t
}

func (fs *freeSlots) fit(labels []uint16, base int) bool {
	for _, c := range labels {
		if !fs.isFree(base + int(c)) {
			return false
		}
	}
	return true
}

func (fs *freeSlots) take(t int) {
	for len(fs.link) <= t {
		fs.link = append(fs.link, int32(len(fs.link)))
	}
	fs.link[t] = int32(t + 1)
}

// stateOf maps a provisional node number to its compiled state, 0 if there
// is none.
func (lt *lexiconTrie) stateOf(node int) int {
	if !lt.sealed || node <= 0 || node >= len(lt.states) {
		return 0
	}
	return int(lt.states[node])
}

// cursor walks the compiled trie one rune at a time.
type cursor struct {
	d     *dat.DAT
	state uint32 // 0 once the walk has left the trie
}

func (lt *lexiconTrie) cursor() cursor {
	return cursor{d: lt.dat, state: lt.dat.Root}
}

// step advances the cursor by r and returns the new state, or 0.
func (c *cursor) step(r rune) int {
	if c.state == 0 {
		return 0
	}
	next, ok := c.d.Transition(c.state, c.d.Dense(r))
	if !ok {
		next = 0
	}
	c.state = next
	return int(next)
}

func (lt *lexiconTrie) String() string {
	return fmt.Sprintf("lexicon-trie(states=%d, sigma=%d, compiled=%v)",
		lt.dat.NStates(), lt.dat.Sigma, lt.sealed)
}
