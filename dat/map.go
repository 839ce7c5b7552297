package dat

// Alphabet maps BMP code points (0..65535) to dense symbol IDs.
// It is a two-level page table:
//   - Top[hi] = page index (1..NumPages), or 0 meaning "page absent".
//   - Pages is a flat array of NumPages*256 entries.
//
// A Khmer lexicon touches only a handful of pages (U+17xx, plus whatever
// ASCII or punctuation made its way into the word list), so the table stays
// at a few KB.
type Alphabet struct {
	Top   [256]uint16 // page index (1-based); 0 means none
	Pages []uint16    // flat: NumPages*256
}

// Dense returns the dense symbol for a BMP code point, or 0 if absent.
func (m *Alphabet) Dense(bmp uint16) uint16 {
	pi := m.Top[bmp>>8]
	if pi == 0 {
		return 0
	}
	return m.Pages[int(pi-1)<<8+int(bmp&0xFF)]
}

// NumPages returns the number of allocated pages.
func (m *Alphabet) NumPages() int { return len(m.Pages) >> 8 }

// Set maps bmp to dense (dense may be 0 to clear).
func (m *Alphabet) Set(bmp uint16, dense uint16) {
	hi := bmp >> 8
	pi := m.Top[hi]
	if pi == 0 {
		if dense == 0 {
			return
		}
		m.Pages = append(m.Pages, make([]uint16, 256)...)
		pi = uint16(len(m.Pages) >> 8)
		m.Top[hi] = pi
	}
	m.Pages[int(pi-1)<<8+int(bmp&0xFF)] = dense
}
