/*
Package dat implements a frozen double-array trie over a dense alphabet.

A double-array trie stores a deterministic automaton in two parallel arrays.
State s has a transition on symbol c to state t = Base[s] + c if and only if
Check[t] == s. Lookup of a key of length n therefore costs n array reads,
independent of the number of keys stored.

Runes are not used as symbols directly. An Alphabet maps every BMP code
point occurring in the key set to a small dense ID, keeping Base/Check
compact even for scripts far from ASCII.
*/
package dat

// DAT is a frozen double-array trie.
//   - States are indices into Base/Check; 0 is unused, Root is typically 1.
//   - A transition on dense symbol c from state s leads to t = Base[s]+c,
//     valid if Check[t] == s.
//   - Dense symbols are in [1..Sigma]; 0 means "not in alphabet" and never
//     has a transition.
type DAT struct {
	Root  uint32   // root state index
	Sigma uint16   // size of the dense alphabet
	Base  []int32  // len == NStates()
	Check []int32  // len == NStates()
	Alpha Alphabet // code point → dense symbol
}

// NStates returns number of allocated slots/states in the arrays.
func (d *DAT) NStates() int { return len(d.Base) }

// Transition returns (nextState, ok). dense must be in [1..Sigma].
func (d *DAT) Transition(state uint32, dense uint16) (uint32, bool) {
	if dense == 0 || int(state) >= len(d.Base) {
		return 0, false
	}
	t := d.Base[state] + int32(dense)
	if t <= 0 || int(t) >= len(d.Check) {
		return 0, false
	}
	if d.Check[t] != int32(state) {
		return 0, false
	}
	return uint32(t), true
}

// Dense maps a rune to its dense alphabet symbol.
// Returns 0 for runes outside the alphabet, including all runes beyond the BMP.
func (d *DAT) Dense(r rune) uint16 {
	if r < 0 || r > 0xFFFF {
		return 0
	}
	return d.Alpha.Dense(uint16(r))
}

// Walk follows the transitions for key, starting at the root.
// It returns the final state, or 0 if key leaves the trie.
func (d *DAT) Walk(key []rune) uint32 {
	state := d.Root
	for _, r := range key {
		next, ok := d.Transition(state, d.Dense(r))
		if !ok {
			return 0
		}
		state = next
	}
	return state
}
