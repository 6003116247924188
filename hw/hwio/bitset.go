package hwio

const (
	NumBits  = NumPages           // one bit per 256-byte page of the 24-bit space
	wordSize = 64                 // using 64-bit words
	numWords = NumBits / wordSize // 1024 words exactly
)

// Bitset is a 64Kbit set. Zero value is an empty set (all bits cleared).
type Bitset struct {
	words [numWords]uint64
}

// Set sets the bit at index i.
func (b *Bitset) Set(i uint) {
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

// Each calls f with the index of each set bit, in increasing order.
func (b *Bitset) Each(f func(i uint)) {
	for wi, w := range b.words {
		for bit := uint(0); w != 0; bit++ {
			if w&1 != 0 {
				f(uint(wi)*wordSize + bit)
			}
			w >>= 1
		}
	}
}
