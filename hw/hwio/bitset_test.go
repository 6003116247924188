package hwio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func bits(b *Bitset) []uint {
	var got []uint
	b.Each(func(i uint) { got = append(got, i) })
	return got
}

func TestBitsetEach(t *testing.T) {
	var b Bitset
	if got := bits(&b); len(got) != 0 {
		t.Fatalf("empty bitset visits %v", got)
	}

	want := []uint{0, 2, 63, 64, 65, 1000, NumBits - 1}
	for _, i := range []uint{1000, 64, 2, NumBits - 1, 0, 65, 63, 2} {
		b.Set(i)
	}
	if diff := cmp.Diff(want, bits(&b)); diff != "" {
		t.Errorf("Each mismatch (-want +got):\n%s", diff)
	}
}

func TestMemAllocatesOnNonZeroWrite(t *testing.T) {
	m := NewMem("test")

	m.Write8(0x123456, 0)
	m.Write8(0x7E1234, 0x56)
	m.Write8(0x7E12FF, 0x57)
	m.Write8(0x01000010, 0xAA)

	want := []uint{0x0000, 0x7E12}
	if diff := cmp.Diff(want, bits(&m.used)); diff != "" {
		t.Errorf("allocated pages mismatch (-want +got):\n%s", diff)
	}
}
