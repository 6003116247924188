package hw

import "testing"

func TestPString(t *testing.T) {
	tests := []struct {
		p    P
		want string
	}{
		{0x00, "nvmxdizc"},
		{0xFF, "NVMXDIZC"},
		{Carry, "nvmxdizC"},
		{Zero, "nvmxdiZc"},
		{IntDisable, "nvmxdIzc"},
		{Decimal, "nvmxDizc"},
		{IndexWidth, "nvmXdizc"},
		{MemWidth, "nvMxdizc"},
		{Overflow, "nVmxdizc"},
		{Negative, "Nvmxdizc"},
		{Negative | Zero | Carry, "NvmxdiZC"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("P(%02X).String() = %q, want %q", uint8(tt.p), got, tt.want)
		}
	}
}

func TestPSetters(t *testing.T) {
	var p P
	p = p.SetC(true).SetZ(true).SetI(true).SetD(true).SetX(true).SetM(true).SetV(true).SetN(true)
	if p != 0xFF {
		t.Fatalf("all set: got %02X", uint8(p))
	}
	if !(p.C() && p.Z() && p.I() && p.D() && p.X() && p.M() && p.V() && p.N()) {
		t.Fatalf("getters disagree with %s", p)
	}

	p = p.SetC(false).SetN(false)
	if p.C() || p.N() || !p.Z() || !p.V() {
		t.Errorf("got %s, want NVMXDIZc with C and N cleared", p)
	}
	if p != 0x7E {
		t.Errorf("got %02X, want 7E", uint8(p))
	}
}

func TestPCheckNZ(t *testing.T) {
	var p P
	p.checkNZ8(0x80)
	if !p.N() || p.Z() {
		t.Errorf("checkNZ8(0x80): %s", p)
	}
	p.checkNZ8(0x00)
	if p.N() || !p.Z() {
		t.Errorf("checkNZ8(0x00): %s", p)
	}
	p.checkNZ16(0x0080)
	if p.N() || p.Z() {
		t.Errorf("checkNZ16(0x0080): %s", p)
	}
	p.checkNZ16(0x8000)
	if !p.N() || p.Z() {
		t.Errorf("checkNZ16(0x8000): %s", p)
	}
}
