// Package conformance runs the SingleStepTests 65816 suite against the hw
// core: one JSON file per opcode and mode, each holding thousands of tests
// made of an initial state, the expected bus activity, cycle by cycle, and the
// final state.
package conformance

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/jx"

	"w65816/hw"
)

// A Test is a single fixture test.
type Test struct {
	Name    string
	Initial State
	Final   State
	Cycles  []Cycle
}

// State is the state of the CPU and of the memory bytes a test cares about.
type State struct {
	Core hw.Core
	RAM  []RAMByte
}

type RAMByte struct {
	Addr uint32
	Val  uint8
}

// A Cycle is the bus activity expected during one cycle. Address and data are
// not always specified.
type Cycle struct {
	Addr    uint32
	HasAddr bool
	Data    uint8
	HasData bool
	Signals Signals
}

// Signals are the control lines of a cycle, as annotated in fixtures, with
// one character per line: "dpvrexml". Any character other than the expected
// one means the line is deasserted.
type Signals struct {
	VDA, VPA, VP bool
	Read         bool
	E, M, X      bool
	ML           bool
}

const signalChars = "dpvrexml"

// ParseSignals parses an annotation string. Missing characters are taken as
// deasserted lines.
func ParseSignals(s string) Signals {
	at := func(i int) bool { return i < len(s) && s[i] == signalChars[i] }
	return Signals{
		VDA:  at(0),
		VPA:  at(1),
		VP:   at(2),
		Read: at(3),
		E:    at(4),
		M:    at(5),
		X:    at(6),
		ML:   at(7),
	}
}

// String returns the annotation string, using the same convention as
// hw.Bus.String.
func (s Signals) String() string {
	var buf [8]byte
	for i, set := range [8]bool{s.VDA, s.VPA, s.VP, s.Read, s.E, s.M, s.X, s.ML} {
		buf[i] = '-'
		if set {
			buf[i] = signalChars[i]
		}
	}
	if !s.Read {
		buf[3] = 'w'
	}
	return string(buf[:])
}

// SignalsOf returns the control lines on the bus.
func SignalsOf(bus *hw.Bus) Signals {
	return Signals{
		VDA:  bus.VDA(),
		VPA:  bus.VPA(),
		VP:   bus.VP(),
		Read: bus.RW(),
		E:    bus.E(),
		M:    bus.M(),
		X:    bus.X(),
		ML:   bus.ML(),
	}
}

// FileName returns the base name of the fixture file of an opcode, in
// emulation or native mode, without extension: "a9.e" or "a9.n".
func FileName(op uint8, emulation bool) string {
	mode := 'n'
	if emulation {
		mode = 'e'
	}
	return fmt.Sprintf("%02x.%c", op, mode)
}

// FindFile returns the path of the fixture file of an opcode in dir,
// uncompressed or gzipped.
func FindFile(dir string, op uint8, emulation bool) (string, error) {
	base := filepath.Join(dir, FileName(op, emulation))
	for _, ext := range []string{".json", ".json.gz"} {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("fixture %s: %w", base+".json", fs.ErrNotExist)
}

// ReadFile reads and decodes a fixture file. Files ending in .gz are
// decompressed.
func ReadFile(path string) ([]Test, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	tests, err := Decode(jx.Decode(r, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tests, nil
}

// Decode decodes a JSON array of tests.
func Decode(d *jx.Decoder) ([]Test, error) {
	var tests []Test
	err := d.Arr(func(d *jx.Decoder) error {
		var t Test
		if err := t.decode(d); err != nil {
			if t.Name != "" {
				return fmt.Errorf("test %q: %w", t.Name, err)
			}
			return fmt.Errorf("test #%d: %w", len(tests), err)
		}
		tests = append(tests, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tests, nil
}

func (t *Test) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			s, err := d.Str()
			t.Name = s
			return err
		case "initial":
			return t.Initial.decode(d)
		case "final":
			return t.Final.decode(d)
		case "cycles":
			return d.Arr(func(d *jx.Decoder) error {
				var c Cycle
				if err := c.decode(d); err != nil {
					return fmt.Errorf("cycle %d: %w", len(t.Cycles), err)
				}
				t.Cycles = append(t.Cycles, c)
				return nil
			})
		}
		return d.Skip()
	})
}

func (s *State) decode(d *jx.Decoder) error {
	r := &s.Core
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			r.PC, err = d.UInt16()
		case "s":
			r.S, err = d.UInt16()
		case "a":
			r.A, err = d.UInt16()
		case "x":
			r.X, err = d.UInt16()
		case "y":
			r.Y, err = d.UInt16()
		case "d":
			r.D, err = d.UInt16()
		case "dbr":
			r.DBR, err = d.UInt8()
		case "pbr":
			r.PBR, err = d.UInt8()
		case "p":
			var p uint8
			p, err = d.UInt8()
			r.P = hw.P(p)
		case "e":
			r.E, err = decodeFlag(d)
		case "ram":
			err = d.Arr(func(d *jx.Decoder) error {
				b, err := decodeRAMByte(d)
				s.RAM = append(s.RAM, b)
				return err
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

// decodeFlag decodes a boolean given as true/false or 0/1.
func decodeFlag(d *jx.Decoder) (bool, error) {
	if d.Next() == jx.Bool {
		return d.Bool()
	}
	v, err := d.UInt8()
	return v != 0, err
}

func decodeRAMByte(d *jx.Decoder) (RAMByte, error) {
	var b RAMByte
	i := 0
	err := d.Arr(func(d *jx.Decoder) error {
		var err error
		switch i {
		case 0:
			b.Addr, err = d.UInt32()
		case 1:
			b.Val, err = d.UInt8()
		default:
			err = d.Skip()
		}
		i++
		return err
	})
	if err == nil && i < 2 {
		err = fmt.Errorf("ram entry with %d elements", i)
	}
	return b, err
}

func (c *Cycle) decode(d *jx.Decoder) error {
	i := 0
	err := d.Arr(func(d *jx.Decoder) error {
		defer func() { i++ }()

		switch i {
		case 0:
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.UInt32()
			c.Addr, c.HasAddr = v&0xFFFFFF, true
			return err
		case 1:
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.UInt8()
			c.Data, c.HasData = v, true
			return err
		case 2:
			s, err := d.Str()
			c.Signals = ParseSignals(s)
			return err
		}
		return d.Skip()
	})
	if err == nil && i < 3 {
		err = fmt.Errorf("%d elements, want 3", i)
	}
	return err
}
