package conformance_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-faster/jx"
	"github.com/go-test/deep"
	"github.com/google/go-cmp/cmp"

	"w65816/conformance"
	"w65816/hw"
	"w65816/tests"
)

var runSuite = flag.Bool("conformance", false, "run the whole SingleStepTests 65816 suite (downloads it if needed)")

// LDA #$34 in emulation mode.
const ldaEmu = `[{
	"name": "a9 e 1",
	"initial": {"pc": 32768, "s": 511, "p": 52, "a": 43776, "x": 0, "y": 0, "dbr": 0, "d": 0, "pbr": 0, "e": 1,
		"ram": [[32768, 169], [32769, 52]]},
	"final": {"pc": 32770, "s": 511, "p": 52, "a": 43828, "x": 0, "y": 0, "dbr": 0, "d": 0, "pbr": 0, "e": 1,
		"ram": [[32768, 169], [32769, 52]]},
	"cycles": [[32768, 169, "dp-remx-"], [32769, 52, "-p-remx-"]]
}]`

// LDA #$1234 in native mode.
const ldaNative = `[{
	"name": "a9 n 1",
	"initial": {"pc": 32768, "s": 511, "p": 4, "a": 0, "x": 0, "y": 0, "dbr": 0, "d": 0, "pbr": 0, "e": 0,
		"ram": [[32768, 169], [32769, 52], [32770, 18]]},
	"final": {"pc": 32771, "s": 511, "p": 4, "a": 4660, "x": 0, "y": 0, "dbr": 0, "d": 0, "pbr": 0, "e": 0,
		"ram": [[32768, 169], [32769, 52], [32770, 18]]},
	"cycles": [[32768, 169, "dp-r----"], [32769, 52, "-p-r----"], [32770, 18, "-p-r----"]]
}]`

func decode(t *testing.T, s string) []conformance.Test {
	t.Helper()

	tests, err := conformance.Decode(jx.DecodeStr(s))
	if err != nil {
		t.Fatal(err)
	}
	return tests
}

func TestDecode(t *testing.T) {
	got := decode(t, ldaEmu)

	sig := func(s string) conformance.Signals { return conformance.ParseSignals(s) }
	want := []conformance.Test{{
		Name: "a9 e 1",
		Initial: conformance.State{
			Core: hw.Core{E: true, P: 0x34, S: 0x01FF, A: 0xAB00, PC: 0x8000},
			RAM:  []conformance.RAMByte{{Addr: 0x8000, Val: 0xA9}, {Addr: 0x8001, Val: 0x34}},
		},
		Final: conformance.State{
			Core: hw.Core{E: true, P: 0x34, S: 0x01FF, A: 0xAB34, PC: 0x8002},
			RAM:  []conformance.RAMByte{{Addr: 0x8000, Val: 0xA9}, {Addr: 0x8001, Val: 0x34}},
		},
		Cycles: []conformance.Cycle{
			{Addr: 0x8000, HasAddr: true, Data: 0xA9, HasData: true, Signals: sig("dp-remx-")},
			{Addr: 0x8001, HasAddr: true, Data: 0x34, HasData: true, Signals: sig("-p-remx-")},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded tests mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeNullsAndBoolean(t *testing.T) {
	const fixture = `[{"name": "x", "unknown": {"a": [1, 2]},
		"initial": {"e": true, "ram": []}, "final": {"e": false, "ram": []},
		"cycles": [[null, null, "---r----"]]}]`

	got := decode(t, fixture)
	if len(got) != 1 {
		t.Fatalf("got %d tests, want 1", len(got))
	}
	if !got[0].Initial.Core.E || got[0].Final.Core.E {
		t.Errorf("E flags not decoded: %+v %+v", got[0].Initial.Core, got[0].Final.Core)
	}
	c := got[0].Cycles[0]
	if c.HasAddr || c.HasData || !c.Signals.Read {
		t.Errorf("cycle decoded as %+v", c)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, fixture := range []string{
		`{}`,
		`[{"name": "t", "cycles": [[1, 2]]}]`,
		`[{"name": "t", "initial": {"pc": "8000"}}]`,
		`[{"name": "t", "initial": {"ram": [[1]]}}]`,
	} {
		if _, err := conformance.Decode(jx.DecodeStr(fixture)); err == nil {
			t.Errorf("no error decoding %s", fixture)
		}
	}
}

func TestSignals(t *testing.T) {
	for _, s := range []string{"dp-remx-", "---w----", "d-vr-mxl", "d--wemxl", "---r----"} {
		if got := conformance.ParseSignals(s).String(); got != s {
			t.Errorf("ParseSignals(%q).String() = %q", s, got)
		}
	}

	var bus hw.Bus
	if got := conformance.SignalsOf(&bus).String(); got != bus.String() {
		t.Errorf("SignalsOf(zero bus) = %q, bus shows %q", got, bus.String())
	}
}

func TestRunPasses(t *testing.T) {
	for _, fixture := range []string{ldaEmu, ldaNative} {
		test := decode(t, fixture)[0]
		res := conformance.Run(&test, conformance.Options{Strict: true})
		if res.Failed() {
			t.Errorf("%s failed: %v (panic: %v)", test.Name, res.Mismatches, res.Panic)
		}
	}
}

func TestRunMismatches(t *testing.T) {
	t.Run("final state", func(t *testing.T) {
		test := decode(t, ldaEmu)[0]
		test.Final.Core.A = 0xAB35
		test.Final.RAM = append(test.Final.RAM, conformance.RAMByte{Addr: 0x7E0000, Val: 1})

		res := conformance.Run(&test, conformance.Options{})
		want := []conformance.Mismatch{
			{Cycle: conformance.FinalState, Field: "A", Want: "AB35", Got: "AB34"},
			{Cycle: conformance.FinalState, Field: "ram[7E0000]", Want: "01", Got: "00"},
		}
		if diff := deep.Equal(res.Mismatches, want); diff != nil {
			t.Error(diff)
		}
	})
	t.Run("cycle", func(t *testing.T) {
		test := decode(t, ldaEmu)[0]
		test.Cycles[1].Data = 0x35
		test.Cycles[0].Signals.VPA = false

		res := conformance.Run(&test, conformance.Options{})
		want := []conformance.Mismatch{
			{Cycle: 0, Field: "VPA", Want: "false", Got: "true"},
			{Cycle: 1, Field: "data", Want: "35", Got: "34"},
		}
		if diff := deep.Equal(res.Mismatches, want); diff != nil {
			t.Error(diff)
		}
	})
	t.Run("strict", func(t *testing.T) {
		test := decode(t, ldaEmu)[0]
		test.Cycles[0].Signals.E = false

		if res := conformance.Run(&test, conformance.Options{}); res.Failed() {
			t.Errorf("non-strict run failed: %v", res.Mismatches)
		}
		res := conformance.Run(&test, conformance.Options{Strict: true})
		want := []conformance.Mismatch{{Cycle: 0, Field: "E", Want: "false", Got: "true"}}
		if diff := deep.Equal(res.Mismatches, want); diff != nil {
			t.Error(diff)
		}
	})
}

func TestRunTrace(t *testing.T) {
	test := decode(t, ldaNative)[0]
	var buf bytes.Buffer
	conformance.Run(&test, conformance.Options{Trace: &buf})

	if !strings.Contains(buf.String(), "LDA #$1234") {
		t.Errorf("unexpected trace:\n%s", buf.String())
	}
}

func writeFixtures(t *testing.T, dir string, gz bool) {
	t.Helper()

	write := func(name, content string) {
		path := filepath.Join(dir, name+".json")
		data := []byte(content)
		if gz {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			zw.Write(data)
			zw.Close()
			path += ".gz"
			data = buf.Bytes()
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a9.e", ldaEmu)
	write("a9.n", ldaNative)
}

func TestReadFileGzip(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir, true)

	path, err := conformance.FindFile(dir, 0xA9, true)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "a9.e.json.gz" {
		t.Errorf("FindFile = %s", path)
	}
	got, err := conformance.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(decode(t, ldaEmu), got); diff != "" {
		t.Errorf("gzipped fixture mismatch (-want +got):\n%s", diff)
	}

	if _, err := conformance.FindFile(dir, 0xEA, true); err == nil {
		t.Error("FindFile found a missing file")
	}
}

func TestSuiteRun(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir, false)

	var calls int
	s := conformance.Suite{
		Dir:      dir,
		Opcodes:  []uint8{0xA9},
		Jobs:     2,
		Progress: func(done, total int) { calls++ },
	}
	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("Progress called %d times, want 2", calls)
	}

	total, passed, failed := rep.Totals()
	if total != 2 || passed != 2 || failed != 0 || rep.Failed() {
		t.Errorf("Totals() = %d, %d, %d", total, passed, failed)
	}

	var text bytes.Buffer
	if err := rep.WriteText(&text, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "2/2 tests passed") {
		t.Errorf("text report:\n%s", text.String())
	}

	var e jx.Encoder
	rep.Encode(&e)
	var names []string
	err = jx.DecodeBytes(e.Bytes()).Obj(func(d *jx.Decoder, key string) error {
		if key != "files" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "name" {
					return d.Skip()
				}
				name, err := d.Str()
				names = append(names, name)
				return err
			})
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a9.e", "a9.n"}, names); diff != "" {
		t.Errorf("JSON report files mismatch (-want +got):\n%s", diff)
	}
}

func TestSuiteRunMissingFile(t *testing.T) {
	s := conformance.Suite{Dir: t.TempDir(), Opcodes: []uint8{0xEA}}
	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("no error with missing fixtures")
	}
}

func TestSuiteSkip(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir, false)

	s := conformance.Suite{Dir: dir, Opcodes: []uint8{0xA9}, Skip: []string{"a9.n"}}
	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Files) != 1 || rep.Files[0].Name != "a9.e" {
		t.Errorf("files run: %+v", rep.Files)
	}
}

func TestFetch(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/v1/a9.e.json":
			w.Write([]byte(ldaEmu))
		case "/v1/a9.n.json":
			w.Write([]byte(ldaNative))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "fixtures")
	opts := conformance.FetchOptions{
		BaseURL: srv.URL + "/v1/",
		Client:  srv.Client(),
		Gzip:    true,
		Opcodes: []uint8{0xA9},
	}
	if err := conformance.Fetch(context.Background(), dest, opts); err != nil {
		t.Fatal(err)
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("got %d requests, want 2", n)
	}

	rep, err := (&conformance.Suite{Dir: dest, Opcodes: []uint8{0xA9}}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Failed() {
		t.Error("downloaded fixtures fail")
	}

	if err := conformance.Fetch(context.Background(), dest, opts); err == nil {
		t.Error("no error fetching into an existing directory")
	}

	opts.Opcodes = []uint8{0xEA}
	if err := conformance.Fetch(context.Background(), filepath.Join(t.TempDir(), "x"), opts); err == nil {
		t.Error("no error on HTTP 404")
	}
}

func TestConformance(t *testing.T) {
	if !*runSuite {
		t.Skip("run with -conformance")
	}

	s := conformance.Suite{
		Dir:     tests.FixturesPath(t),
		MaxFail: 3,
	}
	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range rep.Files {
		if !f.Failed() {
			continue
		}
		t.Errorf("%s: %d/%d passed", f.Name, f.Passed, f.Total)
		for _, res := range f.Failures {
			t.Logf("  %s: panic=%v", res.Name, res.Panic)
			for _, m := range res.Mismatches {
				t.Logf("    %s", m)
			}
		}
	}
	total, passed, _ := rep.Totals()
	t.Logf("%d/%d tests passed", passed, total)
}
