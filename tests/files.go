// Package tests provides the data files used by the tests of other packages.
package tests

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"w65816/conformance"
	"w65816/emu/log"
)

// FixturesEnv names the environment variable that, when set, gives the
// directory of already downloaded fixture files.
const FixturesEnv = "W65816_FIXTURES"

var fixturesPath = sync.OnceValues(func() (string, error) {
	if dir := os.Getenv(FixturesEnv); dir != "" {
		return dir, nil
	}

	_, b, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(b), "testdata", "65816")

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		log.ModFetch.WarnZ("fixtures directory not found, downloading it").String("dir", dir).End()
		if err := conformance.Fetch(context.Background(), dir, conformance.FetchOptions{Gzip: true}); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	return dir, nil
})

// FixturesPath returns the directory holding the SingleStepTests 65816
// fixture files, downloading them on first use.
func FixturesPath(tb testing.TB) string {
	tb.Helper()

	dir, err := fixturesPath()
	if err != nil {
		tb.Fatalf("65816 fixtures: %s", err)
	}
	return dir
}
