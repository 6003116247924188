package conformance

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"w65816/emu/log"
)

// DefaultBaseURL is where the 65816 fixture files are downloaded from.
const DefaultBaseURL = `https://raw.githubusercontent.com/SingleStepTests/65816/main/v1/`

type FetchOptions struct {
	BaseURL string       // DefaultBaseURL if empty
	Client  *http.Client // http.DefaultClient if nil
	Jobs    int          // concurrent downloads, the number of CPUs if 0 or negative

	// Gzip compresses the files as they're written.
	Gzip bool

	// Opcodes to download, all 256 if empty.
	Opcodes []uint8
}

// Fetch downloads the fixture files of both modes into dest, which must not
// exist. Files are downloaded into a temporary directory first, which is
// renamed to dest once they all are.
func Fetch(ctx context.Context, dest string, opts FetchOptions) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("fetch: %s already exists", dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fetch: %w", err)
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	opcodes := opts.Opcodes
	if len(opcodes) == 0 {
		for op := range 256 {
			opcodes = append(opcodes, uint8(op))
		}
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	// Same parent so that the final rename doesn't cross file systems.
	tmpdir, err := os.MkdirTemp(parent, ".65816.fixtures.*")
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer os.RemoveAll(tmpdir)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism(opts.Jobs))

	for _, op := range opcodes {
		for _, emu := range []bool{true, false} {
			name := FileName(op, emu) + ".json"
			g.Go(func() error {
				return download(ctx, opts, name, tmpdir)
			})
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	if err := os.Rename(tmpdir, dest); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	log.ModFetch.InfoZ("fixtures downloaded").String("dir", dest).Int("files", 2*len(opcodes)).End()
	return nil
}

func download(ctx context.Context, opts FetchOptions, name, dir string) error {
	url := opts.BaseURL + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := opts.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	path := filepath.Join(dir, name)
	if opts.Gzip {
		path += ".gz"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if opts.Gzip {
		gz = gzip.NewWriter(f)
		w = gz
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}

	log.ModFetch.DebugZ("downloaded").String("url", url).Int64("bytes", n).End()
	return f.Close()
}
