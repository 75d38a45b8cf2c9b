package clipdur_test

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/simonhull/clipdur"
)

// msDecoder reads a clip whose contents are a decimal millisecond count.
var msDecoder = clipdur.DecoderFunc(func(data []byte) (time.Duration, error) {
	ms, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a duration: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, nil
})

// clipDir creates <tmp>/clips populated with files and returns its path.
// The default output file therefore lands in <tmp>.
func clipDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "clips")
	require.NoError(t, os.Mkdir(dir, 0o755))
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	}
	return dir
}

// readTSV returns the header and the sorted "name=ms" rows of a tsv store.
func readTSV(t *testing.T, path string) (string, []string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan(), "missing header")
	header := sc.Text()

	var rows []string
	for sc.Scan() {
		name, ms, ok := strings.Cut(sc.Text(), "\t")
		require.True(t, ok, "malformed row %q", sc.Text())
		rows = append(rows, name+"="+ms)
	}
	require.NoError(t, sc.Err())
	slices.Sort(rows)
	return header, rows
}

// memStore collects results in memory.
type memStore struct {
	mu      sync.Mutex
	results []clipdur.Result
	closed  bool
}

func (m *memStore) Append(r clipdur.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memStore) opener() clipdur.StoreOpener {
	return func(string) (clipdur.Store, error) { return m, nil }
}

// failingStore fails every append from the failAt'th on.
type failingStore struct {
	appends int
	failAt  int
	closed  bool
}

func (f *failingStore) Append(clipdur.Result) error {
	f.appends++
	if f.appends >= f.failAt {
		return fmt.Errorf("disk full")
	}
	return nil
}

func (f *failingStore) Close() error {
	f.closed = true
	return nil
}
