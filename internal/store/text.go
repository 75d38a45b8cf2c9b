package store

import (
	"bufio"
	"os"
	"strconv"

	"github.com/simonhull/clipdur/internal/types"
)

// textStore writes one formatted line per result through a buffered writer.
type textStore struct {
	path   string
	f      *os.File
	w      *bufio.Writer
	format func(buf []byte, r types.Result) []byte
	buf    []byte
}

func newTSV(path string) (*textStore, error) {
	s, err := openText(path, func(buf []byte, r types.Result) []byte {
		buf = append(buf, r.Name()...)
		buf = append(buf, '\t')
		buf = strconv.AppendUint(buf, r.Millis, 10)
		return append(buf, '\n')
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.w.WriteString(TSVHeader + "\n"); err != nil {
		s.f.Close()
		return nil, &types.StoreError{Path: path, Op: "create", Err: err}
	}
	return s, nil
}

func newLines(path string) (*textStore, error) {
	return openText(path, func(buf []byte, r types.Result) []byte {
		buf = append(buf, '`')
		buf = append(buf, r.Path...)
		buf = append(buf, "` = "...)
		buf = strconv.AppendUint(buf, r.Millis, 10)
		return append(buf, '\n')
	})
}

func openText(path string, format func([]byte, types.Result) []byte) (*textStore, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &types.StoreError{Path: path, Op: "create", Err: err}
	}
	return &textStore{
		path:   path,
		f:      f,
		w:      bufio.NewWriterSize(f, 64*1024),
		format: format,
	}, nil
}

// Append implements Store.
func (s *textStore) Append(r types.Result) error {
	s.buf = s.format(s.buf[:0], r)
	if _, err := s.w.Write(s.buf); err != nil {
		return &types.StoreError{Path: s.path, Op: "append", Err: err}
	}
	return nil
}

// Close implements Store. It flushes, syncs, and closes the file.
func (s *textStore) Close() error {
	err := s.w.Flush()
	if err == nil {
		err = s.f.Sync()
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &types.StoreError{Path: s.path, Op: "close", Err: err}
	}
	return nil
}
