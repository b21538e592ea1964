// Package input provides the sources the command line reader draws from:
// an interactive terminal with line editing, and files that may be
// compressed.
package input // import "github.com/alttpo/sexpread/input"

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/peterh/liner"
)

// IsTerminal reports whether standard input is an interactive terminal.
func IsTerminal() bool {
	mode, err := liner.TerminalMode()
	return err == nil && mode != nil
}

// Terminal is a line-editing source with history.
type Terminal struct {
	*liner.State
	prompt string
	cont   string
}

// NewTerminal puts the terminal into raw mode; the caller must Close it to
// restore the previous mode.
func NewTerminal(prompt, cont string) *Terminal {
	t := &Terminal{
		State:  liner.NewLiner(),
		prompt: prompt,
		cont:   cont,
	}
	t.SetCtrlCAborts(true)
	return t
}

// ReadChunk shows the primary prompt when fresh and the continuation prompt
// otherwise. Ctrl-C and Ctrl-D both end the input.
func (t *Terminal) ReadChunk(fresh bool) (string, error) {
	p := t.cont
	if fresh {
		p = t.prompt
	}
	line, err := t.Prompt(p)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if line != "" {
		t.AppendHistory(line)
	}
	return line + "\n", nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// Open opens the named file, decompressing it when the name ends in .gz
// or .zst.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return Decompress(f, filepath.Ext(name))
}

// Decompress wraps rc in the decoder for the file extension ext. Closing
// the result closes rc as well.
func Decompress(rc io.ReadCloser, ext string) (io.ReadCloser, error) {
	switch ext {
	case ".gz":
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return &multiCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case ".zst":
		zr, err := zstd.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return &multiCloser{Reader: zr, closers: []io.Closer{zstdCloser{zr}, rc}}, nil
	}
	return rc, nil
}
