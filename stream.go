package sexp

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Source supplies input text in chunks, typically one line at a time.
//
// ReadChunk returns the next chunk. fresh reports that no unfinished datum
// is pending, so an interactive source can show its primary prompt rather
// than a continuation prompt. Once input is exhausted ReadChunk returns an
// empty chunk and io.EOF.
type Source interface {
	ReadChunk(fresh bool) (string, error)
}

// Stream reads a sequence of data from a Source.
//
// The buffer is parsed from its start every time a chunk arrives, so the
// cost of a datum grows with the square of its length. That is fine for
// line-sized interactive input.
type Stream struct {
	parser Parser
	src    Source
	buf    string
	err    error
}

func NewStream(p Parser, src Source) *Stream {
	if p == nil {
		p = FullParser
	}
	return &Stream{parser: p, src: src}
}

// Buffered returns the text read but not yet consumed by a datum.
func (s *Stream) Buffered() string {
	return s.buf
}

// Next returns the next complete datum.
//
// A *SyntaxError discards everything buffered; the following call reads
// fresh input. At the end of input Next returns io.EOF, even if an
// unfinished datum is still buffered. Any other error comes from the
// Source and ends the stream.
func (s *Stream) Next() (*Node, error) {
	if s.err != nil {
		return nil, s.err
	}

	for {
		n, rest, err := s.parser.Parse(s.buf)
		if err == nil {
			s.buf = rest
			return n, nil
		}
		if !IsIncomplete(err) {
			s.buf = ""
			return nil, err
		}

		chunk, err := s.src.ReadChunk(strings.TrimSpace(s.buf) == "")
		if err == io.EOF {
			s.err = io.EOF
			return nil, s.err
		}
		if err != nil {
			s.err = fmt.Errorf("read input: %w", err)
			return nil, s.err
		}
		s.buf += chunk
	}
}

type readerSource struct {
	r *bufio.Reader
}

// NewReaderSource returns a Source that reads r one line at a time.
func NewReaderSource(r io.Reader) Source {
	return readerSource{r: bufio.NewReader(r)}
}

func (s readerSource) ReadChunk(fresh bool) (string, error) {
	line, err := s.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return line, err
}

type chunkSource struct {
	chunks []string
}

// NewChunkSource returns a Source that yields chunks in order.
func NewChunkSource(chunks ...string) Source {
	return &chunkSource{chunks: chunks}
}

func (s *chunkSource) ReadChunk(fresh bool) (string, error) {
	if len(s.chunks) == 0 {
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}
