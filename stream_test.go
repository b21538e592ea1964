package sexp

import (
	"errors"
	"io"
	"strings"
	"testing"
)

type recordingSource struct {
	Source
	fresh []bool
}

func (s *recordingSource) ReadChunk(fresh bool) (string, error) {
	s.fresh = append(s.fresh, fresh)
	return s.Source.ReadChunk(fresh)
}

type failingSource struct {
	err error
}

func (s failingSource) ReadChunk(fresh bool) (string, error) {
	return "", s.err
}

// drain reads data until the stream ends, rendering syntax errors as "!".
func drain(t *testing.T, s *Stream) []string {
	t.Helper()
	var out []string
	for {
		n, err := s.Next()
		if err == io.EOF {
			return out
		}
		var se *SyntaxError
		if errors.As(err, &se) {
			out = append(out, "!")
			continue
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		out = append(out, n.String())
	}
}

func TestStream(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{
			name:   "single list",
			chunks: []string{"(1 2 3)\n"},
			want:   []string{"(1 2 3)"},
		},
		{
			name:   "list split across reads",
			chunks: []string{"(1\n", "2)\n"},
			want:   []string{"(1 2)"},
		},
		{
			name:   "several data per line",
			chunks: []string{"1 'a #t\n", "#(1 2) (a . b)\n"},
			want:   []string{"1", "(quote a)", "#t", "#(1 2)", "(a . b)"},
		},
		{
			name:   "syntax error resynchronizes",
			chunks: []string{"#z\n", "(1 2)\n"},
			want:   []string{"!", "(1 2)"},
		},
		{
			name:   "syntax error discards rest of buffer",
			chunks: []string{"#z (1)\n", "2\n"},
			want:   []string{"!", "2"},
		},
		{
			name:   "error inside pending datum",
			chunks: []string{"(a\n", "#q b)\n", "c\n"},
			want:   []string{"!", "c"},
		},
		{
			name:   "unfinished datum at end of input",
			chunks: []string{"1\n", "(2\n"},
			want:   []string{"1"},
		},
		{
			name:   "token split across reads",
			chunks: []string{"ab", "c 12", "3\n"},
			want:   []string{"abc", "123"},
		},
		{
			name:   "comments across reads",
			chunks: []string{"#| a\n", "b |# x ; y\n", "#;\n", "(z) w\n"},
			want:   []string{"x", "w"},
		},
		{
			name:   "no input",
			chunks: nil,
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drain(t, NewStream(FullParser, NewChunkSource(tt.chunks...)))
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStreamIncompleteDoesNotEmit(t *testing.T) {
	src := NewChunkSource("(1\n")
	s := NewStream(FullParser, src)
	n, err := s.Next()
	if err != io.EOF || n != nil {
		t.Fatalf("Next() = %v, %v; want nil, io.EOF", n, err)
	}
	if s.Buffered() != "(1\n" {
		t.Errorf("Buffered() = %q", s.Buffered())
	}
	if _, err = s.Next(); err != io.EOF {
		t.Errorf("second Next() error = %v, want io.EOF", err)
	}
}

func TestStreamClearsBufferOnError(t *testing.T) {
	s := NewStream(FullParser, NewChunkSource("#z 1 2\n"))
	_, err := s.Next()
	if !errors.Is(err, ErrUnknownSharp) {
		t.Fatalf("Next() error = %v", err)
	}
	if s.Buffered() != "" {
		t.Errorf("Buffered() = %q, want empty", s.Buffered())
	}
}

func TestStreamFreshFlag(t *testing.T) {
	src := &recordingSource{Source: NewChunkSource("(1\n", "2)\n", "3\n")}
	got := drain(t, NewStream(nil, src))
	if strings.Join(got, " ") != "(1 2) 3" {
		t.Errorf("got %q", got)
	}
	want := []bool{true, false, true, true}
	if len(src.fresh) != len(want) {
		t.Fatalf("fresh = %v, want %v", src.fresh, want)
	}
	for i := range want {
		if src.fresh[i] != want[i] {
			t.Errorf("fresh = %v, want %v", src.fresh, want)
			break
		}
	}
}

func TestStreamSourceErrorIsFatal(t *testing.T) {
	boom := errors.New("boom")
	s := NewStream(FullParser, failingSource{err: boom})
	for i := 0; i < 2; i++ {
		_, err := s.Next()
		if !errors.Is(err, boom) {
			t.Fatalf("Next() error = %v, want %v", err, boom)
		}
	}
}

func TestStreamReaderSource(t *testing.T) {
	r := strings.NewReader("(a\n b) \"x\ny\"\nlast")
	got := drain(t, NewStream(FullParser, NewReaderSource(r)))
	want := []string{"(a b)", `"x\ny"`}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Feeding a datum in any split must give the same result as feeding it whole.
func TestStreamingEquivalence(t *testing.T) {
	inputs := []string{
		"(define (f x) '(x . #t))\n",
		"#(1 #x-ff \"a\\tb\" #b-101 #o17)\n",
		"; lead\n(a #| mid |# b #;skip c)\n",
		"\"héllo wörld\" sym→bol\n",
		"(1 2 . (3 4)) -9223372036854775808\n",
	}
	for _, in := range inputs {
		want := drain(t, NewStream(FullParser, NewChunkSource(in)))
		if len(want) == 0 {
			t.Fatalf("%q: no data", in)
		}
		for i := 1; i < len(in); i++ {
			got := drain(t, NewStream(FullParser, NewChunkSource(in[:i], in[i:])))
			if strings.Join(got, "|") != strings.Join(want, "|") {
				t.Errorf("%q split at %d: got %q, want %q", in, i, got, want)
			}
		}

		var bytes []string
		for i := 0; i < len(in); i++ {
			bytes = append(bytes, in[i:i+1])
		}
		got := drain(t, NewStream(FullParser, NewChunkSource(bytes...)))
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("%q byte by byte: got %q, want %q", in, got, want)
		}
	}
}
