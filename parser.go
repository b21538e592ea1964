package sexp

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parser reads one datum from the start of text.
//
// On success rest holds the unconsumed suffix of text. When text is a valid
// but unfinished prefix of a datum the error matches ErrIncomplete and the
// caller should retry with more input appended. Any other error is a
// *SyntaxError.
type Parser interface {
	Parse(text string) (n *Node, rest string, err error)
}

// SyntaxError reports malformed input at a grammar rule.
type SyntaxError struct {
	Rule   string
	Offset int
	Err    error
	Detail string
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("%s at offset %d: %v", e.Rule, e.Offset, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

type parser struct {
	comments bool
	strings  bool
}

// BasicParser reads the reduced grammar: no comments and no string
// literals. ';' is an ordinary symbol character there.
var BasicParser = parser{comments: false, strings: false}
var FullParser = parser{comments: true, strings: true}

var _ Parser = BasicParser

func Parse(text string) (n *Node, rest string, err error) {
	return FullParser.Parse(text)
}

// ParseAll reads every datum in a complete document. Unlike Parse, the end
// of text terminates a trailing symbol or number; text that ends inside an
// open construct yields io.ErrUnexpectedEOF.
func ParseAll(text string) ([]*Node, error) {
	return FullParser.ParseAll(text)
}

// errNoMatch means no rule applies at the cursor. It never escapes Parse.
var errNoMatch = errors.New("no match")

const eof rune = -1

func (e parser) Parse(text string) (n *Node, rest string, err error) {
	s := &scanner{parser: e, src: text}
	n, err = s.datum()
	if err == errNoMatch {
		err = s.errorf("datum", ErrUnexpectedChar, "%q", s.peek())
	}
	if err != nil {
		return nil, text, err
	}
	return n, text[s.pos:], nil
}

func (e parser) ParseAll(text string) (nodes []*Node, err error) {
	src := text + "\n"
	rest := src
	for {
		s := &scanner{parser: e, src: rest}
		if s.skipAtmosphere() == nil && s.peek() == eof {
			return nodes, nil
		}

		var n *Node
		n, rest, err = e.Parse(rest)
		if IsIncomplete(err) {
			return nodes, io.ErrUnexpectedEOF
		}
		var se *SyntaxError
		if errors.As(err, &se) {
			// the error may come from the appended newline, as in "abc\
			if _, _, err := e.Parse(rest[:len(rest)-1]); IsIncomplete(err) {
				return nodes, io.ErrUnexpectedEOF
			}
			se.Offset += len(src) - len(rest)
		}
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, n)
	}
}

type scanner struct {
	parser
	src string
	pos int
}

// peek returns the rune at the cursor, or eof when the buffer ends there or
// holds only the first bytes of a multi-byte rune.
func (s *scanner) peek() rune {
	if s.pos >= len(s.src) || !utf8.FullRuneInString(s.src[s.pos:]) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r
}

func (s *scanner) next() rune {
	r, w := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += w
	return r
}

func (s *scanner) errorf(rule string, err error, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Rule:   rule,
		Offset: s.pos,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}

func isSpace(r rune) bool {
	return r != eof && unicode.IsSpace(r)
}

func isDelimiter(r rune) bool {
	return r == '\'' || r == '(' || r == ')' || r == '#' || r == '"'
}

func isSymbolChar(r rune) bool {
	return r != eof && !unicode.IsSpace(r) && !isDelimiter(r)
}

func isDigit(r rune, base int) bool {
	var v int
	switch {
	case r >= '0' && r <= '9':
		v = int(r - '0')
	case r >= 'a' && r <= 'z':
		v = int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		v = int(r-'A') + 10
	default:
		return false
	}
	return v < base
}

func (s *scanner) skipSpace() {
	for isSpace(s.peek()) {
		s.next()
	}
}

// skipAtmosphere skips whitespace and, in the full grammar, any run of
// comments. A comment that is still open at the end of the buffer is
// incomplete.
func (s *scanner) skipAtmosphere() error {
	for {
		s.skipSpace()
		if !s.comments {
			return nil
		}

		switch s.peek() {
		case ';':
			i := strings.IndexByte(s.src[s.pos:], '\n')
			if i < 0 {
				return ErrIncomplete
			}
			s.pos += i + 1
		case '#':
			if s.pos+1 >= len(s.src) {
				return ErrIncomplete
			}
			switch s.src[s.pos+1] {
			case '|':
				i := strings.Index(s.src[s.pos+2:], "|#")
				if i < 0 {
					return ErrIncomplete
				}
				s.pos += 2 + i + 2
			case ';':
				s.pos += 2
				_, err := s.datum()
				if err == errNoMatch {
					return s.errorf("datum comment", ErrUnexpectedChar, "%q", s.peek())
				}
				if err != nil {
					return err
				}
			default:
				return nil
			}
		default:
			return nil
		}
	}
}

func (s *scanner) datum() (n *Node, err error) {
	err = s.skipAtmosphere()
	if err != nil {
		return
	}

	switch r := s.peek(); {
	case r == eof:
		return nil, ErrIncomplete
	case r == '\'':
		return s.quote()
	case r == '(':
		return s.list()
	case r == '#':
		return s.sharp()
	case r == '-' || isDigit(r, 10):
		start := s.pos
		n, err = s.number()
		if err != errNoMatch {
			return
		}
		s.pos = start
		return s.symbol()
	case r == '"':
		if !s.strings {
			return nil, errNoMatch
		}
		return s.text()
	case isSymbolChar(r):
		return s.symbol()
	}
	return nil, errNoMatch
}

func (s *scanner) quote() (*Node, error) {
	s.next()
	n, err := s.datum()
	if err != nil {
		return nil, err
	}
	return quoted(n), nil
}

func (s *scanner) list() (*Node, error) {
	s.next()
	var elems []*Node
	for {
		if err := s.skipAtmosphere(); err != nil {
			return nil, err
		}

		switch s.peek() {
		case eof:
			return nil, ErrIncomplete
		case ')':
			s.next()
			return List(elems...), nil
		case '.':
			dot, err := s.atDot()
			if err != nil {
				return nil, err
			}
			if dot {
				s.next()
				tail, err := s.dottedTail()
				if err != nil {
					return nil, err
				}
				return DottedList(tail, elems...), nil
			}
		}

		n, err := s.datum()
		if err != nil {
			return nil, err
		}
		elems = append(elems, n)
	}
}

// atDot reports whether the '.' at the cursor stands alone rather than
// starting a longer symbol.
func (s *scanner) atDot() (bool, error) {
	if s.pos+1 >= len(s.src) {
		return false, ErrIncomplete
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos+1:])
	return !isSymbolChar(r), nil
}

func (s *scanner) dottedTail() (*Node, error) {
	tail, err := s.datum()
	if err == errNoMatch {
		return nil, s.errorf("list", ErrUnexpectedChar, "expected datum after dot, got %q", s.peek())
	}
	if err != nil {
		return nil, err
	}

	if err = s.skipAtmosphere(); err != nil {
		return nil, err
	}
	switch r := s.peek(); r {
	case eof:
		return nil, ErrIncomplete
	case ')':
		s.next()
		return tail, nil
	default:
		return nil, s.errorf("list", ErrUnexpectedChar, "expected ')' after dotted tail, got %q", r)
	}
}

func (s *scanner) sharp() (*Node, error) {
	start := s.pos
	s.next()
	r := s.peek()
	if r == eof {
		return nil, ErrIncomplete
	}
	s.next()

	switch unicode.ToLower(r) {
	case 'f':
		return Boolean(false), nil
	case 't':
		return Boolean(true), nil
	case 'b':
		return s.radix(2)
	case 'o':
		return s.radix(8)
	case 'd':
		return s.radix(10)
	case 'x':
		return s.radix(16)
	case '(':
		return s.vector()
	}

	s.pos = start
	return nil, s.errorf("sharp", ErrUnknownSharp, "#%c", r)
}

func (s *scanner) vector() (*Node, error) {
	elems := make([]*Node, 0, 4)
	for {
		if err := s.skipAtmosphere(); err != nil {
			return nil, err
		}

		switch s.peek() {
		case eof:
			return nil, ErrIncomplete
		case ')':
			s.next()
			return Vector(elems...), nil
		}

		n, err := s.datum()
		if err != nil {
			return nil, err
		}
		elems = append(elems, n)
	}
}

// digits scans an optional '-' and a run of digits in base. A run that
// reaches the end of the buffer may continue in the next chunk.
func (s *scanner) digits(base int) (start int, ok bool, err error) {
	start = s.pos
	if s.peek() == '-' {
		s.next()
	}
	first := s.pos
	for isDigit(s.peek(), base) {
		s.next()
	}
	if s.peek() == eof {
		return start, false, ErrIncomplete
	}
	return start, s.pos > first, nil
}

func (s *scanner) number() (*Node, error) {
	start, ok, err := s.digits(10)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoMatch
	}
	return s.integer(start, 10)
}

func (s *scanner) radix(base int) (*Node, error) {
	start, ok, err := s.digits(base)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.errorf("number", ErrBadDigits, "base %d", base)
	}
	return s.integer(start, base)
}

func (s *scanner) integer(start, base int) (*Node, error) {
	lit := s.src[start:s.pos]
	i, err := strconv.ParseInt(lit, base, 64)
	if err != nil {
		// the digits were validated, so only the range can be wrong
		return nil, &SyntaxError{Rule: "number", Offset: start, Err: ErrOverflow, Detail: lit}
	}
	return Integer(i), nil
}

var escapes = map[rune]rune{
	'a':  '\a',
	'b':  '\b',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'"':  '"',
	'\\': '\\',
	'|':  '|',
}

func (s *scanner) text() (*Node, error) {
	s.next()
	var sb strings.Builder
	for {
		switch r := s.peek(); r {
		case eof:
			return nil, ErrIncomplete
		case '"':
			s.next()
			return Text(sb.String()), nil
		case '\\':
			at := s.pos
			s.next()
			c := s.peek()
			if c == eof {
				return nil, ErrIncomplete
			}
			s.next()
			e, ok := escapes[c]
			if !ok {
				return nil, &SyntaxError{Rule: "text", Offset: at, Err: ErrBadEscape, Detail: `\` + string(c)}
			}
			sb.WriteRune(e)
		default:
			// raw bytes, so invalid UTF-8 survives
			at := s.pos
			s.next()
			sb.WriteString(s.src[at:s.pos])
		}
	}
}

func (s *scanner) symbol() (*Node, error) {
	start := s.pos
	for isSymbolChar(s.peek()) {
		s.next()
	}
	if s.peek() == eof {
		return nil, ErrIncomplete
	}

	name := s.src[start:s.pos]
	if name == "." {
		return nil, &SyntaxError{Rule: "symbol", Offset: start, Err: ErrReservedDot}
	}
	return &Node{Kind: KindSymbol, Text: name}, nil
}
