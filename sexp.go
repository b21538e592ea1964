package sexp

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

type Kind int

var (
	ErrIncomplete     = errors.New("incomplete datum")
	ErrUnexpectedChar = errors.New("unexpected character")
	ErrUnknownSharp   = errors.New("unknown sharp syntax")
	ErrBadEscape      = errors.New("unknown escape sequence")
	ErrReservedDot    = errors.New("dot is reserved for dotted pairs")
	ErrOverflow       = errors.New("integer literal out of 64-bit range")
	ErrBadDigits      = errors.New("missing digits")
	ErrInvalidSymbol  = errors.New("invalid symbol")
)

const (
	KindNil Kind = iota
	KindBoolean
	KindInteger
	KindSymbol
	KindText
	KindVector
	KindPair
)

var kindNames = [...]string{
	KindNil:     "nil",
	KindBoolean: "boolean",
	KindInteger: "integer",
	KindSymbol:  "symbol",
	KindText:    "text",
	KindVector:  "vector",
	KindPair:    "pair",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Node is one datum. Which fields are meaningful depends on Kind:
// Bool for KindBoolean, Int for KindInteger, Text for KindSymbol and
// KindText, Vector for KindVector, First and Rest for KindPair.
// A nil *Node reads as the empty list.
type Node struct {
	Kind
	Bool   bool
	Int    int64
	Text   string
	Vector []*Node
	First  *Node
	Rest   *Node
}

func (n *Node) IsNil() bool {
	return n == nil || n.Kind == KindNil
}

// Slice returns the elements of the pair chain starting at n along with the
// terminating tail, which is nil for a proper list.
func (n *Node) Slice() (elems []*Node, tail *Node) {
	for n != nil && n.Kind == KindPair {
		elems = append(elems, n.First)
		n = n.Rest
	}
	if n.IsNil() {
		return elems, nil
	}
	return elems, n
}

func (n *Node) String() string {
	var sb strings.Builder
	n.appendToBuilder(&sb)
	return sb.String()
}

func (n *Node) appendToBuilder(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("()")
		return
	}

	switch n.Kind {
	case KindNil:
		sb.WriteString("()")
	case KindBoolean:
		if n.Bool {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case KindInteger:
		sb.WriteString(strconv.FormatInt(n.Int, 10))
	case KindSymbol:
		sb.WriteString(n.Text)
	case KindText:
		appendQuoted(sb, n.Text)
	case KindVector:
		sb.WriteString("#(")
		for i, c := range n.Vector {
			if i > 0 {
				sb.WriteRune(' ')
			}
			c.appendToBuilder(sb)
		}
		sb.WriteRune(')')
	case KindPair:
		sb.WriteRune('(')
		n.First.appendToBuilder(sb)
		rest := n.Rest
		for !rest.IsNil() {
			if rest.Kind != KindPair {
				sb.WriteString(" . ")
				rest.appendToBuilder(sb)
				break
			}
			sb.WriteRune(' ')
			rest.First.appendToBuilder(sb)
			rest = rest.Rest
		}
		sb.WriteRune(')')
	}
}

func appendQuoted(sb *strings.Builder, s string) {
	sb.WriteRune('"')
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteString(s[i : i+w])
		}
		i += w
	}
	sb.WriteRune('"')
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b *Node) bool {
	if a.IsNil() || b.IsNil() {
		return a.IsNil() && b.IsNil()
	}
	for a.Kind == KindPair && b.Kind == KindPair {
		if !Equal(a.First, b.First) {
			return false
		}
		a, b = a.Rest, b.Rest
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindBoolean:
		return a.Bool == b.Bool
	case KindInteger:
		return a.Int == b.Int
	case KindSymbol, KindText:
		return a.Text == b.Text
	case KindVector:
		if len(a.Vector) != len(b.Vector) {
			return false
		}
		for i := range a.Vector {
			if !Equal(a.Vector[i], b.Vector[i]) {
				return false
			}
		}
		return true
	}
	return false
}
