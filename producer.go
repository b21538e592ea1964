package sexp

import "strings"

func Nil() *Node {
	return &Node{Kind: KindNil}
}

func Boolean(b bool) *Node {
	return &Node{Kind: KindBoolean, Bool: b}
}

func Integer(i int64) *Node {
	return &Node{Kind: KindInteger, Int: i}
}

func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Symbol returns a symbol node, rejecting names the reader could not
// read back: the empty string, a lone dot, any name containing
// whitespace or one of the delimiters '()#", and names that start like a
// number or a line comment. The basic grammar reads ";" as a symbol, but
// Symbol follows the full grammar.
func Symbol(s string) (n *Node, err error) {
	if s == "" || s == "." || s[0] == ';' {
		return nil, ErrInvalidSymbol
	}
	if d := strings.TrimPrefix(s, "-"); d != "" && isDigit(rune(d[0]), 10) {
		return nil, ErrInvalidSymbol
	}
	for _, r := range s {
		if !isSymbolChar(r) {
			return nil, ErrInvalidSymbol
		}
	}

	return &Node{Kind: KindSymbol, Text: s}, nil
}

func MustSymbol(s string) (n *Node) {
	var err error
	n, err = Symbol(s)
	if err != nil {
		panic(err)
	}
	return n
}

func Vector(elems ...*Node) *Node {
	if elems == nil {
		elems = make([]*Node, 0, 0)
	}
	return &Node{Kind: KindVector, Vector: elems}
}

func Cons(first, rest *Node) *Node {
	if first == nil {
		first = Nil()
	}
	if rest == nil {
		rest = Nil()
	}
	return &Node{Kind: KindPair, First: first, Rest: rest}
}

// List builds a proper list of elems.
func List(elems ...*Node) *Node {
	return DottedList(nil, elems...)
}

// DottedList folds elems right to left onto tail. With no elems the
// result is tail itself.
func DottedList(tail *Node, elems ...*Node) *Node {
	n := tail
	if n == nil {
		n = Nil()
	}
	for i := len(elems) - 1; i >= 0; i-- {
		n = Cons(elems[i], n)
	}
	return n
}

func quoted(n *Node) *Node {
	return List(&Node{Kind: KindSymbol, Text: "quote"}, n)
}
