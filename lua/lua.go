// Package lua exposes the reader to embedded Lua scripts.
//
// Data cross into Lua as tagged tables, one key naming the kind:
//
//	{boolean=true} {integer=42} {symbol="car"} {text="hi"}
//	{vector={...}} {list={...}} {list={...}, tail=<datum>}
//
// The empty list is {list={}}. Lua numbers are float64, so integers beyond
// 2^53 lose precision on the way in.
package lua // import "github.com/alttpo/sexpread/lua"

import (
	"errors"
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	sexp "github.com/alttpo/sexpread"
)

var ErrBadDatum = errors.New("not a datum table")

// ModuleName is the name Loader is preloaded under by NewFilter.
const ModuleName = "sexp"

func ToLua(L *lua.LState, n *sexp.Node) lua.LValue {
	t := L.NewTable()
	if n == nil {
		t.RawSetString("list", L.NewTable())
		return t
	}

	switch n.Kind {
	case sexp.KindBoolean:
		t.RawSetString("boolean", lua.LBool(n.Bool))
	case sexp.KindInteger:
		t.RawSetString("integer", lua.LNumber(n.Int))
	case sexp.KindSymbol:
		t.RawSetString("symbol", lua.LString(n.Text))
	case sexp.KindText:
		t.RawSetString("text", lua.LString(n.Text))
	case sexp.KindVector:
		v := L.NewTable()
		for _, c := range n.Vector {
			v.Append(ToLua(L, c))
		}
		t.RawSetString("vector", v)
	default:
		elems, tail := n.Slice()
		list := L.NewTable()
		for _, c := range elems {
			list.Append(ToLua(L, c))
		}
		t.RawSetString("list", list)
		if tail != nil {
			t.RawSetString("tail", ToLua(L, tail))
		}
	}
	return t
}

// FromLua converts a datum table back to a node. Tables may be shared but
// not nested inside themselves.
func FromLua(v lua.LValue) (*sexp.Node, error) {
	return fromLua(v, make(map[*lua.LTable]bool))
}

// fromLua tracks the tables on the current path in open.
func fromLua(v lua.LValue, open map[*lua.LTable]bool) (*sexp.Node, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrBadDatum, v.Type())
	}
	if open[t] {
		return nil, fmt.Errorf("%w: table contains itself", ErrBadDatum)
	}
	open[t] = true
	defer delete(open, t)

	if b, ok := t.RawGetString("boolean").(lua.LBool); ok {
		return sexp.Boolean(bool(b)), nil
	}
	if f, ok := t.RawGetString("integer").(lua.LNumber); ok {
		return integer(float64(f))
	}
	if s, ok := t.RawGetString("symbol").(lua.LString); ok {
		n, err := sexp.Symbol(string(s))
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", string(s), err)
		}
		return n, nil
	}
	if s, ok := t.RawGetString("text").(lua.LString); ok {
		return sexp.Text(string(s)), nil
	}
	if vt, ok := t.RawGetString("vector").(*lua.LTable); ok {
		elems, err := fromArray(vt, open)
		if err != nil {
			return nil, err
		}
		return sexp.Vector(elems...), nil
	}
	if lt, ok := t.RawGetString("list").(*lua.LTable); ok {
		elems, err := fromArray(lt, open)
		if err != nil {
			return nil, err
		}
		var tail *sexp.Node
		if tv := t.RawGetString("tail"); tv != lua.LNil {
			tail, err = fromLua(tv, open)
			if err != nil {
				return nil, err
			}
		}
		return sexp.DottedList(tail, elems...), nil
	}
	return nil, ErrBadDatum
}

func integer(f float64) (*sexp.Node, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%w: %v is not a 64-bit integer", ErrBadDatum, f)
	}
	return sexp.Integer(int64(f)), nil
}

func fromArray(t *lua.LTable, open map[*lua.LTable]bool) ([]*sexp.Node, error) {
	elems := make([]*sexp.Node, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		n, err := fromLua(t.RawGetInt(i), open)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems = append(elems, n)
	}
	return elems, nil
}

var exports = map[string]lua.LGFunction{
	"parse":     luaParse,
	"parse_all": luaParseAll,
	"print":     luaPrint,
}

// Loader opens the sexp module. Register it with
//
//	L.PreloadModule("sexp", lua.Loader)
func Loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), exports)
	L.Push(mod)
	return 1
}

// luaParse implements parse(text). It returns the first datum and the
// unread text, or nil, a message and "incomplete" or "syntax".
func luaParse(L *lua.LState) int {
	n, rest, err := sexp.Parse(L.CheckString(1))
	if err != nil {
		kind := "syntax"
		if sexp.IsIncomplete(err) {
			kind = "incomplete"
		}
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		L.Push(lua.LString(kind))
		return 3
	}
	L.Push(ToLua(L, n))
	L.Push(lua.LString(rest))
	return 2
}

// luaParseAll implements parse_all(text): an array of every datum in
// text, or nil and a message.
func luaParseAll(L *lua.LState) int {
	nodes, err := sexp.ParseAll(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	t := L.NewTable()
	for _, n := range nodes {
		t.Append(ToLua(L, n))
	}
	L.Push(t)
	return 1
}

// luaPrint implements print(datum): the canonical text of a datum table.
func luaPrint(L *lua.LState) int {
	n, err := FromLua(L.CheckAny(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LString(n.String()))
	return 1
}

// NewFilter runs the Lua script at path and returns a function that passes
// each datum through the script's global filter function. The script can
// require the sexp module. filter returns a datum table, or nil to drop the
// datum.
func NewFilter(L *lua.LState, path string) (func(*sexp.Node) (*sexp.Node, error), error) {
	L.PreloadModule(ModuleName, Loader)
	if err := L.DoFile(path); err != nil {
		return nil, err
	}
	fn, ok := L.GetGlobal("filter").(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%s: no global function filter", path)
	}

	return func(n *sexp.Node) (*sexp.Node, error) {
		err := L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, ToLua(L, n))
		if err != nil {
			return nil, err
		}
		ret := L.Get(-1)
		L.Pop(1)
		if ret == lua.LNil {
			return nil, nil
		}
		return FromLua(ret)
	}, nil
}
