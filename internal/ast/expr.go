package ast

// Kind discriminates tree values.
type Kind uint8

const (
	KindTuple Kind = iota + 1
	KindList
	KindAtom
	KindBinary
	KindNumber
	KindDefmodule
)

func (k Kind) String() string {
	switch k {
	case KindTuple:
		return "Tuple"
	case KindList:
		return "List"
	case KindAtom:
		return "Atom"
	case KindBinary:
		return "Binary"
	case KindNumber:
		return "Number"
	case KindDefmodule:
		return "Defmodule"
	default:
		return "Kind(?)"
	}
}

// Expr is a parsed value. The set of implementations is closed.
type Expr interface {
	Kind() Kind
	isExpr()
}

// Tuple is `{a, b, ...}` of any arity.
type Tuple struct {
	Elems []Expr
}

// List is `[a, b, ...]`; `key: v` elements arrive here as 2-element tuples.
type List struct {
	Elems []Expr
}

// Atom is a symbolic name: `:foo`, `:"a b"`, `:%{}`, bare nil/true/false,
// or a bare Access/Kernel alias.
type Atom struct {
	Name string
}

// Binary is a quoted string, verbatim between the quotes.
type Binary struct {
	Value string
}

// Number is any numeric literal; integers and floats are not distinguished.
type Number struct {
	Value float64
}

// Defmodule is the `{:defmodule, meta, args}` form. Elems keeps all three
// parts, head included, so it re-encodes to the same tuple.
type Defmodule struct {
	Elems []Expr
}

func (Tuple) Kind() Kind     { return KindTuple }
func (List) Kind() Kind      { return KindList }
func (Atom) Kind() Kind      { return KindAtom }
func (Binary) Kind() Kind    { return KindBinary }
func (Number) Kind() Kind    { return KindNumber }
func (Defmodule) Kind() Kind { return KindDefmodule }

func (Tuple) isExpr()     {}
func (List) isExpr()      {}
func (Atom) isExpr()      {}
func (Binary) isExpr()    {}
func (Number) isExpr()    {}
func (Defmodule) isExpr() {}

// NewTuple builds a Tuple; nil elems become an empty, non-nil slice.
func NewTuple(elems ...Expr) Tuple {
	if elems == nil {
		elems = []Expr{}
	}
	return Tuple{Elems: elems}
}

// NewList builds a List; nil elems become an empty, non-nil slice.
func NewList(elems ...Expr) List {
	if elems == nil {
		elems = []Expr{}
	}
	return List{Elems: elems}
}
