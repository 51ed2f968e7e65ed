package ast

import "math"

// Children returns the nested values of e; nil for leaves.
func Children(e Expr) []Expr {
	switch v := e.(type) {
	case Tuple:
		return v.Elems
	case List:
		return v.Elems
	case Defmodule:
		return v.Elems
	default:
		return nil
	}
}

// Walk visits e and its descendants depth-first, parents before children.
// Returning false from fn skips the children of that node.
func Walk(e Expr, fn func(e Expr, depth int) bool) {
	walk(e, 0, fn)
}

func walk(e Expr, depth int, fn func(Expr, int) bool) {
	if e == nil || !fn(e, depth) {
		return
	}
	for _, c := range Children(e) {
		walk(c, depth+1, fn)
	}
}

// Stats summarizes a tree.
type Stats struct {
	Nodes    int
	MaxDepth int
	ByKind   map[Kind]int
}

// Measure counts nodes per kind and the maximum nesting depth (root is 0).
func Measure(e Expr) Stats {
	st := Stats{ByKind: make(map[Kind]int, 6)}
	Walk(e, func(n Expr, depth int) bool {
		st.Nodes++
		st.ByKind[n.Kind()]++
		st.MaxDepth = max(st.MaxDepth, depth)
		return true
	})
	return st
}

// Equal reports structural equality. Numbers compare by value, with NaN
// equal to NaN so that Equal is reflexive.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Atom:
		return av.Name == b.(Atom).Name
	case Binary:
		return av.Value == b.(Binary).Value
	case Number:
		bv := b.(Number).Value
		return av.Value == bv || (math.IsNaN(av.Value) && math.IsNaN(bv))
	default:
		ac, bc := Children(a), Children(b)
		if len(ac) != len(bc) {
			return false
		}
		for i := range ac {
			if !Equal(ac[i], bc[i]) {
				return false
			}
		}
		return true
	}
}
