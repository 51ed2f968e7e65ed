package ast

// MapMarker is the atom heading a map literal: `{:%{}, meta, pairs}`.
const MapMarker = "%{}"

// DefmoduleTag is the atom heading a module definition.
const DefmoduleTag = "defmodule"

// IsMapLiteral reports whether e is map-literal sugar: a 3-tuple whose head
// is the atom `%{}`.
func IsMapLiteral(e Expr) bool {
	t, ok := e.(Tuple)
	return ok && len(t.Elems) == 3 && isAtom(t.Elems[0], MapMarker)
}

// MapPairs returns the key/value pairs of a map literal: the 2-tuples of its
// third element. ok is false when e is not a map literal or the pairs are
// not a list of 2-tuples.
func MapPairs(e Expr) (pairs []Tuple, ok bool) {
	if !IsMapLiteral(e) {
		return nil, false
	}
	list, isList := e.(Tuple).Elems[2].(List)
	if !isList {
		return nil, false
	}
	pairs = make([]Tuple, 0, len(list.Elems))
	for _, el := range list.Elems {
		kv, isTuple := el.(Tuple)
		if !isTuple || len(kv.Elems) != 2 {
			return nil, false
		}
		pairs = append(pairs, kv)
	}
	return pairs, true
}

// IsDefmoduleShape reports whether elems form `{:defmodule, meta, args}`.
// The parser uses it to promote such tuples to Defmodule.
func IsDefmoduleShape(elems []Expr) bool {
	return len(elems) == 3 && isAtom(elems[0], DefmoduleTag)
}

// Call splits a 3-tuple `{head, meta, args}` (the shape of every call in a
// dump) into its parts. Defmodule values are accepted too.
func Call(e Expr) (head, meta, args Expr, ok bool) {
	var elems []Expr
	switch v := e.(type) {
	case Tuple:
		elems = v.Elems
	case Defmodule:
		elems = v.Elems
	default:
		return nil, nil, nil, false
	}
	if len(elems) != 3 {
		return nil, nil, nil, false
	}
	return elems[0], elems[1], elems[2], true
}

func isAtom(e Expr, name string) bool {
	a, ok := e.(Atom)
	return ok && a.Name == name
}
