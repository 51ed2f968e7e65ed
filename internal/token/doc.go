// Package token defines lexical token kinds of the quoted-term dump format.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span (quotes included
//     for strings); payloads are derived from it, never stored separately,
//     except the parsed float of Number tokens.
//   - Reserved words (nil, true, false, Access, Kernel) are recognized only on
//     an exact, case-sensitive match of a whole identifier.
//   - The empty-map marker `%{}` is a single token (Kind EmptyMap), never three.
package token
