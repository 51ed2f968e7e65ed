// Package format prints parsed trees back as dump text, breaking sequences
// that do not fit the line width one element per line.
//
// It backs parse --format pretty and quoted fmt. Source whitespace and
// line breaks are not preserved.
package format
