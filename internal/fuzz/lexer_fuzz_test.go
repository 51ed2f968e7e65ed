package fuzztests

import (
	"testing"

	"quoted/internal/diag"
	"quoted/internal/lexer"
	"quoted/internal/source"
	"quoted/internal/testkit"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.qd", input))

		for _, mode := range []lexer.Mode{lexer.ModeLenient, lexer.ModeStrict} {
			bag := diag.NewBag(64)
			tokens := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}, Mode: mode}).All()
			if err := testkit.CheckTokenSpans(tokens, file, source.Span{}); err != nil {
				t.Fatalf("mode %v: %v\ninput: %q", mode, err, truncateForLog(input, 200))
			}
		}
	})
}
