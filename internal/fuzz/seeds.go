package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса

const maxFuzzInput = 1 << 16 // 64 KiB

// inlineSeeds cover the grammar corners and the known error classes.
var inlineSeeds = []string{
	"",
	"[]",
	"{}",
	"%{}",
	"{:%{}, [], [a: 1]}",
	`[foo: 5, "bar": :baz, nil: true]`,
	"[Access, Kernel, nil, true, false]",
	`{:defmodule, [line: 1], [{:__aliases__, [line: 1], [:A]}, [do: nil]]}`,
	"1.5e3",
	"1..2",
	`"unterminated`,
	"{:a, }",
	"[:a :b]",
	"{1; +2}",
	"foo: 1",
	"[[[[[[[[[[[[[[[[[[[[]]]]]]]]]]]]]]]]]]]]",
	"@!&*(^)|a\n|)&@^#%[:x]\n@!&*(^)|b\n|)&@^#%{:y,\n",
	"@!&*(^)|no header\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.qd файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".qd" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
