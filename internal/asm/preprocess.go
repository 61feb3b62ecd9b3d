package asm

import (
	"strings"

	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

// Program is the result of assembling a source file: a 1-indexed line
// table and the resolved label table. Pass 2 (Encode) consumes it to
// write instruction words into memory.
type Program struct {
	Lines   []Line // Lines[0] unused, Lines[n] is source line n
	Symbols *SymbolTable
}

// Preprocess runs pass 1 (spec.md §4.3): walks source lines top to bottom,
// tracking a virtual text PC and a data cursor MC, recording labels,
// writing data-section bytes directly into mem, and building the line
// table that pass 2 will encode. Errors are collected, not returned early,
// so a single load reports every problem in the source.
func Preprocess(source []string, mem memWriter) (*Program, []error) {
	prog := &Program{
		Lines:   make([]Line, len(source)+1),
		Symbols: NewSymbolTable(),
	}
	var errs []error

	var pc uint64
	var cursor uint64 = 0x10000
	inData := false

	for i, raw := range source {
		lineNo := i + 1
		text := lexutil.Format(raw)
		if text == "" {
			continue // blank or comment-only: empty entry, PC unaffected
		}

		words := lexutil.SplitWords(text)

		// Strip an optional "label:" prefix.
		if idx := strings.IndexByte(words[0], ':'); idx >= 0 && idx == len(words[0])-1 {
			label := words[0][:idx]
			if err := prog.Symbols.Define(label, pc, lineNo); err != nil {
				errs = append(errs, err)
			}
			words = words[1:]
		} else if len(words) > 0 && strings.Contains(words[0], ":") {
			// label followed immediately by more text on the same token,
			// e.g. "loop:addi" - split at the colon.
			parts := strings.SplitN(words[0], ":", 2)
			label := parts[0]
			if err := prog.Symbols.Define(label, pc, lineNo); err != nil {
				errs = append(errs, err)
			}
			rest := parts[1]
			words = words[1:]
			if rest != "" {
				words = append([]string{rest}, words...)
			}
		}

		if len(words) == 0 {
			continue // bare label: empty entry, PC unaffected
		}

		directive := words[0]
		switch directive {
		case ".text":
			inData = false
			continue
		case ".data":
			inData = true
			continue
		}

		if inData {
			if err := writeDataLine(mem, directive, words[1:], &cursor, lineNo); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		if strings.HasPrefix(directive, ".") {
			errs = append(errs, asmerr.At(lineNo, asmerr.IllegalDirective, "illegal directive %q", directive))
			continue
		}

		prog.Lines[lineNo] = Line{Tokens: words, Addr: pc}
		pc += 4
	}

	return prog, errs
}
