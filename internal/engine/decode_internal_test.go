package engine

import (
	"errors"
	"testing"

	"github.com/lookbusy1344/riscv-sim/internal/asm"
	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
)

// TestBranchOffsetUndefinedLabel confirms a token that looks like a label
// but names no symbol reports LabelUndefined rather than falling through
// to the numeric-literal parser's InvalidImmediate (spec.md §7). Exercised
// directly against branchOffset since a full assemble+load never reaches
// this path: the assembler's own branchOrJumpOffset rejects the same typo
// at assembly time.
func TestBranchOffsetUndefinedLabel(t *testing.T) {
	e := &Engine{Prog: &asm.Program{Symbols: asm.NewSymbolTable()}}
	_, err := e.branchOffset("nosuchlabel", 0, 21)

	var ae *asmerr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *asmerr.Error, got %T (%v)", err, err)
	}
	if ae.Kind != asmerr.LabelUndefined {
		t.Errorf("expected LabelUndefined, got %v", ae.Kind)
	}
}

// TestBranchOffsetNumericLiteralUnaffected confirms a plain numeric literal
// target still parses as before.
func TestBranchOffsetNumericLiteralUnaffected(t *testing.T) {
	e := &Engine{Prog: &asm.Program{Symbols: asm.NewSymbolTable()}}
	off, err := e.branchOffset("100", 0, 21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != 100 {
		t.Errorf("got %d, want 100", off)
	}
}
