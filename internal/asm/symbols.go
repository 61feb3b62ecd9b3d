package asm

import "github.com/lookbusy1344/riscv-sim/internal/asmerr"

// Label records where a label was defined: its address and the source
// line it appeared on.
type Label struct {
	Addr uint64
	Line int
}

// SymbolTable maps label names to their resolved address and defining line.
type SymbolTable struct {
	labels map[string]Label
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{labels: make(map[string]Label)}
}

func isLabelStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isLabelCont(c byte) bool {
	return isLabelStart(c) || (c >= '0' && c <= '9')
}

// ValidLabel reports whether s is a legal label identifier: starts with
// [A-Za-z_], continues with [A-Za-z0-9_].
func ValidLabel(s string) bool {
	if s == "" || !isLabelStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isLabelCont(s[i]) {
			return false
		}
	}
	return true
}

// Define records name -> (addr, line). Fails with DuplicateLabel if already
// present, InvalidLabel if the name is not a legal identifier.
func (t *SymbolTable) Define(name string, addr uint64, line int) error {
	if !ValidLabel(name) {
		return asmerr.At(line, asmerr.InvalidLabel, "invalid label %q", name)
	}
	if _, exists := t.labels[name]; exists {
		return asmerr.At(line, asmerr.DuplicateLabel, "duplicate label %q", name)
	}
	t.labels[name] = Label{Addr: addr, Line: line}
	return nil
}

// Lookup returns the label's (addr, line) pair.
func (t *SymbolTable) Lookup(name string) (Label, bool) {
	l, ok := t.labels[name]
	return l, ok
}

// Has reports whether name is a known label, without the ok-pattern noise
// at call sites that only care about membership (e.g. branch/jump operand
// classification).
func (t *SymbolTable) Has(name string) bool {
	_, ok := t.labels[name]
	return ok
}
