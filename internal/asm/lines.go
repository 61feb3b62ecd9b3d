package asm

// Line is one entry in the assembled program's line table (spec.md §3):
// either empty (blank, comment-only, bare label, or directive-only) or a
// tokenized instruction (opcode mnemonic followed by operand tokens).
// Source lines are indexed from 1; Lines[0] is unused so Lines[n] is line n.
type Line struct {
	Tokens []string // empty if this line has no instruction
	Addr   uint64   // PC this instruction will be stored at, if non-empty
}

// Empty reports whether this line has no instruction to execute.
func (l Line) Empty() bool {
	return len(l.Tokens) == 0
}
