package asm

import (
	"strings"

	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

// splitMemOperand accepts either "imm rs1" (two tokens) or a single token
// "imm(rs1)" and returns the immediate literal and the register name.
func splitMemOperand(tokens []string, line int) (imm string, reg string, err error) {
	if len(tokens) == 2 {
		return tokens[0], tokens[1], nil
	}
	if len(tokens) == 1 {
		tok := tokens[0]
		open := strings.IndexByte(tok, '(')
		shut := strings.IndexByte(tok, ')')
		if open > 0 && shut == len(tok)-1 && shut > open {
			return tok[:open], tok[open+1 : shut], nil
		}
	}
	return "", "", asmerr.At(line, asmerr.WrongArity, "expected \"imm rs1\" or \"imm(rs1)\", got %v", tokens)
}

// branchOrJumpOffset resolves a branch/jump target token against the
// symbol table, returning the byte offset from pc. If the token names a
// known label, offset = label.Addr - pc. A token that looks like a label
// but names no symbol is reported as LabelUndefined rather than an invalid
// number. Otherwise the token is parsed as a signed literal offset of the
// given bit width.
func branchOrJumpOffset(token string, pc uint64, syms *SymbolTable, litWidth int, line int) (int64, error) {
	if lbl, ok := syms.Lookup(token); ok {
		return int64(lbl.Addr) - int64(pc), nil
	}
	if ValidLabel(token) {
		return 0, asmerr.At(line, asmerr.LabelUndefined, "undefined label %q", token)
	}
	v, err := lexutil.ParseSigned(token, litWidth)
	if err != nil {
		if e, ok := err.(*asmerr.Error); ok {
			e.Line = line
		}
		return 0, err
	}
	return v, nil
}

func tagLine(err error, line int) error {
	if e, ok := err.(*asmerr.Error); ok {
		e.Line = line
	}
	return err
}
