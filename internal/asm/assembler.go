package asm

import (
	"strings"

	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
)

// Encode runs pass 2 (spec.md §4.3): re-walks the tokenized line table and,
// for each non-empty entry, encodes a 32-bit instruction word and stores it
// little-endian at the line's address.
func Encode(prog *Program, mem memWriter) []error {
	var errs []error
	for lineNo, line := range prog.Lines {
		if line.Empty() {
			continue
		}
		word, err := encodeOne(line.Tokens, line.Addr, prog.Symbols, lineNo)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := mem.Store(int64(word), int64(line.Addr), 32); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func encodeOne(tokens []string, pc uint64, syms *SymbolTable, line int) (uint32, error) {
	mnemonic := strings.ToLower(tokens[0])
	operands := tokens[1:]

	if !Mnemonics[mnemonic] {
		return 0, asmerr.At(line, asmerr.UnknownInstruction, "unknown instruction %q", mnemonic)
	}

	switch mnemonic {
	case "add", "sub", "sll", "slt", "sltu", "xor", "srl", "sra", "or", "and":
		return encodeR(mnemonic, operands, line)
	case "addi", "slti", "sltiu", "xori", "ori", "andi", "slli", "srli", "srai":
		return encodeIArith(mnemonic, operands, line)
	case "lb", "lh", "lw", "ld", "lbu", "lhu", "lwu":
		return encodeLoad(mnemonic, operands, line)
	case "sb", "sh", "sw", "sd":
		return encodeStore(mnemonic, operands, line)
	case "beq", "bne", "blt", "bge", "bltu", "bgeu":
		return encodeBranch(mnemonic, operands, pc, syms, line)
	case "jal":
		return encodeJAL(operands, pc, syms, line)
	case "jalr":
		return encodeJALR(operands, line)
	case "lui", "auipc":
		return encodeUpper(mnemonic, operands, line)
	}
	return 0, asmerr.At(line, asmerr.UnknownInstruction, "unknown instruction %q", mnemonic)
}

// Assemble runs both passes against source (one string per source line,
// 1-indexed meaning source[0] is line 1) and mem, returning the resulting
// program and every error collected across both passes. A non-empty error
// slice means the program must be treated as not loaded (spec.md §4.3,
// §7).
func Assemble(source []string, mem memWriter) (*Program, []error) {
	prog, errs := Preprocess(source, mem)
	errs = append(errs, Encode(prog, mem)...)
	return prog, errs
}
