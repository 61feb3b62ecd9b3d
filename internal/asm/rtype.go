package asm

import (
	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

// encodeR encodes "rd, rs1, rs2" R-type instructions (spec.md §4.3).
func encodeR(mnemonic string, operands []string, line int) (uint32, error) {
	funcs, ok := rTypeFuncts[mnemonic]
	if !ok {
		return 0, asmerr.At(line, asmerr.UnknownInstruction, "unknown instruction %q", mnemonic)
	}
	if len(operands) != 3 {
		return 0, asmerr.At(line, asmerr.WrongArity, "%s expects rd, rs1, rs2", mnemonic)
	}
	rd, err := lexutil.ResolveRegister(operands[0])
	if err != nil {
		return 0, tagLine(err, line)
	}
	rs1, err := lexutil.ResolveRegister(operands[1])
	if err != nil {
		return 0, tagLine(err, line)
	}
	rs2, err := lexutil.ResolveRegister(operands[2])
	if err != nil {
		return 0, tagLine(err, line)
	}
	f3, f7 := funcs[0], funcs[1]
	word := uint32(opR) | f3<<12 | uint32(rd)<<7 | uint32(rs1)<<15 | uint32(rs2)<<20 | f7<<25
	return word, nil
}
