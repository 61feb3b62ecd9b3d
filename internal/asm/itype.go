package asm

import (
	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

// encodeIArith encodes "rd, rs1, imm" I-type arithmetic instructions. Shift
// instructions (slli/srli/srai) use a 6-bit unsigned shift amount with
// funct7 placed at bit 26 rather than bit 25, to match RV64 (spec.md §4.3,
// §9).
func encodeIArith(mnemonic string, operands []string, line int) (uint32, error) {
	if len(operands) != 3 {
		return 0, asmerr.At(line, asmerr.WrongArity, "%s expects rd, rs1, imm", mnemonic)
	}
	rd, err := lexutil.ResolveRegister(operands[0])
	if err != nil {
		return 0, tagLine(err, line)
	}
	rs1, err := lexutil.ResolveRegister(operands[1])
	if err != nil {
		return 0, tagLine(err, line)
	}

	if funcs, ok := shiftIFuncts[mnemonic]; ok {
		shamt, err := lexutil.ParseUnsigned(operands[2], 6)
		if err != nil {
			return 0, tagLine(err, line)
		}
		f3, f7 := funcs[0], funcs[1]
		word := uint32(opIArith) | f3<<12 | uint32(rd)<<7 | uint32(rs1)<<15 | uint32(shamt)<<20 | f7<<26
		return word, nil
	}

	f3, ok := iArithFunct3[mnemonic]
	if !ok {
		return 0, asmerr.At(line, asmerr.UnknownInstruction, "unknown instruction %q", mnemonic)
	}
	imm, err := lexutil.ParseSigned(operands[2], 12)
	if err != nil {
		return 0, tagLine(err, line)
	}
	word := uint32(opIArith) | f3<<12 | uint32(rd)<<7 | uint32(rs1)<<15 | (uint32(imm)&0xfff)<<20
	return word, nil
}
