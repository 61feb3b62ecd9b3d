package asm

import (
	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

// encodeUpper encodes the U-type instructions LUI and AUIPC: "rd, imm"
// with imm an unsigned 20-bit value placed in bits [31:12].
func encodeUpper(mnemonic string, operands []string, line int) (uint32, error) {
	var opcode uint32
	switch mnemonic {
	case "lui":
		opcode = opLUI
	case "auipc":
		opcode = opAUIPC
	default:
		return 0, asmerr.At(line, asmerr.UnknownInstruction, "unknown instruction %q", mnemonic)
	}
	if len(operands) != 2 {
		return 0, asmerr.At(line, asmerr.WrongArity, "%s expects rd, imm", mnemonic)
	}
	rd, err := lexutil.ResolveRegister(operands[0])
	if err != nil {
		return 0, tagLine(err, line)
	}
	imm, err := lexutil.ParseUnsigned(operands[1], 20)
	if err != nil {
		return 0, tagLine(err, line)
	}
	word := opcode | uint32(rd)<<7 | (uint32(imm)&0xfffff)<<12
	return word, nil
}
