package asm

import (
	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

// encodeBranch encodes "rs1, rs2, target" B-type branches. target is
// either a known label (offset = label.addr - pc) or a signed 13-bit
// literal; the offset is encoded in the standard RISC-V B-type split.
func encodeBranch(mnemonic string, operands []string, pc uint64, syms *SymbolTable, line int) (uint32, error) {
	f3, ok := branchFunct3[mnemonic]
	if !ok {
		return 0, asmerr.At(line, asmerr.UnknownInstruction, "unknown instruction %q", mnemonic)
	}
	if len(operands) != 3 {
		return 0, asmerr.At(line, asmerr.WrongArity, "%s expects rs1, rs2, target", mnemonic)
	}
	rs1, err := lexutil.ResolveRegister(operands[0])
	if err != nil {
		return 0, tagLine(err, line)
	}
	rs2, err := lexutil.ResolveRegister(operands[1])
	if err != nil {
		return 0, tagLine(err, line)
	}
	offset, err := branchOrJumpOffset(operands[2], pc, syms, 13, line)
	if err != nil {
		return 0, err
	}
	u := uint32(offset)
	imm12 := (u >> 12) & 0x1
	imm10_5 := (u >> 5) & 0x3f
	imm4_1 := (u >> 1) & 0xf
	imm11 := (u >> 11) & 0x1
	word := uint32(opBranch) | imm11<<7 | imm4_1<<8 | f3<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | imm10_5<<25 | imm12<<31
	return word, nil
}

// encodeJAL encodes "rd, target" J-type jumps: target is a known label or
// a signed 21-bit literal, split per the standard RISC-V J-type encoding.
func encodeJAL(operands []string, pc uint64, syms *SymbolTable, line int) (uint32, error) {
	if len(operands) != 2 {
		return 0, asmerr.At(line, asmerr.WrongArity, "jal expects rd, target")
	}
	rd, err := lexutil.ResolveRegister(operands[0])
	if err != nil {
		return 0, tagLine(err, line)
	}
	offset, err := branchOrJumpOffset(operands[1], pc, syms, 21, line)
	if err != nil {
		return 0, err
	}
	u := uint32(offset)
	imm20 := (u >> 20) & 0x1
	imm10_1 := (u >> 1) & 0x3ff
	imm11 := (u >> 11) & 0x1
	imm19_12 := (u >> 12) & 0xff
	word := uint32(opJAL) | uint32(rd)<<7 | imm19_12<<12 | imm11<<20 | imm10_1<<21 | imm20<<31
	return word, nil
}

// encodeJALR encodes "rd, rs1, imm" or "rd, imm(rs1)" with a signed
// 12-bit immediate.
func encodeJALR(operands []string, line int) (uint32, error) {
	if len(operands) < 2 {
		return 0, asmerr.At(line, asmerr.WrongArity, "jalr expects rd, imm, rs1")
	}
	rd, err := lexutil.ResolveRegister(operands[0])
	if err != nil {
		return 0, tagLine(err, line)
	}
	immTok, regTok, err := splitMemOperand(operands[1:], line)
	if err != nil {
		return 0, err
	}
	rs1, err := lexutil.ResolveRegister(regTok)
	if err != nil {
		return 0, tagLine(err, line)
	}
	imm, err := lexutil.ParseSigned(immTok, 12)
	if err != nil {
		return 0, tagLine(err, line)
	}
	word := uint32(opJALR) | uint32(rd)<<7 | uint32(rs1)<<15 | (uint32(imm)&0xfff)<<20
	return word, nil
}
