package asm

import (
	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

// encodeLoad encodes "rd, imm, rs1" or "rd, imm(rs1)" loads.
func encodeLoad(mnemonic string, operands []string, line int) (uint32, error) {
	f3, ok := loadFunct3[mnemonic]
	if !ok {
		return 0, asmerr.At(line, asmerr.UnknownInstruction, "unknown instruction %q", mnemonic)
	}
	if len(operands) < 2 {
		return 0, asmerr.At(line, asmerr.WrongArity, "%s expects rd, imm, rs1", mnemonic)
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
	word := uint32(opLoad) | f3<<12 | uint32(rd)<<7 | uint32(rs1)<<15 | (uint32(imm)&0xfff)<<20
	return word, nil
}

// encodeStore encodes "rs2, imm, rs1" or "rs2, imm(rs1)" stores. The imm
// is split across bits [11:5] and [4:0] (S-type).
func encodeStore(mnemonic string, operands []string, line int) (uint32, error) {
	f3, ok := storeFunct3[mnemonic]
	if !ok {
		return 0, asmerr.At(line, asmerr.UnknownInstruction, "unknown instruction %q", mnemonic)
	}
	if len(operands) < 2 {
		return 0, asmerr.At(line, asmerr.WrongArity, "%s expects rs2, imm, rs1", mnemonic)
	}
	rs2, err := lexutil.ResolveRegister(operands[0])
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
	u := uint32(imm) & 0xfff
	immLo := u & 0x1f        // [4:0]
	immHi := (u >> 5) & 0x7f // [11:5]
	word := uint32(opStore) | f3<<12 | immLo<<7 | uint32(rs1)<<15 | uint32(rs2)<<20 | immHi<<25
	return word, nil
}
