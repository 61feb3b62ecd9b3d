package engine

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/riscv-sim/internal/asm"
	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

// execute dispatches one tokenized instruction line (spec.md §4.5). pc is
// the address this instruction was assembled at. doJump reports whether
// PC/LineCounter were already advanced by the instruction itself (branch
// taken, jal, jalr), so the caller must not also apply the default +4/+1.
func (e *Engine) execute(tokens []string, pc uint64) (doJump bool, err error) {
	mnemonic := strings.ToLower(tokens[0])
	ops := tokens[1:]

	switch mnemonic {
	case "add", "sub", "sll", "slt", "sltu", "xor", "srl", "sra", "or", "and":
		return false, e.execR(mnemonic, ops)
	case "addi", "slti", "sltiu", "xori", "ori", "andi", "slli", "srli", "srai":
		return false, e.execIArith(mnemonic, ops)
	case "lb", "lh", "lw", "ld", "lbu", "lhu", "lwu":
		return false, e.execLoad(mnemonic, ops)
	case "sb", "sh", "sw", "sd":
		return false, e.execStore(mnemonic, ops)
	case "beq", "bne", "blt", "bge", "bltu", "bgeu":
		return e.execBranch(mnemonic, ops, pc)
	case "jal":
		return e.execJAL(ops, pc)
	case "jalr":
		return e.execJALR(ops, pc)
	case "lui", "auipc":
		return false, e.execUpper(mnemonic, ops, pc)
	}
	return false, asmerr.New(asmerr.UnknownInstruction, "unknown instruction %q", mnemonic)
}

func (e *Engine) reg(tok string) (int, error) {
	return lexutil.ResolveRegister(tok)
}

func (e *Engine) setReg(idx int, v int64) {
	if idx != 0 {
		e.Reg[idx] = v
	}
}

func (e *Engine) execR(mnemonic string, ops []string) error {
	if len(ops) != 3 {
		return asmerr.New(asmerr.WrongArity, "%s expects rd, rs1, rs2", mnemonic)
	}
	rd, err := e.reg(ops[0])
	if err != nil {
		return err
	}
	rs1, err := e.reg(ops[1])
	if err != nil {
		return err
	}
	rs2, err := e.reg(ops[2])
	if err != nil {
		return err
	}
	a, b := e.Reg[rs1], e.Reg[rs2]
	var v int64
	switch mnemonic {
	case "add":
		v = a + b
	case "sub":
		v = a - b
	case "sll":
		v = a << (uint64(b) & 0x3f)
	case "slt":
		v = boolToInt(a < b)
	case "sltu":
		v = boolToInt(uint64(a) < uint64(b))
	case "xor":
		v = a ^ b
	case "srl":
		v = int64(uint64(a) >> (uint64(b) & 0x3f))
	case "sra":
		v = a >> (uint64(b) & 0x3f)
	case "or":
		v = a | b
	case "and":
		v = a & b
	}
	e.setReg(rd, v)
	return nil
}

func (e *Engine) execIArith(mnemonic string, ops []string) error {
	if len(ops) != 3 {
		return asmerr.New(asmerr.WrongArity, "%s expects rd, rs1, imm", mnemonic)
	}
	rd, err := e.reg(ops[0])
	if err != nil {
		return err
	}
	rs1, err := e.reg(ops[1])
	if err != nil {
		return err
	}
	a := e.Reg[rs1]

	switch mnemonic {
	case "slli", "srli", "srai":
		shamt, err := lexutil.ParseUnsigned(ops[2], 6)
		if err != nil {
			return err
		}
		var v int64
		switch mnemonic {
		case "slli":
			v = a << uint64(shamt)
		case "srli":
			v = int64(uint64(a) >> uint64(shamt))
		case "srai":
			v = a >> uint64(shamt)
		}
		e.setReg(rd, v)
		return nil
	}

	imm, err := lexutil.ParseSigned(ops[2], 12)
	if err != nil {
		return err
	}
	var v int64
	switch mnemonic {
	case "addi":
		v = a + imm
	case "slti":
		v = boolToInt(a < imm)
	case "sltiu":
		v = boolToInt(uint64(a) < uint64(imm))
	case "xori":
		v = a ^ imm
	case "ori":
		v = a | imm
	case "andi":
		v = a & imm
	}
	e.setReg(rd, v)
	return nil
}

func (e *Engine) execLoad(mnemonic string, ops []string) error {
	if len(ops) < 2 {
		return asmerr.New(asmerr.WrongArity, "%s expects rd, imm, rs1", mnemonic)
	}
	rd, err := e.reg(ops[0])
	if err != nil {
		return err
	}
	immTok, regTok, err := splitMemOperand(ops[1:])
	if err != nil {
		return err
	}
	rs1, err := e.reg(regTok)
	if err != nil {
		return err
	}
	imm, err := lexutil.ParseSigned(immTok, 12)
	if err != nil {
		return err
	}
	addr := e.Reg[rs1] + imm
	width, signed := asm.LoadWidth(mnemonic)

	var v int64
	if e.Cache != nil {
		v, err = e.Cache.Read(e.Mem, addr, width, signed)
	} else {
		v, err = e.Mem.Load(addr, width, signed)
	}
	if err != nil {
		// AddressOutOfRange reports and continues with a zero result
		// rather than aborting execution (spec.md §7).
		e.recordFault(err)
		e.setReg(rd, 0)
		return nil
	}
	e.setReg(rd, v)
	return nil
}

func (e *Engine) execStore(mnemonic string, ops []string) error {
	if len(ops) < 2 {
		return asmerr.New(asmerr.WrongArity, "%s expects rs2, imm, rs1", mnemonic)
	}
	rs2, err := e.reg(ops[0])
	if err != nil {
		return err
	}
	immTok, regTok, err := splitMemOperand(ops[1:])
	if err != nil {
		return err
	}
	rs1, err := e.reg(regTok)
	if err != nil {
		return err
	}
	imm, err := lexutil.ParseSigned(immTok, 12)
	if err != nil {
		return err
	}
	addr := e.Reg[rs1] + imm
	width := asm.StoreWidth(mnemonic)

	if e.Cache != nil {
		err = e.Cache.Write(e.Mem, addr, e.Reg[rs2], width)
	} else {
		err = e.Mem.Store(e.Reg[rs2], addr, width)
	}
	if err != nil {
		// AddressOutOfRange reports and continues rather than aborting
		// execution (spec.md §7).
		e.recordFault(err)
		return nil
	}
	return nil
}

func (e *Engine) execBranch(mnemonic string, ops []string, pc uint64) (bool, error) {
	if len(ops) != 3 {
		return false, asmerr.New(asmerr.WrongArity, "%s expects rs1, rs2, target", mnemonic)
	}
	rs1, err := e.reg(ops[0])
	if err != nil {
		return false, err
	}
	rs2, err := e.reg(ops[1])
	if err != nil {
		return false, err
	}
	offset, err := e.branchOffset(ops[2], pc, 21)
	if err != nil {
		return false, err
	}
	a, b := e.Reg[rs1], e.Reg[rs2]
	var taken bool
	switch mnemonic {
	case "beq":
		taken = a == b
	case "bne":
		taken = a != b
	case "blt":
		taken = a < b
	case "bge":
		taken = a >= b
	case "bltu":
		taken = uint64(a) < uint64(b)
	case "bgeu":
		taken = uint64(a) >= uint64(b)
	}
	if !taken {
		return false, nil
	}
	e.PC = uint64(int64(pc) + offset)
	e.LineCounter = e.findLineForPC(e.PC)
	return true, nil
}

func (e *Engine) execJAL(ops []string, pc uint64) (bool, error) {
	if len(ops) != 2 {
		return false, asmerr.New(asmerr.WrongArity, "jal expects rd, target")
	}
	rd, err := e.reg(ops[0])
	if err != nil {
		return false, err
	}
	offset, err := e.branchOffset(ops[1], pc, 21)
	if err != nil {
		return false, err
	}
	e.setReg(rd, int64(pc)+4)
	e.PC = uint64(int64(pc) + offset)
	e.LineCounter = e.findLineForPC(e.PC)

	name := ops[1]
	if !e.Prog.Symbols.Has(name) {
		name = fmt.Sprintf("0x%x", e.PC)
	}
	// lineCounter-1 keeps pushed frames in the same convention as the
	// root ("main", 0) frame (spec.md §4.5).
	e.CallStack = append(e.CallStack, Frame{Name: name, Line: e.LineCounter - 1})
	return true, nil
}

func (e *Engine) execJALR(ops []string, pc uint64) (bool, error) {
	if len(ops) < 2 {
		return false, asmerr.New(asmerr.WrongArity, "jalr expects rd, imm, rs1")
	}
	rd, err := e.reg(ops[0])
	if err != nil {
		return false, err
	}
	immTok, regTok, err := splitMemOperand(ops[1:])
	if err != nil {
		return false, err
	}
	rs1, err := e.reg(regTok)
	if err != nil {
		return false, err
	}
	imm, err := lexutil.ParseSigned(immTok, 12)
	if err != nil {
		return false, err
	}
	target := (e.Reg[rs1] + imm) &^ 1
	e.setReg(rd, int64(pc)+4)
	e.PC = uint64(target)
	e.LineCounter = e.findLineForPC(e.PC)

	// jalr always pops the call stack, independent of rs1 (DESIGN.md Open
	// Question decisions).
	if len(e.CallStack) > 1 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
	return true, nil
}

func (e *Engine) execUpper(mnemonic string, ops []string, pc uint64) error {
	if len(ops) != 2 {
		return asmerr.New(asmerr.WrongArity, "%s expects rd, imm", mnemonic)
	}
	rd, err := e.reg(ops[0])
	if err != nil {
		return err
	}
	imm, err := lexutil.ParseUnsigned(ops[1], 20)
	if err != nil {
		return err
	}
	shifted := int64(int32(uint32(imm) << 12))
	switch mnemonic {
	case "lui":
		e.setReg(rd, shifted)
	case "auipc":
		e.setReg(rd, int64(pc)+shifted)
	}
	return nil
}

// branchOffset resolves a branch/jump target against the loaded symbol
// table, falling back to a signed literal offset of the given bit width. A
// token that looks like a label but isn't one is a typo, not a malformed
// number, so it gets its own error kind (spec.md §7).
func (e *Engine) branchOffset(token string, pc uint64, litWidth int) (int64, error) {
	if lbl, ok := e.Prog.Symbols.Lookup(token); ok {
		return int64(lbl.Addr) - int64(pc), nil
	}
	if asm.ValidLabel(token) {
		return 0, asmerr.New(asmerr.LabelUndefined, "undefined label %q", token)
	}
	return lexutil.ParseSigned(token, litWidth)
}

// splitMemOperand mirrors asm's operand.go: accepts "imm rs1" or "imm(rs1)".
func splitMemOperand(tokens []string) (imm string, reg string, err error) {
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
	return "", "", asmerr.New(asmerr.WrongArity, "expected \"imm rs1\" or \"imm(rs1)\", got %v", tokens)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
