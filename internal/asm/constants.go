package asm

// RV64I opcode field values (bits [6:0] of the instruction word).
const (
	opR      = 0b0110011
	opIArith = 0b0010011
	opLoad   = 0b0000011
	opStore  = 0b0100011
	opBranch = 0b1100011
	opJAL    = 0b1101111
	opJALR   = 0b1100111
	opLUI    = 0b0110111
	opAUIPC  = 0b0010111
)

// rTypeFuncts holds {funct3, funct7} for each R-type mnemonic.
var rTypeFuncts = map[string][2]uint32{
	"add":  {0x0, 0x00},
	"sub":  {0x0, 0x20},
	"sll":  {0x1, 0x00},
	"slt":  {0x2, 0x00},
	"sltu": {0x3, 0x00},
	"xor":  {0x4, 0x00},
	"srl":  {0x5, 0x00},
	"sra":  {0x5, 0x20},
	"or":   {0x6, 0x00},
	"and":  {0x7, 0x00},
}

// iArithFunct3 holds funct3 for non-shift I-type arithmetic mnemonics.
var iArithFunct3 = map[string]uint32{
	"addi":  0x0,
	"slti":  0x2,
	"sltiu": 0x3,
	"xori":  0x4,
	"ori":   0x6,
	"andi":  0x7,
}

// shiftIFuncts holds {funct3, funct7} for the 6-bit-shamt I-type shifts.
var shiftIFuncts = map[string][2]uint32{
	"slli": {0x1, 0x00},
	"srli": {0x5, 0x00},
	"srai": {0x5, 0x20},
}

// loadFunct3 holds funct3 for each load mnemonic.
var loadFunct3 = map[string]uint32{
	"lb": 0x0, "lh": 0x1, "lw": 0x2, "ld": 0x3, "lbu": 0x4, "lhu": 0x5, "lwu": 0x6,
}

// storeFunct3 holds funct3 for each store mnemonic.
var storeFunct3 = map[string]uint32{
	"sb": 0x0, "sh": 0x1, "sw": 0x2, "sd": 0x3,
}

// branchFunct3 holds funct3 for each branch mnemonic.
var branchFunct3 = map[string]uint32{
	"beq": 0x0, "bne": 0x1, "blt": 0x4, "bge": 0x5, "bltu": 0x6, "bgeu": 0x7,
}

// LoadWidth reports the access width in bits and whether it is a sign-
// extending load, for a load mnemonic. Shared with the execution engine's
// decoder so both sides agree on widths.
func LoadWidth(mnemonic string) (width int, signed bool) {
	switch mnemonic {
	case "lb":
		return 8, true
	case "lh":
		return 16, true
	case "lw":
		return 32, true
	case "ld":
		return 64, true
	case "lbu":
		return 8, false
	case "lhu":
		return 16, false
	case "lwu":
		return 32, false
	}
	return 0, false
}

// StoreWidth reports the access width in bits for a store mnemonic.
func StoreWidth(mnemonic string) int {
	switch mnemonic {
	case "sb":
		return 8
	case "sh":
		return 16
	case "sw":
		return 32
	case "sd":
		return 64
	}
	return 0
}

// Mnemonics is the complete required mnemonic set (spec.md §4.3).
var Mnemonics = map[string]bool{
	"lui": true, "auipc": true, "jal": true, "jalr": true,
	"beq": true, "bne": true, "blt": true, "bge": true, "bltu": true, "bgeu": true,
	"lb": true, "lh": true, "lw": true, "ld": true, "lbu": true, "lhu": true, "lwu": true,
	"sb": true, "sh": true, "sw": true, "sd": true,
	"addi": true, "slti": true, "sltiu": true, "xori": true, "ori": true, "andi": true,
	"slli": true, "srli": true, "srai": true,
	"add": true, "sub": true, "sll": true, "slt": true, "sltu": true, "xor": true, "srl": true, "sra": true, "or": true, "and": true,
}
