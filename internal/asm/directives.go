package asm

import (
	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

// dataDirectiveWidth maps a data directive mnemonic to its element width
// in bits.
var dataDirectiveWidth = map[string]int{
	".byte":  8,
	".half":  16,
	".word":  32,
	".dword": 64,
}

// memWriter is the subset of *mem.Memory the assembler needs to place
// bytes; kept as an interface so asm never imports mem's concrete type
// back into a cyclic dependency and so tests can fake it.
type memWriter interface {
	Store(data int64, index int64, width int) error
}

// writeDataLine parses "{.byte|.half|.word|.dword} v1 v2 ..." and writes
// each value little-endian at *cursor, advancing it by width/8 per value.
func writeDataLine(mem memWriter, directive string, values []string, cursor *uint64, line int) error {
	width, ok := dataDirectiveWidth[directive]
	if !ok {
		return asmerr.At(line, asmerr.IllegalDirective, "illegal directive %q", directive)
	}
	if len(values) == 0 {
		return asmerr.At(line, asmerr.WrongArity, "%s requires at least one value", directive)
	}
	for _, tok := range values {
		v, err := lexutil.ParseData(tok, width)
		if err != nil {
			if e, ok := err.(*asmerr.Error); ok {
				e.Line = line
			}
			return err
		}
		if err := mem.Store(v, int64(*cursor), width); err != nil {
			return err
		}
		*cursor += uint64(width / 8)
	}
	return nil
}
