// Package mem implements the simulator's flat byte-addressable memory:
// a fixed-capacity array with sized little-endian load/store and sign
// extension. Grounded on the teacher's vm/memory.go, simplified to the
// single flat array spec.md §3 describes (no segments/permissions).
package mem

import "github.com/lookbusy1344/riscv-sim/internal/asmerr"

// Capacity is the number of addressable bytes: addresses 0..0x50000 inclusive.
const Capacity = 0x50001

// DataBase is the address the assembler's data cursor (MC) starts at.
const DataBase = 0x10000

// Memory is a flat byte array. The zero value is ready to use (all zero).
type Memory struct {
	bytes [Capacity]byte
}

func checkRange(index int64, width int) error {
	if index < 0 || index+int64(width)/8 > Capacity {
		return asmerr.New(asmerr.AddressOutOfRange, "address 0x%x out of range", index)
	}
	return nil
}

// Load reads width/8 bytes little-endian starting at index. If signed and
// the top bit of the read value is set, the result is sign-extended to 64
// bits.
func (m *Memory) Load(index int64, width int, signed bool) (int64, error) {
	if err := checkRange(index, width); err != nil {
		return 0, err
	}
	n := width / 8
	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(m.bytes[index+int64(i)]) << (8 * i)
	}
	if signed && width < 64 && (v>>(uint(width)-1))&1 == 1 {
		v |= ^uint64(0) << uint(width)
	}
	return int64(v), nil
}

// Store writes the low width/8 bytes of data little-endian starting at index.
func (m *Memory) Store(data int64, index int64, width int) error {
	if err := checkRange(index, width); err != nil {
		return err
	}
	n := width / 8
	u := uint64(data)
	for i := 0; i < n; i++ {
		m.bytes[index+int64(i)] = byte(u >> (8 * i))
	}
	return nil
}

// Bytes returns a read-only view of count bytes starting at addr, for the
// inspection API and for the cache's block fetch/evict paths.
func (m *Memory) Bytes(addr int64, count int) ([]byte, error) {
	if addr < 0 || addr+int64(count) > Capacity {
		return nil, asmerr.New(asmerr.AddressOutOfRange, "address 0x%x out of range", addr)
	}
	out := make([]byte, count)
	copy(out, m.bytes[addr:addr+int64(count)])
	return out, nil
}

// SetBytes writes a raw block of bytes starting at addr, used by the cache
// to install a fetched block's backing bytes and by evictions to write back.
func (m *Memory) SetBytes(addr int64, data []byte) error {
	if addr < 0 || addr+int64(len(data)) > Capacity {
		return asmerr.New(asmerr.AddressOutOfRange, "address 0x%x out of range", addr)
	}
	copy(m.bytes[addr:addr+int64(len(data))], data)
	return nil
}

// Reset zeroes the entire memory array.
func (m *Memory) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}
