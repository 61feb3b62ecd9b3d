package lexutil

import (
	"strconv"
	"strings"

	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
)

// abiNames maps ABI register aliases to their architectural index.
var abiNames = map[string]int{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7,
	"s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23, "s8": 24, "s9": 25, "s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

// ResolveRegister accepts an ABI alias or canonical x<n> form and returns
// the architectural register index 0..31.
func ResolveRegister(s string) (int, error) {
	if idx, ok := abiNames[s]; ok {
		return idx, nil
	}
	if strings.HasPrefix(s, "x") && len(s) > 1 {
		n, err := strconv.Atoi(s[1:])
		if err == nil && n >= 0 && n <= 31 {
			return n, nil
		}
	}
	return 0, asmerr.New(asmerr.InvalidRegister, "invalid register %q", s)
}
