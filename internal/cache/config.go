package cache

import (
	"strconv"
	"strings"

	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
)

// Config holds the five parameters read from a cache configuration file
// (spec.md §6): "cache_size block_size associativity replacement_policy
// write_policy".
type Config struct {
	CacheSize     int
	BlockSize     int
	Associativity int // 0 requests fully associative
	Replacement   ReplacementPolicy
	Write         WritePolicy
}

// ParseConfig parses the five-token whitespace-separated config file body.
func ParseConfig(body string) (Config, error) {
	fields := strings.Fields(body)
	if len(fields) != 5 {
		return Config{}, asmerr.New(asmerr.CacheConfigInvalid, "expected 5 fields, got %d", len(fields))
	}
	cacheSize, err := strconv.Atoi(fields[0])
	if err != nil || cacheSize <= 0 {
		return Config{}, asmerr.New(asmerr.CacheConfigInvalid, "invalid cache_size %q", fields[0])
	}
	blockSize, err := strconv.Atoi(fields[1])
	if err != nil || blockSize <= 0 {
		return Config{}, asmerr.New(asmerr.CacheConfigInvalid, "invalid block_size %q", fields[1])
	}
	assoc, err := strconv.Atoi(fields[2])
	if err != nil || assoc < 0 {
		return Config{}, asmerr.New(asmerr.CacheConfigInvalid, "invalid associativity %q", fields[2])
	}
	if !isPowerOfTwo(cacheSize) || !isPowerOfTwo(blockSize) {
		return Config{}, asmerr.New(asmerr.CacheConfigInvalid, "cache_size and block_size must be powers of two")
	}

	var rp ReplacementPolicy
	switch fields[3] {
	case "FIFO":
		rp = FIFO
	case "LRU":
		rp = LRU
	case "RANDOM":
		rp = RANDOM
	default:
		return Config{}, asmerr.New(asmerr.CacheConfigInvalid, "invalid replacement policy %q", fields[3])
	}

	var wp WritePolicy
	switch fields[4] {
	case "WT":
		wp = WT
	case "WB":
		wp = WB
	default:
		return Config{}, asmerr.New(asmerr.CacheConfigInvalid, "invalid write policy %q", fields[4])
	}

	return Config{
		CacheSize:     cacheSize,
		BlockSize:     blockSize,
		Associativity: assoc,
		Replacement:   rp,
		Write:         wp,
	}, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
