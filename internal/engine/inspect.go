package engine

import "github.com/lookbusy1344/riscv-sim/internal/cache"

// Registers returns a snapshot of the architectural register file
// (spec.md §4.7 Inspection API).
func (e *Engine) Registers() [32]int64 {
	return e.Reg
}

// PCValue returns the current program counter.
func (e *Engine) PCValue() uint64 {
	return e.PC
}

// CurrentLine returns the source line the next instruction will execute
// from (or len(Lines) once the program has run off the end).
func (e *Engine) CurrentLine() int {
	return e.LineCounter
}

// MemoryRange returns count bytes of memory starting at addr, bypassing
// the cache (spec.md §4.7: inspection reads the architectural state, not
// the cache's view of it).
func (e *Engine) MemoryRange(addr int64, count int) ([]byte, error) {
	return e.Mem.Bytes(addr, count)
}

// TakeFaults drains and returns every fault accumulated since the last call
// (spec.md §7: AddressOutOfRange is reported, not fatal).
func (e *Engine) TakeFaults() []string {
	faults := e.Faults
	e.Faults = nil
	return faults
}

// CallStackView returns a snapshot of the call stack, oldest frame first.
func (e *Engine) CallStackView() []Frame {
	out := make([]Frame, len(e.CallStack))
	copy(out, e.CallStack)
	return out
}

// CacheStats delegates to the cache, if enabled.
func (e *Engine) CacheStats() (accesses, hits, misses int64, hitRate float64, ok bool) {
	if e.Cache == nil {
		return 0, 0, 0, 0, false
	}
	a, h, m, r := e.Cache.Stats()
	return a, h, m, r, true
}

// CacheStatus returns the active cache configuration, if enabled.
func (e *Engine) CacheStatus() (cache.Config, bool) {
	if e.Cache == nil {
		return cache.Config{}, false
	}
	return e.Cache.Status(), true
}

// CacheDump writes the cache's resident-line dump to path, if enabled.
func (e *Engine) CacheDump(path string) error {
	if e.Cache == nil {
		return nil
	}
	return e.Cache.Dump(path)
}

// CacheInvalidate flushes and invalidates the cache, if enabled.
func (e *Engine) CacheInvalidate() error {
	if e.Cache == nil {
		return nil
	}
	return e.Cache.Invalidate(e.Mem)
}
