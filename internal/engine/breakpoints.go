package engine

import (
	"sort"

	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/samber/lo"
)

// AddBreakpoint records a breakpoint at the given source line (spec.md §6
// "break <line>"). Duplicate adds are silently idempotent. Refuses until a
// program is loaded, matching Run and Step (spec.md §7).
func (e *Engine) AddBreakpoint(line int) error {
	if !e.Loaded {
		return asmerr.New(asmerr.InvalidCommand, "no program loaded")
	}
	e.Breakpoints[line] = true
	return nil
}

// DeleteBreakpoint removes a breakpoint at the given line (spec.md §6
// "del break <line>"). Deleting a line with no breakpoint is an error.
func (e *Engine) DeleteBreakpoint(line int) error {
	if !e.Breakpoints[line] {
		return asmerr.New(asmerr.InvalidCommand, "no breakpoint set at line %d", line)
	}
	delete(e.Breakpoints, line)
	return nil
}

// BreakpointLines returns every breakpointed line number, sorted
// ascending.
func (e *Engine) BreakpointLines() []int {
	lines := lo.Keys(e.Breakpoints)
	sort.Ints(lines)
	return lines
}
