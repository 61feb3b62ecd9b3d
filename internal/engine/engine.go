// Package engine implements the execution engine: the decoded-instruction
// interpreter that owns the register file, memory, program counter, call
// stack and breakpoints, and routes data accesses through the optional
// cache. Grounded on the teacher's vm package (register-file shape,
// fetch-decode-execute loop shape) and on original_source/simulator.hh's
// Engine-like aggregate (registers, memory, lines, Labels, breakpoints,
// cache, all owned by a single instance).
package engine

import (
	"fmt"

	"github.com/lookbusy1344/riscv-sim/internal/asm"
	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/cache"
	"github.com/lookbusy1344/riscv-sim/internal/mem"
)

// Frame is one call-stack entry: a symbolic function name and the source
// line it represents (spec.md §3).
type Frame struct {
	Name string
	Line int
}

// Engine is the single simulator instance that owns memory, registers,
// labels, the line table, breakpoints, the call stack, the cache, and PC.
type Engine struct {
	Reg [32]int64
	PC  uint64
	Mem *mem.Memory

	Prog   *asm.Program
	Loaded bool

	LineCounter int
	CallStack   []Frame
	Breakpoints map[int]bool

	PendingBreak bool

	// Faults accumulates one message per execution-time AddressOutOfRange
	// error: those are reported and execution continues with a zero
	// result rather than aborting (spec.md §7).
	Faults []string

	CacheEnabled bool
	CacheCfg     cache.Config
	Cache        *cache.Cache

	SourcePath string

	// MaxSteps bounds how many instructions Run will execute before
	// giving up on a non-terminating program. Zero means unbounded.
	MaxSteps int
}

// New returns a ready-to-use Engine with no program loaded.
func New() *Engine {
	return &Engine{
		Mem:         &mem.Memory{},
		Breakpoints: make(map[int]bool),
	}
}

// EnableCache configures the cache with cfg. Per spec.md §6, this is only
// valid before a program is loaded.
func (e *Engine) EnableCache(cfg cache.Config) error {
	if e.Loaded {
		return asmerr.New(asmerr.InvalidCommand, "cache cannot be enabled after a file is loaded")
	}
	e.CacheEnabled = true
	e.CacheCfg = cfg
	return nil
}

// DisableCache turns the cache off. Only valid before a program is loaded.
func (e *Engine) DisableCache() error {
	if e.Loaded {
		return asmerr.New(asmerr.InvalidCommand, "cache cannot be disabled after a file is loaded")
	}
	e.CacheEnabled = false
	e.Cache = nil
	return nil
}

// Load resets the simulator (preserving breakpoints and cache
// configuration, per spec.md §3) and assembles source into memory.
// sourcePath names the file, used to derive the cache access-log path.
// Returns every assembly error collected; a non-empty result means the
// program is not loaded and run/step/break must refuse.
func (e *Engine) Load(sourcePath string, source []string) []error {
	e.Reg = [32]int64{}
	e.PC = 0
	e.Mem = &mem.Memory{}
	e.LineCounter = 1
	e.PendingBreak = false
	e.Faults = nil
	e.SourcePath = sourcePath
	e.Loaded = false

	if e.CacheEnabled {
		e.Cache = cache.New(e.CacheCfg, cache.SourceLogPath(sourcePath))
	} else {
		e.Cache = nil
	}

	prog, errs := asm.Assemble(source, e.Mem)
	e.Prog = prog

	if len(errs) > 0 {
		e.CallStack = nil
		return errs
	}

	// Seeded with ("main", 0) regardless of where the main label actually
	// sits (spec.md §3); jal pushes use lineCounter-1 (see execJAL), so 0
	// keeps the same convention for the root frame.
	e.CallStack = []Frame{{Name: "main", Line: 0}}
	e.Loaded = true
	return nil
}

// peekNextLine returns the next non-empty source line at or after
// LineCounter, without mutating state.
func (e *Engine) peekNextLine() int {
	lc := e.LineCounter
	for lc < len(e.Prog.Lines) && e.Prog.Lines[lc].Empty() {
		lc++
	}
	return lc
}

// Step executes exactly one instruction, unless the next instruction sits
// on a breakpoint, in which case it stops without executing (spec.md
// §4.5). Returns stopped=true when the program halted (end of program or
// breakpoint reached without executing).
func (e *Engine) Step() (stopped bool, err error) {
	if !e.Loaded {
		return true, asmerr.New(asmerr.InvalidCommand, "no program loaded")
	}
	if e.PendingBreak {
		e.PendingBreak = false
		return false, e.executeLine(e.LineCounter)
	}
	lc := e.peekNextLine()
	if lc >= len(e.Prog.Lines) {
		e.LineCounter = lc
		return true, nil
	}
	if e.Breakpoints[lc] {
		e.LineCounter = lc
		e.PendingBreak = true
		return true, nil
	}
	return false, e.executeLine(lc)
}

// Run executes until the program halts or the next instruction is on a
// breakpoint (spec.md §4.5).
func (e *Engine) Run() error {
	if !e.Loaded {
		return asmerr.New(asmerr.InvalidCommand, "no program loaded")
	}
	steps := 0
	for {
		if e.MaxSteps > 0 && steps >= e.MaxSteps {
			return nil
		}
		stopped, err := e.Step()
		if err != nil {
			return err
		}
		if stopped {
			return nil
		}
		steps++
	}
}

// recordFault appends a line-tagged fault message for an execution-time
// error that reports-and-continues rather than aborting (AddressOutOfRange,
// spec.md §7).
func (e *Engine) recordFault(err error) {
	e.Faults = append(e.Faults, fmt.Sprintf("Line %d: %s", e.LineCounter, err.Error()))
}

func (e *Engine) executeLine(lc int) error {
	e.LineCounter = lc
	if len(e.CallStack) > 0 {
		e.CallStack[len(e.CallStack)-1].Line = lc
	}
	line := e.Prog.Lines[lc]
	doJump, err := e.execute(line.Tokens, line.Addr)
	e.Reg[0] = 0
	if !doJump {
		e.PC += 4
		e.LineCounter++
	}
	return err
}

// AtEnd reports whether the next instruction (if any) is past the end of
// the source.
func (e *Engine) AtEnd() bool {
	return e.peekNextLine() >= len(e.Prog.Lines)
}

// findLineForPC recomputes lineCounter from PC by linear scan of non-empty
// entries (spec.md §4.5: used after computed branches/jumps).
func (e *Engine) findLineForPC(pc uint64) int {
	for ln, line := range e.Prog.Lines {
		if !line.Empty() && line.Addr == pc {
			return ln
		}
	}
	return len(e.Prog.Lines)
}
