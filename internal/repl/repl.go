// Package repl implements the line-oriented command dispatcher spec.md §6
// describes: one command per line, parsed and routed into internal/engine
// and internal/cache. Grounded on the teacher's debugger/interface.go
// Println/Printf indirection, narrowed to spec.md's exact command table
// (no expression evaluator, no watchpoints, no TUI).
package repl

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lookbusy1344/riscv-sim/internal/asmerr"
	"github.com/lookbusy1344/riscv-sim/internal/cache"
	"github.com/lookbusy1344/riscv-sim/internal/engine"
)

// Result is one command's outcome: the lines to print, and an error if
// the command failed. Keeping output as data (not writes to stdout) is
// what makes Dispatch testable without capturing a writer.
type Result struct {
	Lines []string
	Error error
	Exit  bool
}

func textResult(lines ...string) Result {
	return Result{Lines: lines}
}

func errResult(err error) Result {
	return Result{Error: err}
}

// Dispatch parses and executes one command line against eng.
func Dispatch(line string, eng *engine.Engine) Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{}
	}
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "load":
		return dispatchLoad(args, eng)
	case "run":
		return dispatchRun(eng)
	case "step":
		return dispatchStep(eng)
	case "regs":
		return dispatchRegs(eng)
	case "mem":
		return dispatchMem(args, eng)
	case "show-stack":
		return dispatchShowStack(eng)
	case "break":
		return dispatchBreak(args, eng)
	case "del":
		return dispatchDelBreak(args, eng)
	case "cache_sim":
		return dispatchCacheSim(args, eng)
	case "exit":
		return Result{Exit: true}
	}
	return errResult(asmerr.New(asmerr.InvalidCommand, "unknown command %q", cmd))
}

func dispatchLoad(args []string, eng *engine.Engine) Result {
	if len(args) != 1 {
		return errResult(asmerr.New(asmerr.InvalidCommand, "usage: load <path>"))
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errResult(asmerr.New(asmerr.InvalidCommand, "reading %s: %v", args[0], err))
	}
	source := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	errs := eng.Load(args[0], source)
	if len(errs) > 0 {
		lines := make([]string, len(errs))
		for i, e := range errs {
			lines[i] = e.Error()
		}
		return Result{Lines: lines, Error: asmerr.New(asmerr.InvalidCommand, "load failed with %d error(s)", len(errs))}
	}
	return textResult(fmt.Sprintf("loaded %s", args[0]))
}

func dispatchRun(eng *engine.Engine) Result {
	if err := eng.Run(); err != nil {
		return errResult(err)
	}
	lines := eng.TakeFaults()
	if eng.AtEnd() {
		return textResult(append(lines, "program terminated")...)
	}
	return textResult(append(lines, fmt.Sprintf("stopped at line %d", eng.CurrentLine()))...)
}

func dispatchStep(eng *engine.Engine) Result {
	stopped, err := eng.Step()
	if err != nil {
		return errResult(err)
	}
	lines := eng.TakeFaults()
	if stopped {
		if eng.AtEnd() {
			return textResult(append(lines, "program terminated")...)
		}
		return textResult(append(lines, fmt.Sprintf("stopped at breakpoint, line %d", eng.CurrentLine()))...)
	}
	return textResult(append(lines, fmt.Sprintf("stepped, next line %d", eng.CurrentLine()))...)
}

func dispatchRegs(eng *engine.Engine) Result {
	regs := eng.Registers()
	lines := make([]string, 0, 33)
	for i, v := range regs {
		lines = append(lines, fmt.Sprintf("x%-2d = 0x%x", i, uint64(v)))
	}
	lines = append(lines, fmt.Sprintf("pc  = 0x%x", eng.PCValue()))
	return textResult(lines...)
}

func dispatchMem(args []string, eng *engine.Engine) Result {
	if len(args) != 2 {
		return errResult(asmerr.New(asmerr.InvalidCommand, "usage: mem <addr> <count>"))
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return errResult(err)
	}
	count, err := strconv.Atoi(args[1])
	if err != nil || count <= 0 {
		return errResult(asmerr.New(asmerr.InvalidCommand, "invalid count %q", args[1]))
	}
	data, err := eng.MemoryRange(addr, count)
	if err != nil {
		return errResult(err)
	}
	var sb strings.Builder
	for _, b := range data {
		fmt.Fprintf(&sb, "%02x ", b)
	}
	return textResult(strings.TrimSpace(sb.String()))
}

func dispatchShowStack(eng *engine.Engine) Result {
	frames := eng.CallStackView()
	lines := make([]string, len(frames))
	for i, f := range frames {
		lines[i] = fmt.Sprintf("#%d %s (line %d)", i, f.Name, f.Line)
	}
	return textResult(lines...)
}

func dispatchBreak(args []string, eng *engine.Engine) Result {
	if len(args) != 1 {
		return errResult(asmerr.New(asmerr.InvalidCommand, "usage: break <line>"))
	}
	line, err := strconv.Atoi(args[0])
	if err != nil {
		return errResult(asmerr.New(asmerr.InvalidCommand, "invalid line %q", args[0]))
	}
	if err := eng.AddBreakpoint(line); err != nil {
		return errResult(err)
	}
	return textResult(fmt.Sprintf("breakpoint set at line %d", line))
}

func dispatchDelBreak(args []string, eng *engine.Engine) Result {
	if len(args) != 2 || args[0] != "break" {
		return errResult(asmerr.New(asmerr.InvalidCommand, "usage: del break <line>"))
	}
	line, err := strconv.Atoi(args[1])
	if err != nil {
		return errResult(asmerr.New(asmerr.InvalidCommand, "invalid line %q", args[1]))
	}
	if err := eng.DeleteBreakpoint(line); err != nil {
		return errResult(err)
	}
	return textResult(fmt.Sprintf("breakpoint removed at line %d", line))
}

func dispatchCacheSim(args []string, eng *engine.Engine) Result {
	if len(args) == 0 {
		return errResult(asmerr.New(asmerr.InvalidCommand, "usage: cache_sim <enable|disable|status|stats|invalidate|dump> ..."))
	}
	switch args[0] {
	case "enable":
		if len(args) != 2 {
			return errResult(asmerr.New(asmerr.InvalidCommand, "usage: cache_sim enable <config-file>"))
		}
		body, err := os.ReadFile(args[1])
		if err != nil {
			return errResult(asmerr.New(asmerr.CacheConfigInvalid, "reading %s: %v", args[1], err))
		}
		cfg, err := cache.ParseConfig(string(body))
		if err != nil {
			return errResult(err)
		}
		if err := eng.EnableCache(cfg); err != nil {
			return errResult(err)
		}
		return textResult("cache enabled")
	case "disable":
		if err := eng.DisableCache(); err != nil {
			return errResult(err)
		}
		return textResult("cache disabled")
	case "status":
		cfg, ok := eng.CacheStatus()
		if !ok {
			return textResult("cache disabled")
		}
		return textResult(fmt.Sprintf("size=%d block=%d assoc=%d replacement=%v write=%v",
			cfg.CacheSize, cfg.BlockSize, cfg.Associativity, cfg.Replacement, cfg.Write))
	case "stats":
		accesses, hits, misses, rate, ok := eng.CacheStats()
		if !ok {
			return textResult("cache disabled")
		}
		return textResult(fmt.Sprintf("accesses=%d hits=%d misses=%d rate=%.4f", accesses, hits, misses, rate))
	case "invalidate":
		if err := eng.CacheInvalidate(); err != nil {
			return errResult(err)
		}
		return textResult("cache invalidated")
	case "dump":
		if len(args) != 2 {
			return errResult(asmerr.New(asmerr.InvalidCommand, "usage: cache_sim dump <path>"))
		}
		if err := eng.CacheDump(args[1]); err != nil {
			return errResult(err)
		}
		return textResult(fmt.Sprintf("cache dumped to %s", args[1]))
	}
	return errResult(asmerr.New(asmerr.InvalidCommand, "unknown cache_sim subcommand %q", args[0]))
}

func parseAddr(tok string) (int64, error) {
	if strings.HasPrefix(tok, "0x") {
		v, err := strconv.ParseInt(tok[2:], 16, 64)
		if err != nil {
			return 0, asmerr.New(asmerr.InvalidCommand, "invalid address %q", tok)
		}
		return v, nil
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, asmerr.New(asmerr.InvalidCommand, "invalid address %q", tok)
	}
	return v, nil
}
