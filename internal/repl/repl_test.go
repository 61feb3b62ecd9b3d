package repl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lookbusy1344/riscv-sim/internal/engine"
	"github.com/lookbusy1344/riscv-sim/internal/repl"
)

func writeSource(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.s")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadRunRegs(t *testing.T) {
	path := writeSource(t, "addi x5, x0, 7\naddi x6, x0, 35\nadd x7, x5, x6\n")
	eng := engine.New()

	res := repl.Dispatch("load "+path, eng)
	if res.Error != nil {
		t.Fatalf("load: %v", res.Error)
	}

	res = repl.Dispatch("run", eng)
	if res.Error != nil {
		t.Fatalf("run: %v", res.Error)
	}

	res = repl.Dispatch("regs", eng)
	if res.Error != nil {
		t.Fatalf("regs: %v", res.Error)
	}
	joined := strings.Join(res.Lines, "\n")
	if !strings.Contains(joined, "x7  = 0x2a") {
		t.Errorf("regs output = %q, want x7  = 0x2a", joined)
	}
}

func TestBreakAndStep(t *testing.T) {
	path := writeSource(t, "addi x5, x0, 7\naddi x6, x0, 35\nadd x7, x5, x6\n")
	eng := engine.New()
	mustOK(t, repl.Dispatch("load "+path, eng))
	mustOK(t, repl.Dispatch("break 3", eng))
	mustOK(t, repl.Dispatch("run", eng))

	res := repl.Dispatch("regs", eng)
	joined := strings.Join(res.Lines, "\n")
	if !strings.Contains(joined, "x7  = 0x0") {
		t.Errorf("expected x7 untouched before breakpoint executes, got %q", joined)
	}

	mustOK(t, repl.Dispatch("step", eng))
	res = repl.Dispatch("regs", eng)
	joined = strings.Join(res.Lines, "\n")
	if !strings.Contains(joined, "x7  = 0x2a") {
		t.Errorf("expected x7  = 0x2a after stepping past the breakpoint, got %q", joined)
	}
}

func TestBreakRefusedBeforeLoad(t *testing.T) {
	eng := engine.New()
	res := repl.Dispatch("break 3", eng)
	if res.Error == nil {
		t.Error("expected break before load to fail")
	}
}

func TestUnknownCommand(t *testing.T) {
	eng := engine.New()
	res := repl.Dispatch("frobnicate", eng)
	if res.Error == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestExit(t *testing.T) {
	eng := engine.New()
	res := repl.Dispatch("exit", eng)
	if !res.Exit {
		t.Error("expected Exit = true")
	}
}

func mustOK(t *testing.T, res repl.Result) {
	t.Helper()
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}
}
