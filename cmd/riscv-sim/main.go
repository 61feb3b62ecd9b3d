// Command riscv-sim is the line-oriented REPL entry point described by
// spec.md §6: parse flags, wire up config/logging, then hand off to the
// command dispatcher. Grounded on the teacher's main.go mode-selection
// shape, adapted to github.com/spf13/cobra (see ajroetker-goat/main.go)
// because the command surface here is a persistent REPL, not a one-shot
// flag parse.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/lookbusy1344/riscv-sim/internal/config"
	"github.com/lookbusy1344/riscv-sim/internal/engine"
	"github.com/lookbusy1344/riscv-sim/internal/repl"
	"github.com/spf13/cobra"
)

func main() {
	var configPath, loadPath, logPath string

	root := &cobra.Command{
		Use:   "riscv-sim",
		Short: "Interactive RV64I simulator with a configurable data cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, loadPath, logPath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a TOML simulator config file")
	root.Flags().StringVar(&loadPath, "load", "", "assembly source file to load before the REPL starts")
	root.Flags().StringVar(&logPath, "log-file", "", "write diagnostics to this file instead of stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, loadPath, logPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog, err := newLogger(logPath, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	eng := engine.New()
	eng.MaxSteps = cfg.Execution.MaxSteps

	if loadPath != "" {
		res := repl.Dispatch("load "+loadPath, eng)
		reportResult(logger, res)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		res := repl.Dispatch(scanner.Text(), eng)
		reportResult(logger, res)
		if res.Exit {
			os.Exit(0)
		}
	}
	return scanner.Err()
}

func newLogger(logPath string, cfg config.Config) (*log.Logger, func(), error) {
	prefix := "riscv-sim: "
	if cfg.Log.Level == "debug" {
		prefix = "riscv-sim[debug]: "
	}
	if logPath == "" {
		return log.New(os.Stderr, prefix, log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return log.New(f, prefix, log.LstdFlags), func() { f.Close() }, nil
}

func reportResult(logger *log.Logger, res repl.Result) {
	for _, line := range res.Lines {
		fmt.Println(line)
	}
	if res.Error != nil {
		logger.Println(res.Error)
	}
}
