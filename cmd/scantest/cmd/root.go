// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cmd

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/db47h/scanchain"
	"github.com/db47h/scanchain/dut"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	settle  time.Duration
	step    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "scantest",
	Short: "Scan chain test driver for simulated designs",
	Long: `Drive the scan chain of a simulated design: load register values through
scan_in, run functional clock cycles and read the results back from scan_out.

Examples:
  scantest chain chains/adder.log     # Print a chain description
  scantest adder                      # Run the adder test cases
  scantest fsm -v                     # Recover the hidden FSM tables`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.New(os.Stderr, "", 0).Print(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace scan operations")
	rootCmd.PersistentFlags().DurationVar(&settle, "settle", 10*time.Nanosecond, "settle time of each clock phase")
	rootCmd.PersistentFlags().DurationVar(&step, "step", dut.DefaultStep, "simulated duration of a circuit step")
}

// logger returns the trace logger for the current command.
func logger(cmd *cobra.Command) *log.Logger {
	var w io.Writer = io.Discard
	if verbose {
		w = cmd.ErrOrStderr()
	}
	return log.New(w, cmd.Name()+": ", 0)
}

// chainFile returns the chain at path or, if path is empty, calls def.
func chainFile(path string, def func() (*scanchain.Chain, error)) (*scanchain.Chain, error) {
	var (
		c   *scanchain.Chain
		err error
	)
	if path == "" {
		c, err = def()
	} else {
		c, err = scanchain.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return c, errors.Wrap(c.Validate(), "invalid chain")
}

func newDriver(cmd *cobra.Command, d scanchain.DUT, c *scanchain.Chain) *scanchain.Driver {
	cfg := scanchain.DefaultConfig()
	cfg.Settle = settle
	l := logger(cmd)
	if verbose {
		cfg.Log = l
	}
	l.Printf("chain: %d flip-flops, %d registers; settle %v, step %v", c.Length, len(c.Names()), settle, step)
	return scanchain.NewDriver(d, c, cfg)
}
