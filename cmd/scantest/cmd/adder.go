// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cmd

import (
	"github.com/db47h/scanchain/designs"
	"github.com/db47h/scanchain/internal/testbench"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var adderChain string

var adderCmd = &cobra.Command{
	Use:   "adder",
	Short: "Test the scan adder",
	Long: `Load operands into a_reg and b_reg through the scan chain, run one
functional clock cycle and check the sum read back from x_out.`,
	Args: cobra.NoArgs,
	RunE: runAdder,
}

func init() {
	rootCmd.AddCommand(adderCmd)

	adderCmd.Flags().StringVarP(&adderChain, "chain", "c", "", "chain description file (default: built-in)")
}

func runAdder(cmd *cobra.Command, args []string) error {
	c, err := chainFile(adderChain, designs.AdderChain)
	if err != nil {
		return err
	}
	b, err := designs.NewAdderBench(step)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	c.Print(out)

	rs, err := testbench.RunAdder(newDriver(cmd, b, c), testbench.AdderCases, out)
	if err != nil {
		return err
	}
	logger(cmd).Printf("%d test cases, %v simulated", len(rs), b.Now())
	if n := testbench.Failed(rs); n > 0 {
		return errors.Errorf("%d of %d test cases failed", n, len(rs))
	}
	return nil
}
