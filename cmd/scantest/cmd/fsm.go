// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cmd

import (
	"github.com/db47h/scanchain/designs"
	"github.com/db47h/scanchain/internal/testbench"
	"github.com/spf13/cobra"
)

var fsmChain string

var fsmCmd = &cobra.Command{
	Use:   "fsm",
	Short: "Recover the tables of the hidden FSM",
	Long: `Force every value of cur_state through the scan chain, with data_avail
low and high, and print the resulting state transition and output tables.`,
	Args: cobra.NoArgs,
	RunE: runFSM,
}

func init() {
	rootCmd.AddCommand(fsmCmd)

	fsmCmd.Flags().StringVarP(&fsmChain, "chain", "c", "", "chain description file (default: built-in)")
}

func runFSM(cmd *cobra.Command, args []string) error {
	c, err := chainFile(fsmChain, designs.FSMChain)
	if err != nil {
		return err
	}
	b, err := designs.NewFSMBench(step)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	t, err := testbench.ExploreFSM(newDriver(cmd, b, c), b, out)
	if err != nil {
		return err
	}
	t.Print(out)
	logger(cmd).Printf("%v simulated", b.Now())
	return nil
}
