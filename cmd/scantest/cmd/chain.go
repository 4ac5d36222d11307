// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cmd

import (
	"bytes"
	"fmt"

	"github.com/db47h/scanchain"
	"github.com/db47h/scanchain/designs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain [file]",
	Short: "Print a scan chain description",
	Long: `Load a chain description file and print its registers with their chain
positions.

Each line of the file reads "<chain_index> <register_name> <bit_position>".
Without a file argument, the built-in chains of the adder and FSM designs are
printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChain,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func runChain(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		c, err := scanchain.Load(args[0])
		if err != nil {
			return err
		}
		printChain(cmd, args[0], c)
		return nil
	}
	for _, f := range []string{designs.AdderChainFile, designs.FSMChainFile} {
		b, err := designs.ChainFile(f)
		if err != nil {
			return err
		}
		c, err := scanchain.Parse(bytes.NewReader(b))
		if err != nil {
			return errors.Wrap(err, f)
		}
		printChain(cmd, f, c)
	}
	return nil
}

func printChain(cmd *cobra.Command, name string, c *scanchain.Chain) {
	if err := c.Validate(); err != nil {
		logger(cmd).Printf("warning: %s: %v", name, err)
	}
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", name)
	}
	c.Print(cmd.OutOrStdout())
}
