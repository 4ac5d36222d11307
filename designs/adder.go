// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package designs

import (
	"time"

	"github.com/db47h/scanchain"
	"github.com/db47h/scanchain/dut"
	"github.com/db47h/scanchain/hwlib"
	"github.com/db47h/scanchain/hwsim"
)

// Scan adder signals.
const (
	AdderInputs  = "clk, scan_en, scan_in"
	AdderOutputs = "scan_out"
)

// ScanAdder returns a 4 bits adder whose operand and result registers are only
// reachable through the scan chain.
//
//	Inputs: clk, scan_en, scan_in
//	Outputs: scan_out
//	Registers: a_reg[4], b_reg[4], x_out[5]
//	Function: on clk rising, if !scan_en { x_out = a_reg + b_reg }
//
// a_reg and b_reg hold their value in functional mode. The chain runs from
// scan_in through a_reg, b_reg and x_out, lsb first, to scan_out.
//
func ScanAdder() (hwsim.NewPartFn, error) {
	p := newScanPath()
	// ripple carry adder
	p.parts = append(p.parts,
		hwlib.HalfAdder("a=a[0], b=b[0], s=sum[0], c=c0"),
		hwlib.FullAdder("a=a[1], b=b[1], cin=c0, s=sum[1], cout=c1"),
		hwlib.FullAdder("a=a[2], b=b[2], cin=c1, s=sum[2], cout=c2"),
		hwlib.FullAdder("a=a[3], b=b[3], cin=c2, s=sum[3], cout=sum[4]"),
	)
	for _, r := range []string{"a", "b"} {
		for i := 0; i < 4; i++ {
			q := hwsim.BusPinName(r, i)
			p.cell(q, q)
		}
	}
	for i := 0; i < 4; i++ {
		p.cell(hwsim.BusPinName("sum", i), hwsim.BusPinName("x", i))
	}
	p.cell("sum[4]", "scan_out")

	return hwsim.Chip("ScanAdder", hwsim.In(AdderInputs), hwsim.Out(AdderOutputs), p.parts)
}

// NewAdderBench returns a bench running a ScanAdder. See dut.New for the step
// argument.
//
func NewAdderBench(step time.Duration) (*dut.Bench, error) {
	return newBench(ScanAdder, AdderInputs, AdderOutputs, step)
}

// AdderChain returns the scan chain of the ScanAdder.
//
func AdderChain() (*scanchain.Chain, error) {
	return loadChain(AdderChainFile)
}
