// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package designs provides the scan-testable designs exercised by the
// scantest command, together with their scan chain descriptions.
//
// Both designs clock their flip-flops through a short delay line so that
// inputs changed together with the clock are sampled with their new value.
//
package designs

import (
	"bytes"
	"embed"
	"fmt"
	"time"

	"github.com/db47h/scanchain"
	"github.com/db47h/scanchain/dut"
	"github.com/db47h/scanchain/hwlib"
	"github.com/db47h/scanchain/hwsim"
	"github.com/pkg/errors"
)

// clock insertion delay, in simulation steps. It must exceed the longest
// path from a design input to a ScanDFF data input, that is four gates plus
// the ScanDFF input mux.
const clockDelay = 6

// Chain description file names.
const (
	AdderChainFile = "chains/adder.log"
	FSMChainFile   = "chains/hidden_fsm.log"
)

//go:embed chains/*.log
var chains embed.FS

// ChainFile returns the contents of an embedded chain description file.
//
func ChainFile(name string) ([]byte, error) {
	return chains.ReadFile(name)
}

func loadChain(name string) (*scanchain.Chain, error) {
	b, err := ChainFile(name)
	if err != nil {
		return nil, err
	}
	c, err := scanchain.Parse(bytes.NewReader(b))
	return c, errors.Wrap(err, name)
}

// scanPath accumulates ScanDFF cells into a chain. The first cell is fed
// by the scan_in pin.
type scanPath struct {
	parts hwsim.Parts
	si    string
}

func newScanPath() *scanPath {
	return &scanPath{
		parts: hwsim.Parts{hwlib.Delay(clockDelay)("in=clk, out=clkd")},
		si:    "scan_in",
	}
}

// cell appends a scan cell loading d in functional mode and driving q.
func (p *scanPath) cell(d, q string) {
	p.parts = append(p.parts,
		hwlib.ScanDFF(fmt.Sprintf("d=%s, si=%s, se=scan_en, clk=clkd, q=%s", d, p.si, q)))
	p.si = q
}

// newBench wraps a design into a dut.Bench.
func newBench(chip func() (hwsim.NewPartFn, error), in, out string, step time.Duration) (*dut.Bench, error) {
	c, err := chip()
	if err != nil {
		return nil, err
	}
	return dut.New(c, hwsim.In(in), hwsim.Out(out), step)
}
