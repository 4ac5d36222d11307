// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/scanchain/hwsim"
)

// edge tracks the state of a clock pin between simulation steps.
type edge bool

// rising reports whether clk went from low to high since the last call.
func (e *edge) rising(clk bool) bool {
	r := clk && !bool(*e)
	*e = edge(clk)
	return r
}

var dff = &hwsim.PartSpec{
	Name:    "DFF",
	Inputs:  hwsim.Inputs{pIn, pClk},
	Outputs: hwsim.Outputs{pOut},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		in, clk, out := s.Pin(pIn), s.Pin(pClk), s.Pin(pOut)
		var (
			e edge
			q bool
		)
		return []hwsim.Component{
			func(c *hwsim.Circuit) {
				if e.rising(c.Get(clk)) {
					q = c.Get(in)
				}
				c.Set(out, q)
			}}
	}}

// DFF returns a data flip flop triggered by the rising edge of clk.
//
//	Inputs: in, clk
//	Outputs: out
//	Function: on clk rising: out = in
//
func DFF(w string) hwsim.Part { return dff.NewPart(w) }

// scanDFF muxes the scan input in front of a DFF.
var scanDFF = mustChip(hwsim.Chip("ScanDFF", hwsim.In("d, si, se, clk"), hwsim.Out("q"), hwsim.Parts{
	Mux("a=d, b=si, sel=se, out=dsel"),
	DFF("in=dsel, clk=clk, out=q"),
}))

func mustChip(fn hwsim.NewPartFn, err error) hwsim.NewPartFn {
	if err != nil {
		panic(err)
	}
	return fn
}

// ScanDFF returns a mux-scan flip flop: a DFF whose input is selected by the
// scan enable pin se. Chaining the q output of a ScanDFF to the si input of
// the next one builds a scan chain.
//
// The input Mux adds one step of delay in front of the DFF: d, si and se must
// be stable one step before the clock edge reaches clk.
//
//	Inputs: d, si, se, clk
//	Outputs: q
//	Function: on clk rising: if se { q = si } else { q = d }
//
func ScanDFF(w string) hwsim.Part { return scanDFF(w) }

// Delay returns a buffer that delays its input by the given number of
// simulation steps. A single step delay is the propagation delay of any basic
// gate.
//
// Delay is mostly useful as a clock insertion delay: clocking flip-flops
// through a Delay gives their data inputs time to settle when data and clock
// change together.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-steps)
//
func Delay(steps int) hwsim.NewPartFn {
	if steps < 1 {
		panic("invalid delay " + strconv.Itoa(steps))
	}
	return (&hwsim.PartSpec{
		Name:    "Delay" + strconv.Itoa(steps),
		Inputs:  hwsim.Inputs{pIn},
		Outputs: hwsim.Outputs{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			// the frame swap accounts for one step of delay.
			line := make([]bool, steps-1)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if len(line) == 0 {
						c.Set(out, c.Get(in))
						return
					}
					c.Set(out, line[len(line)-1])
					copy(line[1:], line)
					line[0] = c.Get(in)
				}}
		}}).NewPart
}
