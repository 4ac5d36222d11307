// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for hwsim.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/scanchain/hwsim"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
	pClk = "clk"
)

// make a bus name
func bus(bits int, names ...string) []string {
	b := make([]string, len(names)*bits)
	for i, n := range names {
		for j := 0; j < bits; j++ {
			b[i*bits+j] = hwsim.BusPinName(n, j)
		}
	}
	return b
}

var notGate = &hwsim.PartSpec{
	Name:    "NOT",
	Inputs:  hwsim.Inputs{pIn},
	Outputs: hwsim.Outputs{pOut},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		return []hwsim.Component{
			func(c *hwsim.Circuit) { c.Set(out, !c.Get(in)) },
		}
	},
}

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(w string) hwsim.Part {
	return notGate.NewPart(w)
}

// other gates
type gate func(a, b bool) bool

func (g gate) mount(s *hwsim.Socket) []hwsim.Component {
	a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
	return []hwsim.Component{
		func(c *hwsim.Circuit) { c.Set(out, g(c.Get(a), c.Get(b))) },
	}
}

func newGate(name string, fn func(a, b bool) bool) *hwsim.PartSpec {
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  gateIn,
		Outputs: gateOut,
		Mount:   gate(fn).mount,
	}
}

var (
	gateIn  = hwsim.Inputs{pA, pB}
	gateOut = hwsim.Outputs{pOut}

	and  = newGate("AND", func(a, b bool) bool { return a && b })
	nand = newGate("NAND", func(a, b bool) bool { return !(a && b) })
	or   = newGate("OR", func(a, b bool) bool { return a || b })
	nor  = newGate("NOR", func(a, b bool) bool { return !(a || b) })
	xor  = newGate("XOR", func(a, b bool) bool { return a != b })
)

// And returns a AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
//
func And(w string) hwsim.Part { return and.NewPart(w) }

// Nand returns a NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
//
func Nand(w string) hwsim.Part { return nand.NewPart(w) }

// Or returns a OR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
func Or(w string) hwsim.Part { return or.NewPart(w) }

// Nor returns a NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
//
func Nor(w string) hwsim.Part { return nor.NewPart(w) }

// Xor returns a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = (a && !b) || (!a && b)
//
func Xor(w string) hwsim.Part { return xor.NewPart(w) }

// AndNWay returns a N-Way AND gate.
//
//	Inputs: in[n]
//	Outputs: out
//	Function: out = in[0] && in[1] && ... && in[n-1]
//
func AndNWay(ways int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "AND" + strconv.Itoa(ways) + "Way",
		Inputs:  bus(ways, pIn),
		Outputs: hwsim.Outputs{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Bus(pIn)
			out := s.Pin(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					for _, i := range in {
						if !c.Get(i) {
							c.Set(out, false)
							return
						}
					}
					c.Set(out, true)
				}}
		}}).NewPart
}
