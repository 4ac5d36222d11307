// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type chip struct {
	PartSpec       // PartSpec for this chip
	parts    Parts // sub parts, with resolved connections
}

func (c *chip) mount(s *Socket) []Component {
	var cs []Component

	for _, p := range c.parts {
		// make a sub-socket
		sub := newSocket(s.c)
		for _, cn := range p.Conns {
			sub.m[cn.PP] = s.PinOrNew(cn.CP)
		}
		// unconnected inputs are grounded. Unconnected outputs get a
		// private wire so that the part can still update them.
		for _, in := range p.Inputs {
			if _, ok := sub.m[in]; !ok {
				sub.m[in] = cstFalse
			}
		}
		for _, out := range p.Outputs {
			if _, ok := sub.m[out]; !ok {
				sub.m[out] = s.c.allocPin()
			}
		}
		cs = append(cs, p.Mount(sub)...)
	}
	return cs
}

// resolve checks p's connections against its pin names and expands bare bus
// names.
//
func (p Part) resolve() ([]Connection, error) {
	var out []Connection
	seen := make(map[string]bool, len(p.Conns))
	for _, c := range p.Conns {
		cs := []Connection{c}
		if !p.isInput(c.PP) && !p.isOutput(c.PP) {
			n := p.busWidth(c.PP)
			if n == 0 {
				return nil, errors.New("invalid pin name " + c.PP + " for part " + p.Name)
			}
			if strings.IndexByte(c.CP, '[') >= 0 {
				return nil, errors.New("bus " + p.Name + "." + c.PP + " connected to single pin " + c.CP)
			}
			cs = cs[:0]
			for i := 0; i < n; i++ {
				cs = append(cs, Connection{PP: BusPinName(c.PP, i), CP: BusPinName(c.CP, i)})
			}
		}
		for _, c := range cs {
			if seen[c.PP] {
				return nil, errors.New("pin " + p.Name + "." + c.PP + " connected more than once")
			}
			seen[c.PP] = true
			out = append(out, c)
		}
	}
	return out, nil
}

type wire struct {
	driver  string // part pin driving this wire
	input   bool   // chip input
	cst     bool   // true or false
	readers int
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip(
//		"XOR",
//		In("a, b"),
//		Out("out"),
//		Parts{
//			hwlib.Nand("a=a, b=b, out=nandAB"),
//			hwlib.Nand("a=a, b=nandAB, out=w0"),
//			hwlib.Nand("a=b, b=nandAB, out=w1"),
//			hwlib.Nand("a=w0, b=w1, out=out"),
//		})
//
// The returned value is a function of type NewPartFn that can be used to
// compose the new part with others into other chips:
//
//	xnor, err := Chip(
//		"XNOR",
//		In("a, b"),
//		Out("out"),
//		Parts{
//			xor("a=a, b=b, out=xorAB"),
//			hwlib.Not("in=xorAB, out=out"),
//		})
//
// Chip checks that every wire is driven by exactly one output (or chip input),
// that internal wires are read by at least one part and that every chip output
// is driven.
//
func Chip(name string, inputs Inputs, outputs Outputs, parts Parts) (NewPartFn, error) {
	wires := map[string]*wire{
		True:  {cst: true},
		False: {cst: true},
	}
	for _, in := range inputs {
		if wires[in] != nil {
			return nil, errors.New("duplicate input pin " + in)
		}
		wires[in] = &wire{input: true}
	}
	isOut := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		if wires[o] != nil || isOut[o] {
			return nil, errors.New("duplicate output pin " + o)
		}
		isOut[o] = true
	}

	// outputs first
	resolved := make(Parts, 0, len(parts))
	for _, p := range parts {
		conns, err := p.resolve()
		if err != nil {
			return nil, err
		}
		for _, c := range conns {
			if !p.isOutput(c.PP) {
				continue
			}
			pn := p.Name + "." + c.PP + ":" + c.CP
			w := wires[c.CP]
			switch {
			case w == nil:
				wires[c.CP] = &wire{driver: p.Name + "." + c.PP}
			case w.cst:
				return nil, errors.New(pn + ": output pin connected to constant " + c.CP + " input")
			case w.input:
				return nil, errors.New(pn + ": chip input pin used as output")
			default:
				return nil, errors.New(pn + ": output pin already used as output")
			}
		}
		resolved = append(resolved, Part{p.PartSpec, conns})
	}

	for _, p := range resolved {
		for _, c := range p.Conns {
			if p.isOutput(c.PP) {
				continue
			}
			w := wires[c.CP]
			if w == nil {
				return nil, errors.New("pin " + c.CP + " not connected to any output")
			}
			w.readers++
		}
	}

	for _, o := range outputs {
		if wires[o] == nil {
			return nil, errors.New("output pin " + o + " not connected to any part")
		}
	}
	names := make([]string, 0, len(wires))
	for n := range wires {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if w := wires[n]; w.driver != "" && w.readers == 0 && !isOut[n] {
			return nil, errors.New("pin " + n + " not connected to any input")
		}
	}

	c := &chip{
		PartSpec{
			Name:    name,
			Inputs:  inputs,
			Outputs: outputs,
		},
		resolved,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}
