// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/scanchain/hwsim"

// Uint64 returns the pins as an uint64. Pin 0 is lsb.
//
func Uint64(c *hwsim.Circuit, pins []int) uint64 {
	var out uint64
	for bit := range pins {
		if c.Get(pins[bit]) {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// SetUint64 sets the pins to the given uint64 value.
//
func SetUint64(c *hwsim.Circuit, pins []int, v uint64) {
	for bit := range pins {
		c.Set(pins[bit], v&(1<<uint(bit)) != 0)
	}
}

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() bool) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: hwsim.Outputs{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pin := s.Pin(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					c.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named pin state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(bool)) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "Output",
		Inputs:  hwsim.Inputs{pIn},
		Outputs: nil,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Pin(pIn)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}
