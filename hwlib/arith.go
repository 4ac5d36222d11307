// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/scanchain/hwsim"

var hAdder = &hwsim.PartSpec{
	Name:    "HalfAdder",
	Inputs:  hwsim.Inputs{pA, pB},
	Outputs: hwsim.Outputs{"s", "c"},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		a, b := s.Pin(pA), s.Pin(pB)
		sum, cout := s.Pin("s"), s.Pin("c")
		return []hwsim.Component{
			func(c *hwsim.Circuit) {
				va, vb := c.Get(a), c.Get(b)
				c.Set(sum, va != vb)
				c.Set(cout, va && vb)
			}}
	}}

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder(c string) hwsim.Part {
	return hAdder.NewPart(c)
}

var adder = &hwsim.PartSpec{
	Name:    "FullAdder",
	Inputs:  hwsim.Inputs{pA, pB, "cin"},
	Outputs: hwsim.Outputs{"s", "cout"},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		a, b, cin := s.Pin(pA), s.Pin(pB), s.Pin("cin")
		sum, cout := s.Pin("s"), s.Pin("cout")
		return []hwsim.Component{
			func(c *hwsim.Circuit) {
				va, vb, vc := c.Get(a), c.Get(b), c.Get(cin)
				s := va != vb
				c.Set(sum, s != vc)
				c.Set(cout, s && vc || va && vb)
			}}
	}}

// FullAdder returns a 3 bit adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder(c string) hwsim.Part {
	return adder.NewPart(c)
}
