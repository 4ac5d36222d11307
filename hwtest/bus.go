// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"strconv"

	"github.com/db47h/scanchain/hwlib"
	"github.com/db47h/scanchain/hwsim"
)

func bus(name string, bits int) []string {
	b := make([]string, bits)
	for i := range b {
		b[i] = hwsim.BusPinName(name, i)
	}
	return b
}

// InputN creates an input bus of the given bits size driving out[bits]. The
// value returned by f is read on every circuit update.
//
func InputN(bits int, f func() uint64) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "INPUT" + strconv.Itoa(bits),
		Inputs:  nil,
		Outputs: bus("out", bits),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pins := s.Bus("out")
			return []hwsim.Component{func(c *hwsim.Circuit) {
				hwlib.SetUint64(c, pins, f())
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size reading in[bits].
//
func OutputN(bits int, f func(uint64)) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "OUTPUT" + strconv.Itoa(bits),
		Inputs:  bus("in", bits),
		Outputs: nil,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pins := s.Bus("in")
			return []hwsim.Component{func(c *hwsim.Circuit) {
				f(hwlib.Uint64(c, pins))
			}}
		}}).NewPart
}
