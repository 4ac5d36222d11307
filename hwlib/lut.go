// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/scanchain/hwsim"
)

// LUT returns a combinational lookup table with inBits address pins and
// outBits data pins. Addresses outside of table read as 0.
//
//	Inputs: in[inBits]
//	Outputs: out[outBits]
//	Function: out = table[in]
//
func LUT(name string, inBits, outBits int, table []uint64) hwsim.NewPartFn {
	t := make([]uint64, len(table))
	copy(t, table)
	return (&hwsim.PartSpec{
		Name:    name + "_LUT" + strconv.Itoa(inBits) + "x" + strconv.Itoa(outBits),
		Inputs:  bus(inBits, pIn),
		Outputs: bus(outBits, pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Bus(pIn), s.Bus(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					var v uint64
					if a := Uint64(c, in); a < uint64(len(t)) {
						v = t[a]
					}
					SetUint64(c, out, v)
				}}
		}}).NewPart
}
