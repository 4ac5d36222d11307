// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package scanchain drives a clocked circuit through its scan chain.

A scan chain links the flip-flops of a circuit end to end into a single shift
register. When the scan enable signal is asserted, every clock pulse shifts the
chain by one position: the serial input enters the first flip-flop and the last
flip-flop drives the serial output.

A chain description file maps every flip-flop in the chain to a bit of a named
register:

	0 a_reg 0
	1 a_reg 1
	4 b_reg 0
	...

Load parses such a file into a Chain. A Driver then uses the Chain to shift
register values in and out of a device under test through the DUT interface:

	chain, err := scanchain.Load("adder.log")
	...
	d := scanchain.NewDriver(dut, chain, scanchain.DefaultConfig())
	d.Load(map[string]uint64{"a_reg": 2, "b_reg": 5})
	d.Capture()
	sum, err := d.Read("x_out")

Subpackage hwsim provides a simple circuit simulator, and subpackage dut
adapts hwsim circuits to the DUT interface.
*/
package scanchain
