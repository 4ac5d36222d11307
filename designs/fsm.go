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

// Hidden FSM signals.
const (
	FSMInputs  = "clk, scan_en, scan_in, data_avail"
	FSMOutputs = "scan_out, buf_en, out_sel, out_writing"
)

// FSMStates is the number of encodable states of the HiddenFSM.
const FSMStates = 8

// next state, indexed by state then data_avail.
var fsmNext = [FSMStates][2]uint64{
	{0, 1},
	{2, 2},
	{2, 3},
	{4, 4},
	{5, 5},
	{0, 1},
	{0, 0},
	{0, 0},
}

// Moore outputs: bit 0 is buf_en, bit 1 out_sel and bit 2 out_writing.
var fsmOut = [FSMStates]uint64{0, 1, 0, 3, 4, 6, 0, 0}

// HiddenFSMNext returns the state the HiddenFSM moves to from state on a
// functional clock edge.
//
func HiddenFSMNext(state uint64, dataAvail bool) uint64 {
	if state >= FSMStates {
		return 0
	}
	if dataAvail {
		return fsmNext[state][1]
	}
	return fsmNext[state][0]
}

// HiddenFSMOutputs returns the buf_en, out_sel and out_writing outputs of the
// HiddenFSM in the given state.
//
func HiddenFSMOutputs(state uint64) (bufEn, outSel, outWriting bool) {
	if state >= FSMStates {
		return false, false, false
	}
	o := fsmOut[state]
	return o&1 != 0, o&2 != 0, o&4 != 0
}

// HiddenFSM returns a Moore state machine with a 3 bits state register
// cur_state whose state transitions are only observable through the scan
// chain.
//
//	Inputs: clk, scan_en, scan_in, data_avail
//	Outputs: scan_out, buf_en, out_sel, out_writing
//	Registers: cur_state[3]
//	Function: on clk rising, if !scan_en { cur_state = next(cur_state, data_avail) }
//
// The chain runs from scan_in through cur_state, lsb first, to scan_out.
//
func HiddenFSM() (hwsim.NewPartFn, error) {
	p := newScanPath()
	// next state logic, with s = s[0], s[1], scan_out and d = data_avail:
	//	ns[0] = !s2 & !s0 & d | s2 & !s1 & (!s0 | d)
	//	ns[1] = !s2 & (s0 ^ s1)
	//	ns[2] = !s2 & s1 & s0 | s2 & !s1 & !s0
	p.parts = append(p.parts,
		hwlib.Not("in=s[1], out=s1n"),
		hwlib.Not("in=scan_out, out=s2n"),
		hwlib.Not("in=data_avail, out=nd"),

		hwlib.Nor("a=scan_out, b=s[0], out=z02"),
		hwlib.And("a=z02, b=data_avail, out=t0"),
		hwlib.Nand("a=s[0], b=nd, out=h"),
		hwlib.AndNWay(3)("in[0]=scan_out, in[1]=s1n, in[2]=h, out=t1"),
		hwlib.Or("a=t0, b=t1, out=ns[0]"),

		hwlib.Xor("a=s[0], b=s[1], out=x01"),
		hwlib.And("a=s2n, b=x01, out=ns[1]"),

		hwlib.AndNWay(3)("in[0]=s2n, in[1..2]=s[0..1], out=u0"),
		hwlib.Nor("a=s[0], b=s[1], out=z01"),
		hwlib.And("a=scan_out, b=z01, out=u1"),
		hwlib.Or("a=u0, b=u1, out=ns[2]"),

		hwlib.LUT("FSMOut", 3, 3, fsmOut[:])("in[0..1]=s[0..1], in[2]=scan_out, out[0]=buf_en, out[1]=out_sel, out[2]=out_writing"),
	)
	p.cell("ns[0]", "s[0]")
	p.cell("ns[1]", "s[1]")
	p.cell("ns[2]", "scan_out")

	return hwsim.Chip("HiddenFSM", hwsim.In(FSMInputs), hwsim.Out(FSMOutputs), p.parts)
}

// NewFSMBench returns a bench running a HiddenFSM. See dut.New for the step
// argument.
//
func NewFSMBench(step time.Duration) (*dut.Bench, error) {
	return newBench(HiddenFSM, FSMInputs, FSMOutputs, step)
}

// FSMChain returns the scan chain of the HiddenFSM.
//
func FSMChain() (*scanchain.Chain, error) {
	return loadChain(FSMChainFile)
}
