// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package testbench

import (
	"fmt"
	"io"

	"github.com/db47h/scanchain"
	"github.com/pkg/errors"
)

// FSM register and signal names.
const (
	RegState      = "cur_state"
	SigDataAvail  = "data_avail"
	SigBufEn      = "buf_en"
	SigOutSel     = "out_sel"
	SigOutWriting = "out_writing"
)

// FSMOutputs are the Moore outputs of the FSM in a given state.
//
type FSMOutputs struct {
	BufEn, OutSel, OutWriting bool
}

// FSMTables holds the state transition and output tables recovered from the
// FSM. Next[s][0] and Next[s][1] are the states following s with data_avail
// low and high.
//
type FSMTables struct {
	Next    [][2]uint64
	Outputs []FSMOutputs
}

// Signals is the subset of scanchain.DUT used to drive and sample the
// functional pins of a design.
//
type Signals interface {
	SetSignal(name string, value bool) error
	Signal(name string) (bool, error)
}

func (o *FSMOutputs) sample(s Signals) error {
	for _, p := range []struct {
		n string
		v *bool
	}{
		{SigBufEn, &o.BufEn},
		{SigOutSel, &o.OutSel},
		{SigOutWriting, &o.OutWriting},
	} {
		v, err := s.Signal(p.n)
		if err != nil {
			return errors.Wrapf(err, "sample %s", p.n)
		}
		*p.v = v
	}
	return nil
}

// Step puts the FSM in the given state, samples its outputs, then runs one
// functional clock cycle with data_avail driven as given and returns the new
// state.
//
// The outputs are those of the loaded state, sampled before the clock pulse.
// Sampling after the pulse would report the outputs of the next state
// instead, so the output tables printed by ExploreFSM list, for each state,
// the outputs the FSM drives while in that state.
//
func Step(d *scanchain.Driver, s Signals, state uint64, dataAvail bool) (uint64, FSMOutputs, error) {
	var o FSMOutputs
	if err := d.Load(map[string]uint64{RegState: state}); err != nil {
		return 0, o, errors.Wrapf(err, "load state %d", state)
	}
	if err := s.SetSignal(SigDataAvail, dataAvail); err != nil {
		return 0, o, errors.Wrapf(err, "set %s", SigDataAvail)
	}
	if err := o.sample(s); err != nil {
		return 0, o, err
	}
	if err := d.Capture(); err != nil {
		return 0, o, err
	}
	next, err := d.Read(RegState)
	return next, o, err
}

// ExploreFSM walks every state of the state register with data_avail low and
// high. Progress is written to w.
//
func ExploreFSM(d *scanchain.Driver, s Signals, w io.Writer) (*FSMTables, error) {
	r, err := d.Chain().Register(RegState)
	if err != nil {
		return nil, err
	}
	if r.Size >= 16 {
		return nil, errors.Errorf("%s: %d bits state register too large to explore", RegState, r.Size)
	}
	if err = d.Reset(); err != nil {
		return nil, err
	}
	n := 1 << uint(r.Size)
	t := &FSMTables{
		Next:    make([][2]uint64, n),
		Outputs: make([]FSMOutputs, n),
	}
	for state := 0; state < n; state++ {
		for da := 0; da < 2; da++ {
			next, o, err := Step(d, s, uint64(state), da == 1)
			if err != nil {
				return nil, errors.Wrapf(err, "state %d, %s %d", state, SigDataAvail, da)
			}
			t.Next[state][da] = next
			t.Outputs[state] = o
			fmt.Fprintf(w, "State: %d (%s), %s: %d\n", state, bitString(uint64(state), r.Size), SigDataAvail, da)
			fmt.Fprintf(w, "  Outputs: %s=%d, %s=%d, %s=%d\n",
				SigBufEn, b2i(o.BufEn), SigOutSel, b2i(o.OutSel), SigOutWriting, b2i(o.OutWriting))
			fmt.Fprintf(w, "  Next state: %d\n", next)
		}
	}
	return t, nil
}

// Print writes the transition and output tables to w.
//
func (t *FSMTables) Print(w io.Writer) {
	fmt.Fprintln(w, "\nState Transition Table:")
	fmt.Fprintln(w, "Current State | data_avail=0 | data_avail=1")
	fmt.Fprintln(w, "------------------------------------------")
	for s, n := range t.Next {
		fmt.Fprintf(w, "     %d      |      %d      |      %d\n", s, n[0], n[1])
	}
	fmt.Fprintln(w, "\nState Output Table:")
	fmt.Fprintln(w, "State | buf_en | out_sel | out_writing")
	fmt.Fprintln(w, "------------------------------------")
	for s, o := range t.Outputs {
		fmt.Fprintf(w, "  %d  |   %d   |    %d    |     %d\n", s, b2i(o.BufEn), b2i(o.OutSel), b2i(o.OutWriting))
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func bitString(v uint64, n int) string {
	var s []byte
	for _, b := range scanchain.Encode(v, n) {
		s = append(s, byte('0'+b2i(b)))
	}
	return string(s)
}
