// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dut runs hwsim chips as devices under test for a scanchain.Driver.
//
package dut

import (
	"time"

	"github.com/db47h/scanchain"
	"github.com/db47h/scanchain/hwlib"
	"github.com/db47h/scanchain/hwsim"
	"github.com/pkg/errors"
)

// DefaultStep is the simulated duration of one circuit step.
//
const DefaultStep = time.Nanosecond

// A Bench wraps a chip into a circuit with named input and output signals.
// Inputs are driven by the bench and reach the chip one step after being set.
// Outputs are sampled every step.
//
// Bench implements scanchain.DUT.
//
type Bench struct {
	c       *hwsim.Circuit
	step    time.Duration
	now     time.Duration
	inputs  map[string]bool
	outputs map[string]bool
}

var _ scanchain.DUT = (*Bench)(nil)

// New mounts chip in a new Bench. inputs and outputs are the chip pins exposed
// as signals; they are connected to wires of the same name. step is the
// simulated duration of one circuit step. If step is 0, DefaultStep is used.
//
func New(chip hwsim.NewPartFn, inputs []string, outputs []string, step time.Duration) (*Bench, error) {
	if step < 0 {
		return nil, errors.Errorf("invalid step duration %v", step)
	}
	if step == 0 {
		step = DefaultStep
	}
	b := &Bench{
		step:    step,
		inputs:  make(map[string]bool, len(inputs)),
		outputs: make(map[string]bool, len(outputs)),
	}

	var (
		parts hwsim.Parts
		conns string
	)
	add := func(n string) {
		if conns != "" {
			conns += ","
		}
		conns += n + "=" + n
	}
	for _, n := range inputs {
		if _, ok := b.inputs[n]; ok {
			return nil, errors.Errorf("duplicate signal %s", n)
		}
		b.inputs[n] = false
		name := n
		p, err := newPart(hwlib.Input(func() bool { return b.inputs[name] }), "out="+n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
		add(n)
	}
	for _, n := range outputs {
		if _, ok := b.inputs[n]; ok {
			return nil, errors.Errorf("duplicate signal %s", n)
		}
		if _, ok := b.outputs[n]; ok {
			return nil, errors.Errorf("duplicate signal %s", n)
		}
		b.outputs[n] = false
		name := n
		p, err := newPart(hwlib.Output(func(v bool) { b.outputs[name] = v }), "in="+n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
		add(n)
	}

	p, err := newPart(chip, conns)
	if err != nil {
		return nil, err
	}
	c, err := hwsim.NewCircuit(append(parts, p))
	if err != nil {
		return nil, errors.Wrap(err, "create bench")
	}
	b.c = c
	return b, nil
}

// newPart calls fn, converting panics on bad connection strings to errors.
//
func newPart(fn hwsim.NewPartFn, conns string) (p hwsim.Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "invalid signal name")
				return
			}
			panic(r)
		}
	}()
	return fn(conns), nil
}

// SetSignal sets the value of the named input signal.
//
func (b *Bench) SetSignal(name string, value bool) error {
	if _, ok := b.inputs[name]; !ok {
		if _, ok = b.outputs[name]; ok {
			return errors.Errorf("%s is an output signal", name)
		}
		return errors.Wrap(scanchain.ErrUnknownSignal, name)
	}
	b.inputs[name] = value
	return nil
}

// Signal returns the value of the named input or output signal.
//
func (b *Bench) Signal(name string) (bool, error) {
	if v, ok := b.outputs[name]; ok {
		return v, nil
	}
	if v, ok := b.inputs[name]; ok {
		return v, nil
	}
	return false, errors.Wrap(scanchain.ErrUnknownSignal, name)
}

// AdvanceTime runs the circuit for d. d must be a multiple of the bench step.
//
func (b *Bench) AdvanceTime(d time.Duration) error {
	if d < 0 || d%b.step != 0 {
		return errors.Errorf("cannot advance time by %v with a %v step", d, b.step)
	}
	b.c.Run(int(d / b.step))
	b.now += d
	return nil
}

// Now returns the elapsed simulated time.
//
func (b *Bench) Now() time.Duration { return b.now }

// Circuit returns the underlying circuit.
//
func (b *Bench) Circuit() *hwsim.Circuit { return b.c }
