// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set states.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Inputs: In("in"),
//		Outputs: Out("out"),
//		Mount: func (s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func (c *Circuit) { c.Set(out, !c.Get(in)) }
//			}
//		}}
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
// Every component returned by Mount must set all of the part's outputs on
// every simulation step.
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the In() function to expand an input description like
	// "a, b, bus[2]" to []string{"a", "b", "bus[0]", "bus[1]"}
	Inputs Inputs
	// Output pin names. Must be distinct pin names.
	Outputs Outputs

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed.
//
func (p *PartSpec) NewPart(connections string) Part {
	cs, err := ParseConnections(connections)
	if err != nil {
		panic(err)
	}
	return Part{p, cs}
}

func (p *PartSpec) isInput(name string) bool {
	for _, n := range p.Inputs {
		if n == name {
			return true
		}
	}
	return false
}

func (p *PartSpec) isOutput(name string) bool {
	for _, n := range p.Outputs {
		if n == name {
			return true
		}
	}
	return false
}

// busWidth returns the number of pins of bus name, 0 if there is no such bus.
//
func (p *PartSpec) busWidth(name string) int {
	n := 0
	for {
		pn := BusPinName(name, n)
		if !p.isInput(pn) && !p.isOutput(pn) {
			return n
		}
		n++
	}
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a host
// chip.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part

// Circuit is a runnable circuit simulation.
//
type Circuit struct {
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	count int // wire count
	steps uint64
}

// NewCircuit builds a new circuit based on the given parts.
//
// Components are updated sequentially, in the order they were mounted. Since
// components read from one frame and write to the other, that order has no
// effect on the simulation.
//
func NewCircuit(parts Parts) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	wrap, err := Chip("CIRCUIT", nil, nil, parts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chip wrapper")
	}
	// new circuit with room for constant value pins.
	c := &Circuit{count: cstCount}
	c.cs = wrap("").Mount(newSocket(c))
	c.s0 = make([]bool, c.count)
	c.s1 = make([]bool, c.count)
	// constant pins are never written by components.
	c.s0[cstTrue] = true
	c.s1[cstTrue] = true
	return c, nil
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint64 {
	return c.steps
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
// The new state will be visible to Get after the current step completes.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	for _, f := range c.cs {
		f(c)
	}
	c.steps++
	c.s0, c.s1 = c.s1, c.s0
}

// Run advances the simulation by n steps.
//
func (c *Circuit) Run(n int) {
	for ; n > 0; n-- {
		c.Step()
	}
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
