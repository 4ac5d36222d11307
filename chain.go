// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scanchain

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ErrUnknownRegister is returned when looking up a register that is not part
// of a chain.
//
var ErrUnknownRegister = errors.New("unknown register")

// A Register describes how the bits of a named register of the design map
// into the scan chain.
//
type Register struct {
	Name    string // name of the register, as in the description file
	Size    int    // number of bits in the register
	Indices []int  // chain position of each register bit, lsb first
	First   int    // chain position of the lsb
	Last    int    // chain position of the msb

	// Bits is scratch space where callers stage the register contents, lsb
	// first. See Set and Chain.Vector.
	Bits []bool
}

// Set stages value v into r.Bits.
//
func (r *Register) Set(v uint64) error {
	if r.Size < 64 && v>>uint(r.Size) != 0 {
		return errors.Errorf("value %d does not fit in %d bits register %s", v, r.Size, r.Name)
	}
	for i := range r.Bits {
		r.Bits[i] = v&(1<<uint(i)) != 0
	}
	return nil
}

// Value returns the integer value of r.Bits.
//
func (r *Register) Value() uint64 {
	var v uint64
	for i, b := range r.Bits {
		if b {
			v |= 1 << uint(i)
		}
	}
	return v
}

// Reset clears r.Bits.
//
func (r *Register) Reset() {
	for i := range r.Bits {
		r.Bits[i] = false
	}
}

// Extract returns the value of r in the full chain vector vec, where vec[i]
// is the state of the flip-flop at chain position i.
//
func (r *Register) Extract(vec []bool) (uint64, error) {
	var v uint64
	for i, idx := range r.Indices {
		if idx < 0 || idx >= len(vec) {
			return 0, errors.Errorf("register %s: chain position %d out of range", r.Name, idx)
		}
		if vec[idx] {
			v |= 1 << uint(i)
		}
	}
	return v, nil
}

// Print prints r to w.
//
func (r *Register) Print(w io.Writer) {
	bits := make([]int, len(r.Bits))
	for i, b := range r.Bits {
		if b {
			bits[i] = 1
		}
	}
	fmt.Fprintln(w, "------------------")
	fmt.Fprintf(w, "NAME:    %s\n", r.Name)
	fmt.Fprintf(w, "BITS:    %v\n", bits)
	fmt.Fprintf(w, "INDICES: %v\n", r.Indices)
	fmt.Fprintln(w, "------------------")
}

// A Chain maps register names to their position in a scan chain.
//
type Chain struct {
	Registers map[string]*Register
	Length    int // number of flip-flops in the chain

	names []string
}

// Names returns the register names in the order they first appear in the
// description file.
//
func (c *Chain) Names() []string {
	return append([]string(nil), c.names...)
}

// Register returns the register with the given name.
//
func (c *Chain) Register(name string) (*Register, error) {
	r, ok := c.Registers[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownRegister, name)
	}
	return r, nil
}

// Reset clears the Bits of all registers.
//
func (c *Chain) Reset() {
	for _, r := range c.Registers {
		r.Reset()
	}
}

// Vector builds a full chain vector from the Bits of every register. The
// returned vector has Length entries; entry i is the value destined to the
// flip-flop at chain position i. A register whose Bits length does not match
// its Size is an error.
//
func (c *Chain) Vector() ([]bool, error) {
	vec := make([]bool, c.Length)
	for _, n := range c.names {
		r := c.Registers[n]
		if len(r.Bits) != r.Size || len(r.Indices) != r.Size {
			return nil, errors.Errorf("register %s: %d staged bits for %d chain positions", r.Name, len(r.Bits), r.Size)
		}
		for i, idx := range r.Indices {
			if idx < 0 || idx >= c.Length {
				return nil, errors.Errorf("register %s: chain position %d out of range", r.Name, idx)
			}
			vec[idx] = r.Bits[i]
		}
	}
	return vec, nil
}

// Validate checks that the chain positions of all registers are a permutation
// of 0..Length-1.
//
func (c *Chain) Validate() error {
	owner := make([]string, c.Length)
	for _, n := range c.names {
		for _, idx := range c.Registers[n].Indices {
			if idx < 0 || idx >= c.Length {
				return errors.Errorf("register %s: chain position %d out of range", n, idx)
			}
			if o := owner[idx]; o != "" {
				return errors.Errorf("chain position %d used by both %s and %s", idx, o, n)
			}
			owner[idx] = n
		}
	}
	return nil
}

// Print prints the chain and all its registers to w.
//
func (c *Chain) Print(w io.Writer) {
	fmt.Fprint(w, "---CHAIN DISPLAY---\n\n")
	fmt.Fprintf(w, "CHAIN SIZE: %d\n\n", c.Length)
	fmt.Fprint(w, "REGISTERS: \n\n")
	for _, n := range c.names {
		c.Registers[n].Print(w)
	}
}
