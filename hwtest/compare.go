// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/scanchain/hwlib"
	"github.com/db47h/scanchain/hwsim"
)

// maximum number of inputs tested exhaustively.
const maxExhaustive = 12

// connString connects every pin in pins to a wire named prefix+pin.
func connString(prefix string, pins []string) string {
	var b strings.Builder
	for _, n := range pins {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(prefix)
		b.WriteString(n)
	}
	return b.String()
}

func join(a, b string) string {
	if a == "" || b == "" {
		return a + b
	}
	return a + "," + b
}

func randBool() bool {
	return rand.Int63()&(1<<62) != 0
}

// ComparePart takes two combinational parts and compares their outputs given
// the same inputs. Both parts must have the same Input/Output interface.
//
// settle is the number of simulation steps to run after changing inputs
// before comparing outputs. It must be larger than the longest gate path in
// either part.
//
// Parts with up to 12 inputs are tested exhaustively, others with 4096 random
// input combinations.
//
func ComparePart(t *testing.T, settle int, part1 hwsim.NewPartFn, part2 hwsim.NewPartFn) {
	t.Helper()

	ps1, ps2 := part1(""), part2("")

	// compare specs
	if len(ps1.Inputs) != len(ps2.Inputs) {
		t.Fatal("len(ps1.Inputs) != len(ps2.Inputs)")
	}
	if len(ps1.Outputs) != len(ps2.Outputs) {
		t.Fatal("len(ps1.Outputs) != len(ps2.Outputs)")
	}
	for i := range ps1.Inputs {
		if ps1.Inputs[i] != ps2.Inputs[i] {
			t.Fatalf("ps1.Inputs[i] = %q != ps2.Inputs[i] = %q", ps1.Inputs[i], ps2.Inputs[i])
		}
	}
	for i := range ps1.Outputs {
		if ps1.Outputs[i] != ps2.Outputs[i] {
			t.Fatalf("ps1.Outputs[i] = %q != ps2.Outputs[i] = %q", ps1.Outputs[i], ps2.Outputs[i])
		}
	}

	inputs := make([]bool, len(ps1.Inputs))
	outputs := make([][2]bool, len(ps1.Outputs))

	var parts hwsim.Parts
	for i, n := range ps1.Inputs {
		k := i
		parts = append(parts, hwlib.Input(func() bool { return inputs[k] })("out="+n))
	}
	parts = append(parts,
		part1(join(connString("", ps1.Inputs), connString("r1_", ps1.Outputs))),
		part2(join(connString("", ps2.Inputs), connString("r2_", ps2.Outputs))))
	for i, o := range ps1.Outputs {
		n := i
		parts = append(parts,
			hwlib.Output(func(b bool) { outputs[n][0] = b })("in=r1_"+o),
			hwlib.Output(func(b bool) { outputs[n][1] = b })("in=r2_"+o))
	}

	c, err := hwsim.NewCircuit(parts)
	if err != nil {
		t.Fatal(err)
	}

	errString := func(oname string, ex, got bool) string {
		var b strings.Builder
		for i, n := range ps1.Inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", n, inputs[i])
		}
		return fmt.Sprintf("\nExpected %s => %s=%v\nGot %v", b.String(), oname, ex, got)
	}

	check := func() {
		t.Helper()
		// one extra step for the output probes.
		c.Run(settle + 1)
		for o, out := range outputs {
			if out[0] != out[1] {
				t.Fatal(errString(ps1.Outputs[o], out[0], out[1]))
			}
		}
	}

	start := time.Now()

	if len(inputs) <= maxExhaustive {
		for v := 0; v < 1<<uint(len(inputs)); v++ {
			for in := range inputs {
				inputs[in] = v&(1<<uint(in)) != 0
			}
			check()
		}
	} else {
		for i := 0; i < 1<<maxExhaustive; i++ {
			for in := range inputs {
				inputs[in] = randBool()
			}
			check()
		}
	}

	elapsed := time.Since(start)
	t.Logf("%d components. %d steps in %v", c.Size(), c.Steps(), elapsed)
}
