// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package testbench implements the scan based test procedures of the designs
// package and their console reports.
//
package testbench

import (
	"fmt"
	"io"

	"github.com/db47h/scanchain"
	"github.com/pkg/errors"
)

// Adder register names.
const (
	RegA   = "a_reg"
	RegB   = "b_reg"
	RegSum = "x_out"
)

// An AdderCase is one addition checked through the scan chain.
//
type AdderCase struct {
	A, B     uint64
	Expected uint64
}

// AdderCases are the default adder test cases.
//
var AdderCases = []AdderCase{
	{A: 2, B: 5, Expected: 7},
	{A: 7, B: 9, Expected: 16},
	{A: 15, B: 15, Expected: 30},
	{A: 0, B: 10, Expected: 10},
}

// An AdderResult is the outcome of an AdderCase.
//
type AdderResult struct {
	AdderCase
	Got uint64
}

// Pass reports whether the adder produced the expected sum.
//
func (r AdderResult) Pass() bool { return r.Got == r.Expected }

// Add loads a and b into the operand registers, lets the design compute one
// functional clock cycle and shifts the sum out.
//
func Add(d *scanchain.Driver, a, b uint64) (uint64, error) {
	if err := d.Load(map[string]uint64{RegA: a, RegB: b}); err != nil {
		return 0, errors.Wrapf(err, "load %d+%d", a, b)
	}
	if err := d.Capture(); err != nil {
		return 0, err
	}
	return d.Read(RegSum)
}

// RunAdder runs every test case and writes a report to w. It returns the
// results of all cases run. Only driver failures are reported as errors;
// wrong sums are reported in the results.
//
func RunAdder(d *scanchain.Driver, cases []AdderCase, w io.Writer) ([]AdderResult, error) {
	if err := d.Reset(); err != nil {
		return nil, err
	}
	rs := make([]AdderResult, 0, len(cases))
	for i, c := range cases {
		fmt.Fprintf(w, "\ntest case %d: %s = %d, %s = %d\n", i+1, RegA, c.A, RegB, c.B)
		got, err := Add(d, c.A, c.B)
		if err != nil {
			return rs, errors.Wrapf(err, "test case %d", i+1)
		}
		r := AdderResult{c, got}
		rs = append(rs, r)
		fmt.Fprintf(w, "Expected: %d\nResult_val: %d\n", c.Expected, got)
		if r.Pass() {
			fmt.Fprintln(w, "test success!")
		} else {
			fmt.Fprintln(w, "test fail!")
		}
	}
	return rs, nil
}

// Failed returns the number of failed results.
//
func Failed(rs []AdderResult) int {
	n := 0
	for _, r := range rs {
		if !r.Pass() {
			n++
		}
	}
	return n
}
