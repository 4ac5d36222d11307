// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim_test

import (
	"testing"

	"github.com/db47h/scanchain/hwlib"
	hw "github.com/db47h/scanchain/hwsim"
	"github.com/db47h/scanchain/hwtest"
)

func TestChip_errors(t *testing.T) {
	unkChip, err := hw.Chip("TESTCHIP", hw.In("a, b"), hw.Out("out"), hw.Parts{
		// chip input a is unused
		hwlib.Nand("a=b, b=b, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	data := []struct {
		name  string
		in    hw.Inputs
		out   hw.Outputs
		parts hw.Parts
		err   string
	}{
		{"true_out", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=true"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "NAND.out:true: output pin connected to constant true input"},
		{"false_out", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=false"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "NAND.out:false: output pin connected to constant false input"},
		{"multi_out", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=a"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "NAND.out:a: chip input pin used as output"},
		{"multi_out2", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=x"),
			hwlib.Nand("a=a, b=b, out=x"),
			hwlib.Not("in=x, out=out"),
		}, "NAND.out:x: output pin already used as output"},
		{"no_output", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=wx, out=out"),
		}, "pin wx not connected to any output"},
		{"no_input", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=foo"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "pin foo not connected to any input"},
		{"no_input_first", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=zz"),
			hwlib.Nand("a=a, b=b, out=foo"),
			hwlib.Nand("a=a, b=b, out=bar"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "pin bar not connected to any input"},
		{"unconnected_out", hw.In("a, b"), hw.Out("out"), hw.Parts{}, "output pin out not connected to any part"},
		{"dup_in", hw.In("a, a"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=a, out=out"),
		}, "duplicate input pin a"},
		{"dup_out", hw.In("a"), hw.Out("a"), hw.Parts{
			hwlib.Not("in=a, out=a"),
		}, "duplicate output pin a"},
		{"unknown_pin", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, typo=b, out=out"),
		}, "invalid pin name typo for part NAND"},
		{"unknown_chip_pin", hw.In("a, b"), hw.Out("out"), hw.Parts{
			unkChip("a=a, typo=b, out=out"),
		}, "invalid pin name typo for part TESTCHIP"},
		{"chip_ok", hw.In("a, b"), hw.Out("out"), hw.Parts{
			unkChip("a=a, b=b, out=out"),
		}, ""},
		{"bus_to_pin", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.AndNWay(2)("in=a[0], out=out"),
		}, "bus AND2Way.in connected to single pin a[0]"},
		{"twice", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Not("in=a, in=b, out=out"),
		}, "pin NOT.in connected more than once"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := hw.Chip(d.name, d.in, d.out, d.parts)
			if err == nil && d.err != "" || err != nil && err.Error() != d.err {
				t.Errorf("Got error %q, expected %q", err, d.err)
				return
			}
		})
	}
}

func TestChip_unread_wires_sorted(t *testing.T) {
	parts := hw.Parts{
		hwlib.Not("in=a, out=w3"),
		hwlib.Not("in=a, out=w1"),
		hwlib.Not("in=a, out=w2"),
		hwlib.Not("in=a, out=out"),
	}
	for i := 0; i < 20; i++ {
		_, err := hw.Chip("UNREAD", hw.In("a"), hw.Out("out"), parts)
		if err == nil || err.Error() != "pin w1 not connected to any input" {
			t.Fatalf("run %d: got error %v", i, err)
		}
	}
}

func TestChip_omitted_pins(t *testing.T) {
	var a, b, tr, f, o0, o1 int
	dummy := (&hw.PartSpec{
		Name:    "dummy",
		Inputs:  hw.In("a, b, t, f"),
		Outputs: hw.Out("o0, o1"),
		Mount: func(s *hw.Socket) []hw.Component {
			a, b, tr, f, o0, o1 = s.Pin("a"), s.Pin("b"), s.Pin("t"), s.Pin("f"), s.Pin("o0"), s.Pin("o1")
			return nil
		}}).NewPart
	// inspecting o0 and o1 shows that another wire was allocated for the
	// unconnected dummy.o1
	wrapper, err := hw.Chip("wrapper", hw.In("wa, wb"), hw.Out("wo0"), hw.Parts{
		dummy("a=wa, t=true, f=false, o0=wo0"),
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	_, err = hw.NewCircuit(hw.Parts{wrapper("")})
	if err != nil {
		t.Fatal(err)
	}

	if a != 0 || b != 0 || f != 0 { // 0 = cstFalse
		t.Errorf("a = %v, b = %v, f = %v, all must be 0", a, b, f)
	}
	if tr != 1 { // 1 = cstTrue
		t.Errorf("t = %v, must be 1", tr)
	}
	if o0 < 2 || o1 < 2 || o0 == o1 { // 2 = cstCount
		t.Errorf("o0 = %v, o1 = %v, both must be distinct and >= 2", o0, o1)
	}
}

func TestChip_fanout_to_outputs(t *testing.T) {
	gate, err := hw.Chip("FANOUT", hw.In("in"), hw.Out("a, b, bus[2]"), hw.Parts{
		hwlib.Not("in=in, out=nin"),
		hwlib.Not("in=nin, out=a"),
		hwlib.Not("in=nin, out=b"),
		hwlib.Not("in=nin, out=bus[0]"),
		hwlib.Not("in=nin, out=bus[1]"),
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	var (
		in  bool
		out uint64
	)
	c, err := hw.NewCircuit(hw.Parts{
		hwlib.Input(func() bool { return in })("out=x"),
		gate("in=x, a=o[0], b=o[1], bus[0..1]=o[2..3]"),
		hwtest.OutputN(4, func(v uint64) { out = v })("in=o"),
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	for _, v := range []bool{true, false, true} {
		in = v
		c.Run(5)
		if ex := map[bool]uint64{false: 0, true: 15}[v]; out != ex {
			t.Errorf("in = %v: got %04b, expected %04b", v, out, ex)
		}
	}
}

func TestChip_bus_expansion(t *testing.T) {
	ripple, err := hw.Chip("RIPPLE4", hw.In("a[4], b[4]"), hw.Out("out[4], c"), hw.Parts{
		hwlib.HalfAdder("a=a[0], b=b[0], s=out[0], c=c0"),
		hwlib.FullAdder("a=a[1], b=b[1], cin=c0, s=out[1], cout=c1"),
		hwlib.FullAdder("a=a[2], b=b[2], cin=c1, s=out[2], cout=c2"),
		hwlib.FullAdder("a=a[3], b=b[3], cin=c2, s=out[3], cout=c"),
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	add4, err := hw.Chip("ADD4", hw.In("x[4], y[4]"), hw.Out("s[4], co"), hw.Parts{
		ripple("a=x, b=y, out=s, c=co"),
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 5, add4, (&hw.PartSpec{
		Name:    "ADD4_ref",
		Inputs:  hw.In("x[4], y[4]"),
		Outputs: hw.Out("s[4], co"),
		Mount: func(s *hw.Socket) []hw.Component {
			x, y, sum, co := s.Bus("x"), s.Bus("y"), s.Bus("s"), s.Pin("co")
			return []hw.Component{func(c *hw.Circuit) {
				v := hwlib.Uint64(c, x) + hwlib.Uint64(c, y)
				hwlib.SetUint64(c, sum, v)
				c.Set(co, v > 15)
			}}
		}}).NewPart)
}
