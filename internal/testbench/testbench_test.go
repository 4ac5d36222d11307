// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package testbench_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/db47h/scanchain"
	"github.com/db47h/scanchain/designs"
	"github.com/db47h/scanchain/internal/testbench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAdder(t *testing.T) {
	b, err := designs.NewAdderBench(0)
	require.NoError(t, err)
	c, err := designs.AdderChain()
	require.NoError(t, err)
	d := scanchain.NewDriver(b, c, scanchain.DefaultConfig())

	var buf bytes.Buffer
	cases := append(testbench.AdderCases, testbench.AdderCase{A: 1, B: 1, Expected: 3})
	rs, err := testbench.RunAdder(d, cases, &buf)
	require.NoError(t, err)
	require.Len(t, rs, 5)
	for _, r := range rs[:4] {
		assert.True(t, r.Pass(), "%d+%d: got %d", r.A, r.B, r.Got)
	}
	assert.False(t, rs[4].Pass())
	assert.Equal(t, uint64(2), rs[4].Got)
	assert.Equal(t, 1, testbench.Failed(rs))

	out := buf.String()
	assert.Contains(t, out, "test case 3: a_reg = 15, b_reg = 15\nExpected: 30\nResult_val: 30\ntest success!")
	assert.Contains(t, out, "Result_val: 2\ntest fail!")
	assert.Equal(t, 4, strings.Count(out, "test success!"))
}

func TestRunAdder_badValue(t *testing.T) {
	b, err := designs.NewAdderBench(0)
	require.NoError(t, err)
	c, err := designs.AdderChain()
	require.NoError(t, err)
	d := scanchain.NewDriver(b, c, scanchain.DefaultConfig())

	var buf bytes.Buffer
	rs, err := testbench.RunAdder(d, []testbench.AdderCase{{A: 2, B: 5, Expected: 7}, {A: 16, B: 0, Expected: 16}}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test case 2")
	assert.Len(t, rs, 1)
}

func TestExploreFSM(t *testing.T) {
	b, err := designs.NewFSMBench(0)
	require.NoError(t, err)
	c, err := designs.FSMChain()
	require.NoError(t, err)
	d := scanchain.NewDriver(b, c, scanchain.DefaultConfig())

	var buf bytes.Buffer
	tbl, err := testbench.ExploreFSM(d, b, &buf)
	require.NoError(t, err)
	require.Len(t, tbl.Next, designs.FSMStates)

	for s := uint64(0); s < designs.FSMStates; s++ {
		assert.Equal(t, designs.HiddenFSMNext(s, false), tbl.Next[s][0], "state %d", s)
		assert.Equal(t, designs.HiddenFSMNext(s, true), tbl.Next[s][1], "state %d", s)
		bufEn, outSel, outWriting := designs.HiddenFSMOutputs(s)
		assert.Equal(t, testbench.FSMOutputs{BufEn: bufEn, OutSel: outSel, OutWriting: outWriting}, tbl.Outputs[s], "state %d", s)
	}
	assert.Contains(t, buf.String(), "State: 5 (101), data_avail: 1\n  Outputs: buf_en=0, out_sel=1, out_writing=1\n  Next state: 1\n")

	buf.Reset()
	tbl.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "State Transition Table:")
	assert.Contains(t, out, "     2      |      2      |      3\n")
	assert.Contains(t, out, "  3  |   1   |    1    |     0\n")
}

func TestStep_loadedStateOutputs(t *testing.T) {
	b, err := designs.NewFSMBench(0)
	require.NoError(t, err)
	c, err := designs.FSMChain()
	require.NoError(t, err)
	d := scanchain.NewDriver(b, c, scanchain.DefaultConfig())
	require.NoError(t, d.Reset())

	// state 3 drives buf_en and out_sel; state 4 drives out_writing only.
	next, o, err := testbench.Step(d, b, 3, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), next)
	assert.Equal(t, testbench.FSMOutputs{BufEn: true, OutSel: true}, o)

	next, o, err = testbench.Step(d, b, next, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), next)
	assert.Equal(t, testbench.FSMOutputs{OutWriting: true}, o)
}
