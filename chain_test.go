// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scanchain_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/db47h/scanchain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseChain(t *testing.T, desc string) *scanchain.Chain {
	t.Helper()
	c, err := scanchain.Parse(strings.NewReader(desc))
	require.NoError(t, err)
	return c
}

func TestChain_Register(t *testing.T) {
	c := parseChain(t, adderDesc)
	_, err := c.Register("nope")
	require.Error(t, err)
	assert.Equal(t, scanchain.ErrUnknownRegister, errors.Cause(err))
	assert.Contains(t, err.Error(), "nope")
}

func TestRegister_Set(t *testing.T) {
	c := parseChain(t, adderDesc)
	r, err := c.Register("a_reg")
	require.NoError(t, err)

	require.NoError(t, r.Set(5))
	assert.Equal(t, []bool{true, false, true, false}, r.Bits)
	assert.Equal(t, uint64(5), r.Value())

	assert.Error(t, r.Set(16))
	r.Reset()
	assert.Equal(t, uint64(0), r.Value())
}

func TestChain_Vector(t *testing.T) {
	c := parseChain(t, adderDesc)
	a, _ := c.Register("a_reg")
	b, _ := c.Register("b_reg")
	x, _ := c.Register("x_out")
	require.NoError(t, a.Set(2))
	require.NoError(t, b.Set(5))

	vec, err := c.Vector()
	require.NoError(t, err)
	require.Len(t, vec, 13)
	want := make([]bool, 13)
	want[1] = true // a_reg bit 1
	want[4] = true // b_reg bit 0
	want[6] = true // b_reg bit 2
	assert.Equal(t, want, vec)

	for _, r := range []*scanchain.Register{a, b, x} {
		v, err := r.Extract(vec)
		require.NoError(t, err)
		assert.Equal(t, r.Value(), v, r.Name)
	}

	c.Reset()
	vec, err = c.Vector()
	require.NoError(t, err)
	assert.Equal(t, make([]bool, 13), vec)
}

func TestChain_Vector_shuffled(t *testing.T) {
	c := parseChain(t, "0 r 2\n1 r 0\n2 r 1\n")
	r, _ := c.Register("r")
	require.NoError(t, r.Set(1)) // bit 0 sits at chain position 1
	vec, err := c.Vector()
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, vec)
}

func TestChain_Vector_resizedBits(t *testing.T) {
	c := parseChain(t, adderDesc)
	a, _ := c.Register("a_reg")
	for _, bits := range [][]bool{nil, make([]bool, 2), make([]bool, 9)} {
		a.Bits = bits
		_, err := c.Vector()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "register a_reg")
	}
	a.Bits = make([]bool, a.Size)
	_, err := c.Vector()
	assert.NoError(t, err)
}

func TestChain_Validate(t *testing.T) {
	for _, d := range []struct {
		name string
		desc string
		err  string
	}{
		{"ok", adderDesc, ""},
		{"overlap", "0 a 0\n0 b 0\n", "chain position 0 used by both a and b"},
		{"gap", "0 a 0\n2 a 1\n", "chain position 2 out of range"},
	} {
		t.Run(d.name, func(t *testing.T) {
			err := parseChain(t, d.desc).Validate()
			if d.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.err)
		})
	}
}

func TestChain_Print(t *testing.T) {
	c := parseChain(t, "2 cur_state 2\n0 cur_state 0\n1 cur_state 1\n")
	r, _ := c.Register("cur_state")
	require.NoError(t, r.Set(6))
	var buf bytes.Buffer
	c.Print(&buf)
	assert.Equal(t, `---CHAIN DISPLAY---

CHAIN SIZE: 3

REGISTERS: 

------------------
NAME:    cur_state
BITS:    [0 1 1]
INDICES: [0 1 2]
------------------
`, buf.String())
}
