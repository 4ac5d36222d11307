// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scanchain

import (
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var descLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "EOL", Pattern: `[\r\n]+`},
	{Name: "Space", Pattern: `[ \t\f\v]+`},
	{Name: "Word", Pattern: `\S+`},
})

// number is a decimal integer field. The whole token must convert.
type number int

func (n *number) Capture(values []string) error {
	v, err := strconv.Atoi(values[0])
	if err != nil {
		return errors.Errorf("invalid integer %q", values[0])
	}
	*n = number(v)
	return nil
}

// descLine is one line of a chain description file:
//
//	<chain index> <register name> <bit position> [ignored...]
//
type descLine struct {
	Pos   lexer.Position
	Index number   `parser:"@Word"`
	Name  string   `parser:"@Word"`
	Bit   number   `parser:"@Word"`
	Rest  []string `parser:"@Word*"`
}

type descFile struct {
	Lines []*descLine `parser:"( @@ | EOL )*"`
}

var descParser = participle.MustBuild[descFile](
	participle.Lexer(descLexer),
	participle.Elide("Space"),
)

// Load reads the chain description file at path.
//
func Load(path string) (*Chain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load chain description")
	}
	defer f.Close()
	c, err := parse(path, f)
	if err != nil {
		return nil, errors.Wrap(err, "load chain description")
	}
	return c, nil
}

// Parse reads a chain description from r.
//
// Each line of the description holds three whitespace separated tokens: the
// position of a flip-flop in the chain, the name of the register it belongs to
// and its bit position within that register. Extra tokens are ignored.
//
func Parse(r io.Reader) (*Chain, error) {
	return parse("", r)
}

type mapping struct {
	bit, index int
	pos        lexer.Position
}

func parse(name string, r io.Reader) (*Chain, error) {
	f, err := descParser.Parse(name, r)
	if err != nil {
		return nil, err
	}

	c := &Chain{Registers: make(map[string]*Register)}
	maps := make(map[string][]mapping)
	for _, l := range f.Lines {
		if _, ok := c.Registers[l.Name]; !ok {
			c.Registers[l.Name] = &Register{Name: l.Name}
			c.names = append(c.names, l.Name)
		}
		maps[l.Name] = append(maps[l.Name], mapping{int(l.Bit), int(l.Index), l.Pos})
	}

	for _, n := range c.names {
		ms := maps[n]
		sort.Slice(ms, func(i, j int) bool {
			if ms[i].bit != ms[j].bit {
				return ms[i].bit < ms[j].bit
			}
			return ms[i].index < ms[j].index
		})
		r := c.Registers[n]
		r.Indices = make([]int, len(ms))
		for i, m := range ms {
			if i > 0 && ms[i-1].bit == m.bit {
				return nil, errors.Errorf("%s: bit %d of register %s already mapped at %s", m.pos, m.bit, n, ms[i-1].pos)
			}
			r.Indices[i] = m.index
		}
		r.Size = len(r.Indices)
		r.Bits = make([]bool, r.Size)
		r.First = r.Indices[0]
		r.Last = r.Indices[r.Size-1]
		c.Length += r.Size
	}
	return c, nil
}
