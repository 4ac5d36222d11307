// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// Inputs is a list of input pin names.
//
type Inputs []string

// Outputs is a list of output pin names.
//
type Outputs []string

// A Connection connects pin PP of a part to pin CP of its host chip.
//
type Connection struct {
	PP string
	CP string
}

var specLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Range", Pattern: `\.\.`},
	{Name: "Punct", Pattern: `[\[\]=,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// pinExpr is one of name, name[i] or name[i..j].
//
type pinExpr struct {
	Pos   lexer.Position
	Name  string    `parser:"@Ident"`
	Index *pinIndex `parser:"@@?"`
}

type pinIndex struct {
	Start int  `parser:"'[' @Int"`
	End   *int `parser:"( '..' @Int )? ']'"`
}

type connExpr struct {
	Part *pinExpr `parser:"@@ '='"`
	Chip *pinExpr `parser:"@@"`
}

type connList struct {
	Conns []*connExpr `parser:"( @@ ( ',' @@ )* )?"`
}

type ioList struct {
	Pins []*pinExpr `parser:"( @@ ( ',' @@ )* )?"`
}

var (
	connParser = participle.MustBuild[connList](
		participle.Lexer(specLexer),
		participle.Elide("Whitespace"),
	)
	ioParser = participle.MustBuild[ioList](
		participle.Lexer(specLexer),
		participle.Elide("Whitespace"),
	)
)

// BusPinName returns the name of the i-th pin of bus name.
//
func BusPinName(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

// expand returns the individual pin names for p.
//
func (p *pinExpr) expand() ([]string, error) {
	switch {
	case p.Index == nil:
		return []string{p.Name}, nil
	case p.Index.End == nil:
		return []string{BusPinName(p.Name, p.Index.Start)}, nil
	}
	start, end := p.Index.Start, *p.Index.End
	if end < start {
		return nil, errors.Errorf("%s: invalid range %s[%d..%d]", p.Pos, p.Name, start, end)
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(p.Name, i))
	}
	return r, nil
}

// ParseIOSpec parses an input or output pin specification and returns the
// individual pin names, expanding bus declarations. For example:
//
//	ParseIOSpec("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
func ParseIOSpec(spec string) ([]string, error) {
	l, err := ioParser.ParseString("", spec)
	if err != nil {
		return nil, errors.Wrapf(err, "in %q", spec)
	}
	var out []string
	for _, p := range l.Pins {
		if p.Index == nil {
			out = append(out, p.Name)
			continue
		}
		if p.Index.End != nil {
			return nil, errors.Errorf("in %q at %s: range not allowed in bus size", spec, p.Pos)
		}
		for i := 0; i < p.Index.Start; i++ {
			out = append(out, BusPinName(p.Name, i))
		}
	}
	return out, nil
}

// In parses an input pin specification. It panics on invalid input.
//
func In(spec string) Inputs {
	pins, err := ParseIOSpec(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// Out parses an output pin specification. It panics on invalid input.
//
func Out(spec string) Outputs {
	pins, err := ParseIOSpec(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// ParseConnections parses a connection configuration like "partPinX=chipPinY,
// ...". Each side may be a pin name, a bus pin (name[i]) or a bus range
// (name[i..j]). Ranges on both sides must have the same width; a single pin on
// either side of a range is an error.
//
// A bare part pin name that designates a bus, like "in=x", is kept as is and
// expanded to "in[0]=x[0], in[1]=x[1], ..." when the part is used in a Chip.
//
func ParseConnections(c string) ([]Connection, error) {
	l, err := connParser.ParseString("", c)
	if err != nil {
		return nil, errors.Wrapf(err, "in %q", c)
	}
	var conns []Connection
	for _, e := range l.Conns {
		ps, err := e.Part.expand()
		if err != nil {
			return nil, errors.Wrapf(err, "in %q", c)
		}
		cs, err := e.Chip.expand()
		if err != nil {
			return nil, errors.Wrapf(err, "in %q", c)
		}
		if len(ps) != len(cs) {
			return nil, errors.Errorf("in %q at %s: pin count mismatch in pin mapping", c, e.Part.Pos)
		}
		for i := range ps {
			conns = append(conns, Connection{PP: ps[i], CP: cs[i]})
		}
	}
	return conns, nil
}
