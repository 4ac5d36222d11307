// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

// Constant input pin names.
//
const (
	True  = "true"
	False = "false"
	GND   = "false"
)

const (
	cstFalse = iota
	cstTrue
	cstCount
)

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m map[string]int
	c *Circuit
}

func newSocket(c *Circuit) *Socket {
	return &Socket{
		m: map[string]int{False: cstFalse, True: cstTrue},
		c: c,
	}
}

// Pin returns the pin number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// PinOrNew returns the pin number allocated to the given pin name.
// If no such pin exists a new one is allocated.
//
func (s *Socket) PinOrNew(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin()
		s.m[name] = n
	}
	return n
}

// Bus returns the pin numbers allocated to the given bus name, least
// significant pin first. This function panics if the bus does not exist.
//
func (s *Socket) Bus(name string) []int {
	var out []int
	for i := 0; ; i++ {
		n, ok := s.m[BusPinName(name, i)]
		if !ok {
			break
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		panic("bus " + name + " does not exist")
	}
	return out
}
