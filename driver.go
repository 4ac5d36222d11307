// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scanchain

import (
	"log"
	"time"

	"github.com/pkg/errors"
)

// ErrUnknownSignal should be returned (possibly wrapped) by DUT
// implementations for signal names the device does not expose.
//
var ErrUnknownSignal = errors.New("unknown signal")

// DUT is the device under test as seen by a Driver.
//
type DUT interface {
	// SetSignal drives the named input signal.
	SetSignal(name string, value bool) error
	// Signal returns the current state of the named signal.
	Signal(name string) (bool, error)
	// AdvanceTime lets d of simulated time elapse.
	AdvanceTime(d time.Duration) error
}

// Config configures a Driver.
//
type Config struct {
	Clock      string // clock input
	ScanEnable string // scan enable input
	ScanIn     string // serial input of the chain
	ScanOut    string // serial output of the chain

	// Settle is how long each half of a clock pulse lasts.
	Settle time.Duration

	// Log, if not nil, receives a trace of driver operations.
	Log *log.Logger
}

// DefaultConfig returns the default signal names and a 10ns settle time.
//
func DefaultConfig() Config {
	return Config{
		Clock:      "clk",
		ScanEnable: "scan_en",
		ScanIn:     "scan_in",
		ScanOut:    "scan_out",
		Settle:     10 * time.Nanosecond,
	}
}

// Mode is the operating mode of a Driver.
//
type Mode int

// Driver modes.
//
const (
	Idle     Mode = iota // scan enable deasserted
	Shifting             // scan enable asserted
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Shifting:
		return "shifting"
	}
	return "invalid"
}

// A Driver shifts values in and out of the scan chain of a DUT.
//
// Drivers are not safe for concurrent use. Every operation is a fixed sequence
// of clock pulses on the DUT.
//
type Driver struct {
	dut    DUT
	chain  *Chain
	cfg    Config
	mode   Mode
	pulses uint64
}

// NewDriver returns a new driver for the given DUT and chain.
//
func NewDriver(dut DUT, chain *Chain, cfg Config) *Driver {
	return &Driver{dut: dut, chain: chain, cfg: cfg}
}

// Chain returns the driver's chain.
//
func (d *Driver) Chain() *Chain { return d.chain }

// Mode returns the current driver mode.
//
func (d *Driver) Mode() Mode { return d.mode }

// Pulses returns the number of clock pulses issued so far.
//
func (d *Driver) Pulses() uint64 { return d.pulses }

func (d *Driver) logf(format string, args ...interface{}) {
	if d.cfg.Log != nil {
		d.cfg.Log.Printf(format, args...)
	}
}

func (d *Driver) set(name string, v bool) error {
	if err := d.dut.SetSignal(name, v); err != nil {
		return errors.Wrapf(err, "set %s", name)
	}
	return nil
}

func (d *Driver) wait() error {
	return errors.Wrap(d.dut.AdvanceTime(d.cfg.Settle), "advance time")
}

func (d *Driver) setMode(m Mode) error {
	if err := d.set(d.cfg.ScanEnable, m == Shifting); err != nil {
		return err
	}
	d.mode = m
	return nil
}

// Reset drives the clock, scan enable and scan input low and waits for the
// design to settle.
//
func (d *Driver) Reset() error {
	for _, n := range []string{d.cfg.Clock, d.cfg.ScanIn} {
		if err := d.set(n, false); err != nil {
			return err
		}
	}
	if err := d.setMode(Idle); err != nil {
		return err
	}
	return d.wait()
}

// Pulse issues one clock pulse: clock high, settle, clock low, settle.
//
func (d *Driver) Pulse() error {
	if err := d.set(d.cfg.Clock, true); err != nil {
		return err
	}
	if err := d.wait(); err != nil {
		return err
	}
	if err := d.set(d.cfg.Clock, false); err != nil {
		return err
	}
	if err := d.wait(); err != nil {
		return err
	}
	d.pulses++
	return nil
}

// ShiftIn shifts vec into the chain so that vec[i] lands in the flip-flop at
// chain position i. The bits are fed last position first, then pad zero bits
// push them pad positions further down the chain.
//
func (d *Driver) ShiftIn(vec []bool, pad int) error {
	if len(vec) != d.chain.Length {
		return errors.Errorf("shift in: got %d bits for a %d bits chain", len(vec), d.chain.Length)
	}
	if pad < 0 {
		return errors.Errorf("shift in: negative pad %d", pad)
	}
	d.logf("shift in %d bits, pad %d", len(vec), pad)
	if err := d.setMode(Shifting); err != nil {
		return err
	}
	for i := len(vec) - 1; i >= 0; i-- {
		if err := d.shiftBit(vec[i]); err != nil {
			return err
		}
	}
	for i := 0; i < pad; i++ {
		if err := d.shiftBit(false); err != nil {
			return err
		}
	}
	return d.setMode(Idle)
}

func (d *Driver) shiftBit(b bool) error {
	if err := d.set(d.cfg.ScanIn, b); err != nil {
		return err
	}
	return d.Pulse()
}

func (d *Driver) sample() (bool, error) {
	v, err := d.dut.Signal(d.cfg.ScanOut)
	if err != nil {
		return false, errors.Wrapf(err, "get %s", d.cfg.ScanOut)
	}
	return v, nil
}

// ShiftOut shifts count bits out of the chain, starting with the bit at chain
// position offset+count-1 and ending with the one at position offset.
//
// The chain is first shifted Length-offset-count times so that position
// offset+count-1 reaches the serial output. Each bit is then sampled before
// the pulse that shifts the next one out. The bits are returned in the order
// they were sampled: for a register stored at consecutive chain positions
// starting at offset, that is most significant bit first.
//
func (d *Driver) ShiftOut(count, offset int) ([]bool, error) {
	if count < 0 || offset < 0 || offset+count > d.chain.Length {
		return nil, errors.Errorf("shift out: %d bits at offset %d out of %d bits chain", count, offset, d.chain.Length)
	}
	d.logf("shift out %d bits at offset %d", count, offset)
	if err := d.setMode(Shifting); err != nil {
		return nil, err
	}
	for i := d.chain.Length - offset - count; i > 0; i-- {
		if err := d.Pulse(); err != nil {
			return nil, err
		}
	}
	bits := make([]bool, 0, count)
	for i := 0; i < count; i++ {
		v, err := d.sample()
		if err != nil {
			return nil, err
		}
		bits = append(bits, v)
		if err = d.Pulse(); err != nil {
			return nil, err
		}
	}
	return bits, d.setMode(Idle)
}

// ShiftInBit shifts bit into the flip-flop at chain position index. All the
// flip-flops before it in the chain are loaded with bit as well.
//
func (d *Driver) ShiftInBit(bit bool, index int) error {
	if index < 0 || index >= d.chain.Length {
		return errors.Errorf("shift in: chain position %d out of range", index)
	}
	d.logf("shift in bit %v at %d", bit, index)
	if err := d.setMode(Shifting); err != nil {
		return err
	}
	if err := d.set(d.cfg.ScanIn, bit); err != nil {
		return err
	}
	for i := 0; i <= index; i++ {
		if err := d.Pulse(); err != nil {
			return err
		}
	}
	return d.setMode(Idle)
}

// ShiftOutBit shifts the chain until the bit at chain position index reaches
// the serial output and returns it.
//
func (d *Driver) ShiftOutBit(index int) (bool, error) {
	if index < 0 || index >= d.chain.Length {
		return false, errors.Errorf("shift out: chain position %d out of range", index)
	}
	if err := d.setMode(Shifting); err != nil {
		return false, err
	}
	cycles := d.chain.Length - index - 1
	d.logf("shift out bit at %d: %d cycles", index, cycles)
	for i := 0; i < cycles; i++ {
		if err := d.Pulse(); err != nil {
			return false, err
		}
	}
	v, err := d.sample()
	if err != nil {
		return false, err
	}
	return v, d.setMode(Idle)
}

// Capture deasserts scan enable and issues one clock pulse, letting the
// flip-flops load their functional inputs.
//
func (d *Driver) Capture() error {
	d.logf("capture")
	if err := d.setMode(Idle); err != nil {
		return err
	}
	return d.Pulse()
}

// Load stages the given register values and shifts the resulting chain vector
// in. Registers not in values are loaded with zeroes.
//
func (d *Driver) Load(values map[string]uint64) error {
	d.chain.Reset()
	for n, v := range values {
		r, err := d.chain.Register(n)
		if err != nil {
			return err
		}
		if err = r.Set(v); err != nil {
			return err
		}
	}
	vec, err := d.chain.Vector()
	if err != nil {
		return err
	}
	return d.ShiftIn(vec, 0)
}

// Read shifts register name out of the chain and returns its value. The
// register's chain positions must be consecutive, lsb first.
//
func (d *Driver) Read(name string) (uint64, error) {
	r, err := d.chain.Register(name)
	if err != nil {
		return 0, err
	}
	bits, err := d.ShiftOut(r.Size, r.First)
	if err != nil {
		return 0, errors.Wrapf(err, "read %s", name)
	}
	v := Decode(bits)
	d.logf("read %s = %d", name, v)
	return v, nil
}
