package registers

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2CDevice reads and writes the register file of a servo on an I2C bus.
// The servo auto-increments its register pointer, so a word is one
// transaction starting at its HI byte.
type I2CDevice struct {
	c   conn.Conn
	bus i2c.BusCloser
}

// NewI2CDevice wraps an existing connection, typically an *i2c.Dev.
func NewI2CDevice(c conn.Conn) *I2CDevice {
	return &I2CDevice{c: c}
}

// OpenI2C initializes the host drivers and opens the servo at addr on the
// named bus ("" selects the first bus).
func OpenI2C(busName string, addr uint16) (*I2CDevice, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("registers: host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("registers: open bus %q: %w", busName, err)
	}
	return &I2CDevice{c: &i2c.Dev{Bus: bus, Addr: addr}, bus: bus}, nil
}

func (d *I2CDevice) String() string {
	return d.c.String()
}

// Close releases the bus when the device was opened with OpenI2C.
func (d *I2CDevice) Close() error {
	if d.bus == nil {
		return nil
	}
	return d.bus.Close()
}

func (d *I2CDevice) Byte(r Reg) (uint8, error) {
	var b [1]byte
	if err := d.c.Tx([]byte{byte(r)}, b[:]); err != nil {
		return 0, fmt.Errorf("registers: read %s: %w", r, err)
	}
	return b[0], nil
}

func (d *I2CDevice) SetByte(r Reg, v uint8) error {
	if err := d.c.Tx([]byte{byte(r), v}, nil); err != nil {
		return fmt.Errorf("registers: write %s: %w", r, err)
	}
	return nil
}

func (d *I2CDevice) Word(w Word) (uint16, error) {
	var b [2]byte
	if err := d.c.Tx([]byte{byte(w.Hi)}, b[:]); err != nil {
		return 0, fmt.Errorf("registers: read %s: %w", w, err)
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (d *I2CDevice) SetWord(w Word, v uint16) error {
	buf := []byte{byte(w.Hi), 0, 0}
	binary.BigEndian.PutUint16(buf[1:], v)
	if err := d.c.Tx(buf, nil); err != nil {
		return fmt.Errorf("registers: write %s: %w", w, err)
	}
	return nil
}

// Command is a one-byte TWI command. Bytes from 0x80 up are taken as
// commands rather than register pointers.
type Command uint8

const (
	CmdReset            Command = 0x80
	CmdPWMEnable        Command = 0x82
	CmdPWMDisable       Command = 0x83
	CmdWriteEnable      Command = 0x84
	CmdWriteDisable     Command = 0x85
	CmdRegistersSave    Command = 0x86
	CmdRegistersRestore Command = 0x87
	CmdRegistersDefault Command = 0x88
)

// Send issues cmd. The servo runs commands asynchronously from its main
// loop.
func (d *I2CDevice) Send(cmd Command) error {
	if err := d.c.Tx([]byte{byte(cmd)}, nil); err != nil {
		return fmt.Errorf("registers: command 0x%02X: %w", uint8(cmd), err)
	}
	return nil
}

// Pull copies the device's whole register file into t.
func Pull(d *I2CDevice, t *Table) error {
	var file [Count]uint8
	if err := d.c.Tx([]byte{0x00}, file[:]); err != nil {
		return fmt.Errorf("registers: read file: %w", err)
	}
	t.Restore(file)
	return nil
}

// ConfigWords are the words written back to a device by Push.
var ConfigWords = []Word{
	PositionGain, VelocityGain, IntegralGain, PWMFreqDivider, MinSeek, MaxSeek,
	EstimatorA, EstimatorB, EstimatorL1, EstimatorL2,
}

// Push enables register writes on the device, then writes the
// configuration registers of t. Writes stay enabled afterwards.
func Push(t *Table, d *I2CDevice) error {
	if err := d.Send(CmdWriteEnable); err != nil {
		return err
	}
	for _, w := range ConfigWords {
		if err := d.SetWord(w, t.Word(w)); err != nil {
			return err
		}
	}
	for _, r := range []Reg{RegDeadband, RegReverseSeek} {
		if err := d.SetByte(r, t.Byte(r)); err != nil {
			return err
		}
	}
	return nil
}
