package registers

import "sync"

// Store is the register access used by the motion controllers and the
// actuator driver. Every call is a single atomic byte or word access.
type Store interface {
	Byte(r Reg) uint8
	SetByte(r Reg, v uint8)
	Word(w Word) uint16
	SetWord(w Word, v uint16)
}

const (
	DefaultDeviceType    = 0x01
	DefaultDeviceSubtype = 0x01
	DefaultVersionMajor  = 0x00
	DefaultVersionMinor  = 0x02
	DefaultTWIAddress    = 0x10
)

// Table is an in-memory register file. It is safe for concurrent use; a
// word is always read and written as a unit.
type Table struct {
	mu   sync.RWMutex
	file [Count]uint8
}

func NewTable() *Table {
	t := &Table{}
	t.Init()
	return t
}

// Init clears the file and writes the device identity bytes.
func (t *Table) Init() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.file = [Count]uint8{}
	t.file[RegDeviceType] = DefaultDeviceType
	t.file[RegDeviceSubtype] = DefaultDeviceSubtype
	t.file[RegVersionMajor] = DefaultVersionMajor
	t.file[RegVersionMinor] = DefaultVersionMinor
	t.file[RegTWIAddress] = DefaultTWIAddress
}

func (t *Table) Byte(r Reg) uint8 {
	if int(r) >= Count {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.file[r]
}

// SetByte ignores writes outside the file.
func (t *Table) SetByte(r Reg, v uint8) {
	if int(r) >= Count {
		return
	}
	t.mu.Lock()
	t.file[r] = v
	t.mu.Unlock()
}

func (t *Table) Word(w Word) uint16 {
	if int(w.Hi) >= Count || int(w.Lo) >= Count {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return uint16(t.file[w.Hi])<<8 | uint16(t.file[w.Lo])
}

func (t *Table) SetWord(w Word, v uint16) {
	if int(w.Hi) >= Count || int(w.Lo) >= Count {
		return
	}
	t.mu.Lock()
	t.file[w.Hi] = uint8(v >> 8)
	t.file[w.Lo] = uint8(v)
	t.mu.Unlock()
}

// Snapshot returns a copy of the whole file.
func (t *Table) Snapshot() [Count]uint8 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.file
}

// Restore overwrites the whole file.
func (t *Table) Restore(file [Count]uint8) {
	t.mu.Lock()
	t.file = file
	t.mu.Unlock()
}
