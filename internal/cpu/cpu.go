// Package cpu implements the MOS 6502 core used by the NES, including
// the stable unofficial opcodes commercial software relies on.
package cpu

import "fmt"

// AddressingMode selects how an instruction finds its operand.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Memory is the CPU's view of the system bus.
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Instruction describes one opcode: its mnemonic, operand size, base
// cycle count, the extra cycle charged when indexing crosses a page,
// and its addressing mode. Write and modify instructions carry the
// crossing cost in their base count, so their PageCycles is zero.
type Instruction struct {
	Name       string
	Bytes      uint8
	Cycles     uint8
	PageCycles uint8
	Mode       AddressingMode
}

// CPU is the 6502 register file and cycle counter. Interrupts are not
// latched here; the bus delivers them by calling NMI and IRQ.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	// Status flags
	C bool // carry
	Z bool // zero
	I bool // interrupt disable
	D bool // decimal (no effect on the NES's 2A03)
	B bool // break
	V bool // overflow
	N bool // negative

	mem    Memory
	cycles uint64

	// Trace hook for nestest-style logging; nil when disabled.
	trace func(pc uint16, opcode uint8, in Instruction)
}

// ErrColdBRK reports a BRK fetched from address zero, which means
// execution fell into uninitialized memory.
type ErrColdBRK struct {
	A, X, Y, SP uint8
	Status      uint8
}

func (e *ErrColdBRK) Error() string {
	return fmt.Sprintf("cpu: BRK at $0000 (A=%02X X=%02X Y=%02X SP=%02X P=%02X)",
		e.A, e.X, e.Y, e.SP, e.Status)
}

// New creates a CPU attached to the given memory. Reset must be called
// before stepping.
func New(mem Memory) *CPU {
	return &CPU{mem: mem, SP: 0xFD}
}

// Reset performs the 7-cycle reset sequence and loads PC from $FFFC.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.setStatus(0x24)
	c.PC = c.read16(resetVector)
	c.cycles += 7
}

// Cycles returns the total CPU cycles executed since power-up.
func (c *CPU) Cycles() uint64 { return c.cycles }

// SetTrace installs a per-instruction trace hook. Pass nil to disable.
func (c *CPU) SetTrace(fn func(pc uint16, opcode uint8, in Instruction)) {
	c.trace = fn
}

// Step fetches, decodes and executes one instruction, returning the
// cycles it consumed. A BRK fetched from address zero is returned as a
// fatal error instead of being executed.
func (c *CPU) Step() (uint64, error) {
	pc := c.PC
	opcode := c.mem.Read(pc)
	in := opcodes[opcode]

	if opcode == 0x00 && pc == 0x0000 {
		return 0, &ErrColdBRK{A: c.A, X: c.X, Y: c.Y, SP: c.SP, Status: c.status()}
	}
	if c.trace != nil {
		c.trace(pc, opcode, in)
	}

	address, pageCrossed := c.operandAddress(in.Mode)

	extra := c.execute(opcode, address, in.Mode)
	if pageCrossed {
		extra += in.PageCycles
	}

	total := uint64(in.Cycles + extra)
	c.cycles += total
	return total, nil
}

// NMI runs the non-maskable interrupt sequence and returns its cost.
func (c *CPU) NMI() uint64 {
	c.interrupt(nmiVector)
	return 7
}

// IRQ runs the maskable interrupt sequence. It returns zero when the I
// flag masks the request.
func (c *CPU) IRQ() uint64 {
	if c.I {
		return 0
	}
	c.interrupt(irqVector)
	return 7
}

// interrupt pushes PC and status (B clear, as hardware interrupts do)
// and jumps through the given vector.
func (c *CPU) interrupt(vector uint16) {
	c.push16(c.PC)
	c.push(c.status() &^ 0x10)
	c.I = true
	c.PC = c.read16(vector)
	c.cycles += 7
}

// operandAddress resolves the effective address for the mode, also
// reporting whether indexing carried into a new page.
func (c *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		c.PC++
		return 0, false

	case Immediate:
		address := c.PC + 1
		c.PC += 2
		return address, false

	case ZeroPage:
		address := uint16(c.mem.Read(c.PC + 1))
		c.PC += 2
		return address, false

	case ZeroPageX:
		address := uint16(c.mem.Read(c.PC+1) + c.X)
		c.PC += 2
		return address, false

	case ZeroPageY:
		address := uint16(c.mem.Read(c.PC+1) + c.Y)
		c.PC += 2
		return address, false

	case Relative:
		// The target address; taken and crossing costs are charged by
		// the branch itself.
		offset := int8(c.mem.Read(c.PC + 1))
		c.PC += 2
		return uint16(int32(c.PC) + int32(offset)), false

	case Absolute:
		address := c.read16(c.PC + 1)
		c.PC += 3
		return address, false

	case AbsoluteX:
		base := c.read16(c.PC + 1)
		address := base + uint16(c.X)
		c.PC += 3
		return address, pageDiffer(base, address)

	case AbsoluteY:
		base := c.read16(c.PC + 1)
		address := base + uint16(c.Y)
		c.PC += 3
		return address, pageDiffer(base, address)

	case Indirect:
		pointer := c.read16(c.PC + 1)
		c.PC += 3
		return c.read16Bug(pointer), false

	case IndexedIndirect:
		pointer := c.mem.Read(c.PC+1) + c.X
		c.PC += 2
		return c.read16Bug(uint16(pointer)), false

	case IndirectIndexed:
		pointer := c.mem.Read(c.PC + 1)
		base := c.read16Bug(uint16(pointer))
		address := base + uint16(c.Y)
		c.PC += 2
		return address, pageDiffer(base, address)
	}
	return 0, false
}

func pageDiffer(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// read16 reads a little-endian word.
func (c *CPU) read16(address uint16) uint16 {
	lo := uint16(c.mem.Read(address))
	hi := uint16(c.mem.Read(address + 1))
	return hi<<8 | lo
}

// read16Bug reads a word without carrying into the high address byte,
// matching JMP ($xxFF) and the zero-page indirect modes.
func (c *CPU) read16Bug(address uint16) uint16 {
	lo := uint16(c.mem.Read(address))
	wrapped := address&0xFF00 | uint16(uint8(address)+1)
	hi := uint16(c.mem.Read(wrapped))
	return hi<<8 | lo
}

func (c *CPU) push(value uint8) {
	c.mem.Write(stackBase|uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pull() uint8 {
	c.SP++
	return c.mem.Read(stackBase | uint16(c.SP))
}

func (c *CPU) push16(value uint16) {
	c.push(uint8(value >> 8))
	c.push(uint8(value))
}

func (c *CPU) pull16() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

// status packs the flags into the pushed-register layout with the
// unused bit set.
func (c *CPU) status() uint8 {
	var p uint8 = 0x20
	if c.C {
		p |= 0x01
	}
	if c.Z {
		p |= 0x02
	}
	if c.I {
		p |= 0x04
	}
	if c.D {
		p |= 0x08
	}
	if c.B {
		p |= 0x10
	}
	if c.V {
		p |= 0x40
	}
	if c.N {
		p |= 0x80
	}
	return p
}

func (c *CPU) setStatus(p uint8) {
	c.C = p&0x01 != 0
	c.Z = p&0x02 != 0
	c.I = p&0x04 != 0
	c.D = p&0x08 != 0
	c.B = p&0x10 != 0
	c.V = p&0x40 != 0
	c.N = p&0x80 != 0
}

// Status returns the packed status register.
func (c *CPU) Status() uint8 { return c.status() }

func (c *CPU) setZN(value uint8) {
	c.Z = value == 0
	c.N = value&0x80 != 0
}
