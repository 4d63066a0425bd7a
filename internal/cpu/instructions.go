package cpu

// opcodes is the full decode table. Write and read-modify-write
// instructions carry the indexed-crossing cost in their base cycle
// count; read instructions charge it through PageCycles.
var opcodes = [256]Instruction{
	// Load
	0xA9: {"LDA", 2, 2, 0, Immediate},
	0xA5: {"LDA", 2, 3, 0, ZeroPage},
	0xB5: {"LDA", 2, 4, 0, ZeroPageX},
	0xAD: {"LDA", 3, 4, 0, Absolute},
	0xBD: {"LDA", 3, 4, 1, AbsoluteX},
	0xB9: {"LDA", 3, 4, 1, AbsoluteY},
	0xA1: {"LDA", 2, 6, 0, IndexedIndirect},
	0xB1: {"LDA", 2, 5, 1, IndirectIndexed},

	0xA2: {"LDX", 2, 2, 0, Immediate},
	0xA6: {"LDX", 2, 3, 0, ZeroPage},
	0xB6: {"LDX", 2, 4, 0, ZeroPageY},
	0xAE: {"LDX", 3, 4, 0, Absolute},
	0xBE: {"LDX", 3, 4, 1, AbsoluteY},

	0xA0: {"LDY", 2, 2, 0, Immediate},
	0xA4: {"LDY", 2, 3, 0, ZeroPage},
	0xB4: {"LDY", 2, 4, 0, ZeroPageX},
	0xAC: {"LDY", 3, 4, 0, Absolute},
	0xBC: {"LDY", 3, 4, 1, AbsoluteX},

	// Store
	0x85: {"STA", 2, 3, 0, ZeroPage},
	0x95: {"STA", 2, 4, 0, ZeroPageX},
	0x8D: {"STA", 3, 4, 0, Absolute},
	0x9D: {"STA", 3, 5, 0, AbsoluteX},
	0x99: {"STA", 3, 5, 0, AbsoluteY},
	0x81: {"STA", 2, 6, 0, IndexedIndirect},
	0x91: {"STA", 2, 6, 0, IndirectIndexed},

	0x86: {"STX", 2, 3, 0, ZeroPage},
	0x96: {"STX", 2, 4, 0, ZeroPageY},
	0x8E: {"STX", 3, 4, 0, Absolute},

	0x84: {"STY", 2, 3, 0, ZeroPage},
	0x94: {"STY", 2, 4, 0, ZeroPageX},
	0x8C: {"STY", 3, 4, 0, Absolute},

	// Transfers
	0xAA: {"TAX", 1, 2, 0, Implied},
	0xA8: {"TAY", 1, 2, 0, Implied},
	0x8A: {"TXA", 1, 2, 0, Implied},
	0x98: {"TYA", 1, 2, 0, Implied},
	0xBA: {"TSX", 1, 2, 0, Implied},
	0x9A: {"TXS", 1, 2, 0, Implied},

	// Stack
	0x48: {"PHA", 1, 3, 0, Implied},
	0x08: {"PHP", 1, 3, 0, Implied},
	0x68: {"PLA", 1, 4, 0, Implied},
	0x28: {"PLP", 1, 4, 0, Implied},

	// Arithmetic
	0x69: {"ADC", 2, 2, 0, Immediate},
	0x65: {"ADC", 2, 3, 0, ZeroPage},
	0x75: {"ADC", 2, 4, 0, ZeroPageX},
	0x6D: {"ADC", 3, 4, 0, Absolute},
	0x7D: {"ADC", 3, 4, 1, AbsoluteX},
	0x79: {"ADC", 3, 4, 1, AbsoluteY},
	0x61: {"ADC", 2, 6, 0, IndexedIndirect},
	0x71: {"ADC", 2, 5, 1, IndirectIndexed},

	0xE9: {"SBC", 2, 2, 0, Immediate},
	0xE5: {"SBC", 2, 3, 0, ZeroPage},
	0xF5: {"SBC", 2, 4, 0, ZeroPageX},
	0xED: {"SBC", 3, 4, 0, Absolute},
	0xFD: {"SBC", 3, 4, 1, AbsoluteX},
	0xF9: {"SBC", 3, 4, 1, AbsoluteY},
	0xE1: {"SBC", 2, 6, 0, IndexedIndirect},
	0xF1: {"SBC", 2, 5, 1, IndirectIndexed},
	0xEB: {"SBC", 2, 2, 0, Immediate}, // unofficial alias

	// Logic
	0x29: {"AND", 2, 2, 0, Immediate},
	0x25: {"AND", 2, 3, 0, ZeroPage},
	0x35: {"AND", 2, 4, 0, ZeroPageX},
	0x2D: {"AND", 3, 4, 0, Absolute},
	0x3D: {"AND", 3, 4, 1, AbsoluteX},
	0x39: {"AND", 3, 4, 1, AbsoluteY},
	0x21: {"AND", 2, 6, 0, IndexedIndirect},
	0x31: {"AND", 2, 5, 1, IndirectIndexed},

	0x09: {"ORA", 2, 2, 0, Immediate},
	0x05: {"ORA", 2, 3, 0, ZeroPage},
	0x15: {"ORA", 2, 4, 0, ZeroPageX},
	0x0D: {"ORA", 3, 4, 0, Absolute},
	0x1D: {"ORA", 3, 4, 1, AbsoluteX},
	0x19: {"ORA", 3, 4, 1, AbsoluteY},
	0x01: {"ORA", 2, 6, 0, IndexedIndirect},
	0x11: {"ORA", 2, 5, 1, IndirectIndexed},

	0x49: {"EOR", 2, 2, 0, Immediate},
	0x45: {"EOR", 2, 3, 0, ZeroPage},
	0x55: {"EOR", 2, 4, 0, ZeroPageX},
	0x4D: {"EOR", 3, 4, 0, Absolute},
	0x5D: {"EOR", 3, 4, 1, AbsoluteX},
	0x59: {"EOR", 3, 4, 1, AbsoluteY},
	0x41: {"EOR", 2, 6, 0, IndexedIndirect},
	0x51: {"EOR", 2, 5, 1, IndirectIndexed},

	// Compare
	0xC9: {"CMP", 2, 2, 0, Immediate},
	0xC5: {"CMP", 2, 3, 0, ZeroPage},
	0xD5: {"CMP", 2, 4, 0, ZeroPageX},
	0xCD: {"CMP", 3, 4, 0, Absolute},
	0xDD: {"CMP", 3, 4, 1, AbsoluteX},
	0xD9: {"CMP", 3, 4, 1, AbsoluteY},
	0xC1: {"CMP", 2, 6, 0, IndexedIndirect},
	0xD1: {"CMP", 2, 5, 1, IndirectIndexed},

	0xE0: {"CPX", 2, 2, 0, Immediate},
	0xE4: {"CPX", 2, 3, 0, ZeroPage},
	0xEC: {"CPX", 3, 4, 0, Absolute},

	0xC0: {"CPY", 2, 2, 0, Immediate},
	0xC4: {"CPY", 2, 3, 0, ZeroPage},
	0xCC: {"CPY", 3, 4, 0, Absolute},

	// Increment/decrement
	0xE6: {"INC", 2, 5, 0, ZeroPage},
	0xF6: {"INC", 2, 6, 0, ZeroPageX},
	0xEE: {"INC", 3, 6, 0, Absolute},
	0xFE: {"INC", 3, 7, 0, AbsoluteX},
	0xE8: {"INX", 1, 2, 0, Implied},
	0xC8: {"INY", 1, 2, 0, Implied},

	0xC6: {"DEC", 2, 5, 0, ZeroPage},
	0xD6: {"DEC", 2, 6, 0, ZeroPageX},
	0xCE: {"DEC", 3, 6, 0, Absolute},
	0xDE: {"DEC", 3, 7, 0, AbsoluteX},
	0xCA: {"DEX", 1, 2, 0, Implied},
	0x88: {"DEY", 1, 2, 0, Implied},

	// Shifts and rotates
	0x0A: {"ASL", 1, 2, 0, Accumulator},
	0x06: {"ASL", 2, 5, 0, ZeroPage},
	0x16: {"ASL", 2, 6, 0, ZeroPageX},
	0x0E: {"ASL", 3, 6, 0, Absolute},
	0x1E: {"ASL", 3, 7, 0, AbsoluteX},

	0x4A: {"LSR", 1, 2, 0, Accumulator},
	0x46: {"LSR", 2, 5, 0, ZeroPage},
	0x56: {"LSR", 2, 6, 0, ZeroPageX},
	0x4E: {"LSR", 3, 6, 0, Absolute},
	0x5E: {"LSR", 3, 7, 0, AbsoluteX},

	0x2A: {"ROL", 1, 2, 0, Accumulator},
	0x26: {"ROL", 2, 5, 0, ZeroPage},
	0x36: {"ROL", 2, 6, 0, ZeroPageX},
	0x2E: {"ROL", 3, 6, 0, Absolute},
	0x3E: {"ROL", 3, 7, 0, AbsoluteX},

	0x6A: {"ROR", 1, 2, 0, Accumulator},
	0x66: {"ROR", 2, 5, 0, ZeroPage},
	0x76: {"ROR", 2, 6, 0, ZeroPageX},
	0x6E: {"ROR", 3, 6, 0, Absolute},
	0x7E: {"ROR", 3, 7, 0, AbsoluteX},

	// Jumps and subroutines
	0x4C: {"JMP", 3, 3, 0, Absolute},
	0x6C: {"JMP", 3, 5, 0, Indirect},
	0x20: {"JSR", 3, 6, 0, Absolute},
	0x60: {"RTS", 1, 6, 0, Implied},
	0x40: {"RTI", 1, 6, 0, Implied},

	// Branches: +1 when taken, +1 more when the target crosses a page
	0x90: {"BCC", 2, 2, 0, Relative},
	0xB0: {"BCS", 2, 2, 0, Relative},
	0xF0: {"BEQ", 2, 2, 0, Relative},
	0xD0: {"BNE", 2, 2, 0, Relative},
	0x30: {"BMI", 2, 2, 0, Relative},
	0x10: {"BPL", 2, 2, 0, Relative},
	0x50: {"BVC", 2, 2, 0, Relative},
	0x70: {"BVS", 2, 2, 0, Relative},

	// Bit test
	0x24: {"BIT", 2, 3, 0, ZeroPage},
	0x2C: {"BIT", 3, 4, 0, Absolute},

	// Flag manipulation
	0x18: {"CLC", 1, 2, 0, Implied},
	0xD8: {"CLD", 1, 2, 0, Implied},
	0x58: {"CLI", 1, 2, 0, Implied},
	0xB8: {"CLV", 1, 2, 0, Implied},
	0x38: {"SEC", 1, 2, 0, Implied},
	0xF8: {"SED", 1, 2, 0, Implied},
	0x78: {"SEI", 1, 2, 0, Implied},

	0x00: {"BRK", 1, 7, 0, Implied},
	0xEA: {"NOP", 1, 2, 0, Implied},

	// Unofficial: combined load/store
	0xA7: {"LAX", 2, 3, 0, ZeroPage},
	0xB7: {"LAX", 2, 4, 0, ZeroPageY},
	0xAF: {"LAX", 3, 4, 0, Absolute},
	0xBF: {"LAX", 3, 4, 1, AbsoluteY},
	0xA3: {"LAX", 2, 6, 0, IndexedIndirect},
	0xB3: {"LAX", 2, 5, 1, IndirectIndexed},

	0x87: {"SAX", 2, 3, 0, ZeroPage},
	0x97: {"SAX", 2, 4, 0, ZeroPageY},
	0x8F: {"SAX", 3, 4, 0, Absolute},
	0x83: {"SAX", 2, 6, 0, IndexedIndirect},

	// Unofficial: read-modify-write plus operation
	0xC7: {"DCP", 2, 5, 0, ZeroPage},
	0xD7: {"DCP", 2, 6, 0, ZeroPageX},
	0xCF: {"DCP", 3, 6, 0, Absolute},
	0xDF: {"DCP", 3, 7, 0, AbsoluteX},
	0xDB: {"DCP", 3, 7, 0, AbsoluteY},
	0xC3: {"DCP", 2, 8, 0, IndexedIndirect},
	0xD3: {"DCP", 2, 8, 0, IndirectIndexed},

	0xE7: {"ISC", 2, 5, 0, ZeroPage},
	0xF7: {"ISC", 2, 6, 0, ZeroPageX},
	0xEF: {"ISC", 3, 6, 0, Absolute},
	0xFF: {"ISC", 3, 7, 0, AbsoluteX},
	0xFB: {"ISC", 3, 7, 0, AbsoluteY},
	0xE3: {"ISC", 2, 8, 0, IndexedIndirect},
	0xF3: {"ISC", 2, 8, 0, IndirectIndexed},

	0x07: {"SLO", 2, 5, 0, ZeroPage},
	0x17: {"SLO", 2, 6, 0, ZeroPageX},
	0x0F: {"SLO", 3, 6, 0, Absolute},
	0x1F: {"SLO", 3, 7, 0, AbsoluteX},
	0x1B: {"SLO", 3, 7, 0, AbsoluteY},
	0x03: {"SLO", 2, 8, 0, IndexedIndirect},
	0x13: {"SLO", 2, 8, 0, IndirectIndexed},

	0x27: {"RLA", 2, 5, 0, ZeroPage},
	0x37: {"RLA", 2, 6, 0, ZeroPageX},
	0x2F: {"RLA", 3, 6, 0, Absolute},
	0x3F: {"RLA", 3, 7, 0, AbsoluteX},
	0x3B: {"RLA", 3, 7, 0, AbsoluteY},
	0x23: {"RLA", 2, 8, 0, IndexedIndirect},
	0x33: {"RLA", 2, 8, 0, IndirectIndexed},

	0x47: {"SRE", 2, 5, 0, ZeroPage},
	0x57: {"SRE", 2, 6, 0, ZeroPageX},
	0x4F: {"SRE", 3, 6, 0, Absolute},
	0x5F: {"SRE", 3, 7, 0, AbsoluteX},
	0x5B: {"SRE", 3, 7, 0, AbsoluteY},
	0x43: {"SRE", 2, 8, 0, IndexedIndirect},
	0x53: {"SRE", 2, 8, 0, IndirectIndexed},

	0x67: {"RRA", 2, 5, 0, ZeroPage},
	0x77: {"RRA", 2, 6, 0, ZeroPageX},
	0x6F: {"RRA", 3, 6, 0, Absolute},
	0x7F: {"RRA", 3, 7, 0, AbsoluteX},
	0x7B: {"RRA", 3, 7, 0, AbsoluteY},
	0x63: {"RRA", 2, 8, 0, IndexedIndirect},
	0x73: {"RRA", 2, 8, 0, IndirectIndexed},

	// Unofficial: immediate-mode logic
	0x0B: {"ANC", 2, 2, 0, Immediate},
	0x2B: {"ANC", 2, 2, 0, Immediate},
	0x4B: {"ALR", 2, 2, 0, Immediate},
	0x6B: {"ARR", 2, 2, 0, Immediate},
	0xCB: {"AXS", 2, 2, 0, Immediate},

	// Unofficial NOPs with operand fetches
	0x1A: {"NOP", 1, 2, 0, Implied},
	0x3A: {"NOP", 1, 2, 0, Implied},
	0x5A: {"NOP", 1, 2, 0, Implied},
	0x7A: {"NOP", 1, 2, 0, Implied},
	0xDA: {"NOP", 1, 2, 0, Implied},
	0xFA: {"NOP", 1, 2, 0, Implied},
	0x80: {"NOP", 2, 2, 0, Immediate},
	0x82: {"NOP", 2, 2, 0, Immediate},
	0x89: {"NOP", 2, 2, 0, Immediate},
	0xC2: {"NOP", 2, 2, 0, Immediate},
	0xE2: {"NOP", 2, 2, 0, Immediate},
	0x04: {"NOP", 2, 3, 0, ZeroPage},
	0x44: {"NOP", 2, 3, 0, ZeroPage},
	0x64: {"NOP", 2, 3, 0, ZeroPage},
	0x14: {"NOP", 2, 4, 0, ZeroPageX},
	0x34: {"NOP", 2, 4, 0, ZeroPageX},
	0x54: {"NOP", 2, 4, 0, ZeroPageX},
	0x74: {"NOP", 2, 4, 0, ZeroPageX},
	0xD4: {"NOP", 2, 4, 0, ZeroPageX},
	0xF4: {"NOP", 2, 4, 0, ZeroPageX},
	0x0C: {"NOP", 3, 4, 0, Absolute},
	0x1C: {"NOP", 3, 4, 1, AbsoluteX},
	0x3C: {"NOP", 3, 4, 1, AbsoluteX},
	0x5C: {"NOP", 3, 4, 1, AbsoluteX},
	0x7C: {"NOP", 3, 4, 1, AbsoluteX},
	0xDC: {"NOP", 3, 4, 1, AbsoluteX},
	0xFC: {"NOP", 3, 4, 1, AbsoluteX},
}

func init() {
	// The remaining opcodes jam the hardware; decode them as 2-cycle
	// implied NOPs so a runaway program keeps the core stepping.
	for i := range opcodes {
		if opcodes[i].Name == "" {
			opcodes[i] = Instruction{"JAM", 1, 2, 0, Implied}
		}
	}
}

// execute runs one decoded opcode and returns the branch surcharge
// cycles, if any.
func (c *CPU) execute(opcode uint8, address uint16, mode AddressingMode) uint8 {
	switch opcode {
	// Load/store
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		c.A = c.mem.Read(address)
		c.setZN(c.A)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		c.X = c.mem.Read(address)
		c.setZN(c.X)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		c.Y = c.mem.Read(address)
		c.setZN(c.Y)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		c.mem.Write(address, c.A)
	case 0x86, 0x96, 0x8E:
		c.mem.Write(address, c.X)
	case 0x84, 0x94, 0x8C:
		c.mem.Write(address, c.Y)

	// Transfers
	case 0xAA:
		c.X = c.A
		c.setZN(c.X)
	case 0xA8:
		c.Y = c.A
		c.setZN(c.Y)
	case 0x8A:
		c.A = c.X
		c.setZN(c.A)
	case 0x98:
		c.A = c.Y
		c.setZN(c.A)
	case 0xBA:
		c.X = c.SP
		c.setZN(c.X)
	case 0x9A:
		c.SP = c.X

	// Stack
	case 0x48:
		c.push(c.A)
	case 0x08:
		// PHP pushes with the B bit set.
		c.push(c.status() | 0x10)
	case 0x68:
		c.A = c.pull()
		c.setZN(c.A)
	case 0x28:
		c.setStatus(c.pull())
		c.B = false

	// Arithmetic
	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		c.adc(c.mem.Read(address))
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		c.adc(^c.mem.Read(address))

	// Logic
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		c.A &= c.mem.Read(address)
		c.setZN(c.A)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		c.A |= c.mem.Read(address)
		c.setZN(c.A)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		c.A ^= c.mem.Read(address)
		c.setZN(c.A)

	// Compare
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		c.compare(c.A, c.mem.Read(address))
	case 0xE0, 0xE4, 0xEC:
		c.compare(c.X, c.mem.Read(address))
	case 0xC0, 0xC4, 0xCC:
		c.compare(c.Y, c.mem.Read(address))

	// Increment/decrement
	case 0xE6, 0xF6, 0xEE, 0xFE:
		value := c.mem.Read(address) + 1
		c.mem.Write(address, value)
		c.setZN(value)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		value := c.mem.Read(address) - 1
		c.mem.Write(address, value)
		c.setZN(value)
	case 0xE8:
		c.X++
		c.setZN(c.X)
	case 0xC8:
		c.Y++
		c.setZN(c.Y)
	case 0xCA:
		c.X--
		c.setZN(c.X)
	case 0x88:
		c.Y--
		c.setZN(c.Y)

	// Shifts and rotates
	case 0x0A, 0x06, 0x16, 0x0E, 0x1E:
		c.modify(address, mode, c.asl)
	case 0x4A, 0x46, 0x56, 0x4E, 0x5E:
		c.modify(address, mode, c.lsr)
	case 0x2A, 0x26, 0x36, 0x2E, 0x3E:
		c.modify(address, mode, c.rol)
	case 0x6A, 0x66, 0x76, 0x6E, 0x7E:
		c.modify(address, mode, c.ror)

	// Jumps
	case 0x4C, 0x6C:
		c.PC = address
	case 0x20:
		c.push16(c.PC - 1)
		c.PC = address
	case 0x60:
		c.PC = c.pull16() + 1
	case 0x40:
		c.setStatus(c.pull())
		c.B = false
		c.PC = c.pull16()

	// Branches
	case 0x90:
		return c.branch(address, !c.C)
	case 0xB0:
		return c.branch(address, c.C)
	case 0xF0:
		return c.branch(address, c.Z)
	case 0xD0:
		return c.branch(address, !c.Z)
	case 0x30:
		return c.branch(address, c.N)
	case 0x10:
		return c.branch(address, !c.N)
	case 0x50:
		return c.branch(address, !c.V)
	case 0x70:
		return c.branch(address, c.V)

	// Bit test
	case 0x24, 0x2C:
		value := c.mem.Read(address)
		c.Z = c.A&value == 0
		c.V = value&0x40 != 0
		c.N = value&0x80 != 0

	// Flags
	case 0x18:
		c.C = false
	case 0xD8:
		c.D = false
	case 0x58:
		c.I = false
	case 0xB8:
		c.V = false
	case 0x38:
		c.C = true
	case 0xF8:
		c.D = true
	case 0x78:
		c.I = true

	case 0x00: // BRK: software interrupt through the IRQ vector
		c.push16(c.PC + 1)
		c.push(c.status() | 0x10)
		c.I = true
		c.PC = c.read16(irqVector)

	// Unofficial
	case 0xA7, 0xB7, 0xAF, 0xBF, 0xA3, 0xB3: // LAX
		value := c.mem.Read(address)
		c.A = value
		c.X = value
		c.setZN(value)
	case 0x87, 0x97, 0x8F, 0x83: // SAX
		c.mem.Write(address, c.A&c.X)
	case 0xC7, 0xD7, 0xCF, 0xDF, 0xDB, 0xC3, 0xD3: // DCP
		value := c.mem.Read(address) - 1
		c.mem.Write(address, value)
		c.compare(c.A, value)
	case 0xE7, 0xF7, 0xEF, 0xFF, 0xFB, 0xE3, 0xF3: // ISC
		value := c.mem.Read(address) + 1
		c.mem.Write(address, value)
		c.adc(^value)
	case 0x07, 0x17, 0x0F, 0x1F, 0x1B, 0x03, 0x13: // SLO
		value := c.asl(c.mem.Read(address))
		c.mem.Write(address, value)
		c.A |= value
		c.setZN(c.A)
	case 0x27, 0x37, 0x2F, 0x3F, 0x3B, 0x23, 0x33: // RLA
		value := c.rol(c.mem.Read(address))
		c.mem.Write(address, value)
		c.A &= value
		c.setZN(c.A)
	case 0x47, 0x57, 0x4F, 0x5F, 0x5B, 0x43, 0x53: // SRE
		value := c.lsr(c.mem.Read(address))
		c.mem.Write(address, value)
		c.A ^= value
		c.setZN(c.A)
	case 0x67, 0x77, 0x6F, 0x7F, 0x7B, 0x63, 0x73: // RRA
		value := c.ror(c.mem.Read(address))
		c.mem.Write(address, value)
		c.adc(value)
	case 0x0B, 0x2B: // ANC: AND, then copy N into C
		c.A &= c.mem.Read(address)
		c.setZN(c.A)
		c.C = c.N
	case 0x4B: // ALR: AND, then LSR A
		c.A &= c.mem.Read(address)
		c.A = c.lsr(c.A)
		c.setZN(c.A)
	case 0x6B: // ARR: AND, ROR A, flags from bits 6/5
		c.A &= c.mem.Read(address)
		c.A = (c.A >> 1)
		if c.C {
			c.A |= 0x80
		}
		c.setZN(c.A)
		c.C = c.A&0x40 != 0
		c.V = (c.A>>6)&0x01 != (c.A>>5)&0x01
	case 0xCB: // AXS: X = (A AND X) - operand
		value := c.mem.Read(address)
		and := c.A & c.X
		c.C = and >= value
		c.X = and - value
		c.setZN(c.X)

	case 0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA:
		// Official and unofficial implied NOPs.
	default:
		// Unofficial NOPs with an operand still perform the read.
		if mode != Implied && mode != Accumulator {
			c.mem.Read(address)
		}
	}
	return 0
}

// adc adds value plus carry into A. SBC routes through here with the
// operand complemented.
func (c *CPU) adc(value uint8) {
	sum := uint16(c.A) + uint16(value)
	if c.C {
		sum++
	}
	result := uint8(sum)
	c.C = sum > 0xFF
	c.V = (c.A^result)&(value^result)&0x80 != 0
	c.A = result
	c.setZN(result)
}

func (c *CPU) compare(register, value uint8) {
	c.C = register >= value
	c.setZN(register - value)
}

// modify applies a read-modify-write operation to memory or, for
// accumulator mode, to A.
func (c *CPU) modify(address uint16, mode AddressingMode, op func(uint8) uint8) {
	if mode == Accumulator {
		c.A = op(c.A)
		c.setZN(c.A)
		return
	}
	value := op(c.mem.Read(address))
	c.mem.Write(address, value)
	c.setZN(value)
}

func (c *CPU) asl(value uint8) uint8 {
	c.C = value&0x80 != 0
	return value << 1
}

func (c *CPU) lsr(value uint8) uint8 {
	c.C = value&0x01 != 0
	return value >> 1
}

func (c *CPU) rol(value uint8) uint8 {
	carry := c.C
	c.C = value&0x80 != 0
	value <<= 1
	if carry {
		value |= 0x01
	}
	return value
}

func (c *CPU) ror(value uint8) uint8 {
	carry := c.C
	c.C = value&0x01 != 0
	value >>= 1
	if carry {
		value |= 0x80
	}
	return value
}

// branch moves PC when taken, charging one cycle plus one more for a
// page crossing.
func (c *CPU) branch(target uint16, taken bool) uint8 {
	if !taken {
		return 0
	}
	extra := uint8(1)
	if pageDiffer(c.PC, target) {
		extra = 2
	}
	c.PC = target
	return extra
}
