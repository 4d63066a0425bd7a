// Package memory implements the CPU and PPU address spaces of the NES.
package memory

// PPURegisters is the register file the PPU exposes at $2000-$2007.
type PPURegisters interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// APURegisters is the register file the APU exposes at $4000-$4017.
type APURegisters interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// Controllers is the input port pair at $4016/$4017.
type Controllers interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// PRGCartridge is the CPU-visible side of the cartridge.
type PRGCartridge interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
}

// Memory decodes the CPU's 64KB address space onto work RAM and the
// peripherals. It owns the 2KB of work RAM; everything else is
// borrowed.
type Memory struct {
	ram [0x800]uint8

	ppu   PPURegisters
	apu   APURegisters
	input Controllers
	cart  PRGCartridge

	// dma, when set, is invoked for writes to $4014 with the source
	// page.
	dma func(page uint8)

	// openBus holds the last byte seen on the data bus; reads of
	// unmapped addresses return it.
	openBus uint8
}

// New creates the CPU memory map. The cartridge may be attached later
// with SetCartridge.
func New(ppu PPURegisters, apu APURegisters, input Controllers, cart PRGCartridge) *Memory {
	return &Memory{ppu: ppu, apu: apu, input: input, cart: cart}
}

// SetCartridge attaches or swaps the cartridge.
func (m *Memory) SetCartridge(cart PRGCartridge) { m.cart = cart }

// SetDMAHandler installs the OAM DMA trigger.
func (m *Memory) SetDMAHandler(fn func(page uint8)) { m.dma = fn }

// Read performs one CPU bus read. Reads of side-effectful registers
// tick the owning peripheral.
func (m *Memory) Read(address uint16) uint8 {
	var value uint8
	switch {
	case address < 0x2000:
		value = m.ram[address&0x07FF]
	case address < 0x4000:
		value = m.ppu.ReadRegister(0x2000 | address&0x0007)
	case address == 0x4015:
		value = m.apu.ReadStatus()
	case address == 0x4016, address == 0x4017:
		value = m.input.Read(address)
	case address >= 0x4020:
		if m.cart != nil {
			value = m.cart.ReadPRG(address)
		}
	default:
		// $4000-$4013 and $4014 are write-only.
		value = m.openBus
	}
	m.openBus = value
	return value
}

// Write performs one CPU bus write.
func (m *Memory) Write(address uint16, value uint8) {
	m.openBus = value
	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value
	case address < 0x4000:
		m.ppu.WriteRegister(0x2000|address&0x0007, value)
	case address == 0x4014:
		if m.dma != nil {
			m.dma(value)
		}
	case address == 0x4016:
		m.input.Write(address, value)
	case address <= 0x4013, address == 0x4015, address == 0x4017:
		m.apu.WriteRegister(address, value)
	case address >= 0x4020:
		if m.cart != nil {
			m.cart.WritePRG(address, value)
		}
	}
}

// Read16 reads a little-endian word through two bus reads.
func (m *Memory) Read16(address uint16) uint16 {
	return uint16(m.Read(address)) | uint16(m.Read(address+1))<<8
}
