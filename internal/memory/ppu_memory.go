package memory

import "github.com/fittysix/oxidenes/internal/cartridge"

// CHRCartridge is the PPU-visible side of the cartridge: pattern
// tables, the current mirroring, and the address-line notifications
// scanline-counting mappers watch.
type CHRCartridge interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	Mirror() cartridge.MirrorMode
	NotifyPPUAddress(address uint16)
}

// PPUMemory decodes the PPU's 16KB address space: cartridge pattern
// tables below $2000, nametable VRAM to $3EFF, palette RAM above.
type PPUMemory struct {
	vram    [0x1000]uint8 // 2KB console VRAM plus room for four-screen
	palette [32]uint8
	cart    CHRCartridge
}

// NewPPUMemory creates the PPU address space.
func NewPPUMemory(cart CHRCartridge) *PPUMemory {
	return &PPUMemory{cart: cart}
}

// SetCartridge attaches or swaps the cartridge.
func (p *PPUMemory) SetCartridge(cart CHRCartridge) { p.cart = cart }

// Read performs one PPU bus read. The cartridge observes the address
// even for nametable fetches, matching the shared PPU address bus.
func (p *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		if p.cart == nil {
			return 0
		}
		p.cart.NotifyPPUAddress(address)
		return p.cart.ReadCHR(address)
	case address < 0x3F00:
		if p.cart != nil {
			p.cart.NotifyPPUAddress(address)
		}
		return p.vram[p.nametableIndex(address)]
	default:
		return p.ReadPalette(address)
	}
}

// Write performs one PPU bus write.
func (p *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		if p.cart != nil {
			p.cart.NotifyPPUAddress(address)
			p.cart.WriteCHR(address, value)
		}
	case address < 0x3F00:
		if p.cart != nil {
			p.cart.NotifyPPUAddress(address)
		}
		p.vram[p.nametableIndex(address)] = value
	default:
		p.WritePalette(address, value)
	}
}

// nametableIndex translates a $2000-$3EFF address through the
// cartridge's mirroring into the VRAM array.
func (p *PPUMemory) nametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	table := address / 0x0400
	offset := address & 0x03FF

	mode := cartridge.MirrorHorizontal
	if p.cart != nil {
		mode = p.cart.Mirror()
	}

	var physical uint16
	switch mode {
	case cartridge.MirrorHorizontal:
		physical = (table / 2) & 0x01
	case cartridge.MirrorVertical:
		physical = table & 0x01
	case cartridge.MirrorSingleLower:
		physical = 0
	case cartridge.MirrorSingleUpper:
		physical = 1
	case cartridge.MirrorFourScreen:
		physical = table
	}
	return physical*0x0400 + offset
}

// ReadPalette reads palette RAM. The sprite backdrop mirrors
// ($3F10/$14/$18/$1C) resolve to their background entries.
func (p *PPUMemory) ReadPalette(address uint16) uint8 {
	return p.palette[paletteIndex(address)]
}

// WritePalette writes palette RAM through the same mirroring.
func (p *PPUMemory) WritePalette(address uint16, value uint8) {
	p.palette[paletteIndex(address)] = value
}

func paletteIndex(address uint16) uint16 {
	index := address & 0x1F
	if index >= 0x10 && index%4 == 0 {
		index -= 0x10
	}
	return index
}
