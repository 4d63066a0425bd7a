// Package ppu implements the 2C02 picture processing unit: the
// register file at $2000-$2007, the background and sprite pipelines,
// and VBlank/NMI generation. The PPU is clocked at three times the CPU
// rate; Step advances one dot.
package ppu

import "github.com/fittysix/oxidenes/internal/memory"

// Screen dimensions of the visible raster.
const (
	ScreenWidth  = 256
	ScreenHeight = 240
)

// PPUCTRL bits.
const (
	ctrlIncrement32  = 0x04
	ctrlSpriteTable  = 0x08
	ctrlPatternTable = 0x10
	ctrlSpriteSize16 = 0x20
	ctrlNMIEnable    = 0x80
)

// PPUMASK bits.
const (
	maskGreyscale      = 0x01
	maskShowLeftBG     = 0x02
	maskShowLeftSprite = 0x04
	maskShowBG         = 0x08
	maskShowSprites    = 0x10
)

// PPUSTATUS bits.
const (
	statusOverflow = 0x20
	statusSprite0  = 0x40
	statusVBlank   = 0x80
)

// PPU holds the full rendering state machine.
type PPU struct {
	mem *memory.PPUMemory

	// Register file
	ctrl   uint8
	mask   uint8
	status uint8

	oamAddr uint8
	oam     [256]uint8

	// Loopy internal registers
	v uint16 // current VRAM address
	t uint16 // temporary VRAM address
	x uint8  // fine X scroll
	w bool   // second-write toggle

	readBuffer uint8 // $2007 buffered value
	latch      uint8 // last byte driven onto the register bus

	// Timing
	scanline int // 0-261, 241 starts VBlank, 261 is pre-render
	dot      int // 0-340
	frame    uint64
	oddFrame bool

	// Background pipeline
	nametableByte uint8
	attributeByte uint8
	lowTileByte   uint8
	highTileByte  uint8
	tileShiftLow  uint16
	tileShiftHigh uint16
	attrShiftLow  uint16
	attrShiftHigh uint16

	// Sprite pipeline, prepared during dot 257 for the next line
	spriteCount     int
	spritePatterns  [8]uint32
	spritePositions [8]uint8
	spritePriority  [8]uint8
	spriteIndexes   [8]uint8

	// Interrupt and frame intents, polled by the bus
	nmiPending    bool
	frameComplete bool

	screen [ScreenWidth * ScreenHeight]uint32
}

// New creates a PPU attached to its address space.
func New(mem *memory.PPUMemory) *PPU {
	p := &PPU{mem: mem}
	p.Reset()
	return p
}

// Reset restores the power-up register and timing state and starts on
// an even frame. OAM, VRAM and the completed raster are left as they are.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.v, p.t, p.x = 0, 0, 0
	p.w = false
	p.readBuffer = 0
	p.scanline = 261
	p.dot = 0
	p.oddFrame = false
	p.nmiPending = false
	p.frameComplete = false
}

// Scanline returns the current scanline for timing-sensitive callers.
func (p *PPU) Scanline() int { return p.scanline }

// Dot returns the current dot within the scanline.
func (p *PPU) Dot() int { return p.dot }

// Frame returns the number of completed frames.
func (p *PPU) Frame() uint64 { return p.frame }

// Screen returns the 256x240 buffer of packed 0x00RRGGBB pixels for
// the most recently completed frame.
func (p *PPU) Screen() *[ScreenWidth * ScreenHeight]uint32 { return &p.screen }

// TakeNMI reports and clears a pending NMI edge.
func (p *PPU) TakeNMI() bool {
	pending := p.nmiPending
	p.nmiPending = false
	return pending
}

// TakeFrame reports and clears the end-of-visible-frame marker.
func (p *PPU) TakeFrame() bool {
	done := p.frameComplete
	p.frameComplete = false
	return done
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

// Step advances the PPU by one dot.
func (p *PPU) Step() {
	p.advance()

	preRender := p.scanline == 261
	visibleLine := p.scanline < 240
	renderLine := preRender || visibleLine
	visibleDot := p.dot >= 1 && p.dot <= 256
	fetchDot := visibleDot || (p.dot >= 321 && p.dot <= 336)

	if p.renderingEnabled() {
		if visibleLine && visibleDot {
			p.renderPixel()
		}

		if renderLine && fetchDot {
			p.shiftBackground()
			switch p.dot % 8 {
			case 1:
				p.fetchNametableByte()
			case 3:
				p.fetchAttributeByte()
			case 5:
				p.fetchLowTileByte()
			case 7:
				p.fetchHighTileByte()
			case 0:
				p.loadShifters()
				p.incrementX()
			}
		}

		switch {
		case renderLine && p.dot == 256:
			p.incrementY()
		case renderLine && p.dot == 257:
			p.copyX()
		case preRender && p.dot >= 280 && p.dot <= 304:
			p.copyY()
		}

		if p.dot == 257 {
			if visibleLine {
				p.evaluateSprites()
			} else {
				p.spriteCount = 0
			}
		}
	}

	switch {
	case p.scanline == 241 && p.dot == 1:
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.nmiPending = true
		}
	case preRender && p.dot == 1:
		p.status &^= statusVBlank | statusSprite0 | statusOverflow
	case p.scanline == 240 && p.dot == 0:
		// The raster is complete; hand the frame upward.
		p.frameComplete = true
	}
}

// advance moves the dot counter, handling wrap and the odd-frame skip
// of pre-render dot 339.
func (p *PPU) advance() {
	if p.scanline == 261 && p.dot == 338 && p.oddFrame && p.renderingEnabled() {
		p.dot = 340
		return
	}
	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.frame++
			p.oddFrame = !p.oddFrame
		}
	}
}

// --- Background pipeline ---

func (p *PPU) shiftBackground() {
	p.tileShiftLow <<= 1
	p.tileShiftHigh <<= 1
	p.attrShiftLow <<= 1
	p.attrShiftHigh <<= 1
}

func (p *PPU) fetchNametableByte() {
	p.nametableByte = p.mem.Read(0x2000 | p.v&0x0FFF)
}

func (p *PPU) fetchAttributeByte() {
	address := 0x23C0 | p.v&0x0C00 | (p.v>>4)&0x38 | (p.v>>2)&0x07
	shift := (p.v>>4)&0x04 | p.v&0x02
	p.attributeByte = (p.mem.Read(address) >> shift) & 0x03
}

func (p *PPU) backgroundTable() uint16 {
	if p.ctrl&ctrlPatternTable != 0 {
		return 0x1000
	}
	return 0x0000
}

func (p *PPU) fetchLowTileByte() {
	fineY := (p.v >> 12) & 0x07
	address := p.backgroundTable() + uint16(p.nametableByte)*16 + fineY
	p.lowTileByte = p.mem.Read(address)
}

func (p *PPU) fetchHighTileByte() {
	fineY := (p.v >> 12) & 0x07
	address := p.backgroundTable() + uint16(p.nametableByte)*16 + fineY
	p.highTileByte = p.mem.Read(address + 8)
}

func (p *PPU) loadShifters() {
	p.tileShiftLow = p.tileShiftLow&0xFF00 | uint16(p.lowTileByte)
	p.tileShiftHigh = p.tileShiftHigh&0xFF00 | uint16(p.highTileByte)
	if p.attributeByte&0x01 != 0 {
		p.attrShiftLow = p.attrShiftLow&0xFF00 | 0x00FF
	} else {
		p.attrShiftLow &= 0xFF00
	}
	if p.attributeByte&0x02 != 0 {
		p.attrShiftHigh = p.attrShiftHigh&0xFF00 | 0x00FF
	} else {
		p.attrShiftHigh &= 0xFF00
	}
}

// incrementX steps coarse X, wrapping into the adjacent nametable.
func (p *PPU) incrementX() {
	if p.v&0x001F == 0x001F {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

// incrementY steps fine Y, carrying into coarse Y; row 29 wraps and
// flips the vertical nametable, rows 30-31 wrap without flipping.
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	coarseY := (p.v >> 5) & 0x001F
	switch coarseY {
	case 29:
		coarseY = 0
		p.v ^= 0x0800
	case 31:
		coarseY = 0
	default:
		coarseY++
	}
	p.v = p.v&^0x03E0 | coarseY<<5
}

func (p *PPU) copyX() {
	p.v = p.v&^0x041F | p.t&0x041F
}

func (p *PPU) copyY() {
	p.v = p.v&^0x7BE0 | p.t&0x7BE0
}

// --- Pixel output ---

func (p *PPU) backgroundPixel() uint8 {
	if p.mask&maskShowBG == 0 {
		return 0
	}
	shift := 15 - p.x
	pixel := uint8((p.tileShiftHigh>>shift)&0x01)<<1 | uint8((p.tileShiftLow>>shift)&0x01)
	if pixel == 0 {
		return 0
	}
	attr := uint8((p.attrShiftHigh>>shift)&0x01)<<1 | uint8((p.attrShiftLow>>shift)&0x01)
	return attr<<2 | pixel
}

// spritePixel returns the first opaque sprite pixel at the current
// dot, along with which evaluated slot produced it.
func (p *PPU) spritePixel() (slot int, color uint8) {
	if p.mask&maskShowSprites == 0 {
		return -1, 0
	}
	x := p.dot - 1
	for i := 0; i < p.spriteCount; i++ {
		offset := x - int(p.spritePositions[i])
		if offset < 0 || offset > 7 {
			continue
		}
		pixel := uint8(p.spritePatterns[i]>>uint((7-offset)*4)) & 0x0F
		if pixel&0x03 == 0 {
			continue
		}
		return i, pixel
	}
	return -1, 0
}

func (p *PPU) renderPixel() {
	x := p.dot - 1
	y := p.scanline

	background := p.backgroundPixel()
	slot, sprite := p.spritePixel()

	if x < 8 {
		if p.mask&maskShowLeftBG == 0 {
			background = 0
		}
		if p.mask&maskShowLeftSprite == 0 {
			sprite = 0
			slot = -1
		}
	}

	bgOpaque := background&0x03 != 0
	spOpaque := sprite&0x03 != 0

	var color uint8
	switch {
	case !bgOpaque && !spOpaque:
		color = 0
	case !bgOpaque && spOpaque:
		color = sprite | 0x10
	case bgOpaque && !spOpaque:
		color = background
	default:
		if slot >= 0 && p.spriteIndexes[slot] == 0 && x < 255 {
			p.status |= statusSprite0
		}
		if p.spritePriority[slot] == 0 {
			color = sprite | 0x10
		} else {
			color = background
		}
	}

	index := p.mem.ReadPalette(0x3F00 | uint16(color))
	if p.mask&maskGreyscale != 0 {
		index &= 0x30
	}
	p.screen[y*ScreenWidth+x] = paletteRGB[index&0x3F]
}

// --- Sprite pipeline ---

// evaluateSprites scans OAM for sprites intersecting the next
// scanline, filling the eight pattern slots and reproducing the
// hardware's broken overflow scan once they are full.
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ctrl&ctrlSpriteSize16 != 0 {
		height = 16
	}

	count := 0
	n := 0
	for ; n < 64 && count < 8; n++ {
		y := p.oam[n*4]
		row := p.scanline - int(y)
		if row < 0 || row >= height {
			continue
		}
		p.spritePatterns[count] = p.fetchSpritePattern(n, row)
		p.spritePositions[count] = p.oam[n*4+3]
		p.spritePriority[count] = (p.oam[n*4+2] >> 5) & 0x01
		p.spriteIndexes[count] = uint8(n)
		count++
	}

	if count == 8 {
		// With all eight slots filled the hardware keeps scanning but
		// increments the byte offset alongside the sprite index,
		// misreading tile and attribute bytes as Y coordinates.
		m := 0
		for ; n < 64; n++ {
			y := p.oam[n*4+m]
			row := p.scanline - int(y)
			if row >= 0 && row < height {
				p.status |= statusOverflow
				break
			}
			m = (m + 1) & 3
		}
	}
	p.spriteCount = count
}

// fetchSpritePattern reads the pattern bytes for one sprite row and
// packs palette-indexed pixels four bits apiece, left to right.
func (p *PPU) fetchSpritePattern(n, row int) uint32 {
	tile := p.oam[n*4+1]
	attributes := p.oam[n*4+2]

	var address uint16
	if p.ctrl&ctrlSpriteSize16 == 0 {
		if attributes&0x80 != 0 {
			row = 7 - row
		}
		table := uint16(0)
		if p.ctrl&ctrlSpriteTable != 0 {
			table = 0x1000
		}
		address = table + uint16(tile)*16 + uint16(row)
	} else {
		if attributes&0x80 != 0 {
			row = 15 - row
		}
		table := uint16(tile&0x01) * 0x1000
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		address = table + uint16(tile)*16 + uint16(row)
	}

	low := p.mem.Read(address)
	high := p.mem.Read(address + 8)
	palette := (attributes & 0x03) << 2

	var pattern uint32
	for i := 0; i < 8; i++ {
		var p0, p1 uint8
		if attributes&0x40 != 0 { // horizontal flip
			p0 = low & 0x01
			p1 = (high & 0x01) << 1
			low >>= 1
			high >>= 1
		} else {
			p0 = (low & 0x80) >> 7
			p1 = (high & 0x80) >> 6
			low <<= 1
			high <<= 1
		}
		pattern = pattern<<4 | uint32(palette|p1|p0)
	}
	return pattern
}

// --- Register file ---

// ReadRegister services a CPU read of $2000-$2007. Reads of $2002,
// $2004 and $2007 have side effects.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0x2002:
		value := p.status | p.latch&0x1F
		p.status &^= statusVBlank
		p.w = false
		p.latch = value
		return value
	case 0x2004:
		value := p.oam[p.oamAddr]
		if p.oamAddr&0x03 == 0x02 {
			value &= 0xE3 // attribute bits 2-4 are not wired
		}
		p.latch = value
		return value
	case 0x2007:
		var value uint8
		if p.v&0x3FFF < 0x3F00 {
			value = p.readBuffer
			p.readBuffer = p.mem.Read(p.v)
		} else {
			value = p.mem.ReadPalette(p.v)
			if p.mask&maskGreyscale != 0 {
				value &= 0x30
			}
			// The buffer still refills from the nametable underneath.
			p.readBuffer = p.mem.Read(p.v - 0x1000)
		}
		p.incrementAddress()
		p.latch = value
		return value
	}
	return p.latch
}

// WriteRegister services a CPU write to $2000-$2007.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	p.latch = value
	switch address {
	case 0x2000:
		wasEnabled := p.ctrl&ctrlNMIEnable != 0
		p.ctrl = value
		p.t = p.t&^0x0C00 | uint16(value&0x03)<<10
		// Enabling NMI mid-VBlank raises the edge immediately.
		if !wasEnabled && value&ctrlNMIEnable != 0 && p.status&statusVBlank != 0 {
			p.nmiPending = true
		}
	case 0x2001:
		p.mask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		if !p.w {
			p.t = p.t&^0x001F | uint16(value)>>3
			p.x = value & 0x07
		} else {
			p.t = p.t &^ 0x73E0
			p.t |= uint16(value&0x07) << 12
			p.t |= uint16(value&0xF8) << 2
		}
		p.w = !p.w
	case 0x2006:
		if !p.w {
			p.t = p.t&0x00FF | uint16(value&0x3F)<<8
		} else {
			p.t = p.t&0xFF00 | uint16(value)
			p.v = p.t
		}
		p.w = !p.w
	case 0x2007:
		p.mem.Write(p.v, value)
		p.incrementAddress()
	}
}

// WriteOAM stores one byte during OAM DMA.
func (p *PPU) WriteOAM(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

// OAMAddr exposes the current OAM address for DMA and tests.
func (p *PPU) OAMAddr() uint8 { return p.oamAddr }

func (p *PPU) incrementAddress() {
	if p.ctrl&ctrlIncrement32 != 0 {
		p.v += 32
	} else {
		p.v++
	}
}
