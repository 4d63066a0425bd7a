package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fittysix/oxidenes/internal/cartridge"
)

// stubPPU records register traffic.
type stubPPU struct {
	regs  [8]uint8
	reads []uint16
}

func (s *stubPPU) ReadRegister(address uint16) uint8 {
	s.reads = append(s.reads, address)
	return s.regs[address&0x07]
}

func (s *stubPPU) WriteRegister(address uint16, value uint8) {
	s.regs[address&0x07] = value
}

type stubAPU struct {
	status uint8
	writes map[uint16]uint8
}

func (s *stubAPU) WriteRegister(address uint16, value uint8) {
	if s.writes == nil {
		s.writes = map[uint16]uint8{}
	}
	s.writes[address] = value
}

func (s *stubAPU) ReadStatus() uint8 { return s.status }

type stubInput struct {
	value  uint8
	writes []uint8
}

func (s *stubInput) Read(uint16) uint8 { return s.value }
func (s *stubInput) Write(_ uint16, v uint8) {
	s.writes = append(s.writes, v)
}

type stubCart struct {
	prg map[uint16]uint8
}

func (s *stubCart) ReadPRG(address uint16) uint8 { return s.prg[address] }
func (s *stubCart) WritePRG(address uint16, value uint8) {
	if s.prg == nil {
		s.prg = map[uint16]uint8{}
	}
	s.prg[address] = value
}

func newTestMemory() (*Memory, *stubPPU, *stubAPU, *stubInput, *stubCart) {
	ppu := &stubPPU{}
	apu := &stubAPU{}
	input := &stubInput{}
	cart := &stubCart{prg: map[uint16]uint8{}}
	return New(ppu, apu, input, cart), ppu, apu, input, cart
}

func TestWorkRAMMirroring(t *testing.T) {
	m, _, _, _, _ := newTestMemory()
	m.Write(0x0000, 0x11)
	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		assert.Equal(t, uint8(0x11), m.Read(mirror), "mirror %04X", mirror)
	}
	m.Write(0x1FFF, 0x22)
	assert.Equal(t, uint8(0x22), m.Read(0x07FF))
}

func TestPPURegisterMirroring(t *testing.T) {
	m, ppu, _, _, _ := newTestMemory()
	m.Write(0x2000, 0x80)
	m.Write(0x3FF8, 0x90) // mirrors $2000
	assert.Equal(t, uint8(0x90), ppu.regs[0])

	m.Read(0x2002)
	m.Read(0x200A) // mirrors $2002
	assert.Equal(t, []uint16{0x2002, 0x2002}, ppu.reads)
}

func TestAPUAndControllerRouting(t *testing.T) {
	m, _, apu, input, _ := newTestMemory()

	m.Write(0x4000, 0x3F)
	m.Write(0x4017, 0x40) // frame counter, not controller
	assert.Equal(t, uint8(0x3F), apu.writes[0x4000])
	assert.Equal(t, uint8(0x40), apu.writes[0x4017])
	assert.Empty(t, input.writes)

	m.Write(0x4016, 0x01) // controller strobe
	assert.Equal(t, []uint8{0x01}, input.writes)

	apu.status = 0x15
	assert.Equal(t, uint8(0x15), m.Read(0x4015))

	input.value = 0x01
	assert.Equal(t, uint8(0x01), m.Read(0x4016))
	assert.Equal(t, uint8(0x01), m.Read(0x4017))
}

func TestDMATrigger(t *testing.T) {
	m, _, _, _, _ := newTestMemory()
	var page uint8 = 0xFF
	m.SetDMAHandler(func(p uint8) { page = p })
	m.Write(0x4014, 0x02)
	assert.Equal(t, uint8(0x02), page)
}

func TestOpenBusReturnsLastByte(t *testing.T) {
	m, _, _, _, _ := newTestMemory()
	m.Write(0x0000, 0xAB)
	m.Read(0x0000)
	// $4000 is write-only; the read sees the floating bus.
	assert.Equal(t, uint8(0xAB), m.Read(0x4000))
}

func TestCartridgeWindow(t *testing.T) {
	m, _, _, _, cart := newTestMemory()
	cart.prg[0x8000] = 0x4C
	assert.Equal(t, uint8(0x4C), m.Read(0x8000))

	m.Write(0x6000, 0x7E)
	assert.Equal(t, uint8(0x7E), cart.prg[0x6000])
}

// chrStub backs PPUMemory tests with configurable mirroring.
type chrStub struct {
	chr      [0x2000]uint8
	mode     cartridge.MirrorMode
	notified []uint16
}

func (s *chrStub) ReadCHR(address uint16) uint8         { return s.chr[address] }
func (s *chrStub) WriteCHR(address uint16, value uint8) { s.chr[address] = value }
func (s *chrStub) Mirror() cartridge.MirrorMode         { return s.mode }
func (s *chrStub) NotifyPPUAddress(address uint16) {
	s.notified = append(s.notified, address)
}

func TestNametableMirroring(t *testing.T) {
	tests := []struct {
		name   string
		mode   cartridge.MirrorMode
		write  uint16
		same   []uint16
		differ []uint16
	}{
		{"horizontal", cartridge.MirrorHorizontal, 0x2000,
			[]uint16{0x2400}, []uint16{0x2800, 0x2C00}},
		{"vertical", cartridge.MirrorVertical, 0x2000,
			[]uint16{0x2800}, []uint16{0x2400, 0x2C00}},
		{"single lower", cartridge.MirrorSingleLower, 0x2000,
			[]uint16{0x2400, 0x2800, 0x2C00}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPPUMemory(&chrStub{mode: tt.mode})
			pm.Write(tt.write, 0x5A)
			for _, addr := range tt.same {
				assert.Equal(t, uint8(0x5A), pm.Read(addr), "expected mirror at %04X", addr)
			}
			for _, addr := range tt.differ {
				assert.Equal(t, uint8(0x00), pm.Read(addr), "expected distinct at %04X", addr)
			}
		})
	}
}

func TestNametable3000Mirror(t *testing.T) {
	pm := NewPPUMemory(&chrStub{mode: cartridge.MirrorVertical})
	pm.Write(0x2005, 0x77)
	assert.Equal(t, uint8(0x77), pm.Read(0x3005))
}

func TestPaletteBackdropMirrors(t *testing.T) {
	pm := NewPPUMemory(&chrStub{})
	pairs := [][2]uint16{
		{0x3F10, 0x3F00}, {0x3F14, 0x3F04}, {0x3F18, 0x3F08}, {0x3F1C, 0x3F0C},
	}
	for _, pair := range pairs {
		pm.Write(pair[0], 0x2A)
		assert.Equal(t, uint8(0x2A), pm.Read(pair[1]), "mirror %04X -> %04X", pair[0], pair[1])
		pm.Write(pair[1], 0x15)
		assert.Equal(t, uint8(0x15), pm.Read(pair[0]))
	}
}

func TestPaletteWraps(t *testing.T) {
	pm := NewPPUMemory(&chrStub{})
	pm.Write(0x3F01, 0x0C)
	assert.Equal(t, uint8(0x0C), pm.Read(0x3F21))
	assert.Equal(t, uint8(0x0C), pm.Read(0x3FE1))
}

func TestPatternAccessNotifiesCartridge(t *testing.T) {
	stub := &chrStub{}
	pm := NewPPUMemory(stub)
	pm.Read(0x0000)
	pm.Read(0x1000)
	assert.Equal(t, []uint16{0x0000, 0x1000}, stub.notified)
}
