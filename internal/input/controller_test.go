package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatchAndShiftOut(t *testing.T) {
	ports := NewPorts()
	ports.Pad(0).SetButtons([8]bool{true, false, false, true}) // A and Start

	ports.Write(0x4016, 0x01)
	ports.Write(0x4016, 0x00)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0}
	for i, bit := range want {
		assert.Equal(t, bit, ports.Read(0x4016)&0x01, "read %d", i)
	}
}

func TestReadsAfterEighthReturnOne(t *testing.T) {
	ports := NewPorts()
	ports.Write(0x4016, 0x01)
	ports.Write(0x4016, 0x00)
	for i := 0; i < 8; i++ {
		ports.Read(0x4016)
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint8(1), ports.Read(0x4016)&0x01)
	}
}

func TestStrobeHighRereadsButtonA(t *testing.T) {
	ports := NewPorts()
	ports.Pad(0).SetButton(ButtonA, true)
	ports.Write(0x4016, 0x01)

	// With the strobe held the shift register keeps reloading; every
	// read reports A.
	for i := 0; i < 3; i++ {
		assert.Equal(t, uint8(1), ports.Read(0x4016)&0x01)
	}

	ports.Pad(0).SetButton(ButtonA, false)
	assert.Equal(t, uint8(0), ports.Read(0x4016)&0x01)
}

func TestPortsAreIndependent(t *testing.T) {
	ports := NewPorts()
	ports.Pad(0).SetButton(ButtonA, true)
	ports.Pad(1).SetButton(ButtonB, true)

	ports.Write(0x4016, 0x01)
	ports.Write(0x4016, 0x00)

	assert.Equal(t, uint8(1), ports.Read(0x4016)&0x01) // pad 0: A pressed
	assert.Equal(t, uint8(0), ports.Read(0x4017)&0x01) // pad 1: A released
	assert.Equal(t, uint8(1), ports.Read(0x4017)&0x01) // pad 1: B pressed
}

func TestLatchIsSnapshot(t *testing.T) {
	ports := NewPorts()
	ports.Pad(0).SetButton(ButtonA, true)
	ports.Write(0x4016, 0x01)
	ports.Write(0x4016, 0x00)

	// Button changes after the strobe drop must not affect the
	// latched bits.
	ports.Pad(0).SetButton(ButtonA, false)
	assert.Equal(t, uint8(1), ports.Read(0x4016)&0x01)
}

func TestOpenBusBitsSet(t *testing.T) {
	ports := NewPorts()
	assert.Equal(t, uint8(0x40), ports.Read(0x4016)&0x40)
}
