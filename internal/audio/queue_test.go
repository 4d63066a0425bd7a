package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueuePreservesOrder(t *testing.T) {
	q := NewSampleQueue(8)
	for i := 0; i < 5; i++ {
		q.Push(float32(i))
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, float32(i), q.Pop())
	}
}

func TestQueueDropsNewestOnOverrun(t *testing.T) {
	q := NewSampleQueue(2)
	q.Push(1)
	q.Push(2)
	q.Push(3) // dropped

	assert.Equal(t, uint64(1), q.Dropped())
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, float32(1), q.Pop())
	assert.Equal(t, float32(2), q.Pop())
}

func TestQueueRepeatsLastOnUnderrun(t *testing.T) {
	q := NewSampleQueue(4)
	assert.Equal(t, float32(0), q.Pop(), "empty queue starts silent")

	q.Push(0.5)
	assert.Equal(t, float32(0.5), q.Pop())
	assert.Equal(t, float32(0.5), q.Pop(), "underrun repeats the last sample")
}

func TestQueueNeverExceedsCapacity(t *testing.T) {
	q := NewSampleQueue(3)
	for i := 0; i < 100; i++ {
		q.Push(float32(i))
	}
	assert.Equal(t, 3, q.Len())
}

func TestReaderConvertsToStereo16(t *testing.T) {
	q := NewSampleQueue(4)
	q.Push(1.0)
	r := &queueReader{queue: q}

	buf := make([]byte, 4)
	n, err := r.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	// Full-scale positive sample on both channels.
	assert.Equal(t, byte(0xFF), buf[0])
	assert.Equal(t, byte(0x7F), buf[1])
	assert.Equal(t, buf[0], buf[2])
	assert.Equal(t, buf[1], buf[3])
}
