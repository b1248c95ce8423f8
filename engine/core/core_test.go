package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsAverage(t *testing.T) {
	m := NewMetrics()
	m.Update(0.010)
	m.Update(0.030)

	assert.InDelta(t, 20.0, m.FrameTime(), 1e-9)
	assert.Equal(t, uint64(2), m.TotalFrames())
	assert.Greater(t, m.FPS(), 0.0)
}

func TestMetricsWindowIsBounded(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < AVG_COUNT; i++ {
		m.Update(1)
	}
	for i := 0; i < AVG_COUNT; i++ {
		m.Update(0.002)
	}
	assert.InDelta(t, 2.0, m.FrameTime(), 1e-9)
}

func TestEventRegisterFireUnregister(t *testing.T) {
	const code = SystemEventCode(300)
	listener := &struct{ name string }{"a"}
	var got uint32

	ok := EventRegister(code, listener, func(c SystemEventCode, sender, inst interface{}, data EventContext) bool {
		got = data.Data.U32[0]
		return true
	})
	assert.True(t, ok)
	assert.False(t, EventRegister(code, listener, func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }))

	ctx := EventContext{}
	ctx.Data.U32[0] = 42
	assert.True(t, EventFire(code, nil, ctx))
	assert.Equal(t, uint32(42), got)

	assert.True(t, EventUnregister(code, listener))
	assert.False(t, EventUnregister(code, listener))
	assert.False(t, EventFire(code, nil, ctx))
}

func TestEventFireStopsAtFirstHandler(t *testing.T) {
	const code = SystemEventCode(301)
	first, second := &struct{ n int }{1}, &struct{ n int }{2}
	calls := 0
	handler := func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		calls++
		return true
	}
	EventRegister(code, first, handler)
	EventRegister(code, second, handler)
	defer EventUnregister(code, first)
	defer EventUnregister(code, second)

	EventFire(code, nil, EventContext{})
	assert.Equal(t, 1, calls)
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	assert.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Equal(t, 0.0, c.Elapsed())
	c.Start()
	c.Update()
	assert.GreaterOrEqual(t, c.Elapsed(), 0.0)
}
