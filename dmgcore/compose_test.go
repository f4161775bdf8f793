package dmgcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlay_FromPoweredOff(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	loaded := testCart(t)
	require.NoError(t, Play(c, loaded))
	defer c.Power(PowerOff)

	assert.Equal(t, PowerOn, c.State())
	assert.Same(t, loaded, engine.loaded())
}

func TestPlay_ReplacesRunningGame(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	first := testCart(t)
	require.NoError(t, Play(c, first))

	second := testCart(t)
	require.NoError(t, Play(c, second))
	defer c.Power(PowerOff)

	assert.Equal(t, PowerOn, c.State(), "play from powered-on state must still end powered on")
	assert.Same(t, second, engine.loaded())

	// The power cycle happened: engine saw off, insert, on.
	calls := engine.callNames()
	require.GreaterOrEqual(t, len(calls), 3)
	assert.Equal(t, []string{"PowerOff", "Insert", "PowerOn"}, calls[len(calls)-3:])
}

func TestStop_ReturnsLoadedCartridge(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	loaded := testCart(t)
	require.NoError(t, Play(c, loaded))

	ejected := Stop(c)
	assert.Same(t, loaded, ejected)
	assert.Equal(t, PowerOff, c.State())
	assert.Nil(t, engine.loaded())
}

func TestStop_WithoutCartridge(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	c.Power(PowerOn)

	assert.Nil(t, Stop(c))
	assert.Equal(t, PowerOff, c.State())
}

func TestStop_WhileAlreadyOff(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	require.NoError(t, c.Insert(testCart(t)))

	ejected := Stop(c)
	assert.NotNil(t, ejected, "stop while off still returns the loaded cartridge")
	assert.Equal(t, PowerOff, c.State())
}
