package dmgcore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeg/go-dmgcore/dmgcore/cart"
	"github.com/valeg/go-dmgcore/dmgcore/input"
	"github.com/valeg/go-dmgcore/dmgcore/video"
)

// mockEngine records every call the adapter makes. Calls arrive serialized
// by the core, but assertions run on the test goroutine, hence the lock.
type mockEngine struct {
	mu        sync.Mutex
	calls     []string
	cartridge *cart.Cartridge
	frames    int
	buttons   []input.ButtonEvent
	frame     *video.FrameBuffer
	runErr    error
}

func newMockEngine() *mockEngine {
	return &mockEngine{frame: video.NewFrameBuffer()}
}

func (m *mockEngine) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *mockEngine) PowerOn()  { m.record("PowerOn") }
func (m *mockEngine) PowerOff() { m.record("PowerOff") }

func (m *mockEngine) Reset(kind ResetKind) {
	m.record("Reset:" + kind.String())
}

func (m *mockEngine) Insert(c *cart.Cartridge) {
	m.mu.Lock()
	m.cartridge = c
	m.mu.Unlock()
	m.record("Insert")
}

func (m *mockEngine) Eject() *cart.Cartridge {
	m.record("Eject")
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.cartridge
	m.cartridge = nil
	return c
}

func (m *mockEngine) SetButton(b input.Button, pressed bool) {
	m.mu.Lock()
	m.buttons = append(m.buttons, input.ButtonEvent{Button: b, Pressed: pressed})
	m.mu.Unlock()
}

func (m *mockEngine) RunFrame() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runErr != nil {
		return m.runErr
	}
	m.frames++
	return nil
}

func (m *mockEngine) Frame() *video.FrameBuffer { return m.frame }

func (m *mockEngine) callNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockEngine) frameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

func (m *mockEngine) buttonEvents() []input.ButtonEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]input.ButtonEvent, len(m.buttons))
	copy(out, m.buttons)
	return out
}

func (m *mockEngine) loaded() *cart.Cartridge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cartridge
}

var _ Engine = (*mockEngine)(nil)

func testCart(t *testing.T) *cart.Cartridge {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[0x134:], "MOCK")
	c, err := cart.New(rom)
	require.NoError(t, err)
	return c
}

func TestCore_PowerIdempotent(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	// Already off: a no-op, not a reinitialization.
	c.Power(PowerOff)
	assert.Empty(t, engine.callNames())

	c.Power(PowerOn)
	c.Power(PowerOn)
	assert.Equal(t, []string{"PowerOn"}, engine.callNames(), "second power-on must be a true no-op")

	c.Power(PowerOff)
	c.Power(PowerOff)
	assert.Equal(t, []string{"PowerOn", "PowerOff"}, engine.callNames())
}

func TestCore_PowerOffDoesNotEject(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	require.NoError(t, c.Insert(testCart(t)))
	c.Power(PowerOn)
	c.Power(PowerOff)

	assert.NotNil(t, engine.loaded(), "power off must not implicitly eject")
	assert.NotContains(t, engine.callNames(), "Eject")
}

func TestCore_ResetWhileOff(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	c.Reset(ResetSoft)
	c.Reset(ResetHard)
	assert.Empty(t, engine.callNames(), "reset while off has no observable effect")
}

func TestCore_ResetWhileOn(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	c.Power(PowerOn)
	defer c.Power(PowerOff)

	c.Reset(ResetSoft)
	c.Reset(ResetHard)

	calls := engine.callNames()
	assert.Contains(t, calls, "Reset:soft")
	assert.Contains(t, calls, "Reset:hard")
}

func TestCore_CartridgeExchangeRequiresPowerOff(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	c.Power(PowerOn)
	defer c.Power(PowerOff)

	err := c.Insert(testCart(t))
	assert.ErrorIs(t, err, ErrPoweredOn)

	ejected, err := c.Eject()
	assert.ErrorIs(t, err, ErrPoweredOn)
	assert.Nil(t, ejected)
}

func TestCore_EjectReturnsCartridge(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	loaded := testCart(t)
	require.NoError(t, c.Insert(loaded))

	ejected, err := c.Eject()
	require.NoError(t, err)
	assert.Same(t, loaded, ejected)

	// Nothing left to eject.
	ejected, err = c.Eject()
	require.NoError(t, err)
	assert.Nil(t, ejected)
}

func TestCore_RunLoopProducesFrames(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	c.Power(PowerOn)
	defer c.Power(PowerOff)

	require.Eventually(t, func() bool {
		return engine.frameCount() >= 3
	}, time.Second, time.Millisecond)
}

func TestCore_PauseFreezesAndStartResumes(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	c.Power(PowerOn)
	defer c.Power(PowerOff)

	require.Eventually(t, func() bool {
		return engine.frameCount() > 0
	}, time.Second, time.Millisecond)

	c.Pause()
	assert.False(t, c.Running())

	// Give the in-flight frame a moment to finish, then verify no
	// further progress.
	time.Sleep(20 * time.Millisecond)
	frozen := engine.frameCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, engine.frameCount(), "pause must freeze execution")

	c.Start()
	require.Eventually(t, func() bool {
		return engine.frameCount() > frozen
	}, time.Second, time.Millisecond, "start must resume from the paused point")
}

func TestCore_InputDrainedInOrder(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	// Queue while powered off so the batch lands in one drain.
	c.PushButton(input.ButtonA, true)
	c.PushButton(input.ButtonA, false)
	c.PushButton(input.ButtonB, true)

	c.Power(PowerOn)
	defer c.Power(PowerOff)

	require.Eventually(t, func() bool {
		return len(engine.buttonEvents()) == 3
	}, time.Second, time.Millisecond)

	events := engine.buttonEvents()
	assert.Equal(t, input.ButtonEvent{Button: input.ButtonA, Pressed: true}, events[0])
	assert.Equal(t, input.ButtonEvent{Button: input.ButtonA, Pressed: false}, events[1])
	assert.Equal(t, input.ButtonEvent{Button: input.ButtonB, Pressed: true}, events[2])
}

func TestCore_FramesReachSink(t *testing.T) {
	engine := newMockEngine()
	sink := &countingSink{}
	c := NewCore(engine, WithSink(sink))

	c.Power(PowerOn)
	defer c.Power(PowerOff)

	require.Eventually(t, func() bool {
		return sink.count() > 0
	}, time.Second, time.Millisecond)
}

type countingSink struct {
	mu sync.Mutex
	n  int
}

func (s *countingSink) Push(*video.FrameBuffer) {
	s.mu.Lock()
	s.n++
	s.mu.Unlock()
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func TestCore_FPSDiagnostic(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine, WithReportInterval(10*time.Millisecond))

	assert.Equal(t, 0.0, c.FPS(), "no diagnostic before the first window")

	c.Power(PowerOn)
	defer c.Power(PowerOff)

	require.Eventually(t, func() bool {
		return c.FPS() > 0
	}, time.Second, time.Millisecond)
}

func TestCore_StartWhileOffOnlyArmsFlag(t *testing.T) {
	engine := newMockEngine()
	c := NewCore(engine)

	c.Pause()
	c.Start()
	assert.True(t, c.Running())
	assert.Equal(t, 0, engine.frameCount(), "run flag alone must not produce frames")
	assert.Equal(t, PowerOff, c.State())
}
