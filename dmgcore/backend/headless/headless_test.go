package headless_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valeg/go-dmgcore/dmgcore/backend"
	"github.com/valeg/go-dmgcore/dmgcore/backend/headless"
	"github.com/valeg/go-dmgcore/dmgcore/video"
)

func testImage(t *testing.T) *image.Paletted {
	t.Helper()
	img, err := video.Convert(make([]byte, video.FramebufferSize), video.DMGPalette)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestHeadlessBackend(t *testing.T) {
	t.Run("quits after frame budget", func(t *testing.T) {
		quits := 0
		h := headless.New(3)

		err := h.Init(backend.Config{
			Title:     "Test",
			Callbacks: backend.Callbacks{OnQuit: func() { quits++ }},
		})
		assert.NoError(t, err)

		img := testImage(t)
		for i := 0; i < 5; i++ {
			assert.NoError(t, h.Update(img))
		}

		assert.Equal(t, 1, quits, "quit fires once at the budget, not per extra frame")
		assert.NoError(t, h.Cleanup())
	})

	t.Run("nil frames do not count", func(t *testing.T) {
		quits := 0
		h := headless.New(1)

		err := h.Init(backend.Config{
			Callbacks: backend.Callbacks{OnQuit: func() { quits++ }},
		})
		assert.NoError(t, err)

		assert.NoError(t, h.Update(nil))
		assert.Zero(t, quits)

		assert.NoError(t, h.Update(testImage(t)))
		assert.Equal(t, 1, quits)
	})
}

func TestHeadlessImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*headless.Backend)(nil)
}
