package postfx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-fx/gpu"
	"island-fx/internal/soft"
	"island-fx/postfx"
)

func TestRenderTargetPairSwapAlternates(t *testing.T) {
	dev := soft.NewDevice(16, 16)
	pair, err := postfx.NewRenderTargetPair(dev, 16, 16)
	require.NoError(t, err)
	defer pair.Close()

	write0, read0 := pair.CurrentWrite(), pair.CurrentRead()
	require.NotSame(t, write0, read0)

	for i := 1; i <= 7; i++ {
		pair.Swap()
		if i%2 == 1 {
			assert.Same(t, read0, pair.CurrentWrite(), "swap %d: write", i)
			assert.Same(t, write0, pair.CurrentRead(), "swap %d: read", i)
		} else {
			assert.Same(t, write0, pair.CurrentWrite(), "swap %d: write", i)
			assert.Same(t, read0, pair.CurrentRead(), "swap %d: read", i)
		}
	}
}

func TestRenderTargetPairSize(t *testing.T) {
	dev := soft.NewDevice(8, 8)
	pair, err := postfx.NewRenderTargetPair(dev, 80, 60)
	require.NoError(t, err)
	defer pair.Close()

	w, h := pair.Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 60, h)
	assert.Equal(t, gpu.FormatRGBA8, pair.CurrentWrite().Color.Desc.Format)
	assert.Equal(t, gpu.FilterLinear, pair.CurrentRead().Color.Desc.Filter)
}

func TestRenderTargetIncomplete(t *testing.T) {
	dev := soft.NewDevice(8, 8)
	_, err := postfx.NewRenderTarget(dev, 0, 0)
	require.Error(t, err)

	var fe *gpu.FramebufferIncompleteError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, gpu.FramebufferIncompleteAttachment, fe.Status)
}

func TestRenderTargetBindSetsViewport(t *testing.T) {
	dev := soft.NewDevice(4, 4)
	rt, err := postfx.NewRenderTarget(dev, 4, 4)
	require.NoError(t, err)
	defer rt.Close()

	rt.Bind(dev)
	dev.Clear(gpu.Color{R: 1, G: 0, B: 0, A: 1})
	assert.Equal(t, gpu.Color{R: 1, G: 0, B: 0, A: 1}, dev.Pixel(rt.Framebuffer(), 2, 2))
	assert.Equal(t, gpu.Color{}, dev.Pixel(0, 2, 2), "default framebuffer untouched")
}

func TestRenderTargetCloseIdempotent(t *testing.T) {
	dev := soft.NewDevice(4, 4)
	rt, err := postfx.NewRenderTarget(dev, 4, 4)
	require.NoError(t, err)
	rt.Close()
	assert.NotPanics(t, rt.Close)
	assert.Equal(t, gpu.Handle(0), rt.Color.Handle())
}
