package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/core"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "convolver", KindConvolver.String())
	assert.Equal(t, "iirfilter", KindIIRFilter.String())
	assert.Equal(t, "waveshaper", KindWaveShaper.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestNewContext(t *testing.T) {
	ctx := NewContext()
	assert.Equal(t, 48000.0, ctx.SampleRate)
	assert.Equal(t, core.RenderQuantumSize, ctx.QuantumSize)

	ctx = NewContext(core.WithSampleRate(44100), core.WithQuantumSize(64))
	assert.Equal(t, 44100.0, ctx.SampleRate)
	assert.Equal(t, 64, ctx.QuantumSize)
}

func TestMixerPassesMatchingLayout(t *testing.T) {
	m := newMixer(2, 4)
	in := buffer.NewBlock(2, 4)
	assert.Same(t, in, m.mix(in))
}

func TestMixerUpmixesMono(t *testing.T) {
	m := newMixer(2, 4)
	in := buffer.FromChannels([]float64{1, 2, 3, 4})

	got := m.mix(in)
	require.Equal(t, 2, got.Channels())
	assert.Equal(t, []float64{1, 2, 3, 4}, got.Channel(0))
	assert.Equal(t, []float64{1, 2, 3, 4}, got.Channel(1))
}

// processors returns one node of every kind built for ctx.
func processors(t *testing.T, ctx Context) []Processor {
	t.Helper()

	cn, err := NewConvolverNode(ctx)
	require.NoError(t, err)

	fn, err := NewIIRFilterNode(ctx, []float64{1}, []float64{1})
	require.NoError(t, err)

	sn, err := NewWaveShaperNode(ctx)
	require.NoError(t, err)

	return []Processor{cn, fn, sn}
}

func TestProcessorsRejectWrongOutputLayout(t *testing.T) {
	ctx := NewContext(core.WithQuantumSize(16))

	for _, p := range processors(t, ctx) {
		t.Run(p.Kind().String(), func(t *testing.T) {
			in := buffer.NewBlock(2, 16)
			assert.Error(t, p.Process(in, buffer.NewBlock(p.ChannelCount()+1, 16)))
			assert.Error(t, p.Process(in, buffer.NewBlock(p.ChannelCount(), 8)))
		})
	}
}
