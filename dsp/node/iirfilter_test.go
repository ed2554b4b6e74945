package node

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/filter/iir"
	"github.com/cwbudde/algo-webaudio/internal/testutil"
)

// onePole is y[n] = 0.5 x[n] + 0.5 y[n-1], unity gain at DC.
var (
	onePoleFF = []float64{0.5}
	onePoleFB = []float64{1, -0.5}
)

func TestIIRFilterImpulseResponse(t *testing.T) {
	n, err := NewIIRFilterNode(testContext(), onePoleFF, onePoleFB, WithIIRChannelCount(1))
	require.NoError(t, err)
	assert.Equal(t, KindIIRFilter, n.Kind())
	assert.Equal(t, 1, n.ChannelCount())
	assert.Equal(t, 1, n.Coefficients().Order())

	out := buffer.NewBlock(1, testQuantum)
	require.NoError(t, n.Process(buffer.FromChannels(testutil.Impulse(testQuantum, 0)), out))

	for i, v := range out.Channel(0)[:8] {
		assert.InDelta(t, math.Pow(0.5, float64(i+1)), v, 1e-15, "sample %d", i)
	}
}

func TestIIRFilterStatePersistsAcrossQuanta(t *testing.T) {
	n, err := NewIIRFilterNode(testContext(), onePoleFF, onePoleFB, WithIIRChannelCount(1))
	require.NoError(t, err)

	out := buffer.NewBlock(1, testQuantum)
	require.NoError(t, n.Process(buffer.FromChannels(testutil.Impulse(testQuantum, testQuantum-1)), out))
	assert.InDelta(t, 0.5, out.Channel(0)[testQuantum-1], 1e-15)

	require.NoError(t, n.Process(buffer.NewBlock(1, testQuantum), out))
	assert.InDelta(t, 0.25, out.Channel(0)[0], 1e-15)
	assert.InDelta(t, 0.125, out.Channel(0)[1], 1e-15)
}

func TestIIRFilterUpmixesMonoInput(t *testing.T) {
	n, err := NewIIRFilterNode(testContext(), onePoleFF, onePoleFB)
	require.NoError(t, err)
	require.Equal(t, 2, n.ChannelCount())

	x := testutil.Noise(11, 1, testQuantum)
	out := buffer.NewBlock(2, testQuantum)
	require.NoError(t, n.Process(buffer.FromChannels(x), out))

	assert.Equal(t, out.Channel(0), out.Channel(1))
	testutil.RequireFinite(t, out.Channel(0))
}

func TestIIRFilterTailLength(t *testing.T) {
	n, err := NewIIRFilterNode(testContext(), onePoleFF, onePoleFB)
	require.NoError(t, err)

	// 0.5^19 is the last impulse sample above 1e-6.
	assert.Equal(t, 19, n.TailLength())

	fir, err := NewIIRFilterNode(testContext(), []float64{1, 1, 1}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, 3, fir.TailLength())
}

func TestIIRFilterFrequencyResponse(t *testing.T) {
	ctx := testContext()
	n, err := NewIIRFilterNode(ctx, onePoleFF, onePoleFB)
	require.NoError(t, err)

	freqs := []float64{0, ctx.SampleRate / 2, -1, ctx.SampleRate, math.NaN()}
	mag := make([]float64, len(freqs))
	phase := make([]float64, len(freqs))
	require.NoError(t, n.GetFrequencyResponse(freqs, mag, phase))

	assert.InDelta(t, 1.0, mag[0], 1e-12)
	assert.InDelta(t, 0.0, phase[0], 1e-12)
	// At Nyquist z^-1 = -1: 0.5 / 1.5.
	assert.InDelta(t, 1.0/3, mag[1], 1e-12)

	for i := 2; i < len(freqs); i++ {
		assert.True(t, math.IsNaN(mag[i]), "mag[%d] = %v", i, mag[i])
		assert.True(t, math.IsNaN(phase[i]), "phase[%d] = %v", i, phase[i])
	}
}

func TestIIRFilterFrequencyResponseLengthMismatch(t *testing.T) {
	n, err := NewIIRFilterNode(testContext(), onePoleFF, onePoleFB)
	require.NoError(t, err)

	mag := []float64{-1, -1}
	phase := []float64{-1}
	err = n.GetFrequencyResponse([]float64{100, 200}, mag, phase)
	require.ErrorIs(t, err, ErrInvalidAccess)
	assert.ErrorIs(t, err, iir.ErrLengthMismatch)
	assert.Equal(t, []float64{-1, -1}, mag)
	assert.Equal(t, []float64{-1}, phase)
}

func TestIIRFilterConstructionErrors(t *testing.T) {
	long := make([]float64, iir.MaxCoefficients+1)
	long[0] = 1

	tests := []struct {
		name  string
		ff    []float64
		fb    []float64
		class error
		cause error
	}{
		{"empty feedforward", nil, []float64{1}, ErrNotSupported, iir.ErrFeedforwardLength},
		{"long feedforward", long, []float64{1}, ErrNotSupported, iir.ErrFeedforwardLength},
		{"empty feedback", []float64{1}, nil, ErrNotSupported, iir.ErrFeedbackLength},
		{"long feedback", []float64{1}, long, ErrNotSupported, iir.ErrFeedbackLength},
		{"zero leading feedback", []float64{1}, []float64{0, 1}, ErrInvalidState, iir.ErrZeroLeadingFeedback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewIIRFilterNode(testContext(), tt.ff, tt.fb)
			assert.Nil(t, n)
			require.ErrorIs(t, err, tt.class)
			assert.ErrorIs(t, err, tt.cause)
		})
	}

	_, err := NewIIRFilterNode(testContext(), []float64{1}, []float64{1}, WithIIRChannelCount(0))
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestIIRFilterUnstableStillBuilds(t *testing.T) {
	n, err := NewIIRFilterNode(testContext(), []float64{1}, []float64{1, -1.5})
	require.NoError(t, err)
	assert.False(t, n.Coefficients().IsStable())
	assert.Equal(t, int(maxTailSeconds*testContext().SampleRate), n.TailLength())
}
