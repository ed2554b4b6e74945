package main

import (
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/dsp/node"
	"github.com/cwbudde/algo-webaudio/internal/audiofile"
	"github.com/cwbudde/algo-webaudio/internal/testutil"
)

func TestRenderPadsTail(t *testing.T) {
	ctx := node.NewContext(core.WithQuantumSize(16))
	proc, err := node.NewIIRFilterNode(ctx, []float64{0.5}, []float64{1, -0.5}, node.WithIIRChannelCount(1))
	if err != nil {
		t.Fatal(err)
	}

	src := &audiofile.Audio{Channels: [][]float64{testutil.Impulse(5, 0)}, SampleRate: ctx.SampleRate}
	frames := src.Len() + proc.TailLength()

	got, err := render(ctx, proc, src, frames)
	if err != nil {
		t.Fatal(err)
	}

	if got.Len() != frames {
		t.Fatalf("len = %d, want %d", got.Len(), frames)
	}
	want := proc.Coefficients().ImpulseResponse(frames)
	testutil.RequireClose(t, got.Channels[0], want, 1e-15)
}

func TestRunWaveShaper(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")

	src := &audiofile.Audio{
		Channels:   [][]float64{testutil.Sine(440, 48000, 0.5, 1000)},
		SampleRate: 48000,
	}
	if err := audiofile.WriteFile(in, src, 16); err != nil {
		t.Fatal(err)
	}

	err := run(options{
		in: in, out: out, kind: "waveshaper", quantum: 128, bits: 16, channels: 2,
		curve: "-1,1", oversample: "2x",
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := audiofile.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumChannels() != 2 {
		t.Fatalf("channels = %d, want 2", got.NumChannels())
	}
	if got.Len() != src.Len()+32 {
		t.Fatalf("len = %d, want %d", got.Len(), src.Len()+32)
	}
}

func TestBuildParamsRejectsBadCoefficients(t *testing.T) {
	if _, _, err := buildParams(options{kind: "iirfilter", ff: "1,x"}); err == nil {
		t.Fatal("expected error for malformed -ff")
	}
}
