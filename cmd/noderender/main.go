// Command noderender runs an audio file through one node offline, quantum by
// quantum, and writes the result as WAV.
//
// Usage:
//
//	noderender -in input -out output.wav -node kind [flags]
//
// Examples:
//
//	noderender -in dry.wav -out wet.wav -node convolver -ir hall.wav
//	noderender -in dry.ogg -out dark.wav -node iirfilter -ff 0.05 -fb 1,-0.95
//	noderender -in dry.mp3 -out fuzz.wav -node waveshaper -shape tanh -drive 4 -oversample 4x
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/dsp/node"
	"github.com/cwbudde/algo-webaudio/internal/audiofile"
)

type options struct {
	in, out    string
	kind       string
	quantum    int
	bits       int
	channels   int
	irPath     string
	noNorm     bool
	ff, fb     string
	shape      string
	curve      string
	curveLen   int
	drive      float64
	oversample string
	noTail     bool
}

func main() {
	var o options
	flag.StringVar(&o.in, "in", "", "input audio file (wav, aiff, mp3, ogg)")
	flag.StringVar(&o.out, "out", "", "output WAV file")
	flag.StringVar(&o.kind, "node", "waveshaper", "node type: convolver, iirfilter or waveshaper")
	flag.IntVar(&o.quantum, "quantum", core.RenderQuantumSize, "render quantum size in frames")
	flag.IntVar(&o.bits, "bits", 24, "output bit depth (16, 24 or 32)")
	flag.IntVar(&o.channels, "channels", 2, "node channel count")
	flag.StringVar(&o.irPath, "ir", "", "impulse response file for the convolver")
	flag.BoolVar(&o.noNorm, "no-normalize", false, "disable impulse response normalization")
	flag.StringVar(&o.ff, "ff", "", "comma-separated feedforward coefficients")
	flag.StringVar(&o.fb, "fb", "", "comma-separated feedback coefficients")
	flag.StringVar(&o.shape, "shape", "softclip", "generated waveshaper curve shape")
	flag.StringVar(&o.curve, "curve", "", "comma-separated waveshaper curve (overrides -shape)")
	flag.IntVar(&o.curveLen, "curve-len", 1024, "generated curve length")
	flag.Float64Var(&o.drive, "drive", 1, "generated curve drive")
	flag.StringVar(&o.oversample, "oversample", "none", "waveshaper oversampling: none, 2x or 4x")
	flag.BoolVar(&o.noTail, "no-tail", false, "stop at the end of the input instead of rendering the tail")
	verbose := flag.Bool("v", false, "log debug output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: noderender -in input -out output.wav -node kind [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders an audio file through a convolver, IIR filter or waveshaper node.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if o.in == "" || o.out == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(o); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("Render failed")
		os.Exit(1)
	}
}

// fileIRs serves a single impulse response file as index 0.
type fileIRs struct {
	ir *audiofile.Audio
}

func (f fileIRs) GetIR(index int) ([][]float64, float64, bool) {
	if index != 0 || f.ir == nil {
		return nil, 0, false
	}
	return f.ir.Channels, f.ir.SampleRate, true
}

func run(o options) error {
	src, err := audiofile.ReadFile(o.in)
	if err != nil {
		return err
	}

	ctx := node.NewContext(core.WithSampleRate(src.SampleRate), core.WithQuantumSize(o.quantum))

	params, provider, err := buildParams(o)
	if err != nil {
		return err
	}

	proc, err := node.DefaultRegistry(node.WithIRProvider(provider)).Build(ctx, params)
	if err != nil {
		return err
	}

	frames := src.Len()
	if !o.noTail {
		frames += proc.TailLength()
	}

	dst, err := render(ctx, proc, src, frames)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "run",
		"node":     proc.Kind().String(),
		"in":       o.in,
		"out":      o.out,
		"frames":   frames,
		"tail":     proc.TailLength(),
	}).Info("Rendered")

	return audiofile.WriteFile(o.out, dst, o.bits)
}

func buildParams(o options) (node.Params, fileIRs, error) {
	p := node.Params{
		ID:   "render",
		Type: o.kind,
		Num:  map[string]float64{"channelCount": float64(o.channels)},
		Str:  map[string]string{},
		Vec:  map[string][]float64{},
	}

	var provider fileIRs

	switch o.kind {
	case node.KindConvolver.String():
		if o.noNorm {
			p.Num["disableNormalization"] = 1
		}
		if o.irPath != "" {
			ir, err := audiofile.ReadFile(o.irPath)
			if err != nil {
				return p, provider, err
			}
			provider.ir = ir
			p.Num["irIndex"] = 0
		}

	case node.KindIIRFilter.String():
		ff, err := parseFloats(o.ff)
		if err != nil {
			return p, provider, fmt.Errorf("-ff: %w", err)
		}
		fb, err := parseFloats(o.fb)
		if err != nil {
			return p, provider, fmt.Errorf("-fb: %w", err)
		}
		p.Vec["feedforward"] = ff
		p.Vec["feedback"] = fb

	case node.KindWaveShaper.String():
		p.Str["oversample"] = o.oversample
		if o.curve != "" {
			curve, err := parseFloats(o.curve)
			if err != nil {
				return p, provider, fmt.Errorf("-curve: %w", err)
			}
			p.Vec["curve"] = curve
		} else {
			p.Str["shape"] = o.shape
			p.Num["curveLength"] = float64(o.curveLen)
			p.Num["drive"] = o.drive
		}
	}

	return p, provider, nil
}

// render feeds src through proc one quantum at a time, padding with silence
// up to frames.
func render(ctx node.Context, proc node.Processor, src *audiofile.Audio, frames int) (*audiofile.Audio, error) {
	q := ctx.QuantumSize
	in := buffer.NewBlock(src.NumChannels(), q)
	out := buffer.NewBlock(proc.ChannelCount(), q)

	result := make([][]float64, proc.ChannelCount())
	for c := range result {
		result[c] = make([]float64, 0, frames+q)
	}

	for pos := 0; pos < frames; pos += q {
		for c := range src.NumChannels() {
			dst := in.Channel(c)
			clear(dst)
			if pos < src.Len() {
				copy(dst, src.Channels[c][pos:])
			}
		}

		if err := proc.Process(in, out); err != nil {
			return nil, fmt.Errorf("quantum at frame %d: %w", pos, err)
		}

		for c := range result {
			result[c] = append(result[c], out.Channel(c)...)
		}
	}

	for c := range result {
		result[c] = result[c][:frames]
	}

	return &audiofile.Audio{Channels: result, SampleRate: src.SampleRate}, nil
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
