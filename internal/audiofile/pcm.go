package audiofile

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-webaudio/dsp/core"
)

// pcmFullScale returns the magnitude of the most negative integer sample at
// bitDepth.
func pcmFullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return math.Ldexp(1, bitDepth-1), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// fromIntBuffer scales interleaved integer PCM to planar floats. WAV stores
// 8-bit samples unsigned; unsigned8 selects that encoding.
func fromIntBuffer(buf *audio.IntBuffer, bitDepth int, unsigned8 bool) (*Audio, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, ErrInvalidFile
	}

	full, err := pcmFullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	data := buf.Data
	if bitDepth == 8 && unsigned8 {
		centred := make([]int, len(data))
		for i, v := range data {
			centred[i] = v - 128
		}
		data = centred
	}

	return &Audio{
		Channels:   deinterleave(data, buf.Format.NumChannels, 1/full),
		SampleRate: float64(buf.Format.SampleRate),
	}, nil
}

func decodeWAV(rs io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return fromIntBuffer(buf, int(dec.BitDepth), true)
}

func decodeAIFF(rs io.ReadSeeker) (*Audio, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an AIFF file", ErrInvalidFile)
	}

	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: missing AIFF format", ErrInvalidFile)
	}

	chunk := &audio.IntBuffer{Format: format, Data: make([]int, 4096*format.NumChannels)}
	all := &audio.IntBuffer{Format: format}
	for {
		n, err := dec.PCMBuffer(chunk)
		all.Data = append(all.Data, chunk.Data[:n]...)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("aiff: %w", err)
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	return fromIntBuffer(all, int(dec.BitDepth), false)
}

// EncodeWAV writes a as integer PCM WAV at bitDepth. Samples are clipped to
// the integer range and NaN is written as silence.
func EncodeWAV(w io.WriteSeeker, a *Audio, bitDepth int) error {
	if a == nil || a.NumChannels() == 0 || a.Len() == 0 {
		return ErrEmptyAudio
	}

	if bitDepth == 8 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	full, err := pcmFullScale(bitDepth)
	if err != nil {
		return err
	}

	channels := a.NumChannels()
	frames := a.Len()
	for c, ch := range a.Channels {
		if len(ch) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidFile, c, len(ch), frames)
		}
	}

	data := make([]int, frames*channels)
	for i := range frames {
		for c, ch := range a.Channels {
			v := ch[i]
			if math.IsNaN(v) {
				v = 0
			}
			data[i*channels+c] = int(core.Clamp(math.Round(v*full), -full, full-1))
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: int(a.SampleRate)},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	// Audio format 1 is integer PCM.
	enc := wav.NewEncoder(w, int(a.SampleRate), bitDepth, channels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	return nil
}
