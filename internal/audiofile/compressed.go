package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// go-mp3 always decodes to interleaved 16-bit little-endian stereo.
const mp3Channels = 2

func decodeMP3(r io.Reader) (*Audio, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}

	if len(samples) < mp3Channels {
		return nil, ErrEmptyAudio
	}

	return &Audio{
		Channels:   deinterleave(samples, mp3Channels, 1.0/32768),
		SampleRate: float64(dec.SampleRate()),
	}, nil
}

func decodeOgg(r io.Reader) (*Audio, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}

	if format == nil || format.Channels < 1 {
		return nil, fmt.Errorf("%w: missing Vorbis format", ErrInvalidFile)
	}

	return &Audio{
		Channels:   deinterleave(data, format.Channels, 1),
		SampleRate: float64(format.SampleRate),
	}, nil
}
