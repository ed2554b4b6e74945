package audiofile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Errors returned by the decoders and the encoder.
var (
	ErrUnknownFormat       = errors.New("audiofile: unknown format")
	ErrInvalidFile         = errors.New("audiofile: invalid file")
	ErrUnsupportedBitDepth = errors.New("audiofile: unsupported bit depth")
	ErrEmptyAudio          = errors.New("audiofile: no audio")
)

// Format identifies a container/codec pair.
type Format int

const (
	FormatWAV Format = iota
	FormatAIFF
	FormatMP3
	FormatOgg
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatAIFF:
		return "aiff"
	case FormatMP3:
		return "mp3"
	case FormatOgg:
		return "ogg"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".aif", ".aiff":
		return FormatAIFF, nil
	case ".mp3":
		return FormatMP3, nil
	case ".ogg", ".oga":
		return FormatOgg, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Audio is decoded audio: one slice per channel, all of equal length, with
// samples in [-1, 1).
type Audio struct {
	Channels   [][]float64
	SampleRate float64
}

// NumChannels returns the channel count.
func (a *Audio) NumChannels() int {
	return len(a.Channels)
}

// Len returns the number of frames.
func (a *Audio) Len() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(a.Len()) / a.SampleRate
}

// Decode reads a whole stream of format f.
func Decode(r io.Reader, f Format) (*Audio, error) {
	switch f {
	case FormatWAV:
		return decodeWAV(readSeeker(r))
	case FormatAIFF:
		return decodeAIFF(readSeeker(r))
	case FormatMP3:
		return decodeMP3(r)
	case FormatOgg:
		return decodeOgg(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
}

// readSeeker returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek.
func readSeeker(r io.Reader) io.ReadSeeker {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return &errReader{err: err}
	}
	return bytes.NewReader(data)
}

type errReader struct{ err error }

func (e *errReader) Read([]byte) (int, error)       { return 0, e.err }
func (e *errReader) Seek(int64, int) (int64, error) { return 0, e.err }

// ReadFile decodes the file at path, choosing the decoder by extension.
func ReadFile(path string) (*Audio, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: open %s: %w", path, err)
	}
	defer file.Close()

	a, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "ReadFile",
		"path":       path,
		"format":     f.String(),
		"channels":   a.NumChannels(),
		"frames":     a.Len(),
		"sampleRate": a.SampleRate,
	}).Debug("Decoded audio file")

	return a, nil
}

// WriteFile encodes a as PCM WAV at bitDepth (16, 24 or 32) into path.
func WriteFile(path string, a *Audio, bitDepth int) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("audiofile: close %s: %w", path, cerr)
		}
	}()

	if err := EncodeWAV(file, a, bitDepth); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "WriteFile",
		"path":     path,
		"channels": a.NumChannels(),
		"frames":   a.Len(),
		"bitDepth": bitDepth,
	}).Debug("Wrote audio file")

	return nil
}

// deinterleave splits frames of interleaved samples into planar channels,
// scaling each by gain.
func deinterleave[T int | float32](data []T, channels int, gain float64) [][]float64 {
	frames := len(data) / channels
	backing := make([]float64, frames*channels)
	out := make([][]float64, channels)
	for c := range out {
		out[c] = backing[c*frames : (c+1)*frames : (c+1)*frames]
	}

	for i := range frames {
		for c := range channels {
			out[c][i] = float64(data[i*channels+c]) * gain
		}
	}

	return out
}
