package buffer

// Block is a planar multichannel sample block. Every channel has the same
// length, normally one render quantum.
type Block struct {
	channels [][]float64
	length   int
}

// NewBlock returns a zero-filled block with the given channel count and
// per-channel length. Negative values are treated as zero.
func NewBlock(channels, length int) *Block {
	if channels < 0 {
		channels = 0
	}
	if length < 0 {
		length = 0
	}

	backing := make([]float64, channels*length)
	ch := make([][]float64, channels)
	for i := range ch {
		ch[i] = backing[i*length : (i+1)*length : (i+1)*length]
	}

	return &Block{channels: ch, length: length}
}

// FromChannels wraps existing channel slices without copying. All channels
// are truncated to the length of the shortest one.
func FromChannels(channels ...[]float64) *Block {
	length := 0
	for i, ch := range channels {
		if i == 0 || len(ch) < length {
			length = len(ch)
		}
	}

	ch := make([][]float64, len(channels))
	for i := range channels {
		ch[i] = channels[i][:length]
	}

	return &Block{channels: ch, length: length}
}

// Channels returns the number of channels.
func (b *Block) Channels() int {
	return len(b.channels)
}

// Len returns the number of sample-frames per channel.
func (b *Block) Len() int {
	return b.length
}

// Channel returns the samples of channel i. The slice aliases the block.
func (b *Block) Channel(i int) []float64 {
	return b.channels[i]
}

// Zero sets every sample to 0.
func (b *Block) Zero() {
	for _, ch := range b.channels {
		clear(ch)
	}
}

// IsSilent reports whether every sample is exactly zero.
func (b *Block) IsSilent() bool {
	for _, ch := range b.channels {
		for _, v := range ch {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// CopyFrom copies src into b channel by channel. Channels present in b but
// not in src are zeroed; extra channels in src are ignored. Use [Mix] for
// speaker-aware conversion between layouts.
func (b *Block) CopyFrom(src *Block) {
	for i, ch := range b.channels {
		if i < len(src.channels) {
			n := copy(ch, src.channels[i])
			clear(ch[n:])
			continue
		}
		clear(ch)
	}
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	c := NewBlock(len(b.channels), b.length)
	c.CopyFrom(b)
	return c
}
