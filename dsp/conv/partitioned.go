package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Partitioned implements uniformly partitioned overlap-add convolution with a
// frequency-domain delay line.
//
// The kernel is split into P partitions of blockSize samples, each stored as
// the spectrum of the partition zero-padded to fftSize >= 2*blockSize. Every
// block the input is transformed once and pushed into a ring of the last P
// input spectra; the output spectrum is the sum of ring[n-p] * H[p] over all
// partitions, followed by one inverse transform. The second half of the
// inverse is carried as overlap into the next block.
//
// Output is not delayed: sample i of the block returned by ProcessBlockTo is
// sample i of the linear convolution of the stream with the kernel.
type Partitioned struct {
	blockSize int
	fftSize   int
	kernelLen int

	plan    *algofft.Plan[complex128]
	spectra [][]complex128 // P partition spectra, shared between forks

	fdl     [][]complex128 // P most recent input spectra
	head    int            // index of the newest entry in fdl
	acc     []complex128
	work    []complex128
	overlap []float64
}

// NewPartitioned creates a partitioned convolver for kernel processing
// blocks of exactly blockSize samples.
func NewPartitioned(kernel []float64, blockSize int) (*Partitioned, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	fftSize := nextPowerOf2(2 * blockSize)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: partitioned FFT init (size=%d): %w", fftSize, err)
	}

	numParts := (len(kernel) + blockSize - 1) / blockSize
	spectra := make([][]complex128, numParts)
	work := make([]complex128, fftSize)

	for p := range spectra {
		clear(work)

		start := p * blockSize
		end := min(start+blockSize, len(kernel))
		for i, v := range kernel[start:end] {
			work[i] = complex(v, 0)
		}

		spectra[p] = make([]complex128, fftSize)
		if err := plan.Forward(spectra[p], work); err != nil {
			return nil, fmt.Errorf("conv: partition %d spectrum: %w", p, err)
		}
	}

	return newPartitionedState(plan, spectra, blockSize, fftSize, len(kernel)), nil
}

func newPartitionedState(plan *algofft.Plan[complex128], spectra [][]complex128, blockSize, fftSize, kernelLen int) *Partitioned {
	fdl := make([][]complex128, len(spectra))
	for p := range fdl {
		fdl[p] = make([]complex128, fftSize)
	}

	return &Partitioned{
		blockSize: blockSize,
		fftSize:   fftSize,
		kernelLen: kernelLen,
		plan:      plan,
		spectra:   spectra,
		fdl:       fdl,
		acc:       make([]complex128, fftSize),
		work:      make([]complex128, fftSize),
		overlap:   make([]float64, blockSize),
	}
}

// Fork returns a convolver with the same kernel and fresh, independent
// streaming state. Kernel spectra and the FFT plan are shared, so a fork
// must be driven from the same goroutine as its origin.
func (c *Partitioned) Fork() *Partitioned {
	return newPartitionedState(c.plan, c.spectra, c.blockSize, c.fftSize, c.kernelLen)
}

// ProcessBlockTo convolves one block of exactly BlockSize() samples from src
// into dst. dst and src may alias. It does not allocate.
func (c *Partitioned) ProcessBlockTo(dst, src []float64) error {
	if len(src) != c.blockSize || len(dst) != c.blockSize {
		return fmt.Errorf("%w: got src=%d dst=%d, want %d",
			ErrLengthMismatch, len(src), len(dst), c.blockSize)
	}

	numParts := len(c.fdl)

	// Advance the ring so head holds the newest input spectrum.
	c.head--
	if c.head < 0 {
		c.head = numParts - 1
	}

	for i, v := range src {
		c.work[i] = complex(v, 0)
	}
	clear(c.work[c.blockSize:])

	if err := c.plan.Forward(c.fdl[c.head], c.work); err != nil {
		return err
	}

	clear(c.acc)
	for p, h := range c.spectra {
		x := c.fdl[(c.head+p)%numParts]
		for k := range c.acc {
			c.acc[k] += x[k] * h[k]
		}
	}

	if err := c.plan.Inverse(c.work, c.acc); err != nil {
		return err
	}

	b := c.blockSize
	for i := range b {
		dst[i] = real(c.work[i]) + c.overlap[i]
		c.overlap[i] = real(c.work[b+i])
	}

	return nil
}

// Reset clears the delay line and the overlap, ready for a fresh stream.
func (c *Partitioned) Reset() {
	for _, x := range c.fdl {
		clear(x)
	}
	clear(c.overlap)
	c.head = 0
}

// BlockSize returns the partition and processing block size.
func (c *Partitioned) BlockSize() int {
	return c.blockSize
}

// KernelLen returns the original kernel length.
func (c *Partitioned) KernelLen() int {
	return c.kernelLen
}

// Partitions returns the number of kernel partitions.
func (c *Partitioned) Partitions() int {
	return len(c.spectra)
}
