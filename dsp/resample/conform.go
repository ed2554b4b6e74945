package resample

// ConformChannels converts every channel from inRate to outRate with one
// shared [Converter]. The result is time-aligned with the input and holds
// round(len*outRate/inRate) samples per channel. Equal rates yield copies.
func ConformChannels(channels [][]float64, inRate, outRate float64, opts ...Option) ([][]float64, error) {
	if inRate == outRate && validRate(inRate) {
		out := make([][]float64, len(channels))
		for i, ch := range channels {
			out[i] = append([]float64(nil), ch...)
		}
		return out, nil
	}

	c, err := NewConverter(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(channels))
	for i, ch := range channels {
		out[i] = c.Convert(ch)
	}

	return out, nil
}
