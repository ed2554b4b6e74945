package buffer

// Mix writes src into dst using the speaker channel interpretation for mono,
// stereo and quad layouts:
//
//	1 -> 2   L = R = M
//	1 -> 4   L = R = M, SL = SR = 0
//	2 -> 1   M = 0.5 * (L + R)
//	2 -> 4   L, R copied, SL = SR = 0
//	4 -> 1   M = 0.25 * (L + R + SL + SR)
//	4 -> 2   L = 0.5 * (L + SL), R = 0.5 * (R + SR)
//
// Any other pair of layouts is mixed discretely: shared channels are copied
// and the rest of dst is zeroed. Both blocks must have the same length.
// dst and src must not be the same block.
func Mix(dst, src *Block) {
	in, out := src.Channels(), dst.Channels()

	switch {
	case in == out:
		dst.CopyFrom(src)
	case in == 1 && (out == 2 || out == 4):
		m := src.Channel(0)
		copy(dst.Channel(0), m)
		copy(dst.Channel(1), m)
		for i := 2; i < out; i++ {
			clear(dst.Channel(i))
		}
	case in == 2 && out == 1:
		l, r, m := src.Channel(0), src.Channel(1), dst.Channel(0)
		for i := range m {
			m[i] = 0.5 * (l[i] + r[i])
		}
	case in == 4 && out == 1:
		l, r, sl, sr := src.Channel(0), src.Channel(1), src.Channel(2), src.Channel(3)
		m := dst.Channel(0)
		for i := range m {
			m[i] = 0.25 * (l[i] + r[i] + sl[i] + sr[i])
		}
	case in == 4 && out == 2:
		l, r, sl, sr := src.Channel(0), src.Channel(1), src.Channel(2), src.Channel(3)
		dl, dr := dst.Channel(0), dst.Channel(1)
		for i := range dl {
			dl[i] = 0.5 * (l[i] + sl[i])
			dr[i] = 0.5 * (r[i] + sr[i])
		}
	default:
		// 2 -> 4 is the discrete copy as well.
		dst.CopyFrom(src)
	}
}
