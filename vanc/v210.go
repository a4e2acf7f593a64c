package vanc

// Neutral sample values used to pad a trailing partial group. Y10Mid is the
// neutral luma sample; ChromaMid is the neutral chroma (U or V) sample.
const (
	Y10Mid    uint16 = 0x200
	ChromaMid uint16 = 0x040

	// y10Threshold is the active-line width above which PackV210 treats its
	// input as a luma-only (Y10) stream instead of a UYVY 4:2:2 stream. This
	// exact threshold must be preserved to match downstream SDI/IP equipment
	// expectations (spec Design Notes, "Line width").
	y10Threshold = 720

	// lineWordMultiple is the v210 line-length granularity: every packed
	// line is zero-padded up to the next multiple of this many 32-bit words.
	lineWordMultiple = 32
)

// PackV210 packs a 10-bit sample sequence into little-endian 32-bit v210
// words for an active line of the given pixel width. Width selects the
// sample layout: > 720 treats samples as luma-only (Y10), <= 720 treats them
// as interleaved UYVY. Trailing partial groups are padded with neutral
// samples; the final word count is rounded up to the next multiple of 32.
func PackV210(samples []uint16, width int) []uint32 {
	var words []uint32
	if width > y10Threshold {
		words = packY10(samples)
	} else {
		words = packUYVY(samples)
	}
	return padLine(words)
}

func packY10(samples []uint16) []uint32 {
	n := len(samples)
	groups := (n + 5) / 6
	out := make([]uint32, 0, groups*4)
	sampleAt := func(idx int) uint32 {
		if idx < n {
			return uint32(samples[idx])
		}
		return uint32(Y10Mid)
	}
	for g := 0; g < groups; g++ {
		base := g * 6
		s0 := sampleAt(base)
		s1 := sampleAt(base + 1)
		s2 := sampleAt(base + 2)
		s3 := sampleAt(base + 3)
		s4 := sampleAt(base + 4)
		s5 := sampleAt(base + 5)
		out = append(out,
			s0<<10,
			s1|(s2<<20),
			s3<<10,
			s4|(s5<<20),
		)
	}
	return out
}

func packUYVY(samples []uint16) []uint32 {
	n := len(samples)
	groups := (n + 11) / 12
	out := make([]uint32, 0, groups*4)
	sampleAt := func(idx int) uint32 {
		if idx < n {
			return uint32(samples[idx])
		}
		if idx%2 == 0 {
			return uint32(ChromaMid)
		}
		return uint32(Y10Mid)
	}
	for g := 0; g < groups; g++ {
		base := g * 12
		for k := 0; k < 12; k += 3 {
			out = append(out, sampleAt(base+k)|(sampleAt(base+k+1)<<10)|(sampleAt(base+k+2)<<20))
		}
	}
	return out
}

func padLine(words []uint32) []uint32 {
	rem := len(words) % lineWordMultiple
	if rem == 0 {
		return words
	}
	pad := lineWordMultiple - rem
	out := make([]uint32, len(words)+pad)
	copy(out, words)
	return out
}

// UnpackY10 recovers the 10-bit luma samples a Y10-layout v210 line encodes,
// in the same order PackV210 consumed them. It is the inverse of packY10 and
// exists to verify the sample-recovery property (spec §8 property 6).
func UnpackY10(words []uint32) []uint16 {
	out := make([]uint16, 0, len(words)/4*6)
	for i := 0; i+3 < len(words); i += 4 {
		w0, w1, w2, w3 := words[i], words[i+1], words[i+2], words[i+3]
		out = append(out,
			uint16((w0>>10)&0x3FF),
			uint16(w1&0x3FF),
			uint16((w1>>20)&0x3FF),
			uint16((w2>>10)&0x3FF),
			uint16(w3&0x3FF),
			uint16((w3>>20)&0x3FF),
		)
	}
	return out
}

// UnpackUYVY recovers the 10-bit UYVY samples a UYVY-layout v210 line
// encodes, in the same order PackV210 consumed them.
func UnpackUYVY(words []uint32) []uint16 {
	out := make([]uint16, 0, len(words)*3)
	for _, w := range words {
		out = append(out,
			uint16(w&0x3FF),
			uint16((w>>10)&0x3FF),
			uint16((w>>20)&0x3FF),
		)
	}
	return out
}
