// Package glitch reorders the pixels of a flat buffer: it sorts runs of pixels
// along a geometric traversal and rotates traversal lines by a per-line offset.
package glitch

import (
	"fmt"
	"math"
)

// Kind tags the variant held by a Pixel
type Kind uint8

const (
	// KindMono is a single 8-bit sample
	KindMono Kind = iota
	// KindRGB is a red, green, blue triple
	KindRGB
)

func (k Kind) String() string {
	switch k {
	case KindMono:
		return "mono"
	case KindRGB:
		return "rgb"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Pixel is either a Mono sample (stored in V[0]) or an RGB triple.
type Pixel struct {
	Kind Kind
	V    [3]uint8
}

// Mono returns a single-sample pixel
func Mono(v uint8) Pixel {
	return Pixel{Kind: KindMono, V: [3]uint8{v}}
}

// RGB returns a three-channel pixel
func RGB(r, g, b uint8) Pixel {
	return Pixel{Kind: KindRGB, V: [3]uint8{r, g, b}}
}

// Channels is the number of meaningful entries in V
func (p Pixel) Channels() int {
	if p.Kind == KindRGB {
		return 3
	}
	return 1
}

func (p Pixel) String() string {
	if p.Kind == KindRGB {
		return fmt.Sprintf("(%d,%d,%d)", p.V[0], p.V[1], p.V[2])
	}
	return fmt.Sprintf("%d", p.V[0])
}

// Brighten multiplies each channel by the matching modifier. Mono pixels use
// mods[0].
func (p Pixel) Brighten(mods [3]float64) Pixel {
	out := p
	for c := 0; c < p.Channels(); c++ {
		out.V[c] = clamp8(float64(p.V[c]) * mods[c])
	}
	return out
}

// Blend mixes q over p: p*(1-alpha) + q*alpha per channel. Mono pixels use
// alpha[0].
func (p Pixel) Blend(q Pixel, alpha [3]float64) Pixel {
	out := p
	for c := 0; c < p.Channels(); c++ {
		a := alpha[c]
		out.V[c] = clamp8(float64(p.V[c])*(1-a) + float64(q.V[c])*a)
	}
	return out
}

// Variance is the normalized [0,1] scalar the tracer chunkers use to find
// borders: v/255 for mono, a perceptual brightness estimate for RGB.
func (p Pixel) Variance() float64 {
	if p.Kind == KindRGB {
		return fastBrightness(p)
	}
	return float64(p.V[0]) / 255
}

func fastBrightness(p Pixel) float64 {
	r, g, b := float64(p.V[0]), float64(p.V[1]), float64(p.V[2])
	return ((r + r + g + g + g + b) / 6) / 255
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
