package glitch

import (
	"math/rand/v2"
)

// shapes covers degenerate, thin and non-square buffers
var shapes = [][2]int{{1, 1}, {1, 7}, {7, 1}, {2, 2}, {3, 2}, {2, 3}, {5, 8}, {8, 5}, {16, 16}, {13, 4}}

var allTraversals = []Traversal{
	{Kind: TraversalLinear},
	{Kind: TraversalRows},
	{Kind: TraversalColumns},
	{Kind: TraversalDiagonals},
	{Kind: TraversalDiagonals, Flip: true},
	{Kind: TraversalWrappingDiagonals},
}

func randomBuffer(rng *rand.Rand, width, height int, kind Kind) *Buffer {
	b := NewBuffer(width, height, kind)
	for i := range b.Pix {
		b.Pix[i].V[0] = uint8(rng.IntN(256))
		if kind == KindRGB {
			b.Pix[i].V[1] = uint8(rng.IntN(256))
			b.Pix[i].V[2] = uint8(rng.IntN(256))
		}
	}
	return b
}

func randomLine(rng *rand.Rand, n int) []Pixel {
	line := make([]Pixel, n)
	for i := range line {
		line[i] = RGB(uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256)))
	}
	return line
}

func monoLine(vals ...uint8) []Pixel {
	line := make([]Pixel, len(vals))
	for i, v := range vals {
		line[i] = Mono(v)
	}
	return line
}

func monoBuffer(width, height int, vals ...uint8) *Buffer {
	return &Buffer{Width: width, Height: height, Pix: monoLine(vals...)}
}

func brightnessKey() Key {
	k, _ := KeyByName("brightness")
	return k
}

func concat(lines [][]Pixel) []Pixel {
	var out []Pixel
	for _, l := range lines {
		out = append(out, l...)
	}
	return out
}
