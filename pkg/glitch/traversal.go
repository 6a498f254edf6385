package glitch

import (
	"fmt"
	"strings"
)

// TraversalKind selects how a buffer is cut into lines
type TraversalKind int

const (
	TraversalLinear TraversalKind = iota
	TraversalRows
	TraversalColumns
	TraversalDiagonals
	TraversalWrappingDiagonals
)

var traversalNames = map[TraversalKind]string{
	TraversalLinear:            "linear",
	TraversalRows:              "rows",
	TraversalColumns:           "columns",
	TraversalDiagonals:         "diagonals",
	TraversalWrappingDiagonals: "wrapping-diagonals",
}

func (k TraversalKind) String() string {
	if name, ok := traversalNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TraversalKind(%d)", int(k))
}

// TraversalNames lists the accepted selector strings in declaration order
func TraversalNames() []string {
	names := make([]string, 0, len(traversalNames))
	for k := TraversalLinear; k <= TraversalWrappingDiagonals; k++ {
		names = append(names, traversalNames[k])
	}
	return names
}

// ParseTraversal resolves a selector string. Matching ignores case, spaces and
// underscores so "Wrapping Diagonals" and "wrapping_diagonals" both resolve.
func ParseTraversal(name string) (TraversalKind, error) {
	norm := normalizeName(name)
	for k, n := range traversalNames {
		if n == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown traversal %q", ErrConfig, name)
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(name)
}

// Traversal produces ordered lines from a buffer and maps them back.
type Traversal struct {
	Kind TraversalKind
	// Flip mirrors Diagonals vertically so lines run bottom-left to top-right
	Flip bool
}

// Validate rejects unknown kinds
func (t Traversal) Validate() error {
	if _, ok := traversalNames[t.Kind]; !ok {
		return fmt.Errorf("%w: unknown traversal %d", ErrConfig, int(t.Kind))
	}
	return nil
}

// NeedsInverse reports whether concatenating the lines differs from storage
// order.
func (t Traversal) NeedsInverse() bool {
	switch t.Kind {
	case TraversalColumns, TraversalDiagonals, TraversalWrappingDiagonals:
		return true
	}
	return false
}

// Lines returns, for each line, the buffer indices it visits in order. Every
// index in [0, width*height) appears exactly once across all lines.
func (t Traversal) Lines(width, height int) [][]int {
	if width <= 0 || height <= 0 {
		return nil
	}
	switch t.Kind {
	case TraversalLinear:
		return [][]int{span(0, width*height, 1)}
	case TraversalRows:
		lines := make([][]int, height)
		for y := range lines {
			lines[y] = span(y*width, width, 1)
		}
		return lines
	case TraversalColumns:
		lines := make([][]int, width)
		for x := range lines {
			lines[x] = span(x, height, width)
		}
		return lines
	case TraversalDiagonals:
		return diagonals(width, height, t.Flip)
	case TraversalWrappingDiagonals:
		lines := make([][]int, width)
		for i := range lines {
			line := make([]int, height)
			for j := range line {
				line[j] = (i+j)%width + j*width
			}
			lines[i] = line
		}
		return lines
	}
	return nil
}

func span(start, n, stride int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i*stride
	}
	return out
}

// diagonals walks width+height-1 lines down and to the right. Unflipped lines
// start on the left edge at the bottom row and move up, then along the top
// edge. Flipped lines start at the top-left and walk up and to the right.
func diagonals(width, height int, flip bool) [][]int {
	startX, startY, endY, yInc, yBorder := 0, height-1, 0, 1, height
	if flip {
		startY, endY, yInc, yBorder = 0, height-1, -1, -1
	}
	lines := make([][]int, 0, width+height-1)
	for range width + height - 1 {
		var line []int
		for x, y := startX, startY; y != yBorder && x < width; x, y = x+1, y+yInc {
			line = append(line, x+y*width)
		}
		if startY != endY {
			startY -= yInc
		} else {
			startX++
		}
		lines = append(lines, line)
	}
	return lines
}

// Forward gathers the lines of b
func (t Traversal) Forward(b *Buffer) [][]Pixel {
	idx := t.Lines(b.Width, b.Height)
	lines := make([][]Pixel, len(idx))
	for i, line := range idx {
		px := make([]Pixel, len(line))
		for j, k := range line {
			px[j] = b.Pix[k]
		}
		lines[i] = px
	}
	return lines
}

// Inverse takes the concatenation of the lines produced by Forward and
// returns the pixels in storage order.
func (t Traversal) Inverse(flat []Pixel, width, height int) []Pixel {
	out := make([]Pixel, len(flat))
	if !t.NeedsInverse() {
		copy(out, flat)
		return out
	}
	n := 0
	for _, line := range t.Lines(width, height) {
		for _, k := range line {
			out[k] = flat[n]
			n++
		}
	}
	return out
}

// Restore scatters per-line results back into a new buffer.
func (t Traversal) Restore(lines [][]Pixel, width, height int) *Buffer {
	flat := make([]Pixel, 0, width*height)
	for _, line := range lines {
		flat = append(flat, line...)
	}
	return &Buffer{Width: width, Height: height, Pix: t.Inverse(flat, width, height)}
}
