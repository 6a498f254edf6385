package glitch

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	defaultTracerLength    = 44
	defaultBorderWidth     = 2
	defaultTracerThreshold = 0.25
	wobblyThreshold        = 0.2
)

// Tracer finds borders between objects along a line and sorts a trail of
// Length pixels leaving each border. Everything outside a trail is left
// unsorted.
//
// A position x is a border when every pixel in (x, x+BorderWidth) differs from
// line[x] by at least Threshold under Pixel.Variance. The first border arms the
// scanner; the next border found while armed emits the pixels since the last
// trail as an unsorted chunk followed by the trail itself, then disarms.
// Zero fields take the defaults 44, 2 and 0.25.
type Tracer struct {
	Length      int
	BorderWidth int
	Threshold   float64
}

func (Tracer) Name() string { return "tracers" }

func (t Tracer) Validate() error {
	if t.Length < 0 {
		return fmt.Errorf("%w: tracer length %d is negative", ErrConfig, t.Length)
	}
	if t.BorderWidth < 0 {
		return fmt.Errorf("%w: border width %d is negative", ErrConfig, t.BorderWidth)
	}
	if math.IsNaN(t.Threshold) || t.Threshold < 0 || t.Threshold > 1 {
		return fmt.Errorf("%w: variance threshold %g must be in [0,1]", ErrConfig, t.Threshold)
	}
	return nil
}

func (t Tracer) params() (length, width int, threshold float64) {
	length, width, threshold = t.Length, t.BorderWidth, t.Threshold
	if length == 0 {
		length = defaultTracerLength
	}
	if width == 0 {
		width = defaultBorderWidth
	}
	if threshold == 0 {
		threshold = defaultTracerThreshold
	}
	return
}

func (t Tracer) Split(line []Pixel, _ *rand.Rand) []Span {
	length, width, threshold := t.params()
	n := len(line)
	var spans []Span
	armed := false
	start, x := 0, 0
	for x < n-width {
		if !isBorder(line, x, width, threshold) {
			x++
			continue
		}
		if !armed {
			armed = true
			x++
			continue
		}
		if x > start {
			spans = append(spans, Span{Start: start, End: x})
		}
		end := min(n, x+length)
		spans = append(spans, Span{Start: x, End: end, Sortable: true})
		start, x, armed = end, end, false
	}
	return append(spans, Span{Start: start, End: n})
}

func isBorder(line []Pixel, x, width int, threshold float64) bool {
	ref := line[x].Variance()
	for x2 := x + 1; x2 < min(len(line), x+width); x2++ {
		if math.Abs(ref-line[x2].Variance()) < threshold {
			return false
		}
	}
	return true
}

// WobblyTracer tests a fixed look-ahead window at every index. When the window
// is a border the pixel and the Length pixels after it are emitted and
// skipped over; otherwise the pixel is emitted alone. All chunks are sortable.
//
// The window compares line[i] against line[j] for j in [1, BorderWidth], not
// against line[i+j], so the window stays pinned to the start of the line.
type WobblyTracer struct {
	Length      int
	BorderWidth int
}

func (WobblyTracer) Name() string { return "wobbly-tracers" }

func (w WobblyTracer) Validate() error {
	if w.Length < 0 {
		return fmt.Errorf("%w: tracer length %d is negative", ErrConfig, w.Length)
	}
	if w.BorderWidth < 0 {
		return fmt.Errorf("%w: border width %d is negative", ErrConfig, w.BorderWidth)
	}
	return nil
}

func (w WobblyTracer) Split(line []Pixel, _ *rand.Rand) []Span {
	length, width := w.Length, w.BorderWidth
	if length == 0 {
		length = defaultTracerLength
	}
	if width == 0 {
		width = defaultBorderWidth
	}
	n := len(line)
	spans := make([]Span, 0, n)
	for i := 0; i < n; {
		spans = append(spans, Span{Start: i, End: i + 1, Sortable: true})
		if !wobblyBorder(line, i, width) {
			i++
			continue
		}
		end := min(n, i+1+length)
		if end > i+1 {
			spans = append(spans, Span{Start: i + 1, End: end, Sortable: true})
		}
		i = end
	}
	return spans
}

func wobblyBorder(line []Pixel, i, width int) bool {
	ref := wobblyMetric(line[i])
	for j := 1; j <= width; j++ {
		if i+j >= len(line) || math.Abs(ref-wobblyMetric(line[j])) < wobblyThreshold {
			return false
		}
	}
	return true
}

// wobblyMetric is the raw byte for mono pixels, so any change in value is a
// border, and the fast brightness for RGB
func wobblyMetric(p Pixel) float64 {
	if p.Kind == KindMono {
		return float64(p.V[0])
	}
	return fastBrightness(p)
}
