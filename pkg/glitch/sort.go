package glitch

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
)

// IdentityMods leaves sorted pixels unchanged
var IdentityMods = [3]float64{1, 1, 1}

// SortConfig is the immutable description of one sort pass. Build it once,
// then hand it to Sort.
type SortConfig struct {
	Traversal Traversal
	Chunker   Chunker
	Key       Key
	// Reverse sorts descending; ties keep their original order either way
	Reverse bool
	// ColorMods multiplies each channel of every sorted pixel. Mono pixels use
	// ColorMods[0]. Use IdentityMods for no change.
	ColorMods [3]float64
	// Region limits the pass to a sub-rectangle when non-nil
	Region *Rect
	// Seed feeds the per-line random sources of randomized chunkers
	Seed int64
}

// Validate checks every selector and parameter against a buffer of the given
// pixel kind.
func (c SortConfig) Validate(kind Kind) error {
	if err := c.Traversal.Validate(); err != nil {
		return err
	}
	if c.Chunker == nil {
		return fmt.Errorf("%w: no chunking strategy", ErrConfig)
	}
	if err := c.Chunker.Validate(); err != nil {
		return err
	}
	if err := c.Key.Check(kind); err != nil {
		return err
	}
	return checkMods(c.ColorMods)
}

func checkMods(mods [3]float64) error {
	for i, m := range mods {
		if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: color modifier %d is %g, must be a non-negative number", ErrConfig, i, m)
		}
	}
	return nil
}

// lineRand returns the random source for one line. Deriving it from the line
// index keeps output independent of the order lines are processed in.
func lineRand(seed int64, line int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(line)))
}

// Sort runs one sort pass and returns a new buffer; b is not modified. On
// error no result is returned.
func Sort(b *Buffer, cfg SortConfig) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(b.Kind()); err != nil {
		return nil, err
	}
	target := b
	if cfg.Region != nil {
		if err := cfg.Region.Within(b.Width, b.Height); err != nil {
			return nil, err
		}
		target = b.Crop(*cfg.Region)
	}

	lines := cfg.Traversal.Forward(target)
	chunks := 0
	for i, line := range lines {
		spans := cfg.Chunker.Split(line, lineRand(cfg.Seed, i))
		if err := checkSpans(spans, len(line)); err != nil {
			return nil, fmt.Errorf("chunking %q on line %d: %w", cfg.Chunker.Name(), i, err)
		}
		sorted, err := SortLine(line, spans, cfg.Key.Fn, cfg.Reverse, cfg.ColorMods)
		if err != nil {
			return nil, err
		}
		lines[i] = sorted
		chunks += len(spans)
	}
	slog.Debug("sorted buffer",
		slog.String("traversal", cfg.Traversal.Kind.String()),
		slog.String("chunking", cfg.Chunker.Name()),
		slog.String("key", cfg.Key.Name),
		slog.Int("lines", len(lines)),
		slog.Int("chunks", chunks))

	res := cfg.Traversal.Restore(lines, target.Width, target.Height)
	if cfg.Region == nil {
		return res, nil
	}
	out := b.Clone()
	out.Paste(res, cfg.Region.Left, cfg.Region.Top)
	return out, nil
}

// checkSpans verifies that spans tile [0, n) in order
func checkSpans(spans []Span, n int) error {
	next := 0
	for _, s := range spans {
		if s.Start != next || s.End < s.Start {
			return fmt.Errorf("%w: span [%d,%d) does not continue at %d", ErrConfig, s.Start, s.End, next)
		}
		next = s.End
	}
	if next != n {
		return fmt.Errorf("%w: spans cover %d of %d pixels", ErrConfig, next, n)
	}
	return nil
}

type keyed struct {
	key float64
	px  Pixel
}

// SortLine stably sorts each sortable span of line by key, applies mods to the
// sorted pixels and returns the reassembled line. Unsortable spans are copied
// through untouched.
func SortLine(line []Pixel, spans []Span, key KeyFunc, reverse bool, mods [3]float64) ([]Pixel, error) {
	out := make([]Pixel, len(line))
	copy(out, line)
	var buf []keyed
	for _, s := range spans {
		if !s.Sortable {
			continue
		}
		seg := out[s.Start:s.End]
		buf = buf[:0]
		for _, p := range seg {
			k, err := key(p)
			if err != nil {
				return nil, err
			}
			buf = append(buf, keyed{key: k, px: p})
		}
		slices.SortStableFunc(buf, func(a, b keyed) int {
			if reverse {
				return cmp.Compare(b.key, a.key)
			}
			return cmp.Compare(a.key, b.key)
		})
		for i := range seg {
			seg[i] = buf[i].px.Brighten(mods)
		}
	}
	return out, nil
}
