package glitch

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Span is a half-open range [Start, End) of a line and whether it gets sorted.
type Span struct {
	Start    int
	End      int
	Sortable bool
}

// Len is the number of pixels covered
func (s Span) Len() int { return s.End - s.Start }

// Chunker splits one line into consecutive spans. The spans returned by Split
// always tile the line: the first starts at 0, each starts where the previous
// ended, and the last ends at len(line).
type Chunker interface {
	// Name is the registry selector for the strategy
	Name() string
	// Validate reports malformed parameters as ErrConfig
	Validate() error
	// Split cuts line into spans. Randomized strategies draw only from rng.
	Split(line []Pixel, rng *rand.Rand) []Span
}

// Linear sorts the whole line as one chunk
type Linear struct{}

func (Linear) Name() string    { return "linear" }
func (Linear) Validate() error { return nil }
func (Linear) Split(line []Pixel, _ *rand.Rand) []Span {
	return []Span{{Start: 0, End: len(line), Sortable: true}}
}

// FixedShutter cuts the line into chunks of Size pixels; the last one may be
// shorter. A zero Size means a tenth of the line.
type FixedShutter struct {
	Size int
}

func (FixedShutter) Name() string { return "shutters" }

func (s FixedShutter) Validate() error {
	if s.Size < 0 {
		return fmt.Errorf("%w: shutter size %d is negative", ErrConfig, s.Size)
	}
	return nil
}

func (s FixedShutter) Split(line []Pixel, _ *rand.Rand) []Span {
	size := s.Size
	if size == 0 {
		size = len(line) / 10
	}
	return fixedSpans(len(line), max(size, 1))
}

// VariableShutter draws each chunk length uniformly from [Min, Max]. Zero
// values default to a tenth of the line for Min and 1.5*Min for Max.
type VariableShutter struct {
	Min int
	Max int
}

func (VariableShutter) Name() string { return "variable-shutters" }

func (s VariableShutter) Validate() error {
	if s.Min < 0 || s.Max < 0 {
		return fmt.Errorf("%w: shutter bounds [%d,%d] must not be negative", ErrConfig, s.Min, s.Max)
	}
	if s.Max != 0 && s.Min > s.Max {
		return fmt.Errorf("%w: shutter min %d exceeds max %d", ErrConfig, s.Min, s.Max)
	}
	return nil
}

func (s VariableShutter) Split(line []Pixel, rng *rand.Rand) []Span {
	lo, hi := s.Min, s.Max
	if lo == 0 && hi == 0 {
		lo = len(line) / 10
	}
	if hi == 0 {
		hi = int(float64(lo) * 1.5)
	}
	return variableSpans(len(line), max(lo, 1), max(hi, 1), rng)
}

// ShutterPercent is FixedShutter with the size given as a fraction of the line
type ShutterPercent struct {
	Fraction float64
}

func (ShutterPercent) Name() string { return "shutters-percent" }

func (s ShutterPercent) Validate() error {
	return checkFraction("shutter fraction", s.Fraction)
}

func (s ShutterPercent) Split(line []Pixel, _ *rand.Rand) []Span {
	return fixedSpans(len(line), fractionOf(s.Fraction, len(line)))
}

// VariableShutterPercent is VariableShutter with bounds given as fractions of
// the line
type VariableShutterPercent struct {
	Min float64
	Max float64
}

func (VariableShutterPercent) Name() string { return "variable-shutters-percent" }

func (s VariableShutterPercent) Validate() error {
	if err := checkFraction("shutter min fraction", s.Min); err != nil {
		return err
	}
	if err := checkFraction("shutter max fraction", s.Max); err != nil {
		return err
	}
	if s.Min > s.Max {
		return fmt.Errorf("%w: shutter min fraction %g exceeds max %g", ErrConfig, s.Min, s.Max)
	}
	return nil
}

func (s VariableShutterPercent) Split(line []Pixel, rng *rand.Rand) []Span {
	n := len(line)
	return variableSpans(n, fractionOf(s.Min, n), fractionOf(s.Max, n), rng)
}

func checkFraction(what string, f float64) error {
	if math.IsNaN(f) || f <= 0 || f > 1 {
		return fmt.Errorf("%w: %s %g must be in (0,1]", ErrConfig, what, f)
	}
	return nil
}

// fractionOf converts a fraction of n to a pixel count of at least 1
func fractionOf(f float64, n int) int {
	return max(int(math.Floor(f*float64(n))), 1)
}

func fixedSpans(n, size int) []Span {
	spans := make([]Span, 0, n/size+1)
	for start := 0; start < n; start += size {
		spans = append(spans, Span{Start: start, End: min(start+size, n), Sortable: true})
	}
	return spans
}

func variableSpans(n, lo, hi int, rng *rand.Rand) []Span {
	var spans []Span
	for start := 0; start < n; {
		end := min(start+lo+rng.IntN(hi-lo+1), n)
		spans = append(spans, Span{Start: start, End: end, Sortable: true})
		start = end
	}
	return spans
}

// ChunkParams is the flat parameter bag used to build a Chunker by name. Only
// the fields relevant to the selected strategy are read.
type ChunkParams struct {
	Size         int     `toml:"size"`
	Min          int     `toml:"min"`
	Max          int     `toml:"max"`
	Fraction     float64 `toml:"fraction"`
	MinFraction  float64 `toml:"min_fraction"`
	MaxFraction  float64 `toml:"max_fraction"`
	TracerLength int     `toml:"tracer_length"`
	BorderWidth  int     `toml:"border_width"`
	Threshold    float64 `toml:"threshold"`
}

var chunkerBuilders = map[string]func(ChunkParams) Chunker{
	"linear":                    func(ChunkParams) Chunker { return Linear{} },
	"shutters":                  func(p ChunkParams) Chunker { return FixedShutter{Size: p.Size} },
	"variable-shutters":         func(p ChunkParams) Chunker { return VariableShutter{Min: p.Min, Max: p.Max} },
	"shutters-percent":          func(p ChunkParams) Chunker { return ShutterPercent{Fraction: p.Fraction} },
	"variable-shutters-percent": func(p ChunkParams) Chunker { return VariableShutterPercent{Min: p.MinFraction, Max: p.MaxFraction} },
	"tracers": func(p ChunkParams) Chunker {
		return Tracer{Length: p.TracerLength, BorderWidth: p.BorderWidth, Threshold: p.Threshold}
	},
	"wobbly-tracers": func(p ChunkParams) Chunker {
		return WobblyTracer{Length: p.TracerLength, BorderWidth: p.BorderWidth}
	},
}

// ChunkerNames lists the registered chunking selectors
func ChunkerNames() []string {
	return []string{"linear", "shutters", "variable-shutters", "shutters-percent",
		"variable-shutters-percent", "tracers", "wobbly-tracers"}
}

// ChunkerByName builds and validates a chunking strategy
func ChunkerByName(name string, p ChunkParams) (Chunker, error) {
	build, ok := chunkerBuilders[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown chunking %q", ErrConfig, name)
	}
	c := build(p)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
