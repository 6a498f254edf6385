package glitch

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
)

// Offsetter computes the shift for one traversal line. Positive shifts move
// pixels toward the end of the line.
type Offsetter interface {
	Name() string
	Validate() error
	Offset(line int, rng *rand.Rand) (int, error)
}

// OffsetFunc adapts a plain function to Offsetter. Its errors are returned to
// the caller of Offset unchanged.
type OffsetFunc func(line int) (int, error)

func (OffsetFunc) Name() string { return "func" }

func (f OffsetFunc) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil offset function", ErrConfig)
	}
	return nil
}

func (f OffsetFunc) Offset(line int, _ *rand.Rand) (int, error) { return f(line) }

// LineNumber shifts each line by its own index
type LineNumber struct{}

func (LineNumber) Name() string                               { return "line-number" }
func (LineNumber) Validate() error                            { return nil }
func (LineNumber) Offset(line int, _ *rand.Rand) (int, error) { return line, nil }

// Static shifts every line by Amount
type Static struct {
	Amount int
}

func (Static) Name() string                              { return "static" }
func (Static) Validate() error                           { return nil }
func (s Static) Offset(_ int, _ *rand.Rand) (int, error) { return s.Amount, nil }

// Sine shifts line i by Amplitude*sin(i*InvWavelength*pi/2), truncated
type Sine struct {
	Amplitude     float64
	InvWavelength float64
}

func (Sine) Name() string      { return "sine" }
func (s Sine) Validate() error { return checkWave(s.Amplitude, s.InvWavelength) }

func (s Sine) Offset(line int, _ *rand.Rand) (int, error) {
	return int(s.Amplitude * math.Sin(float64(line)*s.InvWavelength*math.Pi/2)), nil
}

// Cosine shifts line i by Amplitude*cos(i*InvWavelength*pi/2), truncated
type Cosine struct {
	Amplitude     float64
	InvWavelength float64
}

func (Cosine) Name() string      { return "cosine" }
func (c Cosine) Validate() error { return checkWave(c.Amplitude, c.InvWavelength) }

func (c Cosine) Offset(line int, _ *rand.Rand) (int, error) {
	return int(c.Amplitude * math.Cos(float64(line)*c.InvWavelength*math.Pi/2)), nil
}

func checkWave(amp, inv float64) error {
	if math.IsNaN(amp) || math.IsInf(amp, 0) || math.IsNaN(inv) || math.IsInf(inv, 0) {
		return fmt.Errorf("%w: wave parameters must be finite", ErrConfig)
	}
	return nil
}

// maxRandomAmplitude keeps 2*Amplitude+1 within int
const maxRandomAmplitude = (math.MaxInt - 1) / 2

// RandomOffset draws each line's shift uniformly from [-Amplitude, Amplitude]
// using the line's seeded source.
type RandomOffset struct {
	Amplitude int
}

func (RandomOffset) Name() string { return "random" }

func (r RandomOffset) Validate() error {
	if r.Amplitude < 0 {
		return fmt.Errorf("%w: random offset amplitude %d is negative", ErrConfig, r.Amplitude)
	}
	if r.Amplitude > maxRandomAmplitude {
		return fmt.Errorf("%w: random offset amplitude %d exceeds %d", ErrConfig, r.Amplitude, maxRandomAmplitude)
	}
	return nil
}

func (r RandomOffset) Offset(_ int, rng *rand.Rand) (int, error) {
	return rng.IntN(2*r.Amplitude+1) - r.Amplitude, nil
}

// OffsetParams is the flat parameter bag used to build an Offsetter by name
type OffsetParams struct {
	Amount        int     `toml:"amount"`
	Amplitude     float64 `toml:"amplitude"`
	InvWavelength float64 `toml:"inv_wavelength"`
}

var offsetBuilders = map[string]func(OffsetParams) (Offsetter, error){
	"line-number": func(OffsetParams) (Offsetter, error) {
		return LineNumber{}, nil
	},
	"static": func(p OffsetParams) (Offsetter, error) {
		return Static{Amount: p.Amount}, nil
	},
	"sine": func(p OffsetParams) (Offsetter, error) {
		return Sine{Amplitude: p.Amplitude, InvWavelength: p.InvWavelength}, nil
	},
	"cosine": func(p OffsetParams) (Offsetter, error) {
		return Cosine{Amplitude: p.Amplitude, InvWavelength: p.InvWavelength}, nil
	},
	"random": func(p OffsetParams) (Offsetter, error) {
		a := p.Amplitude
		if math.IsNaN(a) || a < 0 || a > float64(maxRandomAmplitude) {
			return nil, fmt.Errorf("%w: random offset amplitude %g must be in [0, %d]", ErrConfig, a, maxRandomAmplitude)
		}
		return RandomOffset{Amplitude: int(a)}, nil
	},
}

// OffsetterNames lists the registered offset functions
func OffsetterNames() []string {
	return []string{"line-number", "static", "sine", "cosine", "random"}
}

// OffsetterByName builds and validates an offset function
func OffsetterByName(name string, p OffsetParams) (Offsetter, error) {
	build, ok := offsetBuilders[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown offset function %q", ErrConfig, name)
	}
	o, err := build(p)
	if err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// OffsetConfig is the immutable description of one offset pass
type OffsetConfig struct {
	Traversal Traversal
	Offsetter Offsetter
	// Wrap rotates lines circularly. Without it the vacated end of the line is
	// filled by repeating the edge pixel the line was shifted away from.
	Wrap bool
	// Aura blends the shifted line over the original with these per-channel
	// alphas instead of replacing it. Mono pixels use Aura[0].
	Aura *[3]float64
	// Region limits the pass to a sub-rectangle when non-nil
	Region *Rect
	// Seed feeds the per-line random sources of randomized offsets
	Seed int64
}

// Validate checks every selector and parameter
func (c OffsetConfig) Validate() error {
	if err := c.Traversal.Validate(); err != nil {
		return err
	}
	if c.Offsetter == nil {
		return fmt.Errorf("%w: no offset function", ErrConfig)
	}
	if err := c.Offsetter.Validate(); err != nil {
		return err
	}
	if c.Aura != nil {
		for i, a := range c.Aura {
			if math.IsNaN(a) || a < 0 || a > 1 {
				return fmt.Errorf("%w: aura alpha %d is %g, must be in [0,1]", ErrConfig, i, a)
			}
		}
	}
	return nil
}

// Offset shifts every traversal line of b and returns a new buffer; b is not
// modified. On error no result is returned.
func Offset(b *Buffer, cfg OffsetConfig) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
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
	for i, line := range lines {
		shift, err := cfg.Offsetter.Offset(i, lineRand(cfg.Seed, i))
		if err != nil {
			return nil, err
		}
		shifted := ShiftLine(line, shift, cfg.Wrap)
		if cfg.Aura != nil {
			for k := range shifted {
				shifted[k] = line[k].Blend(shifted[k], *cfg.Aura)
			}
		}
		lines[i] = shifted
	}
	slog.Debug("offset buffer",
		slog.String("traversal", cfg.Traversal.Kind.String()),
		slog.String("offset", cfg.Offsetter.Name()),
		slog.Bool("wrap", cfg.Wrap),
		slog.Bool("aura", cfg.Aura != nil),
		slog.Int("lines", len(lines)))

	res := cfg.Traversal.Restore(lines, target.Width, target.Height)
	if cfg.Region == nil {
		return res, nil
	}
	out := b.Clone()
	out.Paste(res, cfg.Region.Left, cfg.Region.Top)
	return out, nil
}

// ShiftLine moves every pixel shift places toward the end of the line. With
// wrap the line is rotated, so [A B C D] shifted by 1 is [D A B C]. Without
// wrap each output pixel k reads line[k-shift] clamped to the line, so the
// same shift gives [A A B C].
func ShiftLine(line []Pixel, shift int, wrap bool) []Pixel {
	n := len(line)
	out := make([]Pixel, n)
	if n == 0 {
		return out
	}
	if wrap {
		s := ((shift % n) + n) % n
		copy(out[s:], line[:n-s])
		copy(out[:s], line[n-s:])
		return out
	}
	shift = min(max(shift, -n), n)
	for k := range out {
		out[k] = line[min(max(k-shift, 0), n-1)]
	}
	return out
}
