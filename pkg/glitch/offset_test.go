package glitch

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffset_StaticWrapRotatesRight(t *testing.T) {
	b := monoBuffer(4, 1, 'A', 'B', 'C', 'D')
	out, err := Offset(b, OffsetConfig{
		Traversal: Traversal{Kind: TraversalRows},
		Offsetter: Static{Amount: 1},
		Wrap:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, monoLine('D', 'A', 'B', 'C'), out.Pix)
}

func TestShiftLine(t *testing.T) {
	line := monoLine(1, 2, 3, 4)
	tests := []struct {
		name  string
		shift int
		wrap  bool
		want  []Pixel
	}{
		{"WrapZero", 0, true, monoLine(1, 2, 3, 4)},
		{"WrapOne", 1, true, monoLine(4, 1, 2, 3)},
		{"WrapNegative", -1, true, monoLine(2, 3, 4, 1)},
		{"WrapPastLength", 5, true, monoLine(4, 1, 2, 3)},
		{"WrapNegativePastLength", -6, true, monoLine(3, 4, 1, 2)},
		{"EdgeOne", 1, false, monoLine(1, 1, 2, 3)},
		{"EdgeNegative", -1, false, monoLine(2, 3, 4, 4)},
		{"EdgePastLength", 10, false, monoLine(1, 1, 1, 1)},
		{"EdgeNegativePastLength", -10, false, monoLine(4, 4, 4, 4)},
		{"EdgeMinInt", math.MinInt, false, monoLine(4, 4, 4, 4)},
		{"EdgeMaxInt", math.MaxInt, false, monoLine(1, 1, 1, 1)},
		{"WrapMinInt", math.MinInt, true, monoLine(1, 2, 3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShiftLine(line, tt.shift, tt.wrap))
		})
	}
	assert.Empty(t, ShiftLine(nil, 3, true))
}

func TestOffset_ColumnsUseInverse(t *testing.T) {
	b := monoBuffer(2, 2, 1, 2, 3, 4)
	out, err := Offset(b, OffsetConfig{
		Traversal: Traversal{Kind: TraversalColumns},
		Offsetter: Static{Amount: 1},
		Wrap:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, monoLine(3, 4, 1, 2), out.Pix)
}

func TestOffset_LineNumber(t *testing.T) {
	b := monoBuffer(3, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	out, err := Offset(b, OffsetConfig{
		Traversal: Traversal{Kind: TraversalRows},
		Offsetter: LineNumber{},
		Wrap:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, monoLine(1, 2, 3, 6, 4, 5, 8, 9, 7), out.Pix)
}

func TestOffset_Aura(t *testing.T) {
	b := &Buffer{Width: 2, Height: 1, Pix: []Pixel{RGB(0, 0, 0), RGB(100, 200, 50)}}
	out, err := Offset(b, OffsetConfig{
		Traversal: Traversal{Kind: TraversalRows},
		Offsetter: Static{Amount: 1},
		Wrap:      true,
		Aura:      &[3]float64{0.5, 1, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []Pixel{RGB(50, 200, 0), RGB(50, 0, 50)}, out.Pix)
}

func TestOffset_Region(t *testing.T) {
	b := monoBuffer(4, 2, 1, 2, 3, 4, 5, 6, 7, 8)
	out, err := Offset(b, OffsetConfig{
		Traversal: Traversal{Kind: TraversalRows},
		Offsetter: Static{Amount: 1},
		Wrap:      true,
		Region:    &Rect{Left: 1, Top: 1, Right: 4, Bottom: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, monoLine(1, 2, 3, 4, 5, 8, 6, 7), out.Pix)
}

func TestOffset_RoundTripsUnderOppositeShift(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))
	for _, tr := range allTraversals {
		b := randomBuffer(rng, 9, 6, KindRGB)
		fwd, err := Offset(b, OffsetConfig{Traversal: tr, Offsetter: LineNumber{}, Wrap: true})
		require.NoError(t, err)
		back, err := Offset(fwd, OffsetConfig{Traversal: tr, Wrap: true,
			Offsetter: OffsetFunc(func(line int) (int, error) { return -line, nil })})
		require.NoError(t, err)
		assert.Equal(t, b.Pix, back.Pix, "%s flip=%v", tr.Kind, tr.Flip)
	}
}

func TestOffsetters(t *testing.T) {
	sine := Sine{Amplitude: 10, InvWavelength: 1}
	v, _ := sine.Offset(0, nil)
	assert.Equal(t, 0, v)
	v, _ = sine.Offset(1, nil)
	assert.Equal(t, 10, v)

	cosine := Cosine{Amplitude: 10, InvWavelength: 1}
	v, _ = cosine.Offset(0, nil)
	assert.Equal(t, 10, v)

	r := RandomOffset{Amplitude: 3}
	for line := range 100 {
		a, _ := r.Offset(line, lineRand(5, line))
		b, _ := r.Offset(line, lineRand(5, line))
		assert.Equal(t, a, b)
		assert.True(t, a >= -3 && a <= 3, "offset %d out of range", a)
	}
}

func TestOffsetterByName(t *testing.T) {
	for _, name := range OffsetterNames() {
		o, err := OffsetterByName(name, OffsetParams{Amount: 2, Amplitude: 4, InvWavelength: 0.1})
		require.NoError(t, err)
		assert.Equal(t, name, o.Name())
	}
	_, err := OffsetterByName("Line Number", OffsetParams{})
	assert.NoError(t, err)
	_, err = OffsetterByName("square", OffsetParams{})
	assert.ErrorIs(t, err, ErrConfig)
	for _, amp := range []float64{-1, 5e18, math.Inf(1), math.NaN()} {
		_, err = OffsetterByName("random", OffsetParams{Amplitude: amp})
		assert.ErrorIs(t, err, ErrConfig, "amplitude %g", amp)
	}
	o, err := OffsetterByName("random", OffsetParams{Amplitude: 3})
	require.NoError(t, err)
	assert.Equal(t, RandomOffset{Amplitude: 3}, o)
}

func TestOffset_Errors(t *testing.T) {
	boom := errors.New("boom")
	base := OffsetConfig{Traversal: Traversal{Kind: TraversalRows}, Offsetter: Static{Amount: 1}, Wrap: true}
	tests := []struct {
		name   string
		buf    *Buffer
		mutate func(*OffsetConfig)
		want   error
	}{
		{"ShortBuffer", &Buffer{Width: 3, Height: 1, Pix: monoLine(1)}, nil, ErrShape},
		{"RegionOutside", monoBuffer(2, 1, 1, 2), func(c *OffsetConfig) { c.Region = &Rect{-1, 0, 1, 1} }, ErrShape},
		{"UnknownTraversal", monoBuffer(2, 1, 1, 2), func(c *OffsetConfig) { c.Traversal.Kind = -1 }, ErrConfig},
		{"NoOffsetter", monoBuffer(2, 1, 1, 2), func(c *OffsetConfig) { c.Offsetter = nil }, ErrConfig},
		{"RandomAmplitudeOverflow", monoBuffer(2, 2, 1, 2, 3, 4), func(c *OffsetConfig) {
			c.Offsetter = RandomOffset{Amplitude: math.MaxInt/2 + 1}
		}, ErrConfig},
		{"AuraAboveOne", monoBuffer(2, 1, 1, 2), func(c *OffsetConfig) { c.Aura = &[3]float64{1.5, 0, 0} }, ErrConfig},
		{"OffsetFailure", monoBuffer(2, 1, 1, 2), func(c *OffsetConfig) {
			c.Offsetter = OffsetFunc(func(int) (int, error) { return 0, boom })
		}, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			out, err := Offset(tt.buf, cfg)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, out)
		})
	}
}
