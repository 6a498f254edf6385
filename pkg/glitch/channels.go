package glitch

import (
	"fmt"
	"strings"
)

// SplitChannels separates an RGB buffer into three mono bands
func SplitChannels(b *Buffer) ([3]*Buffer, error) {
	var bands [3]*Buffer
	if err := b.Validate(); err != nil {
		return bands, err
	}
	if b.Kind() != KindRGB {
		return bands, fmt.Errorf("%w: cannot split %s buffer into channels", ErrConfig, b.Kind())
	}
	for c := range bands {
		band := NewBuffer(b.Width, b.Height, KindMono)
		for i, p := range b.Pix {
			band.Pix[i].V[0] = p.V[c]
		}
		bands[c] = band
	}
	return bands, nil
}

// MergeChannels joins three equally sized mono bands into an RGB buffer
func MergeChannels(bands [3]*Buffer) (*Buffer, error) {
	for c, band := range bands {
		if err := band.Validate(); err != nil {
			return nil, fmt.Errorf("band %d: %w", c, err)
		}
		if band.Kind() != KindMono && len(band.Pix) > 0 {
			return nil, fmt.Errorf("%w: band %d is %s", ErrShape, c, band.Kind())
		}
		if band.Width != bands[0].Width || band.Height != bands[0].Height {
			return nil, fmt.Errorf("%w: band %d is %dx%d, band 0 is %dx%d", ErrShape, c,
				band.Width, band.Height, bands[0].Width, bands[0].Height)
		}
	}
	out := NewBuffer(bands[0].Width, bands[0].Height, KindRGB)
	for i := range out.Pix {
		out.Pix[i].V = [3]uint8{bands[0].Pix[i].V[0], bands[1].Pix[i].V[0], bands[2].Pix[i].V[0]}
	}
	return out, nil
}

// SortChannels sorts each channel of an RGB buffer as its own mono band with
// its own configuration, then merges the bands back. Every configuration is
// validated before any band is sorted.
func SortChannels(b *Buffer, cfgs [3]SortConfig) (*Buffer, error) {
	for c, cfg := range cfgs {
		if err := cfg.Validate(KindMono); err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
	}
	bands, err := SplitChannels(b)
	if err != nil {
		return nil, err
	}
	for c := range bands {
		if bands[c], err = Sort(bands[c], cfgs[c]); err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
	}
	return MergeChannels(bands)
}

// Swizzle rearranges the channels of an RGB buffer. order holds one letter of
// R, G or B per output channel, so "BRG" puts blue in red, red in green and
// green in blue. Letters may repeat.
func Swizzle(b *Buffer, order string) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.Kind() != KindRGB && len(b.Pix) > 0 {
		return nil, fmt.Errorf("%w: cannot swizzle %s buffer", ErrConfig, b.Kind())
	}
	if len(order) != 3 {
		return nil, fmt.Errorf("%w: swizzle order %q must have 3 letters", ErrConfig, order)
	}
	var src [3]int
	for i, r := range strings.ToUpper(order) {
		idx := strings.IndexRune("RGB", r)
		if idx < 0 {
			return nil, fmt.Errorf("%w: swizzle order %q has unknown channel %q", ErrConfig, order, r)
		}
		src[i] = idx
	}
	out := b.Clone()
	for i, p := range b.Pix {
		out.Pix[i].V = [3]uint8{p.V[src[0]], p.V[src[1]], p.V[src[2]]}
	}
	return out, nil
}
