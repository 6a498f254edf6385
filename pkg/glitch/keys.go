package glitch

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// KeyFunc maps a pixel to the scalar it is sorted by. Errors are returned to
// the caller of Sort unchanged.
type KeyFunc func(Pixel) (float64, error)

// Key is a named sort key
type Key struct {
	Name string
	// RGBOnly keys are rejected on mono buffers before sorting starts
	RGBOnly bool
	Fn      KeyFunc
}

// Check reports whether the key can be applied to pixels of the given kind
func (k Key) Check(kind Kind) error {
	if k.Fn == nil {
		return fmt.Errorf("%w: key %q has no function", ErrConfig, k.Name)
	}
	if k.RGBOnly && kind != KindRGB {
		return fmt.Errorf("%w: key %q needs rgb pixels, buffer is %s", ErrConfig, k.Name, kind)
	}
	return nil
}

func channelKey(c int) KeyFunc {
	return func(p Pixel) (float64, error) { return float64(p.V[c]), nil }
}

func toColorful(p Pixel) colorful.Color {
	return colorful.Color{R: float64(p.V[0]) / 255, G: float64(p.V[1]) / 255, B: float64(p.V[2]) / 255}
}

var keys = map[string]Key{
	"brightness": {Name: "brightness", Fn: func(p Pixel) (float64, error) { return p.Variance(), nil }},
	"red":        {Name: "red", RGBOnly: true, Fn: channelKey(0)},
	"green":      {Name: "green", RGBOnly: true, Fn: channelKey(1)},
	"blue":       {Name: "blue", RGBOnly: true, Fn: channelKey(2)},
	"hue": {Name: "hue", RGBOnly: true, Fn: func(p Pixel) (float64, error) {
		h, _, _ := toColorful(p).Hsv()
		return h, nil
	}},
	"saturation": {Name: "saturation", RGBOnly: true, Fn: func(p Pixel) (float64, error) {
		_, s, _ := toColorful(p).Hsv()
		return s, nil
	}},
	"value": {Name: "value", RGBOnly: true, Fn: func(p Pixel) (float64, error) {
		_, _, v := toColorful(p).Hsv()
		return v, nil
	}},
	"lightness": {Name: "lightness", RGBOnly: true, Fn: func(p Pixel) (float64, error) {
		l, _, _ := toColorful(p).Lab()
		return l, nil
	}},
}

// KeyByName looks up a registered key
func KeyByName(name string) (Key, error) {
	k, ok := keys[normalizeName(name)]
	if !ok {
		return Key{}, fmt.Errorf("%w: unknown key %q", ErrConfig, name)
	}
	return k, nil
}

// KeyNames lists the registered keys alphabetically
func KeyNames() []string {
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
