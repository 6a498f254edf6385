package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/jpfielding/glitch.go/pkg/glitch"
	"github.com/jpfielding/glitch.go/pkg/imageio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestImage writes a w x h png whose pixels count down along each row
func writeTestImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(250 - 20*x - 3*y)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, imageio.WriteFile(path, img))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(context.Background(), "abc123")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "ERROR"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)
}

func TestKeys(t *testing.T) {
	out, err := run(t, "keys")
	require.NoError(t, err)
	for _, want := range []string{"brightness", "wrapping-diagonals", "variable-shutters-percent", "sine"} {
		assert.Contains(t, out, want)
	}
}

func TestSort_Rows(t *testing.T) {
	in := writeTestImage(t, 6, 3)
	dst := filepath.Join(filepath.Dir(in), "sorted.png")
	_, err := run(t, "sort", in, "--out", dst)
	require.NoError(t, err)

	buf, err := imageio.LoadBuffer(dst, imageio.ModeRGB)
	require.NoError(t, err)
	assert.Equal(t, 6, buf.Width)
	assert.Equal(t, 3, buf.Height)
	key, err := glitch.KeyByName("brightness")
	require.NoError(t, err)
	for y := 0; y < buf.Height; y++ {
		prev := -1.0
		for x := 0; x < buf.Width; x++ {
			k, err := key.Fn(buf.At(x, y))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, k, prev, "row %d col %d", y, x)
			prev = k
		}
	}
}

func TestSort_DefaultOutputName(t *testing.T) {
	in := writeTestImage(t, 4, 4)
	out, err := run(t, "sort", in, "--reverse", "--format", "bmp")
	require.NoError(t, err)
	dst := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(filepath.Base(dst), "in-glitch-"), dst)
	assert.Equal(t, ".bmp", filepath.Ext(dst))
	_, err = os.Stat(dst)
	require.NoError(t, err)

	// same settings, same name
	again, err := run(t, "sort", in, "--reverse", "--format", "bmp")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSort_Channels(t *testing.T) {
	in := writeTestImage(t, 5, 2)
	dst := filepath.Join(filepath.Dir(in), "bands.png")
	_, err := run(t, "sort", in, "--channels", "--mods", "0.5,1,2", "--out", dst)
	require.NoError(t, err)

	orig, err := imageio.LoadBuffer(in, imageio.ModeRGB)
	require.NoError(t, err)
	got, err := imageio.LoadBuffer(dst, imageio.ModeRGB)
	require.NoError(t, err)
	mods := [3]float64{0.5, 1, 2}
	for y := 0; y < orig.Height; y++ {
		for c := 0; c < 3; c++ {
			var want, have []uint8
			for x := 0; x < orig.Width; x++ {
				want = append(want, orig.At(x, y).V[c])
				have = append(have, got.At(x, y).V[c])
			}
			slices.Sort(want)
			for i, v := range want {
				want[i] = uint8(min(255, math.Round(float64(v)*mods[c])))
			}
			assert.Equal(t, want, have, "row %d channel %d", y, c)
		}
	}
}

func TestSort_OutputNameCoversSettings(t *testing.T) {
	in := writeTestImage(t, 4, 4)
	dir := filepath.Dir(in)
	bands := func(name, body string) string {
		path := filepath.Join(dir, name)
		table := "[[channels]]\n" + body + "\n"
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat(table, 3)), 0o644))
		return path
	}
	names := map[string][]string{
		"plain":          {"sort", in},
		"mono":           {"sort", in, "--mono"},
		"channels":       {"sort", in, "--channels"},
		"channelsUp":     {"sort", in, "--channels", "--preset", bands("up.toml", "reverse = false")},
		"channelsDown":   {"sort", in, "--channels", "--preset", bands("down.toml", "reverse = true")},
	}
	seen := map[string]string{}
	for label, args := range names {
		out, err := run(t, args...)
		require.NoError(t, err, label)
		dst := strings.TrimSpace(out)
		if prev, ok := seen[dst]; ok {
			t.Errorf("%s and %s both wrote %s", prev, label, dst)
		}
		seen[dst] = label
	}

	// time based seeds resolve before naming
	first, err := run(t, "sort", in, "--seed", "-1", "--chunking", "variable-shutters")
	require.NoError(t, err)
	second, err := run(t, "sort", in, "--seed", "-1", "--chunking", "variable-shutters")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSort_Errors(t *testing.T) {
	in := writeTestImage(t, 4, 4)
	tests := []struct {
		name string
		args []string
	}{
		{"UnknownKey", []string{"--key", "nope"}},
		{"UnknownTraversal", []string{"--traversal", "spiral"}},
		{"ShortMods", []string{"--mods", "1,2"}},
		{"MonoAndChannels", []string{"--mono", "--channels"}},
		{"MissingPreset", []string{"--preset", filepath.Join(t.TempDir(), "none.toml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"sort", in, "--out", filepath.Join(t.TempDir(), "x.png")}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestOffset_Preset(t *testing.T) {
	in := writeTestImage(t, 4, 2)
	dir := filepath.Dir(in)
	presetPath := filepath.Join(dir, "shift.toml")
	require.NoError(t, os.WriteFile(presetPath, []byte("[offset]\nfunction = \"static\"\n[offset.params]\namount = 3\n"), 0o644))
	dst := filepath.Join(dir, "shifted.png")

	// flag overrides the preset amount
	_, err := run(t, "offset", in, "--preset", presetPath, "--amount", "1", "--out", dst)
	require.NoError(t, err)

	orig, err := imageio.LoadBuffer(in, imageio.ModeRGB)
	require.NoError(t, err)
	got, err := imageio.LoadBuffer(dst, imageio.ModeRGB)
	require.NoError(t, err)
	for y := 0; y < 2; y++ {
		assert.Equal(t, orig.At(3, y), got.At(0, y))
		for x := 1; x < 4; x++ {
			assert.Equal(t, orig.At(x-1, y), got.At(x, y))
		}
	}
}

func TestSwizzle(t *testing.T) {
	in := writeTestImage(t, 3, 3)
	dst := filepath.Join(filepath.Dir(in), "swz.png")
	_, err := run(t, "swizzle", in, "--order", "BRG", "--out", dst)
	require.NoError(t, err)

	orig, err := imageio.LoadBuffer(in, imageio.ModeRGB)
	require.NoError(t, err)
	got, err := imageio.LoadBuffer(dst, imageio.ModeRGB)
	require.NoError(t, err)
	for i, p := range orig.Pix {
		assert.Equal(t, [3]uint8{p.V[2], p.V[0], p.V[1]}, got.Pix[i].V)
	}

	_, err = run(t, "swizzle", in, "--order", "RGX", "--out", dst)
	assert.Error(t, err)
}
