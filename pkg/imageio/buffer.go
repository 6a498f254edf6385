package imageio

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"

	"github.com/jpfielding/glitch.go/pkg/glitch"
	"golang.org/x/image/draw"
)

// Mode picks the pixel variant an image is read into
type Mode int

const (
	// ModeAuto reads gray images as mono and everything else as RGB
	ModeAuto Mode = iota
	// ModeRGB drops alpha and reads three channels
	ModeRGB
	// ModeMono converts to 8-bit luma
	ModeMono
)

// ToBuffer flattens an image into a row-major pixel buffer
func ToBuffer(img image.Image, mode Mode) *glitch.Buffer {
	if mode == ModeAuto {
		mode = ModeRGB
		switch img.ColorModel() {
		case color.GrayModel, color.Gray16Model:
			mode = ModeMono
		}
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rect := image.Rect(0, 0, w, h)

	if mode == ModeMono {
		gray := image.NewGray(rect)
		draw.Draw(gray, rect, img, bounds.Min, draw.Src)
		buf := glitch.NewBuffer(w, h, glitch.KindMono)
		for y := 0; y < h; y++ {
			row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
			for x, v := range row {
				buf.Pix[x+y*w].V[0] = v
			}
		}
		return buf
	}

	rgba := image.NewNRGBA(rect)
	draw.Draw(rgba, rect, img, bounds.Min, draw.Src)
	buf := glitch.NewBuffer(w, h, glitch.KindRGB)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*rgba.Stride + x*4
			buf.Pix[x+y*w].V = [3]uint8{rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2]}
		}
	}
	return buf
}

// FromBuffer builds an image from a pixel buffer: *image.Gray for mono
// buffers and an opaque *image.NRGBA for RGB ones.
func FromBuffer(buf *glitch.Buffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, buf.Width, buf.Height)
	if buf.Kind() == glitch.KindMono {
		gray := image.NewGray(rect)
		for i, p := range buf.Pix {
			x, y := i%buf.Width, i/buf.Width
			gray.Pix[y*gray.Stride+x] = p.V[0]
		}
		return gray, nil
	}
	out := image.NewNRGBA(rect)
	for i, p := range buf.Pix {
		x, y := i%buf.Width, i/buf.Width
		j := y*out.Stride + x*4
		out.Pix[j], out.Pix[j+1], out.Pix[j+2], out.Pix[j+3] = p.V[0], p.V[1], p.V[2], 0xff
	}
	return out, nil
}

// ReadFile decodes an image using the codec matching its extension
func ReadFile(path string) (image.Image, error) {
	codec, err := CodecByPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	img, err := codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", codec.Name(), err)
	}
	slog.Debug("Read image", "path", path, "codec", codec.Name(), "bounds", img.Bounds().String())
	return img, nil
}

// WriteFile encodes an image using the codec matching the extension
func WriteFile(path string, img image.Image) error {
	codec, err := CodecByPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	if err := codec.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", codec.Name(), err)
	}
	slog.Debug("Wrote image", "path", path, "codec", codec.Name())
	return f.Close()
}

// LoadBuffer reads an image file into a pixel buffer
func LoadBuffer(path string, mode Mode) (*glitch.Buffer, error) {
	img, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ToBuffer(img, mode), nil
}

// SaveBuffer writes a pixel buffer to an image file
func SaveBuffer(path string, buf *glitch.Buffer) error {
	img, err := FromBuffer(buf)
	if err != nil {
		return err
	}
	return WriteFile(path, img)
}
