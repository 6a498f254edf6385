package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	// ErrUnknownCodec is returned when no codec matches a name or extension
	ErrUnknownCodec = errors.New("imageio: unknown codec")
	// ErrUnsupported is returned by codecs that only decode
	ErrUnsupported = errors.New("imageio: unsupported operation")
)

// Codec defines the interface for an image file format
type Codec interface {
	// Encode writes an image to the writer
	Encode(w io.Writer, img image.Image) error
	// Decode reads an image from the reader
	Decode(r io.Reader) (image.Image, error)
	// Name returns the codec identifier (e.g., "png")
	Name() string
	// Extensions returns the lower-case file extensions, dot included
	Extensions() []string
}

// pngCodec implements Codec for PNG
type pngCodec struct{}

func (c *pngCodec) Encode(w io.Writer, img image.Image) error { return png.Encode(w, img) }
func (c *pngCodec) Decode(r io.Reader) (image.Image, error)   { return png.Decode(r) }
func (c *pngCodec) Name() string                              { return "png" }
func (c *pngCodec) Extensions() []string                      { return []string{".png"} }

// jpegCodec implements Codec for baseline JPEG
type jpegCodec struct {
	quality int
}

func (c *jpegCodec) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: c.quality})
}
func (c *jpegCodec) Decode(r io.Reader) (image.Image, error) { return jpeg.Decode(r) }
func (c *jpegCodec) Name() string                            { return "jpeg" }
func (c *jpegCodec) Extensions() []string                    { return []string{".jpg", ".jpeg"} }

// gifCodec implements Codec for single-frame GIF
type gifCodec struct{}

func (c *gifCodec) Encode(w io.Writer, img image.Image) error { return gif.Encode(w, img, nil) }
func (c *gifCodec) Decode(r io.Reader) (image.Image, error)   { return gif.Decode(r) }
func (c *gifCodec) Name() string                              { return "gif" }
func (c *gifCodec) Extensions() []string                      { return []string{".gif"} }

// bmpCodec implements Codec for BMP
type bmpCodec struct{}

func (c *bmpCodec) Encode(w io.Writer, img image.Image) error { return bmp.Encode(w, img) }
func (c *bmpCodec) Decode(r io.Reader) (image.Image, error)   { return bmp.Decode(r) }
func (c *bmpCodec) Name() string                              { return "bmp" }
func (c *bmpCodec) Extensions() []string                      { return []string{".bmp"} }

// tiffCodec implements Codec for TIFF, deflate compressed on write
type tiffCodec struct{}

func (c *tiffCodec) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}
func (c *tiffCodec) Decode(r io.Reader) (image.Image, error) { return tiff.Decode(r) }
func (c *tiffCodec) Name() string                            { return "tiff" }
func (c *tiffCodec) Extensions() []string                    { return []string{".tif", ".tiff"} }

// webpCodec implements Codec for WebP. Only decoding is available.
type webpCodec struct{}

func (c *webpCodec) Encode(w io.Writer, img image.Image) error {
	return fmt.Errorf("%w: webp encoding", ErrUnsupported)
}
func (c *webpCodec) Decode(r io.Reader) (image.Image, error) { return webp.Decode(r) }
func (c *webpCodec) Name() string                            { return "webp" }
func (c *webpCodec) Extensions() []string                    { return []string{".webp"} }

// codecsByName maps codec names to implementations
var codecsByName = map[string]Codec{
	"png":  &pngCodec{},
	"jpeg": &jpegCodec{quality: 95},
	"jpg":  &jpegCodec{quality: 95}, // alias
	"gif":  &gifCodec{},
	"bmp":  &bmpCodec{},
	"tiff": &tiffCodec{},
	"tif":  &tiffCodec{}, // alias
	"webp": &webpCodec{},
}

// codecsByExt maps file extensions to implementations
var codecsByExt = func() map[string]Codec {
	m := map[string]Codec{}
	for _, c := range codecsByName {
		for _, ext := range c.Extensions() {
			m[ext] = c
		}
	}
	return m
}()

// Predefined codec instances for convenience
var (
	CodecPNG  Codec = codecsByName["png"]
	CodecJPEG Codec = codecsByName["jpeg"]
	CodecGIF  Codec = codecsByName["gif"]
	CodecBMP  Codec = codecsByName["bmp"]
	CodecTIFF Codec = codecsByName["tiff"]
	CodecWebP Codec = codecsByName["webp"]
)

// CodecByName returns a codec by name
func CodecByName(name string) (Codec, error) {
	c, ok := codecsByName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// CodecByPath returns the codec for a file's extension
func CodecByPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecsByExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", ErrUnknownCodec, ext)
	}
	return c, nil
}
