package glitch

import "fmt"

// Buffer is a rectangular grid of pixels
type Buffer struct {
	// Dimensions
	Width  int
	Height int

	// Pixel data (row-major order, index = x + y*Width)
	Pix []Pixel
}

// NewBuffer creates a zeroed buffer where every pixel has the given kind
func NewBuffer(width, height int, kind Kind) *Buffer {
	b := &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}
	for i := range b.Pix {
		b.Pix[i].Kind = kind
	}
	return b
}

// Kind returns the pixel kind of the buffer. An empty buffer reports KindMono.
func (b *Buffer) Kind() Kind {
	if len(b.Pix) == 0 {
		return KindMono
	}
	return b.Pix[0].Kind
}

// At returns the pixel at (x, y)
func (b *Buffer) At(x, y int) Pixel {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Pixel{Kind: b.Kind()}
	}
	return b.Pix[x+y*b.Width]
}

// Set sets the pixel at (x, y)
func (b *Buffer) Set(x, y int, p Pixel) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	b.Pix[x+y*b.Width] = p
}

// Clone returns a deep copy
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]Pixel, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Validate checks the length invariant and that every pixel holds the same
// variant.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrShape)
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrShape, b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrShape, len(b.Pix), b.Width, b.Height)
	}
	kind := b.Kind()
	for i, p := range b.Pix {
		if p.Kind != kind {
			return fmt.Errorf("%w: pixel %d is %s, buffer is %s", ErrShape, i, p.Kind, kind)
		}
	}
	return nil
}

// Rect is a crop box in pixel coordinates. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

func (r Rect) Dx() int { return r.Right - r.Left }
func (r Rect) Dy() int { return r.Bottom - r.Top }

// Within reports an error unless r is a non-empty rectangle inside a
// width x height buffer.
func (r Rect) Within(width, height int) error {
	if r.Left < 0 || r.Top < 0 || r.Right > width || r.Bottom > height || r.Left >= r.Right || r.Top >= r.Bottom {
		return fmt.Errorf("%w: region (%d,%d,%d,%d) outside %dx%d", ErrShape, r.Left, r.Top, r.Right, r.Bottom, width, height)
	}
	return nil
}

// Crop copies the pixels under r into a new buffer. r must be within bounds.
func (b *Buffer) Crop(r Rect) *Buffer {
	out := &Buffer{Width: r.Dx(), Height: r.Dy(), Pix: make([]Pixel, 0, r.Dx()*r.Dy())}
	for y := r.Top; y < r.Bottom; y++ {
		row := y * b.Width
		out.Pix = append(out.Pix, b.Pix[row+r.Left:row+r.Right]...)
	}
	return out
}

// Paste writes src into b with its top-left corner at (left, top).
func (b *Buffer) Paste(src *Buffer, left, top int) {
	for y := 0; y < src.Height; y++ {
		dst := (top+y)*b.Width + left
		copy(b.Pix[dst:dst+src.Width], src.Pix[y*src.Width:(y+1)*src.Width])
	}
}
