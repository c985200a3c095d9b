package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Buffer is a linear RGB float image, row 0 at the top.
type Buffer struct {
	W, H int
	Pix  []float64 // 3 per pixel
}

// NewBuffer allocates a black w×h buffer.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{W: w, H: h, Pix: make([]float64, 3*w*h)}
}

func (b *Buffer) idx(x, y int) int { return 3 * (y*b.W + x) }

// Set stores c at (x, y).
func (b *Buffer) Set(x, y int, c colorful.Color) {
	i := b.idx(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = c.R, c.G, c.B
}

// At returns the colour at (x, y).
func (b *Buffer) At(x, y int) colorful.Color {
	i := b.idx(x, y)
	return colorful.Color{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

// toU16 maps [0,1] to [0,65535] with gamma.
func toU16(v, gamma float64) uint16 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		v = 1
	}
	if gamma != 1 {
		v = math.Pow(v, 1/gamma)
	}
	return uint16(math.Round(v * 65535))
}

// Image16 converts the buffer to a 16-bit NRGBA image.
func (b *Buffer) Image16(gamma float64) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, b.W, b.H))
	const pxBytes = 8
	for y := 0; y < b.H; y++ {
		rowOff := y * img.Stride
		for x := 0; x < b.W; x++ {
			i := b.idx(x, y)
			r := toU16(b.Pix[i], gamma)
			g := toU16(b.Pix[i+1], gamma)
			bl := toU16(b.Pix[i+2], gamma)
			p := rowOff + x*pxBytes
			// big-endian R, G, B, A
			img.Pix[p+0], img.Pix[p+1] = uint8(r>>8), uint8(r)
			img.Pix[p+2], img.Pix[p+3] = uint8(g>>8), uint8(g)
			img.Pix[p+4], img.Pix[p+5] = uint8(bl>>8), uint8(bl)
			img.Pix[p+6], img.Pix[p+7] = 0xFF, 0xFF
		}
	}
	return img
}

// EncodePNG16 writes the buffer as a lossless 16-bit PNG.
func (b *Buffer) EncodePNG16(w io.Writer, gamma float64) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, b.Image16(gamma))
}

// SavePNG16 writes the buffer to path.
func (b *Buffer) SavePNG16(path string, gamma float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := b.EncodePNG16(f, gamma); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
