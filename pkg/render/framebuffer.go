// Package render implements the scanline rasterization pipeline: the
// transform stack, camera and viewport, the supersampled sample buffer,
// the triangle rasterizer with its shading rules, and the output
// framebuffer that final pixels are resolved into.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PixelWriter receives the resolved output pixels of a frame.
type PixelWriter interface {
	SetPixel(x, y int, c Color)
}

// DepthWriter is implemented by output buffers that also keep depth.
type DepthWriter interface {
	SetDepth(x, y int, z float64)
}

// Framebuffer is the output pixel buffer. It implements PixelWriter,
// DepthWriter and draw.Image.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major pixel data
	Depth  []float64    // Row-major depth, 0 near to 1 far
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
	fb.Clear(Color{})
	return fb
}

// Clear fills the framebuffer with a solid color and resets depth to far.
func (fb *Framebuffer) Clear(c color.RGBA) {
	fill(fb.Pixels, c)
	fill(fb.Depth, 1)
}

// fill sets every element of s to v by copy-doubling.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// SetDepth stores the depth of the pixel at (x, y).
func (fb *Framebuffer) SetDepth(x, y int, z float64) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Depth[y*fb.Width+x] = z
}

// DepthAt returns the depth at (x, y), or 1 (far) if out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 1
	}
	return fb.Depth[y*fb.Width+x]
}

// ColorModel implements image.Image.
func (fb *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (fb *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.Width, fb.Height) }

// At implements image.Image.
func (fb *Framebuffer) At(x, y int) color.Color { return fb.GetPixel(x, y) }

// Set implements draw.Image.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}

// ScaleTo resamples the framebuffer into dst with bilinear filtering,
// stretching it over all of dst. Depth is not carried over.
func (fb *Framebuffer) ScaleTo(dst *Framebuffer) {
	draw.BiLinear.Scale(dst, dst.Bounds(), fb, fb.Bounds(), draw.Src, nil)
}

// DrawText writes s with its top-left corner at (x, y) in a 7x13 bitmap font.
func (fb *Framebuffer) DrawText(x, y int, s string, c Color) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  fb,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(s)
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// DepthImage renders the depth buffer as grayscale, near white and far black.
func (fb *Framebuffer) DepthImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, fb.Width, fb.Height))
	for i, z := range fb.Depth {
		img.Pix[i] = uint8(math.Round((1 - math.Max(0, math.Min(1, z))) * 255))
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return savePNG(path, fb.ToImage())
}

// SaveDepthPNG saves the depth buffer as a grayscale PNG file.
func (fb *Framebuffer) SaveDepthPNG(path string) error {
	return savePNG(path, fb.DepthImage())
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
