package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureSampler looks up a texel color at normalized (u, v) coordinates.
// v = 0 is the bottom of the image.
type TextureSampler interface {
	Sample(u, v float64) Color
}

// WrapMode selects how coordinates outside [0,1] are brought back in range.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// FilterMode selects the reconstruction filter used by Sample.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
)

// Texture is an in-memory RGBA image sampled by the rasterizer.
type Texture struct {
	Width, Height int
	WrapU, WrapV  WrapMode
	FilterMode    FilterMode

	img *image.RGBA // row 0 is the top of the image
}

// NewTexture returns a transparent black texture with repeat wrapping and
// nearest filtering.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// LoadTexture decodes a PNG, JPEG, BMP, TIFF or WebP file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies img into a new texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	draw.Draw(tex.img, tex.img.Bounds(), img, b.Min, draw.Src)
	return tex
}

// NewCheckerTexture fills a texture with size x size squares alternating
// between c1 and c2, starting with c1 at the top left.
func NewCheckerTexture(width, height, size int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	size = max(size, 1)
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			c := c1
			if (x/size+y/size)%2 != 0 {
				c = c2
			}
			cell := image.Rect(x, y, x+size, y+size)
			draw.Draw(tex.img, cell, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
	return tex
}

// SetPixel writes texel (x, y); out-of-range writes are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	t.img.SetRGBA(x, y, c)
}

// GetPixel reads texel (x, y), returning zero outside the image.
func (t *Texture) GetPixel(x, y int) Color {
	return t.img.RGBAAt(x, y)
}

// Sample implements TextureSampler.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	x := wrapCoord(u, t.WrapU) * float64(t.Width)
	y := (1 - wrapCoord(v, t.WrapV)) * float64(t.Height)

	if t.FilterMode == FilterBilinear {
		return t.bilinear(x-0.5, y-0.5)
	}
	return t.GetPixel(min(int(x), t.Width-1), min(int(y), t.Height-1))
}

// bilinear blends the four texels around texel-space point (fx, fy).
func (t *Texture) bilinear(fx, fy float64) Color {
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0

	xa := wrapIndex(int(x0), t.Width, t.WrapU)
	xb := wrapIndex(int(x0)+1, t.Width, t.WrapU)
	ya := wrapIndex(int(y0), t.Height, t.WrapV)
	yb := wrapIndex(int(y0)+1, t.Height, t.WrapV)

	top := lerpColor(t.GetPixel(xa, ya), t.GetPixel(xb, ya), tx)
	bottom := lerpColor(t.GetPixel(xa, yb), t.GetPixel(xb, yb), tx)
	return lerpColor(top, bottom, ty)
}

func wrapCoord(c float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Max(0, math.Min(1, c))
	}
	return c - math.Floor(c)
}

func wrapIndex(i, n int, mode WrapMode) int {
	if mode == WrapClamp {
		return max(0, min(i, n-1))
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
