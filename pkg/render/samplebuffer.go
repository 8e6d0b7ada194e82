package render

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SampleBuffer is the supersampled color and depth target triangles are
// rasterized into. It holds Factor x Factor samples per output pixel.
type SampleBuffer struct {
	Width  int // Output width in pixels
	Height int // Output height in pixels
	Factor int // Samples per pixel along each axis

	Color []Color   // Row-major, SampleWidth() x SampleHeight()
	Depth []float64 // Row-major, 0 near to 1 far
}

// NewSampleBuffer allocates a buffer for a width x height output with
// factor x factor supersampling, cleared to transparent black and far depth.
func NewSampleBuffer(width, height, factor int) *SampleBuffer {
	n := width * factor * height * factor
	b := &SampleBuffer{
		Width:  width,
		Height: height,
		Factor: factor,
		Color:  make([]Color, n),
		Depth:  make([]float64, n),
	}
	b.Clear(Color{})
	return b
}

// SampleWidth returns the width in samples.
func (b *SampleBuffer) SampleWidth() int { return b.Width * b.Factor }

// SampleHeight returns the height in samples.
func (b *SampleBuffer) SampleHeight() int { return b.Height * b.Factor }

// Clear resets every sample to bg at far depth.
func (b *SampleBuffer) Clear(bg Color) {
	fill(b.Color, bg)
	fill(b.Depth, 1)
}

// Sample returns the color and depth of sample (x, y).
func (b *SampleBuffer) Sample(x, y int) (Color, float64) {
	if x < 0 || x >= b.SampleWidth() || y < 0 || y >= b.SampleHeight() {
		return Color{}, 1
	}
	i := y*b.SampleWidth() + x
	return b.Color[i], b.Depth[i]
}

// Downsample averages each Factor x Factor block into one pixel and writes
// every output pixel to out. When out is also a DepthWriter it receives
// the nearest depth of each block.
//
// Blocks are resolved concurrently in row bands; writes to out happen on
// the calling goroutine in row-major order.
func (b *SampleBuffer) Downsample(ctx context.Context, out PixelWriter) error {
	n := b.Width * b.Height
	colors := make([]Color, n)
	depths := make([]float64, n)

	bands := max(1, min(runtime.GOMAXPROCS(0), b.Height))
	rows := (b.Height + bands - 1) / bands

	g, ctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < b.Height; y0 += rows {
		y1 := min(y0+rows, b.Height)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for x := range b.Width {
					i := y*b.Width + x
					colors[i], depths[i] = b.resolve(x, y)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("downsample: %w", err)
	}

	dw, hasDepth := out.(DepthWriter)
	for y := range b.Height {
		for x := range b.Width {
			i := y*b.Width + x
			out.SetPixel(x, y, colors[i])
			if hasDepth {
				dw.SetDepth(x, y, depths[i])
			}
		}
	}
	return nil
}

// resolve averages the sample block of output pixel (px, py).
func (b *SampleBuffer) resolve(px, py int) (Color, float64) {
	s := b.Factor
	sw := b.SampleWidth()
	var r, g, bl, a uint32
	depth := 1.0
	for sy := py * s; sy < (py+1)*s; sy++ {
		row := sy * sw
		for sx := px * s; sx < (px+1)*s; sx++ {
			c := b.Color[row+sx]
			r += uint32(c.R)
			g += uint32(c.G)
			bl += uint32(c.B)
			a += uint32(c.A)
			depth = min(depth, b.Depth[row+sx])
		}
	}
	count := uint32(s * s)
	half := count / 2
	return Color{
		R: uint8((r + half) / count),
		G: uint8((g + half) / count),
		B: uint8((bl + half) / count),
		A: uint8((a + half) / count),
	}, depth
}
