package render

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every error Config.Validate returns.
var ErrInvalidConfig = errors.New("invalid render config")

// ErrNoFrame is returned when geometry is submitted, or a frame is ended,
// outside a BeginFrame/EndFrame pair.
var ErrNoFrame = errors.New("no frame in progress")

// Config holds the setup parameters of a Pipeline.
type Config struct {
	Width         int     // Output width in pixels
	Height        int     // Output height in pixels
	Near          float64 // Near plane distance, > 0
	Far           float64 // Far plane distance, > Near
	Supersampling int     // Samples per pixel along each axis, >= 1
}

// DefaultConfig returns an 800x600 configuration with 2x2 supersampling.
func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		Near:          0.01,
		Far:           1000,
		Supersampling: 2,
	}
}

// Validate reports the first problem with c, if any.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case !(c.Near > 0):
		return fmt.Errorf("%w: near plane %v must be positive", ErrInvalidConfig, c.Near)
	case !(c.Far > c.Near):
		return fmt.Errorf("%w: far plane %v must lie beyond near plane %v", ErrInvalidConfig, c.Far, c.Near)
	case c.Supersampling < 1:
		return fmt.Errorf("%w: supersampling factor %d must be at least 1", ErrInvalidConfig, c.Supersampling)
	}
	return nil
}

// Aspect returns width / height.
func (c Config) Aspect() float64 {
	return float64(c.Width) / float64(c.Height)
}
