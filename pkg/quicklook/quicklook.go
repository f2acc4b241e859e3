// Package quicklook renders per-timestep preview images of a fraction
// cube. The composite follows the usual fractional cover convention: bare
// soil on the red channel, photosynthetic vegetation on green,
// non-photosynthetic vegetation on blue, with nodata cells drawn black.
package quicklook

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"fraccover/pkg/cube"
)

// channelBands are the fraction bands mapped onto R, G, B in order.
var channelBands = [3]string{"bs", "pv", "npv"}

// Renderer turns fraction cubes into RGB composite images.
type Renderer struct {
	quality int
}

// NewRenderer creates a renderer writing JPEGs at the given quality.
// Quality values outside (0, 100] fall back to 90.
func NewRenderer(quality int) *Renderer {
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	return &Renderer{quality: quality}
}

// RenderTimestep renders the composite for one time index of the cube.
func (r *Renderer) RenderTimestep(c *cube.Cube, t int) (image.Image, error) {
	if t < 0 || t >= len(c.Times) {
		return nil, fmt.Errorf("time index %d out of range [0, %d)", t, len(c.Times))
	}

	var bands [3]*cube.Band
	for i, name := range channelBands {
		b := c.Band(name)
		if b == nil {
			return nil, fmt.Errorf("cube has no %q band", name)
		}
		bands[i] = b
	}

	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			var rgb [3]uint8
			valid := true
			for i, b := range bands {
				v := c.At(b, t, y, x)
				if nodata, ok := b.NoDataValue(); ok && v == nodata {
					valid = false
					break
				}
				rgb[i] = percentToByte(v)
			}
			if !valid {
				img.Set(x, y, color.RGBA{A: 255})
				continue
			}
			img.Set(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}
	return img, nil
}

// SaveSequence renders every timestep of the cube into dir as numbered
// JPEG files and returns the paths written.
func (r *Renderer) SaveSequence(c *cube.Cube, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create quicklook directory: %w", err)
	}

	paths := make([]string, 0, len(c.Times))
	for t := range c.Times {
		img, err := r.RenderTimestep(c, t)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, fmt.Sprintf("%03d.jpg", t))
		if err := r.saveJPEG(path, img); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *Renderer) saveJPEG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// percentToByte maps a 0-100 percent value onto the 0-255 byte range,
// clamping values outside the percent domain.
func percentToByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 100 {
		return 255
	}
	return uint8(v * 255 / 100)
}
