// Package scaling implements the radiometric normalization step that
// reconciles raw sensor digital numbers with the reflectance domain the
// unmixing model was calibrated against. The transform is a per-band affine
// rescale with optional clipping and an integer re-cast, and it must never
// corrupt the nodata sentinel: cells that were missing before the rescale
// stay missing after it, under the new sentinel.
package scaling

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"fraccover/pkg/cube"
)

// ClipRange is an inclusive [Min, Max] clamp applied after the affine
// transform.
type ClipRange struct {
	Min, Max float64
}

// Options configures ScaleAndClipBand. The zero value is the identity
// transform with no clipping, which still re-casts and re-sentinels the band.
type Options struct {
	ScaleFactor float64
	AddOffset   float64

	// Clip, when non-nil, clamps transformed values into the range.
	Clip *ClipRange

	// NewNoData replaces the band's nodata sentinel in the output domain.
	NewNoData float64

	// NewDType is the storage type the transformed values are cast to.
	NewDType cube.DType
}

// Collection2 is the fixed configuration reconciling USGS Collection-2
// surface reflectance digital numbers with the unmixing model's expected
// input domain.
var Collection2 = Options{
	ScaleFactor: 0.275,
	AddOffset:   -2000,
	Clip:        &ClipRange{Min: 0, Max: 10000},
	NewNoData:   -999,
	NewDType:    cube.Int16,
}

// ScaleAndClipBand applies value' = value*scale + offset to every cell of
// the band, clamps into the clip range when one is configured, casts to the
// target dtype and re-marks originally-missing cells with the new nodata
// sentinel. The mask is taken against the raw sentinel before any
// arithmetic: rescaling may map the sentinel onto a value that collides
// with real data, so masking afterwards would be wrong.
//
// The input band is not modified. A band without a nodata declaration is a
// configuration error.
func ScaleAndClipBand(b *cube.Band, opts Options) (*cube.Band, error) {
	nodata, ok := b.NoDataValue()
	if !ok {
		return nil, &cube.ConfigurationError{
			Reason: fmt.Sprintf("band %q has no nodata value, cannot scale", b.Name),
		}
	}

	mask := make([]bool, len(b.Data))
	for i, v := range b.Data {
		mask[i] = v == nodata
	}

	data := make([]float64, len(b.Data))
	copy(data, b.Data)
	floats.Scale(opts.ScaleFactor, data)
	floats.AddConst(opts.AddOffset, data)

	if opts.Clip != nil {
		for i, v := range data {
			if v < opts.Clip.Min {
				data[i] = opts.Clip.Min
			} else if v > opts.Clip.Max {
				data[i] = opts.Clip.Max
			}
		}
	}

	for i, v := range data {
		data[i] = opts.NewDType.Cast(v)
	}

	// Masked cells get the new sentinel regardless of what the arithmetic
	// produced for them.
	newNoData := opts.NewNoData
	for i, m := range mask {
		if m {
			data[i] = newNoData
		}
	}

	return &cube.Band{
		Name:   b.Name,
		Data:   data,
		NoData: &newNoData,
		DType:  opts.NewDType,
		Units:  b.Units,
	}, nil
}

// ScaleCube applies ScaleAndClipBand to every band of the cube, preserving
// the time axis, spatial extents and cube-level attributes. It fails on the
// first band without a nodata declaration.
func ScaleCube(c *cube.Cube, opts Options) (*cube.Cube, error) {
	out := cube.New(c.Times, c.Height, c.Width)
	for k, v := range c.Attrs {
		out.Attrs[k] = v
	}
	for _, b := range c.Bands {
		sb, err := ScaleAndClipBand(b, opts)
		if err != nil {
			return nil, err
		}
		if err := out.AddBand(sb); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ScaleCollection2 rescales a USGS Collection-2 cube into the unmixing
// model's input domain using the fixed Collection2 configuration.
func ScaleCollection2(c *cube.Cube) (*cube.Cube, error) {
	return ScaleCube(c, Collection2)
}
