package scaling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraccover/pkg/cube"
)

func bandWithNoData(values []float64, nodata float64) *cube.Band {
	return &cube.Band{
		Name:   "red",
		Data:   values,
		NoData: &nodata,
		DType:  cube.Int16,
		Units:  "1",
	}
}

func TestScaleAndClipBandAffineClipCast(t *testing.T) {
	b := bandWithNoData([]float64{5000, 0, 40000, -999}, -999)

	out, err := ScaleAndClipBand(b, Collection2)
	require.NoError(t, err)

	// 5000*0.275 - 2000 = -625, clipped up to 0.
	assert.Equal(t, 0.0, out.Data[0])
	// 0*0.275 - 2000 = -2000, clipped up to 0.
	assert.Equal(t, 0.0, out.Data[1])
	// 40000*0.275 - 2000 = 9000, inside the clip range.
	assert.Equal(t, 9000.0, out.Data[2])
	// The raw sentinel maps to the new sentinel, not to an arithmetic value.
	assert.Equal(t, -999.0, out.Data[3])

	nodata, ok := out.NoDataValue()
	require.True(t, ok)
	assert.Equal(t, -999.0, nodata)
	assert.Equal(t, cube.Int16, out.DType)
	assert.Equal(t, "red", out.Name)
	assert.Equal(t, "1", out.Units, "non-nodata metadata must carry through")
}

func TestScaleAndClipBandTruncatesCast(t *testing.T) {
	b := bandWithNoData([]float64{3, 7}, -999)

	out, err := ScaleAndClipBand(b, Options{
		ScaleFactor: 0.5,
		AddOffset:   0.2,
		NewNoData:   -1,
		NewDType:    cube.Int16,
	})
	require.NoError(t, err)

	// 3*0.5 + 0.2 = 1.7 -> 1; 7*0.5 + 0.2 = 3.7 -> 3.
	assert.Equal(t, []float64{1, 3}, out.Data)
}

// TestScaleAndClipBandNoDataInvariance exercises the sentinel across several
// scale/offset/clip configurations: a masked cell must always come out as the
// new sentinel, even when the arithmetic would map the raw sentinel onto a
// plausible data value.
func TestScaleAndClipBandNoDataInvariance(t *testing.T) {
	configs := []Options{
		{ScaleFactor: 1, AddOffset: 0, NewNoData: -1, NewDType: cube.Int16},
		{ScaleFactor: 0.275, AddOffset: -2000, NewNoData: -999, NewDType: cube.Int16},
		{ScaleFactor: -2, AddOffset: 1000, Clip: &ClipRange{Min: 0, Max: 100}, NewNoData: -128, NewDType: cube.Int8},
		{ScaleFactor: 0.001, AddOffset: 999, NewNoData: -32768, NewDType: cube.Float64},
	}
	for _, opts := range configs {
		b := bandWithNoData([]float64{-999, 1234, -999}, -999)
		out, err := ScaleAndClipBand(b, opts)
		require.NoError(t, err)
		assert.Equal(t, opts.NewNoData, out.Data[0], "config %+v", opts)
		assert.Equal(t, opts.NewNoData, out.Data[2], "config %+v", opts)
		assert.NotEqual(t, opts.NewNoData, out.Data[1], "valid cell must stay valid")
	}
}

func TestScaleAndClipBandDoesNotMutateInput(t *testing.T) {
	b := bandWithNoData([]float64{5000, -999}, -999)

	_, err := ScaleAndClipBand(b, Collection2)
	require.NoError(t, err)

	assert.Equal(t, []float64{5000, -999}, b.Data)
	nodata, _ := b.NoDataValue()
	assert.Equal(t, -999.0, nodata)
}

func TestScaleAndClipBandMissingNoData(t *testing.T) {
	b := &cube.Band{Name: "red", Data: []float64{1, 2}, DType: cube.Int16}

	_, err := ScaleAndClipBand(b, Collection2)
	require.Error(t, err)

	var cfgErr *cube.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
}

func TestScaleCollection2Cube(t *testing.T) {
	times := []time.Time{time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cube.New(times, 1, 2)
	c.Attrs[cube.AttrCRS] = "EPSG:3577"
	for _, name := range []string{"green", "red"} {
		nodata := -999.0
		require.NoError(t, c.AddBand(&cube.Band{
			Name:   name,
			Data:   []float64{8000, -999},
			NoData: &nodata,
			DType:  cube.Int16,
		}))
	}

	out, err := ScaleCollection2(c)
	require.NoError(t, err)

	assert.Equal(t, "EPSG:3577", out.Attrs[cube.AttrCRS])
	assert.Equal(t, c.BandNames(), out.BandNames())
	for _, b := range out.Bands {
		// 8000*0.275 - 2000 = 200.
		assert.Equal(t, 200.0, b.Data[0])
		assert.Equal(t, -999.0, b.Data[1])
	}
}
