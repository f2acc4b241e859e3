// Package cube provides the labelled array model shared by the fractional
// cover pipeline: multi-band, multi-timestep cubes with per-band nodata
// sentinels and cube-level attributes such as the coordinate reference system.
package cube

import (
	"fmt"
	"time"
)

// AttrCRS is the cube attribute key carrying the coordinate reference system.
const AttrCRS = "crs"

// Band is a single named measurement of a cube. Data is stored row-major in
// (time, y, x) order and always has len(Times)*Height*Width elements of the
// owning cube.
type Band struct {
	// Name identifies the band within its cube (e.g. "red", "nir").
	Name string

	// Data holds one value per cell in (t, y, x) row-major order.
	Data []float64

	// NoData is the sentinel marking cells with no valid observation.
	// A nil pointer means the band carries no nodata declaration.
	NoData *float64

	// DType is the logical storage type of the values.
	DType DType

	// Units annotates the physical unit of the values ("percent", ...).
	Units string
}

// NoDataValue returns the band's nodata sentinel and whether one is declared.
func (b *Band) NoDataValue() (float64, bool) {
	if b.NoData == nil {
		return 0, false
	}
	return *b.NoData, true
}

// Measurement describes the static metadata contract of one output band:
// its public name, storage type, nodata sentinel and unit annotation.
type Measurement struct {
	Name   string  `yaml:"name"`
	DType  DType   `yaml:"dtype"`
	NoData float64 `yaml:"nodata"`
	Units  string  `yaml:"units"`
}

// Cube is an in-memory, coordinate-labelled, multi-band, multi-timestep
// array. Band order is preserved as insertion order so that downstream
// consumers see a stable band sequence.
type Cube struct {
	// Bands holds the cube's bands in insertion order.
	Bands []*Band

	// Times is the time axis, one entry per timestep.
	Times []time.Time

	// Height and Width are the spatial extents (y, x).
	Height, Width int

	// Attrs carries cube-level metadata such as the CRS.
	Attrs map[string]string
}

// New creates an empty cube with the given axes. The attribute map is
// always allocated so callers can set attrs without a nil check.
func New(times []time.Time, height, width int) *Cube {
	return &Cube{
		Times:  times,
		Height: height,
		Width:  width,
		Attrs:  make(map[string]string),
	}
}

// CellsPerTimestep returns the number of cells in one spatial plane.
func (c *Cube) CellsPerTimestep() int {
	return c.Height * c.Width
}

// Cells returns the total number of cells per band.
func (c *Cube) Cells() int {
	return len(c.Times) * c.Height * c.Width
}

// AddBand appends a band to the cube. The band's data length must match the
// cube's axes and its name must be unique within the cube.
func (c *Cube) AddBand(b *Band) error {
	if len(b.Data) != c.Cells() {
		return fmt.Errorf("band %q: data length %d does not match cube cells %d",
			b.Name, len(b.Data), c.Cells())
	}
	if c.HasBand(b.Name) {
		return fmt.Errorf("band %q already exists", b.Name)
	}
	c.Bands = append(c.Bands, b)
	return nil
}

// Band returns the named band, or nil when the cube has no such band.
func (c *Cube) Band(name string) *Band {
	for _, b := range c.Bands {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// HasBand reports whether the cube carries a band with the given name.
func (c *Cube) HasBand(name string) bool {
	return c.Band(name) != nil
}

// BandNames returns the band names in cube order.
func (c *Cube) BandNames() []string {
	names := make([]string, len(c.Bands))
	for i, b := range c.Bands {
		names[i] = b.Name
	}
	return names
}

// RenameBand renames a band in place. It fails when the source band does not
// exist or the target name is already taken; callers wanting best-effort
// semantics must check for the target name first.
func (c *Cube) RenameBand(old, new string) error {
	b := c.Band(old)
	if b == nil {
		return fmt.Errorf("rename %q: no such band", old)
	}
	if c.HasBand(new) {
		return fmt.Errorf("rename %q to %q: target band already exists", old, new)
	}
	b.Name = new
	return nil
}

// At returns the value of band b at (t, y, x). Indices are not bounds
// checked beyond the slice access itself.
func (c *Cube) At(b *Band, t, y, x int) float64 {
	return b.Data[(t*c.Height+y)*c.Width+x]
}

// TimeSlice returns a single-timestep view of the cube: all bands, one time
// value. Band data is shared with the parent, so the slice must be treated
// as read-only.
func (c *Cube) TimeSlice(t int) (*Cube, error) {
	if t < 0 || t >= len(c.Times) {
		return nil, fmt.Errorf("time index %d out of range [0, %d)", t, len(c.Times))
	}
	out := New([]time.Time{c.Times[t]}, c.Height, c.Width)
	for k, v := range c.Attrs {
		out.Attrs[k] = v
	}
	plane := c.CellsPerTimestep()
	for _, b := range c.Bands {
		sb := &Band{
			Name:   b.Name,
			Data:   b.Data[t*plane : (t+1)*plane],
			NoData: b.NoData,
			DType:  b.DType,
			Units:  b.Units,
		}
		out.Bands = append(out.Bands, sb)
	}
	return out, nil
}

// Crop returns a copy of the cube restricted to the leading window of at
// most maxY by maxX cells along the spatial axes. The time axis and all
// metadata are preserved.
func (c *Cube) Crop(maxY, maxX int) *Cube {
	h := min(maxY, c.Height)
	w := min(maxX, c.Width)

	out := New(c.Times, h, w)
	for k, v := range c.Attrs {
		out.Attrs[k] = v
	}
	for _, b := range c.Bands {
		data := make([]float64, len(c.Times)*h*w)
		for t := range c.Times {
			for y := 0; y < h; y++ {
				src := (t*c.Height + y) * c.Width
				dst := (t*h + y) * w
				copy(data[dst:dst+w], b.Data[src:src+w])
			}
		}
		out.Bands = append(out.Bands, &Band{
			Name:   b.Name,
			Data:   data,
			NoData: b.NoData,
			DType:  b.DType,
			Units:  b.Units,
		})
	}
	return out
}

// ConcatTime concatenates single- or multi-timestep cubes along the time
// axis, in argument order. All inputs must agree on band names (in order),
// band metadata and spatial extents. Attributes of the first cube are
// carried onto the result.
func ConcatTime(slices []*Cube) (*Cube, error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("concat: no cubes given")
	}

	first := slices[0]
	totalTimes := 0
	for i, s := range slices {
		if s.Height != first.Height || s.Width != first.Width {
			return nil, fmt.Errorf("concat: cube %d has extent %dx%d, want %dx%d",
				i, s.Height, s.Width, first.Height, first.Width)
		}
		if len(s.Bands) != len(first.Bands) {
			return nil, fmt.Errorf("concat: cube %d has %d bands, want %d",
				i, len(s.Bands), len(first.Bands))
		}
		for j, b := range s.Bands {
			if b.Name != first.Bands[j].Name {
				return nil, fmt.Errorf("concat: cube %d band %d is %q, want %q",
					i, j, b.Name, first.Bands[j].Name)
			}
		}
		totalTimes += len(s.Times)
	}

	times := make([]time.Time, 0, totalTimes)
	for _, s := range slices {
		times = append(times, s.Times...)
	}

	out := New(times, first.Height, first.Width)
	for k, v := range first.Attrs {
		out.Attrs[k] = v
	}
	plane := first.CellsPerTimestep()
	for j, fb := range first.Bands {
		data := make([]float64, 0, totalTimes*plane)
		for _, s := range slices {
			data = append(data, s.Bands[j].Data...)
		}
		out.Bands = append(out.Bands, &Band{
			Name:   fb.Name,
			Data:   data,
			NoData: fb.NoData,
			DType:  fb.DType,
			Units:  fb.Units,
		})
	}
	return out, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
