package cube

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// RawLayout describes a flat band-sequential cube file: for each band in
// order, len(times)*height*width little-endian int16 values. It is the
// minimal interchange format the CLI uses; real deployments feed cubes in
// from a host data framework instead.
type RawLayout struct {
	Bands     []string
	Timesteps int
	Height    int
	Width     int

	// NoData is recorded on every band read from the file.
	NoData float64
}

// ReadRaw reads a cube from r according to the layout. All bands come back
// as int16-typed bands sharing the layout's nodata sentinel; the time axis
// is synthesized as consecutive days starting at epoch, since the raw format
// carries no timestamps.
func ReadRaw(r io.Reader, layout RawLayout) (*Cube, error) {
	if len(layout.Bands) == 0 {
		return nil, fmt.Errorf("read raw cube: no bands in layout")
	}
	if layout.Timesteps <= 0 || layout.Height <= 0 || layout.Width <= 0 {
		return nil, fmt.Errorf("read raw cube: non-positive dimensions %dx%dx%d",
			layout.Timesteps, layout.Height, layout.Width)
	}

	times := make([]time.Time, layout.Timesteps)
	for i := range times {
		times[i] = time.Unix(0, 0).UTC().AddDate(0, 0, i)
	}
	c := New(times, layout.Height, layout.Width)

	cells := layout.Timesteps * layout.Height * layout.Width
	buf := make([]int16, cells)
	nodata := layout.NoData
	for _, name := range layout.Bands {
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("read raw cube: band %q: %w", name, err)
		}
		data := make([]float64, cells)
		for i, v := range buf {
			data[i] = float64(v)
		}
		nd := nodata
		if err := c.AddBand(&Band{Name: name, Data: data, NoData: &nd, DType: Int16}); err != nil {
			return nil, fmt.Errorf("read raw cube: %w", err)
		}
	}
	return c, nil
}

// WriteRaw writes the cube's bands band-sequentially as little-endian int16.
// Values are truncated into int16; the caller is responsible for only
// writing cubes whose values fit.
func WriteRaw(w io.Writer, c *Cube) error {
	buf := make([]int16, c.Cells())
	for _, b := range c.Bands {
		for i, v := range b.Data {
			buf[i] = int16(v)
		}
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return fmt.Errorf("write raw cube: band %q: %w", b.Name, err)
		}
	}
	return nil
}
