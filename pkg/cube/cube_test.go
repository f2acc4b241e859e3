package cube

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// testTimes returns n consecutive daily timestamps.
func testTimes(n int) []time.Time {
	times := make([]time.Time, n)
	base := time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)
	for i := range times {
		times[i] = base.AddDate(0, 0, i)
	}
	return times
}

// testCube builds a cube with the given bands where every cell of band j
// holds j*1000 + t*100 + y*10 + x, so positions are recoverable in checks.
func testCube(t *testing.T, names []string, timesteps, h, w int) *Cube {
	t.Helper()
	c := New(testTimes(timesteps), h, w)
	for j, name := range names {
		data := make([]float64, timesteps*h*w)
		for ti := 0; ti < timesteps; ti++ {
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					data[(ti*h+y)*w+x] = float64(j*1000 + ti*100 + y*10 + x)
				}
			}
		}
		nodata := -999.0
		if err := c.AddBand(&Band{Name: name, Data: data, NoData: &nodata, DType: Int16}); err != nil {
			t.Fatalf("AddBand(%q) failed: %v", name, err)
		}
	}
	return c
}

func TestAddBandRejectsWrongLength(t *testing.T) {
	c := New(testTimes(2), 3, 3)
	err := c.AddBand(&Band{Name: "red", Data: make([]float64, 7)})
	if err == nil {
		t.Fatal("expected error for mismatched data length")
	}
}

func TestAddBandRejectsDuplicateName(t *testing.T) {
	c := testCube(t, []string{"red"}, 1, 2, 2)
	err := c.AddBand(&Band{Name: "red", Data: make([]float64, 4)})
	if err == nil {
		t.Fatal("expected error for duplicate band name")
	}
}

func TestTimeSlice(t *testing.T) {
	c := testCube(t, []string{"red", "nir"}, 3, 2, 2)
	c.Attrs[AttrCRS] = "EPSG:3577"

	slice, err := c.TimeSlice(1)
	if err != nil {
		t.Fatalf("TimeSlice failed: %v", err)
	}

	if len(slice.Times) != 1 || !slice.Times[0].Equal(c.Times[1]) {
		t.Errorf("expected single time %v, got %v", c.Times[1], slice.Times)
	}
	if slice.Attrs[AttrCRS] != "EPSG:3577" {
		t.Errorf("expected attrs carried onto slice, got %v", slice.Attrs)
	}

	// Band "nir" (j=1) at t=1, y=1, x=0 is 1000+100+10 = 1110.
	nir := slice.Band("nir")
	if nir == nil {
		t.Fatal("slice lost band nir")
	}
	if got := slice.At(nir, 0, 1, 0); got != 1110 {
		t.Errorf("expected cell value 1110, got %v", got)
	}
}

func TestTimeSliceOutOfRange(t *testing.T) {
	c := testCube(t, []string{"red"}, 2, 2, 2)
	if _, err := c.TimeSlice(2); err == nil {
		t.Error("expected error for time index past the axis")
	}
	if _, err := c.TimeSlice(-1); err == nil {
		t.Error("expected error for negative time index")
	}
}

func TestCrop(t *testing.T) {
	c := testCube(t, []string{"red"}, 2, 5, 7)
	c.Attrs[AttrCRS] = "EPSG:32755"

	out := c.Crop(3, 4)
	if out.Height != 3 || out.Width != 4 {
		t.Fatalf("expected 3x4 crop, got %dx%d", out.Height, out.Width)
	}
	if len(out.Times) != 2 {
		t.Errorf("expected time axis preserved, got %d entries", len(out.Times))
	}
	if out.Attrs[AttrCRS] != "EPSG:32755" {
		t.Errorf("expected attrs preserved, got %v", out.Attrs)
	}

	// Cell (t=1, y=2, x=3) must hold the same value as in the source.
	red := out.Band("red")
	want := c.At(c.Band("red"), 1, 2, 3)
	if got := out.At(red, 1, 2, 3); got != want {
		t.Errorf("expected cropped cell %v, got %v", want, got)
	}
}

func TestCropLargerThanExtent(t *testing.T) {
	c := testCube(t, []string{"red"}, 1, 4, 4)
	out := c.Crop(100, 100)
	if out.Height != 4 || out.Width != 4 {
		t.Errorf("expected crop clamped to 4x4, got %dx%d", out.Height, out.Width)
	}
}

func TestConcatTimePreservesOrder(t *testing.T) {
	slices := make([]*Cube, 3)
	for i := range slices {
		c := New(testTimes(3)[i:i+1], 2, 2)
		data := []float64{float64(i), float64(i), float64(i), float64(i)}
		nodata := -1.0
		if err := c.AddBand(&Band{Name: "pv", Data: data, NoData: &nodata, DType: Int8}); err != nil {
			t.Fatalf("AddBand failed: %v", err)
		}
		slices[i] = c
	}

	out, err := ConcatTime(slices)
	if err != nil {
		t.Fatalf("ConcatTime failed: %v", err)
	}
	if len(out.Times) != 3 {
		t.Fatalf("expected 3 timesteps, got %d", len(out.Times))
	}

	pv := out.Band("pv")
	for ti := 0; ti < 3; ti++ {
		if got := out.At(pv, ti, 0, 0); got != float64(ti) {
			t.Errorf("timestep %d: expected value %d, got %v", ti, ti, got)
		}
	}
}

func TestConcatTimeRejectsMismatches(t *testing.T) {
	a := testCube(t, []string{"pv"}, 1, 2, 2)
	b := testCube(t, []string{"pv"}, 1, 3, 3)
	if _, err := ConcatTime([]*Cube{a, b}); err == nil {
		t.Error("expected error for extent mismatch")
	}

	c := testCube(t, []string{"npv"}, 1, 2, 2)
	if _, err := ConcatTime([]*Cube{a, c}); err == nil {
		t.Error("expected error for band name mismatch")
	}

	if _, err := ConcatTime(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestConcatTimeRoundTripsTimeSlices(t *testing.T) {
	c := testCube(t, []string{"red", "nir"}, 4, 3, 3)
	c.Attrs[AttrCRS] = "EPSG:3577"

	slices := make([]*Cube, len(c.Times))
	for i := range c.Times {
		s, err := c.TimeSlice(i)
		if err != nil {
			t.Fatalf("TimeSlice(%d) failed: %v", i, err)
		}
		slices[i] = s
	}

	out, err := ConcatTime(slices)
	if err != nil {
		t.Fatalf("ConcatTime failed: %v", err)
	}
	if diff := cmp.Diff(c, out); diff != "" {
		t.Errorf("slice+concat round trip changed the cube (-want +got):\n%s", diff)
	}
}

func TestRenameBand(t *testing.T) {
	c := testCube(t, []string{"PV", "pv2"}, 1, 2, 2)

	if err := c.RenameBand("PV", "pv"); err != nil {
		t.Fatalf("RenameBand failed: %v", err)
	}
	if !c.HasBand("pv") || c.HasBand("PV") {
		t.Errorf("expected PV renamed to pv, bands are %v", c.BandNames())
	}

	if err := c.RenameBand("missing", "x"); err == nil {
		t.Error("expected error renaming a missing band")
	}
	if err := c.RenameBand("pv", "pv2"); err == nil {
		t.Error("expected error renaming onto an existing band")
	}
}

func TestDTypeCast(t *testing.T) {
	cases := []struct {
		dtype DType
		in    float64
		want  float64
	}{
		{Int8, 12.7, 12},
		{Int8, -0.9, 0},
		{Int16, -625.4, -625},
		{Int16, 9999.9, 9999},
		{Float64, 12.7, 12.7},
	}
	for _, tc := range cases {
		if got := tc.dtype.Cast(tc.in); got != tc.want {
			t.Errorf("%s.Cast(%v): expected %v, got %v", tc.dtype, tc.in, tc.want, got)
		}
	}
}
