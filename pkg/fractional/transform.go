// Package fractional orchestrates per-pixel fractional ground cover
// computation over a multi-temporal scene cube: optional radiometric
// normalization, per-timestep invocation of an injected unmixing function,
// time-ordered reassembly of the results into one labelled output cube, and
// reconciliation of the output band names into the public contract.
//
// The physical unmixing algorithm is an external collaborator supplied as
// an UnmixFunc; the package ships a reduced-fidelity stand-in (FakeUnmix)
// for fast plumbing verification only.
package fractional

import (
	"fmt"
	"sync"

	"fraccover/internal/log"
	"fraccover/internal/version"
	"fraccover/pkg/cube"
	"fraccover/pkg/scaling"
)

// testModeExtent is the leading spatial window test mode restricts the cube
// to along each axis, purely to bound runtime of verification runs.
const testModeExtent = 100

// UnmixFunc computes the four fractional cover bands for one time slice of
// reflectance data. It receives all bands of a single-timestep cube, the
// declared output measurement specs and the per-band regression
// coefficients, and must return exactly one band per spec with compatible
// shape. Either the native (BS/PV/NPV/UE) or the public (bs/pv/npv/ue)
// naming convention is acceptable.
type UnmixFunc func(slice *cube.Cube, specs []cube.Measurement, coeffs Coefficients) (*cube.Cube, error)

// Params configures a Transform. The zero value of each knob is its
// default: identity coefficients, Collection-2 scaling off, test mode off,
// sequential execution.
type Params struct {
	// Coefficients recalibrates input bands before unmixing. Bands left
	// unspecified get the identity pair.
	Coefficients Coefficients

	// C2Scaling enables the radiometric normalizer with the fixed USGS
	// Collection-2 configuration before unmixing.
	C2Scaling bool

	// TestMode crops the cube to a small leading spatial window before any
	// further processing, to bound runtime of accelerated verification
	// runs. It never alters semantic correctness, only coverage.
	TestMode bool

	// Workers bounds the number of timesteps unmixed concurrently. Values
	// below 2 select sequential execution. Results are always reassembled
	// in input time order.
	Workers int

	// Unmix is the external unmixing function. Required.
	Unmix UnmixFunc
}

// Transform applies the fractional cover computation to surface reflectance
// cubes carrying the bands named in RequiredBands.
type Transform struct {
	coefficients Coefficients
	c2Scaling    bool
	testMode     bool
	workers      int
	unmix        UnmixFunc
	version      string
}

// NewTransform creates a transform from params, applying defaults for any
// unset knob. The build-time version constant is captured here for lineage
// metadata.
func NewTransform(params *Params) *Transform {
	return &Transform{
		coefficients: params.Coefficients.withDefaults(),
		c2Scaling:    params.C2Scaling,
		testMode:     params.TestMode,
		workers:      params.Workers,
		unmix:        params.Unmix,
		version:      version.Version,
	}
}

// Measurements declares the output measurement metadata. The contract is
// static: always the four fractional cover bands, regardless of the input
// measurements.
func (t *Transform) Measurements(input []cube.Measurement) map[string]cube.Measurement {
	out := make(map[string]cube.Measurement, len(OutputMeasurements))
	for _, m := range OutputMeasurements {
		out[m.Name] = m
	}
	return out
}

// Compute runs one end-to-end pass over the scene cube and returns the
// four-band fraction cube, time-ordered to match the input, with the
// coordinate reference system attribute carried through. The input cube is
// not modified; normalization produces a new cube.
func (t *Transform) Compute(data *cube.Cube) (*cube.Cube, error) {
	if err := t.validate(data); err != nil {
		return nil, err
	}

	if t.testMode {
		data = data.Crop(testModeExtent, testModeExtent)
		log.Debugf("test mode: cropped cube to %dx%d", data.Height, data.Width)
	}

	if t.c2Scaling {
		scaled, err := scaling.ScaleCollection2(data)
		if err != nil {
			return nil, err
		}
		data = scaled
		log.Debugf("applied Collection-2 scaling to %d bands", len(data.Bands))
	}

	results, err := t.unmixAll(data)
	if err != nil {
		return nil, err
	}

	out, err := cube.ConcatTime(results)
	if err != nil {
		return nil, fmt.Errorf("assembling fraction cube: %w", err)
	}

	// The per-timestep unmixing step does not produce cube-level metadata,
	// so the CRS has to be threaded through explicitly.
	if crs, ok := data.Attrs[cube.AttrCRS]; ok {
		out.Attrs[cube.AttrCRS] = crs
	}

	reconcileNames(out)

	log.Infof("fractional cover computed: %d timesteps, %dx%d cells",
		len(out.Times), out.Height, out.Width)
	return out, nil
}

// validate fails fast on configuration problems, before any computation.
func (t *Transform) validate(data *cube.Cube) error {
	if t.unmix == nil {
		return &cube.ConfigurationError{Reason: "no unmixing function configured"}
	}
	if len(data.Times) == 0 {
		return &cube.ConfigurationError{Reason: "input cube has an empty time axis"}
	}
	for _, band := range RequiredBands {
		if !data.HasBand(band) {
			return &cube.ConfigurationError{
				Reason: fmt.Sprintf("input cube is missing required band %q", band),
			}
		}
	}
	for band := range t.coefficients {
		if !data.HasBand(band) {
			return &cube.ConfigurationError{
				Reason: fmt.Sprintf("regression coefficients reference band %q not present in input", band),
			}
		}
	}
	return nil
}

// unmixAll runs the unmixing function over every timestep and returns the
// per-timestep fraction slices in input time order. Execution may fan out
// across workers, but reassembly is always by time index, so downstream
// positional indexing is preserved.
func (t *Transform) unmixAll(data *cube.Cube) ([]*cube.Cube, error) {
	n := len(data.Times)
	results := make([]*cube.Cube, n)

	if t.workers < 2 {
		for i := 0; i < n; i++ {
			res, err := t.unmixTimestep(data, i)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
		return results, nil
	}

	errs := make([]error, n)
	sem := make(chan struct{}, t.workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx], errs[idx] = t.unmixTimestep(data, idx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// unmixTimestep extracts the single-timestep slice at idx, invokes the
// unmixing function and verifies the result honors the output contract.
func (t *Transform) unmixTimestep(data *cube.Cube, idx int) (*cube.Cube, error) {
	slice, err := data.TimeSlice(idx)
	if err != nil {
		return nil, &UnmixError{TimeIndex: idx, Err: err}
	}

	res, err := t.unmix(slice, OutputMeasurements, t.coefficients)
	if err != nil {
		return nil, &UnmixError{TimeIndex: idx, Err: err}
	}
	if err := checkUnmixResult(res, slice); err != nil {
		return nil, &UnmixError{TimeIndex: idx, Err: err}
	}
	return res, nil
}

// checkUnmixResult verifies the structural contract of an unmixing result:
// four bands, one timestep, same spatial extent as the input slice.
func checkUnmixResult(res, slice *cube.Cube) error {
	if res == nil {
		return fmt.Errorf("unmixing function returned no cube")
	}
	if len(res.Bands) != len(OutputMeasurements) {
		return fmt.Errorf("unmixing function returned %d bands, want %d",
			len(res.Bands), len(OutputMeasurements))
	}
	if len(res.Times) != 1 {
		return fmt.Errorf("unmixing function returned %d timesteps, want 1", len(res.Times))
	}
	if res.Height != slice.Height || res.Width != slice.Width {
		return fmt.Errorf("unmixing function returned extent %dx%d, want %dx%d",
			res.Height, res.Width, slice.Height, slice.Width)
	}
	return nil
}

// reconcileNames renames bands from the unmixing function's native naming
// convention to the public lowercase one. When a public name already exists
// the rename is skipped: the unmixing function already emitted the correct
// form, and that must never be treated as an error.
func reconcileNames(c *cube.Cube) {
	for native, public := range nativeNames {
		if c.HasBand(native) && !c.HasBand(public) {
			// Both names checked above, so this cannot fail.
			_ = c.RenameBand(native, public)
		}
	}
}
