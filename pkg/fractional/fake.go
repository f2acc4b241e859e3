package fractional

import (
	"fmt"

	"fraccover/pkg/cube"
)

// fakeSources maps each output band to the reflectance band standing in for
// it in the reduced-fidelity computation.
var fakeSources = map[string]string{
	BandPV:  "red",
	BandBS:  "red",
	BandNPV: "green",
	BandUE:  "nir",
}

// FakeUnmix is a fast, reduced-fidelity stand-in for the physical unmixing
// algorithm: it reuses raw reflectance bands as the four outputs, cast into
// each spec's storage type, with input nodata propagated to the spec
// sentinel. It validates orchestration and plumbing only and says nothing
// about numeric correctness of real unmixing.
func FakeUnmix(slice *cube.Cube, specs []cube.Measurement, _ Coefficients) (*cube.Cube, error) {
	out := cube.New(slice.Times, slice.Height, slice.Width)
	for k, v := range slice.Attrs {
		out.Attrs[k] = v
	}

	for _, spec := range specs {
		srcName, ok := fakeSources[spec.Name]
		if !ok {
			return nil, fmt.Errorf("no stand-in source for output band %q", spec.Name)
		}
		src := slice.Band(srcName)
		if src == nil {
			return nil, fmt.Errorf("stand-in source band %q not in slice", srcName)
		}
		srcNoData, hasNoData := src.NoDataValue()

		data := make([]float64, len(src.Data))
		for i, v := range src.Data {
			if hasNoData && v == srcNoData {
				data[i] = spec.NoData
				continue
			}
			data[i] = spec.DType.Cast(v)
		}

		nd := spec.NoData
		band := &cube.Band{
			Name:   spec.Name,
			Data:   data,
			NoData: &nd,
			DType:  spec.DType,
			Units:  spec.Units,
		}
		if err := out.AddBand(band); err != nil {
			return nil, err
		}
	}
	return out, nil
}
