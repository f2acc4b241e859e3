package fractional

import "fraccover/pkg/cube"

// Output band names in their public (lowercase) form.
const (
	BandPV  = "pv"  // photosynthetic vegetation
	BandNPV = "npv" // non-photosynthetic vegetation
	BandBS  = "bs"  // bare soil
	BandUE  = "ue"  // unmixing error
)

// OutputNoData is the nodata sentinel of every output band.
const OutputNoData = -1

// OutputMeasurements is the static output contract of the pipeline: always
// these four int8 bands, in this order, independent of input or
// configuration.
var OutputMeasurements = []cube.Measurement{
	{Name: BandPV, DType: cube.Int8, NoData: OutputNoData, Units: "percent"},
	{Name: BandNPV, DType: cube.Int8, NoData: OutputNoData, Units: "percent"},
	{Name: BandBS, DType: cube.Int8, NoData: OutputNoData, Units: "percent"},
	{Name: BandUE, DType: cube.Int8, NoData: OutputNoData, Units: ""},
}

// nativeNames maps the unmixing function's native band naming onto the
// public contract. The reconcile pass renames only when the public name is
// not already present.
var nativeNames = map[string]string{
	"BS":  BandBS,
	"PV":  BandPV,
	"NPV": BandNPV,
	"UE":  BandUE,
}
