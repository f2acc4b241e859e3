package fractional

// RequiredBands are the surface reflectance bands the unmixing function
// consumes. Every input cube must carry all five.
var RequiredBands = []string{"green", "red", "nir", "swir1", "swir2"}

// Coefficient is a per-band linear recalibration applied by the unmixing
// function before unmixing: value' = value*Slope + Intercept.
type Coefficient struct {
	Slope     float64 `yaml:"slope"`
	Intercept float64 `yaml:"intercept"`
}

// Identity is the coefficient pair that leaves a band unchanged.
var Identity = Coefficient{Slope: 1, Intercept: 0}

// Coefficients maps band names to their recalibration pairs.
type Coefficients map[string]Coefficient

// DefaultCoefficients returns the identity pair for every required band.
func DefaultCoefficients() Coefficients {
	coeffs := make(Coefficients, len(RequiredBands))
	for _, band := range RequiredBands {
		coeffs[band] = Identity
	}
	return coeffs
}

// withDefaults fills in the identity pair for any required band the caller
// left unspecified. A nil map yields the full default set.
func (c Coefficients) withDefaults() Coefficients {
	out := DefaultCoefficients()
	for band, coeff := range c {
		out[band] = coeff
	}
	return out
}
