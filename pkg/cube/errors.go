package cube

// ConfigurationError reports invalid caller-supplied configuration detected
// before any computation: a band missing its nodata declaration, regression
// coefficients naming an absent band, and the like. It is never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}
