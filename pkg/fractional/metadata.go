package fractional

// repoURL points at the upstream home of the fractional cover algorithm,
// recorded in lineage metadata.
const repoURL = "https://github.com/GeoscienceAustralia/fc.git"

// Parameters is the configuration echoed into lineage records.
type Parameters struct {
	RegressionCoefficients Coefficients `yaml:"regression_coefficients"`
	USGSC2Scaling          bool         `yaml:"usgs_c2_scaling"`
}

// AlgorithmInfo identifies the algorithm, its version and the parameters it
// ran with.
type AlgorithmInfo struct {
	Name       string     `yaml:"name"`
	Version    string     `yaml:"version"`
	RepoURL    string     `yaml:"repo_url"`
	Parameters Parameters `yaml:"parameters"`
}

// Metadata is the structured lineage record attached to products for
// provenance tracking. It is purely descriptive.
type Metadata struct {
	Algorithm AlgorithmInfo `yaml:"algorithm"`
}

// AlgorithmMetadata returns the lineage record for this transform.
func (t *Transform) AlgorithmMetadata() Metadata {
	return Metadata{
		Algorithm: AlgorithmInfo{
			Name:    "Fractional Cover",
			Version: t.version,
			RepoURL: repoURL,
			Parameters: Parameters{
				RegressionCoefficients: t.coefficients,
				USGSC2Scaling:          t.c2Scaling,
			},
		},
	}
}
