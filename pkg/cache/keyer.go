package cache

import "strings"

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey identifies the encoded output for a set of inputs.
	ArtifactKey(inputsHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every export setting that changes the encoded bytes.
type ArtifactKeyOpts struct {
	Orientation string `json:"orientation"`
	Format      string `json:"format"`
	Quality     int    `json:"quality"`
	Lossless    bool   `json:"lossless,omitempty"`
	Filter      string `json:"filter"`
	Background  string `json:"background"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes inputsHash with opts under the "artifact" prefix.
func (DefaultKeyer) ArtifactKey(inputsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputsHash, opts)
}

// InputsHash combines the content hashes of ordered inputs into one hash.
// Order matters: the same images stacked differently are different inputs.
func InputsHash(hashes []string) string {
	return Hash([]byte(strings.Join(hashes, "\n")))
}
