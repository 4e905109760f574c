package domain

// Manifest records what a run produced for one gallery, so a later run or
// the preview server can tell variants and sources apart without touching
// the bucket again.
type Manifest struct {
	RunId     string   `yaml:"run_id" json:"runId"`
	Bucket    string   `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	Prefix    string   `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	CreatedAt string   `yaml:"created_at" json:"createdAt"`
	Sizes     []string `yaml:"sizes" json:"sizes"`
	Sources   []string `yaml:"sources" json:"sources"`
	Variants  []string `yaml:"variants" json:"variants"`
}
