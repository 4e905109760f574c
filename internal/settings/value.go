package settings

import (
	"github.com/sklirg/cutter/internal/domain"
	"strings"
)

// NetworkValue collects Docker network names, either comma-separated or
// from repeated flags.
type NetworkValue struct {
	networks []string
}

func (v *NetworkValue) String() string {
	return strings.Join(v.networks, ",")
}

func (v *NetworkValue) Set(s string) error {
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		v.networks = append(v.networks, name)
	}

	return nil
}

// SizeValue collects crop sizes, either comma-separated or from repeated
// flags. Values are validated as they are parsed so a bad geometry fails
// at the command line instead of mid-run.
type SizeValue struct {
	sizes []domain.CropSize
}

func (v *SizeValue) String() string {
	parts := make([]string, 0, len(v.sizes))
	for _, size := range v.sizes {
		parts = append(parts, size.String())
	}

	return strings.Join(parts, ",")
}

func (v *SizeValue) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		size, err := domain.ParseCropSize(part)
		if err != nil {
			return err
		}

		v.sizes = append(v.sizes, size)
	}

	return nil
}
