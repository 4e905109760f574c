package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CropSize is the target geometry of one generated variant. Crops fill the
// whole frame: the source is scaled to cover Width x Height and the excess
// is trimmed around the center.
type CropSize struct {
	Width  int
	Height int
}

func (s CropSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Suffix is appended to the source file stem to name a variant, e.g.
// _200x200px_200w for a 200x200 crop.
func (s CropSize) Suffix() string {
	return fmt.Sprintf("_%dx%dpx_%dw", s.Width, s.Height, s.Width)
}

// VariantName builds the file name of the crop generated from the given
// source stem: IMG001 at 200x200 becomes IMG001_200x200px_200w.jpg.
func (s CropSize) VariantName(stem string) string {
	return stem + s.Suffix() + ".jpg"
}

// ParseCropSize parses a WIDTHxHEIGHT string such as 1920x1080.
func ParseCropSize(value string) (CropSize, error) {
	parts := strings.Split(value, "x")
	if len(parts) != 2 {
		return CropSize{}, fmt.Errorf("invalid crop size %q: expected WIDTHxHEIGHT, e.g. 1920x1080", value)
	}

	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return CropSize{}, fmt.Errorf("invalid width in crop size %q: %v", value, err)
	}

	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return CropSize{}, fmt.Errorf("invalid height in crop size %q: %v", value, err)
	}

	if width <= 0 || height <= 0 {
		return CropSize{}, fmt.Errorf("invalid crop size %q: dimensions must be positive", value)
	}

	return CropSize{Width: width, Height: height}, nil
}

// DefaultCropSizes returns the sizes generated when none are configured.
func DefaultCropSizes() []CropSize {
	return []CropSize{
		{Width: 200, Height: 200},
		{Width: 400, Height: 400},
		{Width: 800, Height: 800},
		{Width: 1920, Height: 1080},
	}
}
