package crop

import (
	"github.com/disintegration/imaging"
	"github.com/sklirg/cutter/internal/domain"
	"image"
	"path/filepath"
	"strings"
)

// Produce generates one variant per configured size for the source image
// and writes them next to the returned paths under outDir. Crops fill the
// whole target frame, trimming around the center.
func Produce(src string, outDir string, sizes []domain.CropSize) ([]string, error) {
	img, err := imaging.Open(src)
	if err != nil {
		return nil, TransformError{path: src, base: err}
	}

	stem := Stem(src)

	var created []string
	for _, size := range sizes {
		variant := Fill(img, size)

		path := filepath.Join(outDir, size.VariantName(stem))
		err = imaging.Save(variant, path, imaging.JPEGQuality(jpegQuality))
		if err != nil {
			return created, TransformError{path: path, base: err}
		}

		created = append(created, path)
	}

	return created, nil
}

// Fill scales and center-crops the image to exactly the given size.
func Fill(img image.Image, size domain.CropSize) *image.NRGBA {
	return imaging.Fill(img, size.Width, size.Height, imaging.Center, imaging.Linear)
}

// Stem is the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

const jpegQuality = 90
