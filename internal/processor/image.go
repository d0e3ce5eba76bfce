// image.go - Certificate image preprocessing before vision extraction

package processor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/eduparser/edu_parser_gemini/configs"
)

// PreprocessImage prepares a scanned certificate for the vision model:
// oversized scans are bounded to MAX_IMAGE_DIMENSION, then grayscale and a
// mild contrast boost sharpen stamped/printed text. The processed copy is
// written next to the original and its path returned. When preprocessing is
// disabled the original path is returned untouched.
func PreprocessImage(imagePath string) (string, error) {
	if !configs.ENABLE_IMAGE_PREPROCESSING {
		return imagePath, nil
	}

	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	maxDim := configs.MAX_IMAGE_DIMENSION
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		if bounds.Dx() >= bounds.Dy() {
			img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
		}
	}

	img = imaging.Grayscale(img)
	img = imaging.AdjustContrast(img, 10)

	ext := filepath.Ext(imagePath)
	outPath := strings.TrimSuffix(imagePath, ext) + "_processed" + ext
	if err := imaging.Save(img, outPath); err != nil {
		return "", fmt.Errorf("failed to save processed image: %w", err)
	}
	return outPath, nil
}
