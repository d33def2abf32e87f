package extraction

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TesseractRecognizer runs the tesseract CLI on page images.
type TesseractRecognizer struct {
	// Binary overrides the tesseract executable path. Empty uses PATH lookup.
	Binary string
	// Language is the OCR language pack. Empty uses tesseract's default.
	Language string
}

var _ Recognizer = (*TesseractRecognizer)(nil)

// Recognize OCRs one page image and returns its text. Blank pages return an
// empty string without error.
func (r *TesseractRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "tesseract"
	}

	args := []string{imagePath, "stdout"}
	if r.Language != "" {
		args = append(args, "-l", r.Language)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return string(output), nil
}
