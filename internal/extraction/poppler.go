package extraction

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// PopplerRasterizer renders PDF pages to PNG images with poppler's pdftoppm.
type PopplerRasterizer struct {
	// Binary overrides the pdftoppm executable path. Empty uses PATH lookup.
	Binary string
	// DPI is the render resolution. Zero selects 150, enough for OCR.
	DPI int
}

var _ Rasterizer = (*PopplerRasterizer)(nil)

// Rasterize renders each page of the PDF into a temporary directory and
// returns the image paths in page order.
func (r *PopplerRasterizer) Rasterize(ctx context.Context, pdfPath string) ([]string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "pdftoppm"
	}
	dpi := r.DPI
	if dpi == 0 {
		dpi = 150
	}

	outDir, err := os.MkdirTemp("", "circular-pages-")
	if err != nil {
		return nil, fmt.Errorf("failed to create page directory: %w", err)
	}
	prefix := filepath.Join(outDir, "page")

	cmd := exec.CommandContext(ctx, binary, "-png", "-r", fmt.Sprint(dpi), pdfPath, prefix)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	// pdftoppm writes page-01.png, page-02.png, ... zero-padded to a uniform
	// width, so lexicographic order is page order.
	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to list rendered pages: %w", err)
	}
	sort.Strings(pages)
	return pages, nil
}
