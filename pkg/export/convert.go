package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// converterBin is the external tool used for PDF and PNG conversion.
const converterBin = "rsvg-convert"

// RenderPDF renders a DOT graph as PDF. The SVG intermediate is produced
// in-process; the final conversion shells out to rsvg-convert.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return convertSVG(ctx, svg, "pdf")
}

// RenderPNG renders a DOT graph as PNG at the given scale factor.
// A scale of 2.0 doubles the pixel density for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return convertSVG(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// convertSVG pipes SVG bytes through rsvg-convert.
func convertSVG(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	if _, err := exec.LookPath(converterBin); err != nil {
		return nil, fmt.Errorf("%s export needs %s from librsvg (brew install librsvg / apt install librsvg2-bin)",
			format, converterBin)
	}

	cmd := exec.CommandContext(ctx, converterBin, append([]string{"-f", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s: %v: %s", converterBin, err, bytes.TrimSpace(exitErr.Stderr))
		}
		return nil, fmt.Errorf("%s: %w", converterBin, err)
	}
	return out, nil
}
