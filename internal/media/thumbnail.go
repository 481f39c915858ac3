package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os/exec"

	"github.com/nfnt/resize"
)

// Frame grabs a single PNG-decoded frame at the given time
func (p *Prober) Frame(ctx context.Context, path string, at float64) (image.Image, error) {
	cmd := exec.CommandContext(ctx, p.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", at),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("frame grab failed: %w: %s", err, stderr.String())
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

// Thumbnail renders the frame at the given time as a JPEG data URL sized
// for library cards
func (p *Prober) Thumbnail(ctx context.Context, path string, at float64) (string, error) {
	img, err := p.Frame(ctx, path, at)
	if err != nil {
		return "", err
	}
	return EncodeThumbnail(img, p.thumbWidth, p.thumbHeight)
}

// EncodeThumbnail scales img into a width x height box and encodes it as a
// JPEG data URL. A zero dimension keeps the aspect ratio.
func EncodeThumbnail(img image.Image, width, height uint) (string, error) {
	scaled := resize.Resize(width, height, img, resize.Bilinear)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
