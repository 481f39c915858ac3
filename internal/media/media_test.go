package media

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/config"
)

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

func TestParseProbe(t *testing.T) {
	out := []byte(`{
		"format": {"duration": "12.480000", "bit_rate": "1250000"},
		"streams": [
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "video", "codec_name": "h264", "width": 1080, "height": 1920, "r_frame_rate": "30000/1001"},
			{"codec_type": "video", "codec_name": "mjpeg", "width": 10, "height": 10}
		]
	}`)

	info, err := parseProbe(out)
	if err != nil {
		t.Fatalf("parseProbe() error = %v", err)
	}
	if info.Duration != 12.48 || info.Bitrate != 1250000 {
		t.Errorf("format = %+v", info)
	}
	if info.Width != 1080 || info.Height != 1920 || info.VideoCodec != "h264" {
		t.Errorf("first video stream not used: %+v", info)
	}
	if info.FPS < 29.97 || info.FPS > 29.98 {
		t.Errorf("FPS = %v", info.FPS)
	}
	if !info.HasAudio || info.AudioCodec != "aac" {
		t.Errorf("audio = %v %q", info.HasAudio, info.AudioCodec)
	}
}

func TestParseProbeErrors(t *testing.T) {
	if _, err := parseProbe([]byte("nope")); err == nil {
		t.Error("expected parse error")
	}
	audioOnly := []byte(`{"format": {"duration": "3"}, "streams": [{"codec_type": "audio"}]}`)
	if _, err := parseProbe(audioOnly); !errors.Is(err, ErrNoVideoStream) {
		t.Errorf("audio-only error = %v", err)
	}
	if d, err := parseDuration(audioOnly); err != nil || d != 3 {
		t.Errorf("parseDuration() = %v, %v", d, err)
	}
	if _, err := parseDuration([]byte(`{"format": {}}`)); err == nil {
		t.Error("expected error for missing duration")
	}
}

func TestEncodeThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 360))
	for y := 0; y < 360; y++ {
		for x := 0; x < 640; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}

	url, err := EncodeThumbnail(src, 320, 180)
	if err != nil {
		t.Fatalf("EncodeThumbnail() error = %v", err)
	}
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("url prefix = %q", url[:min(len(url), 30)])
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("payload is not jpeg: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 180 {
		t.Errorf("thumbnail = %dx%d, want 320x180", cfg.Width, cfg.Height)
	}
}

func TestInspectPDFMissing(t *testing.T) {
	if _, err := InspectPDF(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing pdf")
	}
}

func TestProberIntegration(t *testing.T) {
	skipIfNoFFmpeg(t)

	path := filepath.Join(t.TempDir(), "test.mp4")
	gen := exec.Command("ffmpeg", "-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=duration=2:size=320x240:rate=25",
		"-pix_fmt", "yuv420p", path)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Skipf("could not generate test video: %v: %s", err, out)
	}

	p, err := NewProber(zerolog.Nop(), config.Default().Media)
	if err != nil {
		t.Fatalf("NewProber() error = %v", err)
	}

	ctx := context.Background()
	info, err := p.Probe(ctx, path)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if info.Width != 320 || info.Height != 240 {
		t.Errorf("size = %dx%d", info.Width, info.Height)
	}
	if info.Duration < 1.5 || info.Duration > 2.5 {
		t.Errorf("Duration = %v", info.Duration)
	}

	d, err := p.Duration(ctx, path)
	if err != nil || d < 1.5 {
		t.Errorf("Duration() = %v, %v", d, err)
	}

	thumb, err := p.Thumbnail(ctx, path, 1)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}
	if !strings.HasPrefix(thumb, "data:image/jpeg;base64,") {
		t.Errorf("thumbnail = %q", thumb[:20])
	}
}
