// Package media inspects the files users bring into the editor: video
// durations and thumbnails through ffprobe/ffmpeg, and PDF page info
// through MuPDF.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/config"
	"github.com/kikiluvv/slopeditor/pkg/util"
)

var ErrNoVideoStream = errors.New("no video stream")

// VideoInfo is what the editor needs to know about an imported video
type VideoInfo struct {
	Path       string  `json:"path"`
	Duration   float64 `json:"duration"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	Bitrate    int64   `json:"bitrate"`
	VideoCodec string  `json:"videoCodec"`
	HasAudio   bool    `json:"hasAudio"`
	AudioCodec string  `json:"audioCodec,omitempty"`
}

// Prober shells out to ffprobe and ffmpeg
type Prober struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	thumbWidth  uint
	thumbHeight uint
}

// NewProber resolves the configured binaries on PATH
func NewProber(logger zerolog.Logger, cfg config.MediaConfig) (*Prober, error) {
	ffmpegPath, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath(cfg.FFprobePath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Prober{
		logger:      logger.With().Str("component", "media").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		thumbWidth:  cfg.ThumbnailWidth,
		thumbHeight: cfg.ThumbnailHeight,
	}, nil
}

// Probe reads container and stream metadata for a video file
func (p *Prober) Probe(ctx context.Context, path string) (*VideoInfo, error) {
	out, err := p.ffprobe(ctx, path)
	if err != nil {
		return nil, err
	}
	info, err := parseProbe(out)
	if err != nil {
		return nil, err
	}
	info.Path = path

	p.logger.Debug().
		Str("path", path).
		Float64("duration", info.Duration).
		Int("width", info.Width).
		Int("height", info.Height).
		Msg("probed video")
	return info, nil
}

// Duration reads the container duration of any media file, audio included
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	out, err := p.ffprobe(ctx, path)
	if err != nil {
		return 0, err
	}
	return parseDuration(out)
}

func (p *Prober) ffprobe(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is required")
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w: %s", err, stderr.String())
	}
	return out, nil
}

func parseDuration(data []byte) (float64, error) {
	var probe probeResult
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	d, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("missing duration: %w", err)
	}
	return d, nil
}

func parseProbe(data []byte) (*VideoInfo, error) {
	var probe probeResult
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &VideoInfo{}
	if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	if br, err := strconv.ParseInt(probe.Format.BitRate, 10, 64); err == nil {
		info.Bitrate = br
	}

	video := false
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			if video {
				continue
			}
			video = true
			info.Width = s.Width
			info.Height = s.Height
			info.VideoCodec = s.CodecName
			info.FPS = util.ParseFrameRate(s.RFrameRate)
		case "audio":
			if !info.HasAudio {
				info.HasAudio = true
				info.AudioCodec = s.CodecName
			}
		}
	}
	if !video {
		return nil, ErrNoVideoStream
	}
	return info, nil
}

// probeResult matches ffprobe JSON output structure
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}
