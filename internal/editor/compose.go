package editor

import (
	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/config"
	"github.com/kikiluvv/slopeditor/internal/playback"
	"github.com/kikiluvv/slopeditor/internal/scoring"
)

// Meta is the publishing target chosen at export time
type Meta struct {
	Platform string `json:"platform"`
	Niche    string `json:"niche"`
	Trend    string `json:"trend"`
}

// Composition summarizes the current edit for scoring
func (e *Engine) Composition(meta Meta) scoring.Composition {
	duration := e.player.Status().Duration

	e.mu.Lock()
	defer e.mu.Unlock()
	return scoring.Composition{
		Platform:    meta.Platform,
		Niche:       meta.Niche,
		Trend:       meta.Trend,
		Duration:    duration,
		TextCount:   len(e.texts),
		EffectCount: len(e.effects),
		AudioCount:  len(e.audio),
		ImageCount:  len(e.images),
		HasCrop:     e.crop != nil,
		HasFilter:   e.filter != nil,
	}
}

// Headless is an engine wired to virtual media, for the server, the CLI
// and tests
type Headless struct {
	Engine *Engine
	Player *playback.Player
	Video  *playback.VirtualMedia
	Sync   *playback.Synchronizer
}

// NewHeadless builds an engine and its playback loop from config
func NewHeadless(logger zerolog.Logger, cfg *config.Config) *Headless {
	video := playback.NewVirtualMedia()
	syncer := playback.New(logger, video, playback.Config{
		LoopBackDelay:  cfg.Playback.LoopBackDelay,
		DriftTolerance: cfg.Playback.AudioDriftTolerance,
		GuardLoopBack:  cfg.Playback.GuardLoopBack,
	})
	engine := New(logger, syncer, OptionsFromConfig(cfg))
	player := playback.NewPlayer(logger, syncer, video, cfg.Playback.TickInterval)
	player.OnTick(func(playback.Status) { engine.Frame() })

	return &Headless{Engine: engine, Player: player, Video: video, Sync: syncer}
}
