// Package scoring grades a finished composition for short-form platforms.
// The grades are heuristics over editing effort: what kinds of overlays,
// audio and treatments the composition uses, and how long it runs.
package scoring

import "math"

// Baseline is where every score starts, and what a NaN falls back to
const Baseline = 30

// Composition is the editing summary a score is computed from
type Composition struct {
	Platform    string  `json:"platform"`
	Niche       string  `json:"niche"`
	Trend       string  `json:"trend"`
	Duration    float64 `json:"duration"`
	TextCount   int     `json:"textCount"`
	EffectCount int     `json:"effectCount"`
	AudioCount  int     `json:"audioCount"`
	ImageCount  int     `json:"imageCount"`
	HasCrop     bool    `json:"hasCrop"`
	HasFilter   bool    `json:"hasFilter"`
}

func (c Composition) hasText() bool    { return c.TextCount > 0 }
func (c Composition) hasEffects() bool { return c.EffectCount > 0 }
func (c Composition) hasAudio() bool   { return c.AudioCount > 0 }

// Scores are the four headline grades, each 0-100
type Scores struct {
	Trend      float64 `json:"trend"`
	Engagement float64 `json:"engagement"`
	Virality   float64 `json:"virality"`
	Quality    float64 `json:"quality"`
}

// QualityBreakdown rates four craft areas, each starting at 5
type QualityBreakdown struct {
	Composition int `json:"composition"`
	Audio       int `json:"audio"`
	Production  int `json:"production"`
	Narrative   int `json:"narrative"`
	Score       int `json:"score"`
}

// AnalyzeQuality rates the craft areas of c
func AnalyzeQuality(c Composition) QualityBreakdown {
	q := QualityBreakdown{Composition: 5, Audio: 5, Production: 5, Narrative: 5}

	if c.HasCrop {
		q.Composition += 2
	}
	if c.hasAudio() {
		q.Audio += 3
	}
	if c.hasEffects() {
		q.Production += min(c.EffectCount, 3)
	}
	if c.HasFilter {
		q.Production++
	}
	if c.hasText() {
		q.Narrative += min(c.TextCount, 3)
	}

	q.Score = q.Composition + q.Audio + q.Production + q.Narrative - 20
	return q
}

// Score computes the headline grades
func Score(c Composition) Scores {
	trend, engagement, virality, quality := float64(Baseline), float64(Baseline), float64(Baseline), float64(Baseline)

	if c.hasText() {
		trend += 10
		engagement += 12
	} else {
		engagement -= 10
		virality -= 5
	}

	if c.hasEffects() {
		trend += 15
		virality += 10
	} else {
		trend -= 10
		virality -= 15
	}

	if c.hasAudio() {
		trend += 15
		engagement += 10
		virality += 15
	} else {
		virality -= 20
		engagement -= 15
	}

	if c.HasCrop {
		quality += 10
	} else {
		quality -= 5
	}

	if c.HasFilter {
		trend += 5
		quality += 5
	} else {
		quality -= 3
	}

	quality = math.Min(100, quality+float64(AnalyzeQuality(c).Score))

	return Scores{
		Trend:      clampScore(trend),
		Engagement: clampScore(engagement),
		Virality:   clampScore(virality),
		Quality:    clampScore(quality),
	}
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return Baseline
	}
	return math.Min(100, math.Max(0, v))
}

// LengthScore rates how well the duration suits short-form, out of 10
func LengthScore(duration float64) int {
	switch {
	case duration < 15:
		return 9
	case duration < 30:
		return 7
	case duration < 60:
		return 5
	}
	return 3
}

// Tier buckets a score for display
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierPoor      Tier = "poor"
)

// TierOf places a score in a display tier
func TierOf(score float64) Tier {
	switch {
	case score >= 85:
		return TierExcellent
	case score >= 70:
		return TierGood
	case score >= 50:
		return TierFair
	}
	return TierPoor
}
