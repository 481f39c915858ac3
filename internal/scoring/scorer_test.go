package scoring

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

var (
	bare = Composition{Platform: "TikTok", Duration: 10}
	full = Composition{
		Platform:    "Instagram",
		Duration:    45,
		TextCount:   2,
		EffectCount: 4,
		AudioCount:  1,
		HasCrop:     true,
		HasFilter:   true,
	}
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		in   Composition
		want Scores
	}{
		{"bare", bare, Scores{Trend: 20, Engagement: 5, Virality: 0, Quality: 22}},
		{"full", full, Scores{Trend: 75, Engagement: 52, Virality: 55, Quality: 56}},
		{"text and audio", Composition{TextCount: 1, AudioCount: 1}, Scores{Trend: 45, Engagement: 52, Virality: 30, Quality: 26}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.in); got != tt.want {
				t.Errorf("Score() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScoresStayInRange(t *testing.T) {
	for texts := 0; texts < 6; texts++ {
		for fx := 0; fx < 6; fx++ {
			c := Composition{TextCount: texts, EffectCount: fx, AudioCount: fx % 2, HasCrop: texts%2 == 0, HasFilter: fx > 2}
			s := Score(c)
			for _, v := range []float64{s.Trend, s.Engagement, s.Virality, s.Quality} {
				if v < 0 || v > 100 || math.IsNaN(v) {
					t.Fatalf("Score(%+v) = %+v out of range", c, s)
				}
			}
		}
	}
}

func TestAnalyzeQuality(t *testing.T) {
	q := AnalyzeQuality(full)
	want := QualityBreakdown{Composition: 7, Audio: 8, Production: 9, Narrative: 7, Score: 11}
	if q != want {
		t.Errorf("AnalyzeQuality() = %+v, want %+v", q, want)
	}
	if got := AnalyzeQuality(Composition{}).Score; got != 0 {
		t.Errorf("empty quality score = %d, want 0", got)
	}
}

func TestClampNaN(t *testing.T) {
	if got := clampScore(math.NaN()); got != Baseline {
		t.Errorf("clampScore(NaN) = %v", got)
	}
	if got := clampScore(140); got != 100 {
		t.Errorf("clampScore(140) = %v", got)
	}
	if got := clampScore(-4); got != 0 {
		t.Errorf("clampScore(-4) = %v", got)
	}
}

func TestLengthScore(t *testing.T) {
	tests := []struct {
		d    float64
		want int
	}{
		{5, 9}, {14.9, 9}, {15, 7}, {29, 7}, {30, 5}, {59, 5}, {60, 3}, {300, 3},
	}
	for _, tt := range tests {
		if got := LengthScore(tt.d); got != tt.want {
			t.Errorf("LengthScore(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestRecommendationsAndStrengths(t *testing.T) {
	if got := Recommendations(Score(bare)); len(got) != 4 {
		t.Errorf("bare recommendations = %d, want 4", len(got))
	}
	if got := Strengths(Score(bare)); len(got) != 0 {
		t.Errorf("bare strengths = %v", got)
	}

	s := Score(full)
	if got := Recommendations(s); len(got) != 0 {
		t.Errorf("full recommendations = %v", got)
	}
	got := Strengths(s)
	if len(got) != 1 || !strings.HasPrefix(got[0], "Strong trend alignment") {
		t.Errorf("full strengths = %v", got)
	}
}

func TestViralityPrediction(t *testing.T) {
	text := ViralityPrediction(full, Score(full))
	for _, want := range []string{
		"moderate viral potential with a score of 55/100",
		"1. Hook Strength: Weak (5/10)",
		"2. Trend Alignment: Strong (75/100)",
		"3. Pattern Disruption: Strong (8/10)",
		"4. Emotional Trigger: Strong (9/10)",
		"5. Shareability Factor: Moderate (44/100)",
		"your consistent visual aesthetic",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("prediction missing %q", want)
		}
	}

	text = ViralityPrediction(bare, Score(bare))
	for _, want := range []string{
		"limited viral potential with a score of 0/100",
		"Hook Strength: Strong (9/10)",
		"Pattern Disruption: Weak (3/10)",
		"TikTok's algorithm currently favors your shorter format",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("bare prediction missing %q", want)
		}
	}

	other := ViralityPrediction(Composition{Platform: "Twitch"}, Scores{})
	if !strings.Contains(other, "Twitch's algorithm currently favors") {
		t.Errorf("generic platform paragraph missing: %s", other)
	}
}

func TestOptimizationTips(t *testing.T) {
	tips := OptimizationTips(Composition{Platform: "TikTok", Duration: 90})
	// five platform tips plus text, audio, length and effects
	if len(tips) != 9 {
		t.Fatalf("tips = %d, want 9", len(tips))
	}
	if !strings.Contains(tips[7], "shorter version (15-30 seconds) for TikTok") {
		t.Errorf("length tip = %q", tips[7])
	}

	tips = OptimizationTips(full)
	if len(tips) != 5 {
		t.Errorf("full tips = %d, want 5", len(tips))
	}
	if len(platformTips["Instagram"]) != 5 {
		t.Error("platform tips were modified")
	}
}

func TestHeuristicScorer(t *testing.T) {
	s := NewHeuristicScorer()
	defer s.Close()

	r, err := s.Score(context.Background(), full)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if r.Tiers["trend"] != TierGood || r.Tiers["virality"] != TierFair || r.Tiers["engagement"] != TierFair {
		t.Errorf("tiers = %v", r.Tiers)
	}
	if r.LengthScore != 5 || r.Quality.Score != 11 {
		t.Errorf("report = %+v", r)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Score(ctx, full); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Score() error = %v", err)
	}
}

func TestBatchScore(t *testing.T) {
	comps := []Composition{bare, full, bare, full}
	reports, err := BatchScore(context.Background(), NewHeuristicScorer(), comps, 2)
	if err != nil {
		t.Fatalf("BatchScore() error = %v", err)
	}
	for i, r := range reports {
		if r.Composition != comps[i] {
			t.Errorf("report %d out of order", i)
		}
	}
	if reports[1].Scores.Trend != 75 {
		t.Errorf("report 1 trend = %v", reports[1].Scores.Trend)
	}
}

func TestProgress(t *testing.T) {
	var seen []int
	err := Progress(context.Background(), time.Millisecond, 5, func(p int) { seen = append(seen, p) })
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if len(seen) != 20 || seen[0] != 5 || seen[19] != 100 {
		t.Errorf("progress = %v", seen)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Progress(ctx, time.Hour, 5, func(int) {}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Progress() error = %v", err)
	}
}
