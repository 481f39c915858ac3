package overlays

// EffectBuffer widens effect windows on both ends so boundary frames
// reported slightly early or late still count as active
const EffectBuffer = 0.01

// TextVisible reports whether t is shown at time (inclusive window)
func TextVisible(t TextItem, time float64) bool {
	return time >= t.StartTime && time <= t.EndTime
}

// ImageVisible reports whether i is shown at time (inclusive window)
func ImageVisible(i ImageItem, time float64) bool {
	return time >= i.StartTime && time <= i.EndTime
}

// EffectActive reports whether e applies at time, using EffectBuffer
func EffectActive(e EffectItem, time float64) bool {
	return EffectActiveWithin(e, time, EffectBuffer)
}

// EffectActiveWithin is EffectActive with an explicit buffer
func EffectActiveWithin(e EffectItem, time, buffer float64) bool {
	return time >= e.StartTime-buffer && time <= e.EndTime+buffer
}

// VisibleTexts filters items shown at time
func VisibleTexts(items []TextItem, time float64) []TextItem {
	var out []TextItem
	for _, it := range items {
		if TextVisible(it, time) {
			out = append(out, it)
		}
	}
	return out
}

// VisibleImages filters items shown at time
func VisibleImages(items []ImageItem, time float64) []ImageItem {
	var out []ImageItem
	for _, it := range items {
		if ImageVisible(it, time) {
			out = append(out, it)
		}
	}
	return out
}

// ActiveEffects filters effects applying at time
func ActiveEffects(items []EffectItem, time, buffer float64) []EffectItem {
	var out []EffectItem
	for _, it := range items {
		if EffectActiveWithin(it, time, buffer) {
			out = append(out, it)
		}
	}
	return out
}
