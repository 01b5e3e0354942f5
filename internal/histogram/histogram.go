// Package histogram buckets timestamped events into counts for timeline
// visualization.
package histogram

import "time"

const (
	// minBuckets is the floor on the effective bucket count.
	minBuckets = 8

	placeholderLabel = "--:--"
)

// Histogram holds bucketed event counts over the observed time range.
type Histogram struct {
	Counts     []int
	StartLabel string
	EndLabel   string
	MaxCount   int
}

// Build buckets the given event times into max(minBuckets, bucketCount)
// counts. Every input time lands in exactly one bucket, so the counts sum
// to len(times). Empty input yields all-zero counts with placeholder
// labels.
func Build(times []time.Time, bucketCount int) Histogram {
	if bucketCount < minBuckets {
		bucketCount = minBuckets
	}
	h := Histogram{
		Counts:     make([]int, bucketCount),
		StartLabel: placeholderLabel,
		EndLabel:   placeholderLabel,
	}
	if len(times) == 0 {
		return h
	}

	minT, maxT := times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(minT) {
			minT = t
		}
		if t.After(maxT) {
			maxT = t
		}
	}

	span := maxT.Sub(minT).Milliseconds()
	if span < 1 {
		span = 1
	}
	for _, t := range times {
		normalized := float64(t.Sub(minT).Milliseconds()) / float64(span)
		idx := int(normalized * float64(bucketCount))
		if idx < 0 {
			idx = 0
		}
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		h.Counts[idx]++
		if h.Counts[idx] > h.MaxCount {
			h.MaxCount = h.Counts[idx]
		}
	}

	h.StartLabel = formatLabel(minT, maxT)
	h.EndLabel = formatLabel(maxT, maxT)
	return h
}

// ExpandForDisplay resamples bucket counts onto a fixed display width. Each
// display column takes the maximum source-bucket count within its fractional
// source range — max-pooling, so rare spikes stay visible instead of being
// averaged away.
func ExpandForDisplay(counts []int, width int) []int {
	if width <= 0 || len(counts) == 0 {
		return nil
	}
	out := make([]int, width)
	ratio := float64(len(counts)) / float64(width)
	for col := 0; col < width; col++ {
		lo := int(float64(col) * ratio)
		hi := int(float64(col+1) * ratio)
		if hi <= lo {
			hi = lo + 1
		}
		if hi > len(counts) {
			hi = len(counts)
		}
		max := 0
		for i := lo; i < hi; i++ {
			if counts[i] > max {
				max = counts[i]
			}
		}
		out[col] = max
	}
	return out
}

// formatLabel renders a range endpoint: clock time when the range ends the
// same day, date plus clock time otherwise.
func formatLabel(t, rangeEnd time.Time) string {
	if t.Year() == rangeEnd.Year() && t.YearDay() == rangeEnd.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("Jan 2 15:04")
}
