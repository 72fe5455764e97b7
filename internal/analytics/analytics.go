// Package analytics folds notices into the dashboard summaries.
package analytics

import (
	"sort"
	"strings"

	"github.com/dukerupert/noticeboard/internal/model"
)

// CategoryDistribution holds parallel label and count slices in first-seen order.
type CategoryDistribution struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Timeline holds per-day notice counts, dates ascending.
type Timeline struct {
	Dates  []string `json:"dates"`
	Counts []int    `json:"counts"`
}

// PriorityStats maps a priority to its notice count. The high, medium and
// low buckets are always present.
type PriorityStats map[string]int

// Categories counts notices per category. Notices without a category count
// as general.
func Categories(notices []model.Notice) CategoryDistribution {
	out := CategoryDistribution{Labels: []string{}, Values: []int{}}
	index := make(map[string]int)
	for _, n := range notices {
		c := n.Category()
		i, ok := index[c]
		if !ok {
			i = len(out.Labels)
			index[c] = i
			out.Labels = append(out.Labels, c)
			out.Values = append(out.Values, 0)
		}
		out.Values[i]++
	}
	return out
}

// DailyTimeline counts notices per calendar date, taken from the part of the
// timestamp before the first 'T'. Notices without a timestamp are skipped.
func DailyTimeline(notices []model.Notice) Timeline {
	counts := make(map[string]int)
	for _, n := range notices {
		ts := n.Timestamp()
		if ts == "" {
			continue
		}
		date, _, _ := strings.Cut(ts, "T")
		counts[date]++
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := Timeline{Dates: dates, Counts: make([]int, len(dates))}
	for i, d := range dates {
		out.Counts[i] = counts[d]
	}
	return out
}

// Priorities counts notices per priority. A missing priority counts as low;
// any other value gets its own bucket.
func Priorities(notices []model.Notice) PriorityStats {
	out := PriorityStats{
		model.PriorityHigh:   0,
		model.PriorityMedium: 0,
		model.PriorityLow:    0,
	}
	for _, n := range notices {
		out[n.Priority()]++
	}
	return out
}
