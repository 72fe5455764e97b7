package handler

import (
	"time"

	"github.com/dukerupert/noticeboard/internal/analytics"
	"github.com/dukerupert/noticeboard/internal/model"
)

// Payloads served when the store cannot be read, so the dashboard still
// renders something.

func fallbackNotices(now time.Time) []model.Notice {
	return []model.Notice{{
		model.FieldID:        "1",
		model.FieldTitle:     "Welcome to Digital Notice Board",
		model.FieldContent:   "This is a sample notice. Connect a notice store to publish real notices.",
		model.FieldCategory:  model.DefaultCategory,
		model.FieldPriority:  model.PriorityHigh,
		model.FieldTimestamp: now.Format(model.TimestampLayout),
		model.FieldAuthor:    "Admin",
	}}
}

func fallbackCategories() analytics.CategoryDistribution {
	return analytics.CategoryDistribution{
		Labels: []string{"General", "Events", "Announcements", "Updates"},
		Values: []int{5, 3, 7, 4},
	}
}

var fallbackTimelineCounts = []int{2, 1, 3, 2, 4, 3, 5, 6}

// fallbackTimeline covers the eight calendar days ending today, oldest first.
func fallbackTimeline(now time.Time) analytics.Timeline {
	n := len(fallbackTimelineCounts)
	t := analytics.Timeline{
		Dates:  make([]string, n),
		Counts: append([]int(nil), fallbackTimelineCounts...),
	}
	for i := range n {
		t.Dates[i] = now.AddDate(0, 0, i-(n-1)).Format(time.DateOnly)
	}
	return t
}

func fallbackPriorities() analytics.PriorityStats {
	return analytics.PriorityStats{
		model.PriorityHigh:   8,
		model.PriorityMedium: 12,
		model.PriorityLow:    5,
	}
}
