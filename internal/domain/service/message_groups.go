package service

import (
	"sort"
	"time"

	"marketcore/internal/domain/entity"
)

// DayGroup is a run of consecutive messages sharing a calendar date.
type DayGroup struct {
	Date     time.Time         `json:"date"`
	Messages []*entity.Message `json:"messages"`
}

// OrderMessages returns messages ascending by timestamp. Equal timestamps
// keep their insertion order.
func OrderMessages(messages []*entity.Message) []*entity.Message {
	ordered := make([]*entity.Message, len(messages))
	copy(ordered, messages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})
	return ordered
}

// GroupByDay splits an ordered message list wherever the calendar date in
// loc changes from one message to the next.
func GroupByDay(messages []*entity.Message, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.UTC
	}

	groups := make([]DayGroup, 0)
	var prev time.Time
	for i, m := range messages {
		local := m.Timestamp.In(loc)
		if i == 0 || !sameDay(prev, local) {
			y, mo, d := local.Date()
			groups = append(groups, DayGroup{Date: time.Date(y, mo, d, 0, 0, 0, 0, loc)})
		}
		last := &groups[len(groups)-1]
		last.Messages = append(last.Messages, m)
		prev = local
	}
	return groups
}

// StartsNewDay reports whether messages[i] is the first message of its day.
func StartsNewDay(messages []*entity.Message, i int, loc *time.Location) bool {
	if i == 0 {
		return true
	}
	if loc == nil {
		loc = time.UTC
	}
	return !sameDay(messages[i-1].Timestamp.In(loc), messages[i].Timestamp.In(loc))
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
