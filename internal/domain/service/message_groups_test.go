package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketcore/internal/domain/entity"
)

func msg(id string, ts time.Time) *entity.Message {
	return &entity.Message{ID: id, Timestamp: ts}
}

func msgIDs(ms []*entity.Message) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestOrderMessagesStable(t *testing.T) {
	t0 := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	in := []*entity.Message{
		msg("late", t0.Add(time.Hour)),
		msg("a", t0),
		msg("b", t0),
		msg("early", t0.Add(-time.Hour)),
	}

	out := OrderMessages(in)
	assert.Equal(t, []string{"early", "a", "b", "late"}, msgIDs(out))
	assert.Equal(t, "late", in[0].ID, "input must not be reordered")
}

func TestGroupByDay(t *testing.T) {
	in := []*entity.Message{
		msg("1", time.Date(2024, 1, 14, 16, 30, 0, 0, time.UTC)),
		msg("2", time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC)),
		msg("3", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)),
	}

	groups := GroupByDay(in, time.UTC)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"1", "2"}, msgIDs(groups[0].Messages))
	assert.Equal(t, []string{"3"}, msgIDs(groups[1].Messages))
	assert.Equal(t, 14, groups[0].Date.Day())

	// In Bangkok (UTC+7) 23:00 UTC is already the next day.
	bangkok := time.FixedZone("ICT", 7*60*60)
	groups = GroupByDay(in, bangkok)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"1"}, msgIDs(groups[0].Messages))
	assert.Equal(t, []string{"2", "3"}, msgIDs(groups[1].Messages))

	assert.True(t, StartsNewDay(in, 0, bangkok))
	assert.True(t, StartsNewDay(in, 1, bangkok))
	assert.False(t, StartsNewDay(in, 2, bangkok))

	assert.Empty(t, GroupByDay(nil, nil))
}
