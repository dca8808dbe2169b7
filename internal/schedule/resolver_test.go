package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/agency-api/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weeklyRule(dayOfWeek, startMin, endMin int, effStart time.Time, effEnd *time.Time) model.ScheduleRule {
	rule := model.ScheduleRule{
		ClientID:           uuid.New(),
		CaregiverID:        uuid.New(),
		DayOfWeek:          dayOfWeek,
		StartTimeMinutes:   startMin,
		EndTimeMinutes:     endMin,
		EffectiveStartDate: effStart,
		EffectiveEndDate:   effEnd,
	}
	rule.ID = uuid.New()
	return rule
}

func TestResolveOccurrencesMondayRule(t *testing.T) {
	// Monday rule, 09:00-12:00, open-ended.
	rule := weeklyRule(1, 540, 720, date(2024, 1, 1), nil)
	monday := date(2024, 6, 10)

	occs := ResolveOccurrences([]model.ScheduleRule{rule}, monday, OccurrenceFilter{})
	require.Len(t, occs, 1)

	assert.Equal(t, rule.ID, occs[0].RuleID)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), occs[0].ScheduledStart)
	assert.Equal(t, time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC), occs[0].ScheduledEnd)
}

func TestResolveOccurrencesWrongWeekday(t *testing.T) {
	rule := weeklyRule(1, 540, 720, date(2024, 1, 1), nil)
	tuesday := date(2024, 6, 11)

	assert.Empty(t, ResolveOccurrences([]model.ScheduleRule{rule}, tuesday, OccurrenceFilter{}))
}

func TestResolveOccurrencesEffectiveRangeBoundaries(t *testing.T) {
	// Both boundary Mondays.
	effStart := date(2024, 6, 10)
	effEnd := date(2024, 6, 17)
	rule := weeklyRule(1, 540, 720, effStart, &effEnd)

	t.Run("before effective start", func(t *testing.T) {
		assert.Empty(t, ResolveOccurrences([]model.ScheduleRule{rule}, date(2024, 6, 3), OccurrenceFilter{}))
	})

	t.Run("on effective start day", func(t *testing.T) {
		assert.Len(t, ResolveOccurrences([]model.ScheduleRule{rule}, date(2024, 6, 10), OccurrenceFilter{}), 1)
	})

	t.Run("on effective end day", func(t *testing.T) {
		assert.Len(t, ResolveOccurrences([]model.ScheduleRule{rule}, date(2024, 6, 17), OccurrenceFilter{}), 1)
	})

	t.Run("after effective end", func(t *testing.T) {
		assert.Empty(t, ResolveOccurrences([]model.ScheduleRule{rule}, date(2024, 6, 24), OccurrenceFilter{}))
	})
}

func TestResolveOccurrencesFilters(t *testing.T) {
	a := weeklyRule(1, 540, 720, date(2024, 1, 1), nil)
	b := weeklyRule(1, 600, 660, date(2024, 1, 1), nil)
	monday := date(2024, 6, 10)

	byClient := ResolveOccurrences([]model.ScheduleRule{a, b}, monday, OccurrenceFilter{ClientID: a.ClientID})
	require.Len(t, byClient, 1)
	assert.Equal(t, a.ID, byClient[0].RuleID)

	byCaregiver := ResolveOccurrences([]model.ScheduleRule{a, b}, monday, OccurrenceFilter{CaregiverID: b.CaregiverID})
	require.Len(t, byCaregiver, 1)
	assert.Equal(t, b.ID, byCaregiver[0].RuleID)
}

func TestResolveOccurrencesSortedByStart(t *testing.T) {
	late := weeklyRule(1, 780, 840, date(2024, 1, 1), nil)
	early := weeklyRule(1, 540, 600, date(2024, 1, 1), nil)
	mid := weeklyRule(1, 600, 720, date(2024, 1, 1), nil)

	occs := ResolveOccurrences([]model.ScheduleRule{late, early, mid}, date(2024, 6, 10), OccurrenceFilter{})
	require.Len(t, occs, 3)

	assert.Equal(t, early.ID, occs[0].RuleID)
	assert.Equal(t, mid.ID, occs[1].RuleID)
	assert.Equal(t, late.ID, occs[2].RuleID)
}
