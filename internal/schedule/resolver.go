package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
)

// Occurrence is a concrete dated instance materialized from a recurring rule
// for one calendar day.
type Occurrence struct {
	RuleID         uuid.UUID
	ClientID       uuid.UUID
	CaregiverID    uuid.UUID
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ServiceCode    *string
	Notes          *string

	startMinutes int
}

// OccurrenceFilter narrows resolution to one client and/or caregiver. Zero
// UUIDs match everything.
type OccurrenceFilter struct {
	ClientID    uuid.UUID
	CaregiverID uuid.UUID
}

// ResolveOccurrences materializes the occurrences of rules active on
// targetDate. A rule applies when its weekday matches (0 = Sunday), its
// effective range covers the day, and the optional filters match. The result
// is ordered by start minutes ascending with rule id as the tie-break, so
// lane packing downstream receives sorted input.
func ResolveOccurrences(rules []model.ScheduleRule, targetDate time.Time, filter OccurrenceFilter) []Occurrence {
	dayStart := StartOfDay(targetDate)
	dayEnd := EndOfDay(targetDate)
	weekday := int(targetDate.Weekday())

	occurrences := make([]Occurrence, 0, len(rules))
	for _, rule := range rules {
		if rule.DayOfWeek != weekday {
			continue
		}
		// Effective dates compare date-only; any time-of-day component is
		// ignored.
		if StartOfDay(rule.EffectiveStartDate).After(dayEnd) {
			continue
		}
		if rule.EffectiveEndDate != nil && StartOfDay(*rule.EffectiveEndDate).Before(dayStart) {
			continue
		}
		if filter.ClientID != uuid.Nil && rule.ClientID != filter.ClientID {
			continue
		}
		if filter.CaregiverID != uuid.Nil && rule.CaregiverID != filter.CaregiverID {
			continue
		}

		occurrences = append(occurrences, Occurrence{
			RuleID:         rule.ID,
			ClientID:       rule.ClientID,
			CaregiverID:    rule.CaregiverID,
			ScheduledStart: dayStart.Add(time.Duration(rule.StartTimeMinutes) * time.Minute),
			ScheduledEnd:   dayStart.Add(time.Duration(rule.EndTimeMinutes) * time.Minute),
			ServiceCode:    rule.ServiceCode,
			Notes:          rule.Notes,
			startMinutes:   rule.StartTimeMinutes,
		})
	}

	sort.SliceStable(occurrences, func(a, b int) bool {
		if occurrences[a].startMinutes != occurrences[b].startMinutes {
			return occurrences[a].startMinutes < occurrences[b].startMinutes
		}
		return occurrences[a].RuleID.String() < occurrences[b].RuleID.String()
	})

	return occurrences
}
