package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/repository"
	sched "github.com/carebridge/agency-api/internal/schedule"
	"github.com/carebridge/agency-api/internal/service/directory"
	"github.com/carebridge/agency-api/internal/service/event"
	apperrors "github.com/carebridge/agency-api/pkg/errors"
	"github.com/carebridge/agency-api/pkg/metrics"
)

// Service owns schedule rules and assembles the day view: recurring rules
// resolved into occurrences, scheduled visits queried for the window, both
// packed into display lanes per caregiver.
type Service struct {
	rules           repository.ScheduleRuleRepository
	visits          repository.VisitRepository
	directory       *directory.Service
	events          *event.Service
	metrics         *metrics.Metrics
	windowStartHour int
	windowEndHour   int
}

func NewService(rules repository.ScheduleRuleRepository, visits repository.VisitRepository, dir *directory.Service, events *event.Service, m *metrics.Metrics, windowStartHour, windowEndHour int) *Service {
	if windowEndHour <= windowStartHour {
		windowStartHour = sched.DefaultWindowStartHour
		windowEndHour = sched.DefaultWindowEndHour
	}
	return &Service{
		rules:           rules,
		visits:          visits,
		directory:       dir,
		events:          events,
		metrics:         m,
		windowStartHour: windowStartHour,
		windowEndHour:   windowEndHour,
	}
}

// CreateRule validates the weekly slot before touching storage: minutes in
// range and ordered, effective range ordered date-only.
func (s *Service) CreateRule(ctx context.Context, req *model.CreateScheduleRuleRequest) (*model.ScheduleRule, error) {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return nil, apperrors.NewValidation("day_of_week must be between 0 and 6")
	}

	startMinutes, err := sched.ParseClock(req.StartTime)
	if err != nil {
		return nil, apperrors.NewValidation("start_time must be a valid HH:MM time")
	}
	endMinutes, err := sched.ParseClock(req.EndTime)
	if err != nil {
		return nil, apperrors.NewValidation("end_time must be a valid HH:MM time")
	}
	if startMinutes >= endMinutes {
		return nil, apperrors.NewValidation("end_time must be after start_time")
	}

	effStart, err := model.ParseDate(req.EffectiveStartDate)
	if err != nil {
		return nil, apperrors.NewValidation("effective_start_date must be a valid date")
	}

	var effEnd *time.Time
	if req.EffectiveEndDate != nil {
		parsed, err := model.ParseDate(*req.EffectiveEndDate)
		if err != nil {
			return nil, apperrors.NewValidation("effective_end_date must be a valid date")
		}
		if sched.StartOfDay(parsed).Before(sched.StartOfDay(effStart)) {
			return nil, apperrors.NewValidation("effective_end_date must not be before effective_start_date")
		}
		effEnd = &parsed
	}

	rule := &model.ScheduleRule{
		ClientID:           req.ClientID,
		CaregiverID:        req.CaregiverID,
		DayOfWeek:          req.DayOfWeek,
		StartTimeMinutes:   startMinutes,
		EndTimeMinutes:     endMinutes,
		EffectiveStartDate: effStart,
		EffectiveEndDate:   effEnd,
		ServiceCode:        req.ServiceCode,
		Notes:              req.Notes,
	}

	// Overlapping rules for the same caregiver are allowed; intentional
	// double-booking (such as a handoff overlap) surfaces through lane
	// packing on the day view rather than being rejected here.
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventScheduleRuleCreated, rule)
	return rule, nil
}

func (s *Service) GetRule(ctx context.Context, id uuid.UUID) (*model.ScheduleRule, error) {
	return s.rules.Get(ctx, id)
}

func (s *Service) ListRules(ctx context.Context, filters *model.ScheduleRuleFilters) ([]*model.ScheduleRule, error) {
	return s.rules.List(ctx, filters)
}

func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, model.EventScheduleRuleDeleted, map[string]interface{}{"id": id})
	return nil
}

// DayView builds the full day view for weekStart + dayIndex days. Any
// storage failure aborts the whole response: lane assignment is only
// meaningful over the complete event set, and a truncated set would suggest
// fewer conflicts than exist.
func (s *Service) DayView(ctx context.Context, req *model.DayViewRequest) (*model.DayViewResponse, error) {
	if req.DayIndex < 0 || req.DayIndex > 6 {
		return nil, apperrors.NewValidation("day_index must be between 0 and 6")
	}
	weekStart, err := model.ParseDate(req.WeekStart)
	if err != nil {
		return nil, apperrors.NewValidation("week_start must be a valid date")
	}

	targetDate := sched.StartOfDay(weekStart).AddDate(0, 0, req.DayIndex)
	windowStart, windowEnd := sched.DayWindow(targetDate, s.windowStartHour, s.windowEndHour)

	ruleFilters := &model.ScheduleRuleFilters{
		ClientID:    req.ClientID,
		CaregiverID: req.CaregiverID,
	}
	rules, err := s.rules.List(ctx, ruleFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule rules: %w", err)
	}

	occurrences := sched.ResolveOccurrences(derefRules(rules), targetDate, sched.OccurrenceFilter{
		ClientID:    req.ClientID,
		CaregiverID: req.CaregiverID,
	})

	visitFilters := &model.VisitFilters{
		ClientID:    req.ClientID,
		CaregiverID: req.CaregiverID,
	}
	visits, err := s.visits.ListOverlappingWindow(ctx, windowStart, windowEnd, visitFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to load visits: %w", err)
	}

	events := make([]model.DayViewEvent, 0, len(occurrences)+len(visits))
	for _, occ := range occurrences {
		events = append(events, model.DayViewEvent{
			ID:             occ.RuleID,
			Source:         model.EventSourceRule,
			ClientID:       occ.ClientID,
			CaregiverID:    occ.CaregiverID,
			ScheduledStart: occ.ScheduledStart,
			ScheduledEnd:   occ.ScheduledEnd,
			ServiceCode:    occ.ServiceCode,
			Notes:          occ.Notes,
		})
	}
	for _, visit := range visits {
		var serviceCode *string
		if visit.ServiceCode != "" {
			code := visit.ServiceCode
			serviceCode = &code
		}
		var notes *string
		if visit.Notes != "" {
			n := visit.Notes
			notes = &n
		}
		events = append(events, model.DayViewEvent{
			ID:             visit.ID,
			Source:         model.EventSourceVisit,
			ClientID:       visit.ClientID,
			CaregiverID:    visit.CaregiverID,
			ScheduledStart: *visit.ScheduledStart,
			ScheduledEnd:   *visit.ScheduledEnd,
			ServiceCode:    serviceCode,
			Notes:          notes,
		})
	}

	placed, columns, err := s.placeEvents(ctx, events, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.DayViewRequests.Inc()
		s.metrics.DayViewEvents.Observe(float64(len(placed)))
		for _, col := range columns {
			s.metrics.DayViewLanes.Observe(float64(col.LaneCount))
		}
	}

	return &model.DayViewResponse{
		Date:        targetDate.Format(model.DateOnly),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Events:      placed,
		Columns:     columns,
	}, nil
}

// placeEvents clamps events into the window and packs lanes per caregiver
// column. Events that fall entirely outside the window are dropped.
func (s *Service) placeEvents(ctx context.Context, events []model.DayViewEvent, windowStart, windowEnd time.Time) ([]model.DayViewEvent, []model.DayViewColumn, error) {
	type placedEvent struct {
		event   model.DayViewEvent
		clamped sched.ClampedInterval
	}

	byCaregiver := make(map[uuid.UUID][]placedEvent)
	caregiverOrder := make([]uuid.UUID, 0)
	for _, ev := range events {
		clamped, ok := sched.ClampInterval(ev.ScheduledStart, ev.ScheduledEnd, windowStart, windowEnd)
		if !ok {
			continue
		}
		if _, seen := byCaregiver[ev.CaregiverID]; !seen {
			caregiverOrder = append(caregiverOrder, ev.CaregiverID)
		}
		byCaregiver[ev.CaregiverID] = append(byCaregiver[ev.CaregiverID], placedEvent{event: ev, clamped: clamped})
	}

	placed := make([]model.DayViewEvent, 0, len(events))
	columns := make([]model.DayViewColumn, 0, len(caregiverOrder))

	for _, caregiverID := range caregiverOrder {
		group := byCaregiver[caregiverID]

		inputs := make([]sched.LaneInput, len(group))
		for i, pe := range group {
			inputs[i] = sched.LaneInput{
				ID:          pe.event.ID,
				StartOffset: pe.clamped.StartOffset,
				EndOffset:   pe.clamped.EndOffset,
			}
		}
		placements := sched.PackLanes(inputs)

		caregiverName, err := s.directory.CaregiverName(ctx, caregiverID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve caregiver name: %w", err)
		}

		laneCount := 0
		for i, pe := range group {
			ev := pe.event
			ev.CaregiverName = caregiverName
			clientName, err := s.directory.ClientName(ctx, ev.ClientID)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to resolve client name: %w", err)
			}
			ev.ClientName = clientName
			ev.Render = model.RenderBlock{
				StartOffset: pe.clamped.StartOffset,
				EndOffset:   pe.clamped.EndOffset,
				Lane:        placements[i].Lane,
				LaneCount:   placements[i].LaneCount,
			}
			laneCount = placements[i].LaneCount
			placed = append(placed, ev)
		}

		columns = append(columns, model.DayViewColumn{
			CaregiverID:   caregiverID,
			CaregiverName: caregiverName,
			LaneCount:     laneCount,
		})
	}

	return placed, columns, nil
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to emit schedule event")
	}
}

func derefRules(rules []*model.ScheduleRule) []model.ScheduleRule {
	out := make([]model.ScheduleRule, len(rules))
	for i, r := range rules {
		out[i] = *r
	}
	return out
}
