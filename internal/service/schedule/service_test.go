package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/service/directory"
	apperrors "github.com/carebridge/agency-api/pkg/errors"
)

type fakeRuleRepo struct {
	rules map[uuid.UUID]*model.ScheduleRule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[uuid.UUID]*model.ScheduleRule)}
}

func (r *fakeRuleRepo) Create(ctx context.Context, rule *model.ScheduleRule) error {
	rule.ID = uuid.New()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	r.rules[rule.ID] = rule
	return nil
}

func (r *fakeRuleRepo) Get(ctx context.Context, id uuid.UUID) (*model.ScheduleRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, apperrors.NewNotFound("schedule rule", nil)
	}
	return rule, nil
}

func (r *fakeRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.rules[id]; !ok {
		return apperrors.NewNotFound("schedule rule", nil)
	}
	delete(r.rules, id)
	return nil
}

func (r *fakeRuleRepo) List(ctx context.Context, filters *model.ScheduleRuleFilters) ([]*model.ScheduleRule, error) {
	var out []*model.ScheduleRule
	for _, rule := range r.rules {
		if filters != nil {
			if filters.ClientID != uuid.Nil && rule.ClientID != filters.ClientID {
				continue
			}
			if filters.CaregiverID != uuid.Nil && rule.CaregiverID != filters.CaregiverID {
				continue
			}
			if filters.DayOfWeek != nil && rule.DayOfWeek != *filters.DayOfWeek {
				continue
			}
		}
		out = append(out, rule)
	}
	return out, nil
}

type fakeVisitRepo struct {
	visits map[uuid.UUID]*model.Visit
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{visits: make(map[uuid.UUID]*model.Visit)}
}

func (r *fakeVisitRepo) Create(ctx context.Context, visit *model.Visit) error {
	visit.ID = uuid.New()
	r.visits[visit.ID] = visit
	return nil
}

func (r *fakeVisitRepo) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	visit, ok := r.visits[id]
	if !ok {
		return nil, apperrors.NewNotFound("visit", nil)
	}
	return visit, nil
}

func (r *fakeVisitRepo) Update(ctx context.Context, visit *model.Visit) error {
	r.visits[visit.ID] = visit
	return nil
}

func (r *fakeVisitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.visits, id)
	return nil
}

func (r *fakeVisitRepo) List(ctx context.Context, filters *model.VisitFilters) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, visit := range r.visits {
		out = append(out, visit)
	}
	return out, nil
}

func (r *fakeVisitRepo) ListOverlappingWindow(ctx context.Context, windowStart, windowEnd time.Time, filters *model.VisitFilters) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, visit := range r.visits {
		if visit.ScheduledStart == nil || visit.ScheduledEnd == nil {
			continue
		}
		if !visit.ScheduledStart.Before(windowEnd) || !visit.ScheduledEnd.After(windowStart) {
			continue
		}
		if filters != nil {
			if filters.ClientID != uuid.Nil && visit.ClientID != filters.ClientID {
				continue
			}
			if filters.CaregiverID != uuid.Nil && visit.CaregiverID != filters.CaregiverID {
				continue
			}
		}
		out = append(out, visit)
	}
	return out, nil
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func (r *fakeClientRepo) Create(ctx context.Context, client *model.Client) error { return nil }
func (r *fakeClientRepo) Update(ctx context.Context, client *model.Client) error { return nil }
func (r *fakeClientRepo) Deactivate(ctx context.Context, id uuid.UUID) error     { return nil }
func (r *fakeClientRepo) List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error) {
	return nil, nil
}

func (r *fakeClientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, apperrors.NewNotFound("client", nil)
	}
	return client, nil
}

type fakeCaregiverRepo struct {
	caregivers map[uuid.UUID]*model.Caregiver
}

func (r *fakeCaregiverRepo) Create(ctx context.Context, caregiver *model.Caregiver) error { return nil }
func (r *fakeCaregiverRepo) Update(ctx context.Context, caregiver *model.Caregiver) error { return nil }
func (r *fakeCaregiverRepo) SetPinHash(ctx context.Context, id uuid.UUID, pinHash string) error {
	return nil
}
func (r *fakeCaregiverRepo) List(ctx context.Context, filters *model.CaregiverFilters) ([]*model.Caregiver, error) {
	return nil, nil
}

func (r *fakeCaregiverRepo) Get(ctx context.Context, id uuid.UUID) (*model.Caregiver, error) {
	caregiver, ok := r.caregivers[id]
	if !ok {
		return nil, apperrors.NewNotFound("caregiver", nil)
	}
	return caregiver, nil
}

type fixture struct {
	svc        *Service
	rules      *fakeRuleRepo
	visits     *fakeVisitRepo
	clients    *fakeClientRepo
	caregivers *fakeCaregiverRepo
}

func newFixture() *fixture {
	rules := newFakeRuleRepo()
	visits := newFakeVisitRepo()
	clients := &fakeClientRepo{clients: make(map[uuid.UUID]*model.Client)}
	caregivers := &fakeCaregiverRepo{caregivers: make(map[uuid.UUID]*model.Caregiver)}
	dir := directory.NewService(clients, caregivers, time.Minute)

	return &fixture{
		svc:        NewService(rules, visits, dir, nil, nil, 6, 22),
		rules:      rules,
		visits:     visits,
		clients:    clients,
		caregivers: caregivers,
	}
}

func (f *fixture) addClient(first, last string) uuid.UUID {
	client := &model.Client{FirstName: first, LastName: last}
	client.ID = uuid.New()
	f.clients.clients[client.ID] = client
	return client.ID
}

func (f *fixture) addCaregiver(first, last string) uuid.UUID {
	caregiver := &model.Caregiver{FirstName: first, LastName: last}
	caregiver.ID = uuid.New()
	f.caregivers.caregivers[caregiver.ID] = caregiver
	return caregiver.ID
}

func TestCreateRuleRejectsInvertedTimes(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateRule(context.Background(), &model.CreateScheduleRuleRequest{
		ClientID:           uuid.New(),
		CaregiverID:        uuid.New(),
		DayOfWeek:          1,
		StartTime:          "14:00",
		EndTime:            "13:00",
		EffectiveStartDate: "2024-06-01",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "end_time must be after start_time")
	assert.Empty(t, f.rules.rules)
}

func TestCreateRuleValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	base := func() *model.CreateScheduleRuleRequest {
		return &model.CreateScheduleRuleRequest{
			ClientID:           uuid.New(),
			CaregiverID:        uuid.New(),
			DayOfWeek:          1,
			StartTime:          "09:00",
			EndTime:            "12:00",
			EffectiveStartDate: "2024-06-01",
		}
	}

	req := base()
	req.DayOfWeek = 7
	_, err := f.svc.CreateRule(ctx, req)
	assert.True(t, apperrors.IsValidation(err))

	req = base()
	req.StartTime = "25:00"
	_, err = f.svc.CreateRule(ctx, req)
	assert.True(t, apperrors.IsValidation(err))

	req = base()
	end := "2024-05-01"
	req.EffectiveEndDate = &end
	_, err = f.svc.CreateRule(ctx, req)
	assert.True(t, apperrors.IsValidation(err))

	req = base()
	rule, err := f.svc.CreateRule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 540, rule.StartTimeMinutes)
	assert.Equal(t, 720, rule.EndTimeMinutes)
}

func TestDayViewEmpty(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.DayView(context.Background(), &model.DayViewRequest{
		WeekStart: "2024-06-10",
		DayIndex:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-12", resp.Date)
	assert.Empty(t, resp.Events)
	assert.Empty(t, resp.Columns)
	assert.Equal(t, 6, resp.WindowStart.Hour())
	assert.Equal(t, 22, resp.WindowEnd.Hour())
}

func TestDayViewRequestValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.DayView(ctx, &model.DayViewRequest{WeekStart: "2024-06-10", DayIndex: 7})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.DayView(ctx, &model.DayViewRequest{WeekStart: "June 10", DayIndex: 0})
	assert.True(t, apperrors.IsValidation(err))
}

func TestDayViewMaterializesRuleOccurrence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	clientID := f.addClient("Edith", "Moran")
	caregiverID := f.addCaregiver("Rosa", "Delgado")

	_, err := f.svc.CreateRule(ctx, &model.CreateScheduleRuleRequest{
		ClientID:           clientID,
		CaregiverID:        caregiverID,
		DayOfWeek:          1,
		StartTime:          "09:00",
		EndTime:            "12:00",
		EffectiveStartDate: "2024-06-01",
	})
	require.NoError(t, err)

	resp, err := f.svc.DayView(ctx, &model.DayViewRequest{
		WeekStart: "2024-06-10",
		DayIndex:  0,
	})
	require.NoError(t, err)
	require.Len(t, resp.Events, 1)

	ev := resp.Events[0]
	assert.Equal(t, model.EventSourceRule, ev.Source)
	assert.Equal(t, "Edith Moran", ev.ClientName)
	assert.Equal(t, "Rosa Delgado", ev.CaregiverName)
	assert.Equal(t, 9, ev.ScheduledStart.Hour())
	assert.Equal(t, 12, ev.ScheduledEnd.Hour())
	// Window opens at 06:00, so 09:00 sits 180 minutes in.
	assert.Equal(t, 180, ev.Render.StartOffset)
	assert.Equal(t, 360, ev.Render.EndOffset)
	assert.Equal(t, 0, ev.Render.Lane)
	assert.Equal(t, 1, ev.Render.LaneCount)

	require.Len(t, resp.Columns, 1)
	assert.Equal(t, caregiverID, resp.Columns[0].CaregiverID)
	assert.Equal(t, 1, resp.Columns[0].LaneCount)
}

func TestDayViewPacksOverlapAcrossSources(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	clientID := f.addClient("Edith", "Moran")
	caregiverID := f.addCaregiver("Rosa", "Delgado")
	otherCaregiverID := f.addCaregiver("Sam", "Okafor")

	_, err := f.svc.CreateRule(ctx, &model.CreateScheduleRuleRequest{
		ClientID:           clientID,
		CaregiverID:        caregiverID,
		DayOfWeek:          1,
		StartTime:          "09:00",
		EndTime:            "12:00",
		EffectiveStartDate: "2024-06-01",
	})
	require.NoError(t, err)

	// Visit overlapping the rule occurrence for the same caregiver.
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	start := day.Add(10 * time.Hour)
	end := day.Add(13 * time.Hour)
	require.NoError(t, f.visits.Create(ctx, &model.Visit{
		ClientID:       clientID,
		CaregiverID:    caregiverID,
		ScheduledStart: &start,
		ScheduledEnd:   &end,
		ServiceCode:    "HHA",
	}))

	// Second caregiver with a lone visit keeps an independent column.
	otherStart := day.Add(9 * time.Hour)
	otherEnd := day.Add(10 * time.Hour)
	require.NoError(t, f.visits.Create(ctx, &model.Visit{
		ClientID:       clientID,
		CaregiverID:    otherCaregiverID,
		ScheduledStart: &otherStart,
		ScheduledEnd:   &otherEnd,
	}))

	resp, err := f.svc.DayView(ctx, &model.DayViewRequest{
		WeekStart: "2024-06-10",
		DayIndex:  0,
	})
	require.NoError(t, err)
	require.Len(t, resp.Events, 3)
	require.Len(t, resp.Columns, 2)

	byCaregiver := make(map[uuid.UUID][]model.DayViewEvent)
	for _, ev := range resp.Events {
		byCaregiver[ev.CaregiverID] = append(byCaregiver[ev.CaregiverID], ev)
	}

	overlapping := byCaregiver[caregiverID]
	require.Len(t, overlapping, 2)
	assert.Equal(t, 2, overlapping[0].Render.LaneCount)
	assert.Equal(t, 2, overlapping[1].Render.LaneCount)
	assert.NotEqual(t, overlapping[0].Render.Lane, overlapping[1].Render.Lane)

	lone := byCaregiver[otherCaregiverID]
	require.Len(t, lone, 1)
	assert.Equal(t, 0, lone[0].Render.Lane)
	assert.Equal(t, 1, lone[0].Render.LaneCount)

	for _, col := range resp.Columns {
		switch col.CaregiverID {
		case caregiverID:
			assert.Equal(t, 2, col.LaneCount)
		case otherCaregiverID:
			assert.Equal(t, 1, col.LaneCount)
		}
	}
}

func TestDayViewDropsVisitsOutsideWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	clientID := f.addClient("Edith", "Moran")
	caregiverID := f.addCaregiver("Rosa", "Delgado")

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	start := day.Add(2 * time.Hour)
	end := day.Add(5 * time.Hour)
	require.NoError(t, f.visits.Create(ctx, &model.Visit{
		ClientID:       clientID,
		CaregiverID:    caregiverID,
		ScheduledStart: &start,
		ScheduledEnd:   &end,
	}))

	resp, err := f.svc.DayView(ctx, &model.DayViewRequest{
		WeekStart: "2024-06-10",
		DayIndex:  0,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Events)
	assert.Empty(t, resp.Columns)
}

func TestDayViewSkipsVisitsWithoutScheduledBounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	clientID := f.addClient("Edith", "Moran")
	caregiverID := f.addCaregiver("Rosa", "Delgado")

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	start := day.Add(9 * time.Hour)
	require.NoError(t, f.visits.Create(ctx, &model.Visit{
		ClientID:       clientID,
		CaregiverID:    caregiverID,
		ScheduledStart: &start,
	}))

	resp, err := f.svc.DayView(ctx, &model.DayViewRequest{
		WeekStart: "2024-06-10",
		DayIndex:  0,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Events)
}
