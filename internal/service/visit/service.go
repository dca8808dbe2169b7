package visit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/repository"
	apperrors "github.com/carebridge/agency-api/pkg/errors"
)

// Service is the read path feeding the day view, plus plain visit-log CRUD.
// It performs no mutation of scheduling state and holds no invariant beyond
// never returning rows outside a requested window.
type Service struct {
	repo repository.VisitRepository
}

func NewService(repo repository.VisitRepository) *Service {
	return &Service{repo: repo}
}

func parseOptionalTimestamp(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := model.ParseDate(*value)
	if err != nil {
		return nil, apperrors.NewValidation(field + " must be a valid timestamp")
	}
	return &parsed, nil
}

func (s *Service) CreateVisit(ctx context.Context, req *model.CreateVisitRequest) (*model.Visit, error) {
	scheduledStart, err := parseOptionalTimestamp("scheduled_start", req.ScheduledStart)
	if err != nil {
		return nil, err
	}
	scheduledEnd, err := parseOptionalTimestamp("scheduled_end", req.ScheduledEnd)
	if err != nil {
		return nil, err
	}
	actualStart, err := parseOptionalTimestamp("actual_start", req.ActualStart)
	if err != nil {
		return nil, err
	}
	actualEnd, err := parseOptionalTimestamp("actual_end", req.ActualEnd)
	if err != nil {
		return nil, err
	}

	visit := &model.Visit{
		ClientID:       req.ClientID,
		CaregiverID:    req.CaregiverID,
		ScheduledStart: scheduledStart,
		ScheduledEnd:   scheduledEnd,
		ActualStart:    actualStart,
		ActualEnd:      actualEnd,
		ServiceCode:    req.ServiceCode,
		HasIncident:    req.HasIncident,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateVisit(ctx context.Context, id uuid.UUID, req *model.UpdateVisitRequest) (*model.Visit, error) {
	visit, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	actualStart, err := parseOptionalTimestamp("actual_start", req.ActualStart)
	if err != nil {
		return nil, err
	}
	if actualStart != nil {
		visit.ActualStart = actualStart
	}
	actualEnd, err := parseOptionalTimestamp("actual_end", req.ActualEnd)
	if err != nil {
		return nil, err
	}
	if actualEnd != nil {
		visit.ActualEnd = actualEnd
	}
	if req.ServiceCode != nil {
		visit.ServiceCode = *req.ServiceCode
	}
	if req.HasIncident != nil {
		visit.HasIncident = *req.HasIncident
	}
	if req.Notes != nil {
		visit.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *Service) DeleteVisit(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListVisits(ctx context.Context, filters *model.VisitFilters) ([]*model.Visit, error) {
	return s.repo.List(ctx, filters)
}

// ListVisitsForWindow returns visits whose scheduled interval intersects
// [windowStart, windowEnd), ordered by scheduled start.
func (s *Service) ListVisitsForWindow(ctx context.Context, windowStart, windowEnd time.Time, filters *model.VisitFilters) ([]*model.Visit, error) {
	return s.repo.ListOverlappingWindow(ctx, windowStart, windowEnd, filters)
}
