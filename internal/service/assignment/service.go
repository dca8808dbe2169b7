package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/repository"
	"github.com/carebridge/agency-api/internal/service/event"
	apperrors "github.com/carebridge/agency-api/pkg/errors"
	"github.com/carebridge/agency-api/pkg/metrics"
)

// Notifier is told about primary handoffs so the previous caregiver's
// coordinator can be informed. Failures are logged, never surfaced; a missed
// email must not roll back an assignment change.
type Notifier interface {
	NotifyPrimaryHandoff(ctx context.Context, ended, promoted *model.Assignment) error
}

// Service enforces the assignment invariant: a client has at most one
// active primary assignment at any moment. All invariant-affecting writes go
// through single-transaction repository operations.
type Service struct {
	repo     repository.AssignmentRepository
	events   *event.Service
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewService(repo repository.AssignmentRepository, events *event.Service, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		events:   events,
		notifier: notifier,
		metrics:  m,
	}
}

// CreateAssignment validates dates before any transaction is opened, then
// inserts the assignment, ending the client's current primary at the new
// start date when the new assignment claims the primary slot.
//
// End dates are not required to be after start dates; callers must not
// assume ordering.
func (s *Service) CreateAssignment(ctx context.Context, req *model.CreateAssignmentRequest) (*model.Assignment, error) {
	startDate, err := model.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.NewValidation("start_date must be a valid date")
	}

	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := model.ParseDate(*req.EndDate)
		if err != nil {
			return nil, apperrors.NewValidation("end_date must be a valid date")
		}
		endDate = &parsed
	}

	assignment := &model.Assignment{
		ClientID:    req.ClientID,
		CaregiverID: req.CaregiverID,
		StartDate:   startDate,
		EndDate:     endDate,
		IsPrimary:   req.IsPrimary,
		Notes:       req.Notes,
	}

	ended, err := s.repo.CreateWithPrimaryHandoff(ctx, assignment)
	if err != nil {
		s.countTxFailure(err)
		return nil, err
	}

	s.emit(ctx, model.EventAssignmentCreated, assignment)
	if ended != nil {
		s.countHandoff()
		s.emit(ctx, model.EventPrimaryHandoff, map[string]interface{}{
			"client_id":   assignment.ClientID,
			"ended_id":    ended.ID,
			"promoted_id": assignment.ID,
			"end_date":    ended.EndDate,
		})
		s.notifyHandoff(ctx, ended, assignment)
	}

	return assignment, nil
}

func (s *Service) GetAssignment(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListAssignments(ctx context.Context, filters *model.AssignmentFilters) ([]*model.Assignment, error) {
	return s.repo.List(ctx, filters)
}

// GetActivePrimary returns the client's current active primary assignment.
func (s *Service) GetActivePrimary(ctx context.Context, clientID uuid.UUID) (*model.Assignment, error) {
	return s.repo.GetActivePrimary(ctx, clientID)
}

// PatchAssignment applies partial changes. An end_date of explicit JSON null
// re-opens an ended assignment; an omitted end_date leaves it untouched.
// Setting is_primary true ends any other active primary for the client at
// the current instant, in the same transaction as the patch.
func (s *Service) PatchAssignment(ctx context.Context, id uuid.UUID, req *model.PatchAssignmentRequest) (*model.Assignment, error) {
	assignment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.EndDate.Set {
		if req.EndDate.Valid {
			endDate := req.EndDate.Value
			assignment.EndDate = &endDate
		} else {
			assignment.EndDate = nil
		}
	}
	if req.IsPrimary != nil {
		assignment.IsPrimary = *req.IsPrimary
	}
	if req.Notes != nil {
		assignment.Notes = *req.Notes
	}

	// Promotion is a point administrative action, not backdated: the
	// displaced primary ends now.
	promote := req.IsPrimary != nil && *req.IsPrimary
	ended, err := s.repo.Patch(ctx, assignment, promote, time.Now())
	if err != nil {
		s.countTxFailure(err)
		return nil, err
	}

	s.emit(ctx, model.EventAssignmentPatched, assignment)
	if ended != nil {
		s.countHandoff()
		s.emit(ctx, model.EventPrimaryHandoff, map[string]interface{}{
			"client_id":   assignment.ClientID,
			"ended_id":    ended.ID,
			"promoted_id": assignment.ID,
			"end_date":    ended.EndDate,
		})
		s.notifyHandoff(ctx, ended, assignment)
	}

	return assignment, nil
}

// DeleteAssignment removes the row unconditionally; administrative removal
// vacates the primary slot without repair.
func (s *Service) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, model.EventAssignmentDeleted, map[string]interface{}{"id": id})
	return nil
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to emit assignment event")
	}
}

func (s *Service) countHandoff() {
	if s.metrics != nil {
		s.metrics.PrimaryHandoffs.Inc()
	}
}

func (s *Service) countTxFailure(err error) {
	if s.metrics == nil {
		return
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrTransaction {
		s.metrics.AssignmentTxFailures.Inc()
	}
}

func (s *Service) notifyHandoff(ctx context.Context, ended, promoted *model.Assignment) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyPrimaryHandoff(ctx, ended, promoted); err != nil {
		log.Error().Err(err).
			Str("client_id", promoted.ClientID.String()).
			Msg("failed to send primary handoff notification")
	}
}
