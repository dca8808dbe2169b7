package assignment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/agency-api/internal/model"
	apperrors "github.com/carebridge/agency-api/pkg/errors"
)

type fakeAssignmentRepo struct {
	assignments map[uuid.UUID]*model.Assignment
	createCalls int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[uuid.UUID]*model.Assignment)}
}

func (r *fakeAssignmentRepo) activePrimary(clientID, exclude uuid.UUID) *model.Assignment {
	for _, a := range r.assignments {
		if a.ClientID == clientID && a.ID != exclude && a.IsActivePrimary() {
			return a
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) CreateWithPrimaryHandoff(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error) {
	r.createCalls++
	assignment.ID = uuid.New()
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = assignment.CreatedAt

	var ended *model.Assignment
	if assignment.IsActivePrimary() {
		if prev := r.activePrimary(assignment.ClientID, assignment.ID); prev != nil {
			endDate := assignment.StartDate
			prev.EndDate = &endDate
			ended = prev
		}
	}

	r.assignments[assignment.ID] = assignment
	return ended, nil
}

func (r *fakeAssignmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, apperrors.NewNotFound("assignment", nil)
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssignmentRepo) Patch(ctx context.Context, assignment *model.Assignment, promote bool, promotedAt time.Time) (*model.Assignment, error) {
	if _, ok := r.assignments[assignment.ID]; !ok {
		return nil, apperrors.NewNotFound("assignment", nil)
	}

	var ended *model.Assignment
	if promote && assignment.EndDate == nil {
		if prev := r.activePrimary(assignment.ClientID, assignment.ID); prev != nil {
			endDate := promotedAt
			prev.EndDate = &endDate
			ended = prev
		}
	}

	copied := *assignment
	r.assignments[assignment.ID] = &copied
	return ended, nil
}

func (r *fakeAssignmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.assignments[id]; !ok {
		return apperrors.NewNotFound("assignment", nil)
	}
	delete(r.assignments, id)
	return nil
}

func (r *fakeAssignmentRepo) List(ctx context.Context, filters *model.AssignmentFilters) ([]*model.Assignment, error) {
	var out []*model.Assignment
	for _, a := range r.assignments {
		if filters != nil {
			if filters.ClientID != uuid.Nil && a.ClientID != filters.ClientID {
				continue
			}
			if filters.CaregiverID != uuid.Nil && a.CaregiverID != filters.CaregiverID {
				continue
			}
			if filters.ActiveOnly && a.EndDate != nil {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAssignmentRepo) GetActivePrimary(ctx context.Context, clientID uuid.UUID) (*model.Assignment, error) {
	if a := r.activePrimary(clientID, uuid.Nil); a != nil {
		return a, nil
	}
	return nil, apperrors.NewNotFound("active primary assignment", nil)
}

type fakeNotifier struct {
	handoffs []struct{ ended, promoted uuid.UUID }
}

func (n *fakeNotifier) NotifyPrimaryHandoff(ctx context.Context, ended, promoted *model.Assignment) error {
	n.handoffs = append(n.handoffs, struct{ ended, promoted uuid.UUID }{ended.ID, promoted.ID})
	return nil
}

func TestCreateAssignmentEndsPreviousPrimary(t *testing.T) {
	repo := newFakeAssignmentRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, nil, notifier, nil)
	ctx := context.Background()

	clientID := uuid.New()

	a1, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    clientID,
		CaregiverID: uuid.New(),
		StartDate:   "2024-01-15",
		IsPrimary:   true,
	})
	require.NoError(t, err)
	assert.True(t, a1.IsActivePrimary())

	a2, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    clientID,
		CaregiverID: uuid.New(),
		StartDate:   "2024-03-01",
		IsPrimary:   true,
	})
	require.NoError(t, err)

	previous, err := repo.Get(ctx, a1.ID)
	require.NoError(t, err)
	require.NotNil(t, previous.EndDate)
	assert.Equal(t, "2024-03-01", previous.EndDate.Format(model.DateOnly))
	assert.False(t, previous.IsActivePrimary())

	active, err := svc.GetActivePrimary(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, a2.ID, active.ID)

	require.Len(t, notifier.handoffs, 1)
	assert.Equal(t, a1.ID, notifier.handoffs[0].ended)
	assert.Equal(t, a2.ID, notifier.handoffs[0].promoted)
}

func TestCreateAssignmentNonPrimaryLeavesPrimaryAlone(t *testing.T) {
	repo := newFakeAssignmentRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	clientID := uuid.New()

	a1, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    clientID,
		CaregiverID: uuid.New(),
		StartDate:   "2024-01-15",
		IsPrimary:   true,
	})
	require.NoError(t, err)

	_, err = svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    clientID,
		CaregiverID: uuid.New(),
		StartDate:   "2024-02-01",
		IsPrimary:   false,
	})
	require.NoError(t, err)

	active, err := svc.GetActivePrimary(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, active.ID)
}

func TestCreateAssignmentRejectsMalformedDatesBeforeStorage(t *testing.T) {
	repo := newFakeAssignmentRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    uuid.New(),
		CaregiverID: uuid.New(),
		StartDate:   "not-a-date",
		IsPrimary:   true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, repo.createCalls)

	badEnd := "2024-13-45"
	_, err = svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    uuid.New(),
		CaregiverID: uuid.New(),
		StartDate:   "2024-01-15",
		EndDate:     &badEnd,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateAssignmentAllowsEndBeforeStart(t *testing.T) {
	repo := newFakeAssignmentRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	end := "2024-01-01"
	a, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    uuid.New(),
		CaregiverID: uuid.New(),
		StartDate:   "2024-06-01",
		EndDate:     &end,
	})
	require.NoError(t, err)
	require.NotNil(t, a.EndDate)
	assert.True(t, a.EndDate.Before(a.StartDate))
}

func TestPatchAssignmentExplicitNullReopens(t *testing.T) {
	repo := newFakeAssignmentRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	end := "2024-03-01"
	a, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    uuid.New(),
		CaregiverID: uuid.New(),
		StartDate:   "2024-01-15",
		EndDate:     &end,
		IsPrimary:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, a.EndDate)

	var req model.PatchAssignmentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"end_date": null}`), &req))
	require.True(t, req.EndDate.Set)
	require.False(t, req.EndDate.Valid)

	patched, err := svc.PatchAssignment(ctx, a.ID, &req)
	require.NoError(t, err)
	assert.Nil(t, patched.EndDate)
	assert.True(t, patched.IsActivePrimary())
}

func TestPatchAssignmentOmittedEndDateUntouched(t *testing.T) {
	repo := newFakeAssignmentRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	end := "2024-03-01"
	a, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    uuid.New(),
		CaregiverID: uuid.New(),
		StartDate:   "2024-01-15",
		EndDate:     &end,
	})
	require.NoError(t, err)

	var req model.PatchAssignmentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"notes": "updated"}`), &req))
	require.False(t, req.EndDate.Set)

	patched, err := svc.PatchAssignment(ctx, a.ID, &req)
	require.NoError(t, err)
	require.NotNil(t, patched.EndDate)
	assert.Equal(t, "2024-03-01", patched.EndDate.Format(model.DateOnly))
	assert.Equal(t, "updated", patched.Notes)
}

func TestPatchAssignmentPromotionEndsOtherPrimary(t *testing.T) {
	repo := newFakeAssignmentRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, nil, notifier, nil)
	ctx := context.Background()

	clientID := uuid.New()

	a1, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    clientID,
		CaregiverID: uuid.New(),
		StartDate:   "2024-01-15",
		IsPrimary:   true,
	})
	require.NoError(t, err)

	a2, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    clientID,
		CaregiverID: uuid.New(),
		StartDate:   "2024-02-01",
		IsPrimary:   false,
	})
	require.NoError(t, err)

	promote := true
	before := time.Now()
	_, err = svc.PatchAssignment(ctx, a2.ID, &model.PatchAssignmentRequest{IsPrimary: &promote})
	require.NoError(t, err)

	previous, err := repo.Get(ctx, a1.ID)
	require.NoError(t, err)
	require.NotNil(t, previous.EndDate)
	assert.False(t, previous.EndDate.Before(before))

	active, err := svc.GetActivePrimary(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, a2.ID, active.ID)

	require.Len(t, notifier.handoffs, 1)
}

func TestDeleteAssignmentVacatesPrimarySlot(t *testing.T) {
	repo := newFakeAssignmentRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	clientID := uuid.New()
	a, err := svc.CreateAssignment(ctx, &model.CreateAssignmentRequest{
		ClientID:    clientID,
		CaregiverID: uuid.New(),
		StartDate:   "2024-01-15",
		IsPrimary:   true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAssignment(ctx, a.ID))

	_, err = svc.GetActivePrimary(ctx, clientID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
