package caregiver

import (
	"context"

	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/repository"
	"github.com/carebridge/agency-api/internal/service/directory"
	apperrors "github.com/carebridge/agency-api/pkg/errors"
	"github.com/carebridge/agency-api/pkg/security"
)

type Service struct {
	repo      repository.CaregiverRepository
	directory *directory.Service
	hasher    security.PinHasher
}

func NewService(repo repository.CaregiverRepository, dir *directory.Service, hasher security.PinHasher) *Service {
	return &Service{repo: repo, directory: dir, hasher: hasher}
}

func (s *Service) CreateCaregiver(ctx context.Context, req *model.CreateCaregiverRequest) (*model.Caregiver, error) {
	caregiver := &model.Caregiver{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Status:    model.CaregiverStatusActive,
	}
	if err := s.repo.Create(ctx, caregiver); err != nil {
		return nil, err
	}
	return caregiver, nil
}

func (s *Service) GetCaregiver(ctx context.Context, id uuid.UUID) (*model.Caregiver, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateCaregiver(ctx context.Context, id uuid.UUID, req *model.UpdateCaregiverRequest) (*model.Caregiver, error) {
	caregiver, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		caregiver.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		caregiver.LastName = *req.LastName
	}
	if req.Email != nil {
		caregiver.Email = *req.Email
	}
	if req.Phone != nil {
		caregiver.Phone = *req.Phone
	}
	if req.Status != nil {
		caregiver.Status = *req.Status
	}

	if err := s.repo.Update(ctx, caregiver); err != nil {
		return nil, err
	}
	s.directory.Flush()
	return caregiver, nil
}

func (s *Service) ListCaregivers(ctx context.Context, filters *model.CaregiverFilters) ([]*model.Caregiver, error) {
	return s.repo.List(ctx, filters)
}

// SetPin hashes and stores a caregiver's portal PIN.
func (s *Service) SetPin(ctx context.Context, id uuid.UUID, pin string) error {
	hash, err := s.hasher.Hash(pin)
	if err != nil {
		return apperrors.NewValidation("pin must be at least 4 characters")
	}
	return s.repo.SetPinHash(ctx, id, hash)
}

// VerifyPin checks a PIN against the stored hash.
func (s *Service) VerifyPin(ctx context.Context, id uuid.UUID, pin string) error {
	caregiver, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if caregiver.PinHash == nil {
		return apperrors.Unauthorized(nil)
	}
	if err := s.hasher.Compare(*caregiver.PinHash, pin); err != nil {
		return apperrors.Unauthorized(err)
	}
	return nil
}
