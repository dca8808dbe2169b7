package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/repository"
	"github.com/carebridge/agency-api/internal/service/directory"
)

type Service struct {
	repo      repository.ClientRepository
	directory *directory.Service
}

func NewService(repo repository.ClientRepository, dir *directory.Service) *Service {
	return &Service{repo: repo, directory: dir}
}

func (s *Service) CreateClient(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	client := &model.Client{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		City:      req.City,
		Phone:     req.Phone,
		Language:  req.Language,
		Status:    model.ClientStatusActive,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		client.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Language != nil {
		client.Language = *req.Language
	}
	if req.Status != nil {
		client.Status = *req.Status
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	s.directory.Flush()
	return client, nil
}

// DeactivateClient soft-deletes; the record stays referencable by
// assignments, rules and visit history.
func (s *Service) DeactivateClient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.directory.Flush()
	return nil
}

func (s *Service) ListClients(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error) {
	return s.repo.List(ctx, filters)
}
