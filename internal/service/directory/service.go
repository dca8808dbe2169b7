package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/carebridge/agency-api/internal/repository"
)

// Service resolves client and caregiver display names for the day view.
// Lookups go through a short, explicit TTL cache so one day-view request
// does not hammer the directory tables once per event; the cache is flushed
// whenever a client or caregiver record is mutated.
type Service struct {
	clients    repository.ClientRepository
	caregivers repository.CaregiverRepository
	names      *cache.Cache
}

func NewService(clients repository.ClientRepository, caregivers repository.CaregiverRepository, ttl time.Duration) *Service {
	return &Service{
		clients:    clients,
		caregivers: caregivers,
		names:      cache.New(ttl, 2*ttl),
	}
}

func (s *Service) ClientName(ctx context.Context, id uuid.UUID) (string, error) {
	key := "client:" + id.String()
	if name, found := s.names.Get(key); found {
		return name.(string), nil
	}

	client, err := s.clients.Get(ctx, id)
	if err != nil {
		return "", err
	}
	name := client.FullName()
	s.names.SetDefault(key, name)
	return name, nil
}

func (s *Service) CaregiverName(ctx context.Context, id uuid.UUID) (string, error) {
	key := "caregiver:" + id.String()
	if name, found := s.names.Get(key); found {
		return name.(string), nil
	}

	caregiver, err := s.caregivers.Get(ctx, id)
	if err != nil {
		return "", err
	}
	name := caregiver.FullName()
	s.names.SetDefault(key, name)
	return name, nil
}

// Flush drops every cached name. Called after directory mutations.
func (s *Service) Flush() {
	s.names.Flush()
}
