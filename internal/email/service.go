package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/repository"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Service sends coordination emails for assignment changes. Delivery is
// best-effort; callers log failures and move on.
type Service struct {
	dialer     *gomail.Dialer
	from       string
	caregivers repository.CaregiverRepository
	clients    repository.ClientRepository
}

func NewService(cfg Config, caregivers repository.CaregiverRepository, clients repository.ClientRepository) *Service {
	return &Service{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:       cfg.From,
		caregivers: caregivers,
		clients:    clients,
	}
}

// NotifyPrimaryHandoff emails both caregivers involved in a primary
// assignment handoff.
func (s *Service) NotifyPrimaryHandoff(ctx context.Context, ended, promoted *model.Assignment) error {
	client, err := s.clients.Get(ctx, promoted.ClientID)
	if err != nil {
		return fmt.Errorf("failed to load client for notification: %w", err)
	}

	subject := fmt.Sprintf("Primary caregiver change for %s", client.FullName())

	outgoing, err := s.caregivers.Get(ctx, ended.CaregiverID)
	if err != nil {
		return fmt.Errorf("failed to load outgoing caregiver: %w", err)
	}
	incoming, err := s.caregivers.Get(ctx, promoted.CaregiverID)
	if err != nil {
		return fmt.Errorf("failed to load incoming caregiver: %w", err)
	}

	body := fmt.Sprintf(
		"The primary caregiver for %s changed from %s to %s, effective %s.",
		client.FullName(),
		outgoing.FullName(),
		incoming.FullName(),
		promoted.StartDate.Format(model.DateOnly),
	)

	for _, recipient := range []string{outgoing.Email, incoming.Email} {
		if recipient == "" {
			continue
		}
		m := gomail.NewMessage()
		m.SetHeader("From", s.from)
		m.SetHeader("To", recipient)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", body)

		if err := s.dialer.DialAndSend(m); err != nil {
			return fmt.Errorf("failed to send notification to %s: %w", recipient, err)
		}
	}

	return nil
}
