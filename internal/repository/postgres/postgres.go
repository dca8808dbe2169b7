package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/carebridge/agency-api/internal/repository"
)

type clientRepository struct {
	db *sqlx.DB
}

type caregiverRepository struct {
	db *sqlx.DB
}

type assignmentRepository struct {
	db *sqlx.DB
}

type scheduleRuleRepository struct {
	db *sqlx.DB
}

type visitRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func NewCaregiverRepository(db *sqlx.DB) repository.CaregiverRepository {
	return &caregiverRepository{db: db}
}

func NewAssignmentRepository(db *sqlx.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func NewScheduleRuleRepository(db *sqlx.DB) repository.ScheduleRuleRepository {
	return &scheduleRuleRepository{db: db}
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
