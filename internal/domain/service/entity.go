package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle      = errors.New("service title cannot be empty")
	ErrInvalidDuration = errors.New("service duration must be positive")
	ErrNegativePrice   = errors.New("service price cannot be negative")
)

// Service is a bookable offering of the practice, e.g. an initial
// consultation or a follow-up session. The catalog is owned by admin
// tooling; the scheduling engine reads it.
type Service struct {
	id          uuid.UUID
	title       string
	description *string
	durationMin int
	priceCents  int64
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewService(title string, description *string, durationMin int, priceCents int64) (*Service, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	return &Service{
		id:          uuid.New(),
		title:       title,
		description: description,
		durationMin: durationMin,
		priceCents:  priceCents,
		active:      true,
	}, nil
}

func ReconstructService(
	id uuid.UUID,
	title string,
	description *string,
	durationMin int,
	priceCents int64,
	active bool,
	createdAt, updatedAt time.Time,
) *Service {
	return &Service{
		id:          id,
		title:       title,
		description: description,
		durationMin: durationMin,
		priceCents:  priceCents,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *Service) ID() uuid.UUID        { return s.id }
func (s *Service) Title() string        { return s.title }
func (s *Service) Description() *string { return s.description }
func (s *Service) DurationMinutes() int { return s.durationMin }
func (s *Service) PriceCents() int64    { return s.priceCents }
func (s *Service) IsActive() bool       { return s.active }
func (s *Service) CreatedAt() time.Time { return s.createdAt }
func (s *Service) UpdatedAt() time.Time { return s.updatedAt }

func (s *Service) Duration() time.Duration {
	return time.Duration(s.durationMin) * time.Minute
}
