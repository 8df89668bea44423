package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"urban-bites/restaurant-svc/internal/domain"

	log "github.com/sirupsen/logrus"
)

type ReservationService struct {
	repo     ReservationRepository
	location *time.Location
	now      func() time.Time
}

// NewReservationService compares reservation dates against today's date in loc.
func NewReservationService(repo ReservationRepository, loc *time.Location) *ReservationService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationService{repo: repo, location: loc, now: time.Now}
}

// WithClock replaces the service's notion of "now".
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

func (s *ReservationService) Today() domain.Date {
	return domain.DateOf(s.now().In(s.location))
}

func (s *ReservationService) Create(ctx context.Context, reservation *domain.Reservation) error {
	normalizeReservation(reservation)
	if err := ValidateReservation(reservation, s.Today()); err != nil {
		return err
	}

	reservation.Status = domain.ReservationConfirmed
	if err := s.repo.CreateReservation(ctx, reservation); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	log.WithFields(log.Fields{
		"reservation_id": reservation.ID,
		"date":           reservation.Date.String(),
		"party_size":     reservation.PartySize,
	}).Info("Reservation confirmed")
	return nil
}

func (s *ReservationService) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}

// List returns reservations with the given status ("" means CONFIRMED, "ALL" means any),
// optionally limited to today and later.
func (s *ReservationService) List(ctx context.Context, status string, upcoming bool) ([]domain.Reservation, error) {
	filter := domain.ReservationFilter{Status: domain.ReservationConfirmed}
	switch status {
	case "":
	case "ALL":
		filter.Status = domain.ReservationStatus{}
	default:
		parsed, err := domain.ParseReservationStatus(status)
		if err != nil {
			return nil, ValidationError{Field: "status", Message: err.Error()}
		}
		filter.Status = parsed
	}
	if upcoming {
		filter.From = s.Today()
	}
	return s.repo.ListReservations(ctx, filter)
}

// Update edits the details of a confirmed reservation. Cancelled reservations are final.
func (s *ReservationService) Update(ctx context.Context, id string, changes *domain.Reservation) (*domain.Reservation, error) {
	existing, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: reservation is %s", domain.ErrIllegalTransition, existing.Status)
	}

	normalizeReservation(changes)
	if err := ValidateReservation(changes, s.Today()); err != nil {
		return nil, err
	}

	changes.ID = existing.ID
	changes.Status = existing.Status
	changes.CreatedAt = existing.CreatedAt
	if err := s.repo.UpdateReservation(ctx, changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// UpdateStatus applies a status change. Setting the current status again is a no-op.
func (s *ReservationService) UpdateStatus(ctx context.Context, id, status string) (*domain.Reservation, error) {
	target, err := domain.ParseReservationStatus(status)
	if err != nil {
		return nil, ValidationError{Field: "status", Message: err.Error()}
	}

	existing, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == target {
		return existing, nil
	}
	if !existing.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, existing.Status, target)
	}

	updated, err := s.repo.UpdateReservationStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"reservation_id": id, "status": target.String()}).Info("Reservation status updated")
	return updated, nil
}

// Cancel is idempotent: cancelling a cancelled reservation returns it unchanged.
func (s *ReservationService) Cancel(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.UpdateStatus(ctx, id, domain.ReservationCancelled.String())
}

func normalizeReservation(r *domain.Reservation) {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Time = strings.TrimSpace(r.Time)
	r.Notes = strings.TrimSpace(r.Notes)
}
