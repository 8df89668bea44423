package tests

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"urban-bites/restaurant-svc/internal/domain"
	"urban-bites/restaurant-svc/internal/mocks"
	"urban-bites/restaurant-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 23:30 UTC on 15 June is already 16 June in London.
var reservationClock = time.Date(2026, time.June, 15, 23, 30, 0, 0, time.UTC)

func newReservationService(t *testing.T) (*service.ReservationService, *mocks.ReservationRepository) {
	t.Helper()
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	repo := mocks.NewReservationRepository(t)
	svc := service.NewReservationService(repo, london).WithClock(func() time.Time { return reservationClock })
	return svc, repo
}

func reservationInput(date string) *domain.Reservation {
	d, _ := domain.ParseDate(date)
	return &domain.Reservation{
		Name:      "Grace Hopper",
		Email:     "grace@example.com",
		Date:      d,
		Time:      "19:30",
		PartySize: 4,
	}
}

func storedReservation(id string, status domain.ReservationStatus) *domain.Reservation {
	r := reservationInput("2026-06-20")
	r.ID = id
	r.Status = status
	return r
}

func TestReservationService_TodayUsesRestaurantZone(t *testing.T) {
	svc, _ := newReservationService(t)
	assert.Equal(t, "2026-06-16", svc.Today().String())
}

func TestReservationService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		input     func() *domain.Reservation
		wantField string
	}{
		{name: "today is accepted", input: func() *domain.Reservation { return reservationInput("2026-06-16") }},
		{name: "future date is accepted", input: func() *domain.Reservation { return reservationInput("2026-07-01") }},
		{name: "yesterday is rejected", input: func() *domain.Reservation { return reservationInput("2026-06-15") }, wantField: "date"},
		{name: "missing date", input: func() *domain.Reservation { r := reservationInput("2026-06-20"); r.Date = domain.Date{}; return r }, wantField: "date"},
		{name: "missing name", input: func() *domain.Reservation { r := reservationInput("2026-06-20"); r.Name = " "; return r }, wantField: "name"},
		{name: "missing email", input: func() *domain.Reservation { r := reservationInput("2026-06-20"); r.Email = ""; return r }, wantField: "email"},
		{name: "malformed email", input: func() *domain.Reservation { r := reservationInput("2026-06-20"); r.Email = "grace"; return r }, wantField: "email"},
		{name: "missing time", input: func() *domain.Reservation { r := reservationInput("2026-06-20"); r.Time = ""; return r }, wantField: "time"},
		{name: "malformed time", input: func() *domain.Reservation { r := reservationInput("2026-06-20"); r.Time = "7pm"; return r }, wantField: "time"},
		{name: "party of zero", input: func() *domain.Reservation { r := reservationInput("2026-06-20"); r.PartySize = 0; return r }, wantField: "party_size"},
		{name: "large party sentinel", input: func() *domain.Reservation { r := reservationInput("2026-06-20"); r.PartySize = domain.LargeParty; return r }},
		{name: "party above sentinel", input: func() *domain.Reservation { r := reservationInput("2026-06-20"); r.PartySize = 12; return r }, wantField: "party_size"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, repo := newReservationService(t)
			input := testCase.input()
			if testCase.wantField == "" {
				repo.On("CreateReservation", ctx, mock.MatchedBy(func(r *domain.Reservation) bool {
					return r.Status == domain.ReservationConfirmed
				})).Return(nil).Once()
			}

			err := svc.Create(ctx, input)
			if testCase.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, domain.ReservationConfirmed, input.Status)
				return
			}
			var validation service.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, testCase.wantField, validation.Field)
		})
	}
}

func TestReservationService_List(t *testing.T) {
	ctx := context.Background()
	today, _ := domain.ParseDate("2026-06-16")

	tests := []struct {
		name       string
		status     string
		upcoming   bool
		wantFilter domain.ReservationFilter
	}{
		{name: "defaults to confirmed", wantFilter: domain.ReservationFilter{Status: domain.ReservationConfirmed}},
		{name: "all statuses", status: "ALL", wantFilter: domain.ReservationFilter{}},
		{name: "cancelled only", status: "CANCELLED", wantFilter: domain.ReservationFilter{Status: domain.ReservationCancelled}},
		{name: "upcoming from today", upcoming: true, wantFilter: domain.ReservationFilter{Status: domain.ReservationConfirmed, From: today}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, repo := newReservationService(t)
			repo.On("ListReservations", ctx, testCase.wantFilter).Return([]domain.Reservation{}, nil).Once()

			_, err := svc.List(ctx, testCase.status, testCase.upcoming)
			assert.NoError(t, err)
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		svc, _ := newReservationService(t)
		_, err := svc.List(ctx, "SEATED", false)
		var validation service.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "status", validation.Field)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed reservation is cancelled", func(t *testing.T) {
		svc, repo := newReservationService(t)
		repo.On("GetReservation", ctx, "r1").Return(storedReservation("r1", domain.ReservationConfirmed), nil).Once()
		repo.On("UpdateReservationStatus", ctx, "r1", domain.ReservationCancelled).
			Return(storedReservation("r1", domain.ReservationCancelled), nil).Once()

		res, err := svc.Cancel(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationCancelled, res.Status)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		svc, repo := newReservationService(t)
		repo.On("GetReservation", ctx, "r1").Return(storedReservation("r1", domain.ReservationCancelled), nil).Once()

		res, err := svc.Cancel(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationCancelled, res.Status)
	})

	t.Run("missing reservation", func(t *testing.T) {
		svc, repo := newReservationService(t)
		repo.On("GetReservation", ctx, "nope").Return(nil, domain.ErrNotFound).Once()

		_, err := svc.Cancel(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled cannot be confirmed again", func(t *testing.T) {
		svc, repo := newReservationService(t)
		repo.On("GetReservation", ctx, "r1").Return(storedReservation("r1", domain.ReservationCancelled), nil).Once()

		_, err := svc.UpdateStatus(ctx, "r1", "CONFIRMED")
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _ := newReservationService(t)
		_, err := svc.UpdateStatus(ctx, "r1", "NO_SHOW")
		var validation service.ValidationError
		assert.ErrorAs(t, err, &validation)
	})
}

func TestReservationService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed reservation is edited", func(t *testing.T) {
		svc, repo := newReservationService(t)
		existing := storedReservation("r1", domain.ReservationConfirmed)
		repo.On("GetReservation", ctx, "r1").Return(existing, nil).Once()
		repo.On("UpdateReservation", ctx, mock.MatchedBy(func(r *domain.Reservation) bool {
			return r.ID == "r1" && r.PartySize == 6 && r.Status == domain.ReservationConfirmed
		})).Return(nil).Once()

		changes := reservationInput("2026-06-21")
		changes.PartySize = 6
		changes.Status = domain.ReservationCancelled

		updated, err := svc.Update(ctx, "r1", changes)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationConfirmed, updated.Status)
	})

	t.Run("cancelled reservation is final", func(t *testing.T) {
		svc, repo := newReservationService(t)
		repo.On("GetReservation", ctx, "r1").Return(storedReservation("r1", domain.ReservationCancelled), nil).Once()

		_, err := svc.Update(ctx, "r1", reservationInput("2026-06-21"))
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("edit into the past is rejected", func(t *testing.T) {
		svc, repo := newReservationService(t)
		repo.On("GetReservation", ctx, "r1").Return(storedReservation("r1", domain.ReservationConfirmed), nil).Once()

		_, err := svc.Update(ctx, "r1", reservationInput("2026-06-01"))
		var validation service.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "date", validation.Field)
	})
}
