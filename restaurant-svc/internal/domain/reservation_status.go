package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type ReservationStatus struct {
	name string
}

var (
	ReservationConfirmed = ReservationStatus{"CONFIRMED"}
	ReservationCancelled = ReservationStatus{"CANCELLED"}
)

var reservationStatuses = []ReservationStatus{ReservationConfirmed, ReservationCancelled}

var reservationTransitions = map[ReservationStatus]ReservationStatus{
	ReservationConfirmed: ReservationCancelled,
}

func ParseReservationStatus(s string) (ReservationStatus, error) {
	for _, status := range reservationStatuses {
		if status.name == s {
			return status, nil
		}
	}
	return ReservationStatus{}, fmt.Errorf("%w %q, expected one of %s", ErrUnknownStatus, s, joinStatuses(reservationStatuses))
}

func (s ReservationStatus) String() string { return s.name }

func (s ReservationStatus) IsZero() bool { return s.name == "" }

func (s ReservationStatus) IsTerminal() bool {
	_, ok := reservationTransitions[s]
	return !s.IsZero() && !ok
}

func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	next, ok := reservationTransitions[s]
	return ok && next == target
}

func (s ReservationStatus) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(s.name)
}

func (s *ReservationStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ReservationStatus{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseReservationStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s ReservationStatus) Value() (driver.Value, error) {
	if s.IsZero() {
		return nil, fmt.Errorf("%w: empty reservation status", ErrUnknownStatus)
	}
	return s.name, nil
}

func (s *ReservationStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan reservation status: unsupported type %T", src)
	}
	parsed, err := ParseReservationStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
