package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/mediqueue-api/internal/models"
	"github.com/harentsoaR/mediqueue-api/internal/storage"
	"github.com/harentsoaR/mediqueue-api/internal/utils"
)

// DefaultSlotCapacity is the maximum number of patients bookable into one slot.
const DefaultSlotCapacity = 5

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrNoAvailability = errors.New("no availability for the selected day")
	ErrSlotFull       = errors.New("this time slot is already full")
	ErrPastSlot       = errors.New("appointment time cannot be in the past")
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalidSlot    = errors.New("invalid time slot")
)

// Service owns slot listing and the single booking write path.
type Service struct {
	doctors      storage.DoctorRepository
	appointments storage.AppointmentRepository
	capacity     int
	locks        *keyedMutex
	log          zerolog.Logger

	// now is swapped in tests to pin the past-slot check.
	now func() time.Time
}

func NewService(doctors storage.DoctorRepository, appointments storage.AppointmentRepository, capacity int, log zerolog.Logger) *Service {
	if capacity <= 0 {
		capacity = DefaultSlotCapacity
	}
	return &Service{
		doctors:      doctors,
		appointments: appointments,
		capacity:     capacity,
		locks:        newKeyedMutex(),
		log:          log,
		now:          time.Now,
	}
}

// SetClock overrides the clock used by the past-slot check. Tests use it to
// pin "now".
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// DaySlots resolves the doctor's window for the requested weekday, generates
// its slots and marks those already at capacity on the given date.
func (s *Service) DaySlots(ctx context.Context, doctorID primitive.ObjectID, day models.Weekday, date time.Time) ([]Slot, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	window, ok := doctor.WindowFor(day)
	if !ok {
		return nil, ErrNoAvailability
	}

	slots, err := GenerateSlots(window)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointments.ListForDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	MarkOccupancy(slots, appointments, s.capacity)

	return slots, nil
}

// BookingRequest carries the five fields required to create an appointment.
type BookingRequest struct {
	DoctorID        primitive.ObjectID
	PatientName     string
	PatientContact  string
	AppointmentDate time.Time
	TimeSlot        string
}

// Book validates and commits one appointment. Checks run in order: required
// fields, past-slot, doctor existence, slot capacity; nothing is written once
// a check fails. The capacity check and the writes that follow it hold a
// per-(doctor, date, slot) lock, so concurrent bookings cannot push a slot
// past capacity.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if req.DoctorID.IsZero() || req.PatientName == "" || req.PatientContact == "" ||
		req.AppointmentDate.IsZero() || req.TimeSlot == "" {
		return nil, ErrMissingFields
	}

	past, err := s.slotInPast(req.TimeSlot, req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	if past {
		return nil, ErrPastSlot
	}

	if _, err := s.doctors.GetByID(ctx, req.DoctorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	key := bookingKey(req.DoctorID, req.AppointmentDate, req.TimeSlot)
	unlock := s.locks.Lock(key)
	defer unlock()

	count, err := s.appointments.CountForSlot(ctx, req.DoctorID, req.AppointmentDate, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.capacity) {
		return nil, ErrSlotFull
	}

	apt := &models.Appointment{
		ID:              primitive.NewObjectID(),
		DoctorID:        req.DoctorID,
		PatientName:     req.PatientName,
		PatientContact:  req.PatientContact,
		AppointmentDate: req.AppointmentDate,
		TimeSlot:        req.TimeSlot,
	}
	if err := s.appointments.Insert(ctx, apt); err != nil {
		return nil, err
	}

	// The queue counter is denormalized and increment-only; a failed update
	// does not undo a booking that is already persisted.
	if err := s.doctors.IncrementQueue(ctx, req.DoctorID); err != nil {
		s.log.Error().Err(err).Str("doctorId", req.DoctorID.Hex()).Msg("failed to update current queue")
	}

	return apt, nil
}

// slotInPast applies the hour-granularity validity rule: a slot is past only
// when the appointment date is today and the slot's start hour is earlier
// than the current hour. Minutes are deliberately not compared.
func (s *Service) slotInPast(timeSlot string, date time.Time) (bool, error) {
	start, err := SlotStart(timeSlot)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	now := s.now()
	if !utils.SameDay(date, now) {
		return false, nil
	}
	return start.Hour() < now.Hour(), nil
}

func bookingKey(doctorID primitive.ObjectID, date time.Time, timeSlot string) string {
	return doctorID.Hex() + "|" + date.Format("2006-01-02") + "|" + timeSlot
}
