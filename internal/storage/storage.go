package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/mediqueue-api/internal/models"
)

// ErrNotFound is returned by lookups whose target document does not exist.
var ErrNotFound = errors.New("not found")

// NearbyQuery describes one geospatial doctor search. Days, when non-empty,
// restricts results to doctors with at least one availability entry on one
// of the listed weekdays.
type NearbyQuery struct {
	Specialty         string
	Longitude         float64
	Latitude          float64
	MaxDistanceMeters int
	Days              []models.Weekday
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	List(ctx context.Context) ([]models.Doctor, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	// FindNearby returns matching doctors ordered nearest first, with the
	// Distance field populated in meters.
	FindNearby(ctx context.Context, q NearbyQuery) ([]models.Doctor, error)
	// IncrementQueue adds 1 to the doctor's currentQueue counter.
	IncrementQueue(ctx context.Context, id primitive.ObjectID) error
}

type AppointmentRepository interface {
	Insert(ctx context.Context, apt *models.Appointment) error
	// ListForDay returns the doctor's appointments whose appointmentDate
	// falls on the same calendar day as date.
	ListForDay(ctx context.Context, doctorID primitive.ObjectID, date time.Time) ([]models.Appointment, error)
	// CountForSlot counts the doctor's same-day appointments with exactly
	// the given timeSlot label.
	CountForSlot(ctx context.Context, doctorID primitive.ObjectID, date time.Time, timeSlot string) (int64, error)
}
