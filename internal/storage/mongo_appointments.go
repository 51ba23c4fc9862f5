package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/mediqueue-api/internal/models"
	"github.com/harentsoaR/mediqueue-api/internal/utils"
)

const appointmentsCollection = "appointments"

type MongoAppointmentRepository struct {
	collection *mongo.Collection
}

func NewMongoAppointmentRepository(db *mongo.Database) *MongoAppointmentRepository {
	return &MongoAppointmentRepository{collection: db.Collection(appointmentsCollection)}
}

func (r *MongoAppointmentRepository) Insert(ctx context.Context, apt *models.Appointment) error {
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, apt)
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

// dayFilter bounds appointmentDate to the calendar day containing date.
func dayFilter(doctorID primitive.ObjectID, date time.Time) bson.M {
	return bson.M{
		"doctor": doctorID,
		"appointmentDate": bson.M{
			"$gte": utils.StartOfDay(date),
			"$lt":  utils.EndOfDay(date),
		},
	}
}

func (r *MongoAppointmentRepository) ListForDay(ctx context.Context, doctorID primitive.ObjectID, date time.Time) ([]models.Appointment, error) {
	cursor, err := r.collection.Find(ctx, dayFilter(doctorID, date))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

func (r *MongoAppointmentRepository) CountForSlot(ctx context.Context, doctorID primitive.ObjectID, date time.Time, timeSlot string) (int64, error) {
	filter := dayFilter(doctorID, date)
	filter["timeSlot"] = timeSlot

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}
