package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/mediqueue-api/internal/models"
)

const doctorsCollection = "doctors"

// DefaultMaxDistanceMeters bounds geo searches when the caller gives no radius.
const DefaultMaxDistanceMeters = 5000

// MongoDoctorRepository stores doctors in a MongoDB collection with a
// 2dsphere index on coordinates.
type MongoDoctorRepository struct {
	collection *mongo.Collection
}

func NewMongoDoctorRepository(db *mongo.Database) *MongoDoctorRepository {
	return &MongoDoctorRepository{collection: db.Collection(doctorsCollection)}
}

// EnsureIndexes creates the 2dsphere index the $geoNear stage depends on.
func (r *MongoDoctorRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "coordinates", Value: "2dsphere"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create 2dsphere index: %w", err)
	}
	return nil
}

func (r *MongoDoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, doctor)
	if err != nil {
		return fmt.Errorf("failed to insert doctor: %w", err)
	}
	return nil
}

func (r *MongoDoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err = cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *MongoDoctorRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doctor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find doctor: %w", err)
	}
	return &doctor, nil
}

// FindNearby runs a $geoNear aggregation: nearest first, specialty matched
// case-insensitively, optionally restricted to doctors available on one of
// the given weekdays.
func (r *MongoDoctorRepository) FindNearby(ctx context.Context, q NearbyQuery) ([]models.Doctor, error) {
	maxDistance := q.MaxDistanceMeters
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistanceMeters
	}

	pipeline := []bson.M{{
		"$geoNear": bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": []float64{q.Longitude, q.Latitude},
			},
			"distanceField": "distance",
			"maxDistance":   maxDistance,
			"spherical":     true,
			"query": bson.M{
				"specialty": primitive.Regex{Pattern: regexp.QuoteMeta(q.Specialty), Options: "i"},
			},
		},
	}}

	if len(q.Days) > 0 {
		pipeline = append(pipeline, bson.M{
			"$match": bson.M{"availability.day": bson.M{"$in": q.Days}},
		})
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to filter doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err = cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *MongoDoctorRepository) IncrementQueue(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"currentQueue": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment queue: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
