package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Weekday is one of the 7 canonical day names used in availability entries.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// AllWeekdays is ordered Monday first, matching the availability filter semantics.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (w Weekday) IsValid() bool {
	for _, d := range AllWeekdays {
		if d == w {
			return true
		}
	}
	return false
}

// GeoPoint is a GeoJSON Point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{longitude, latitude}}
}

// AvailabilityWindow is one weekly recurring window. Times are "HH:MM" on a
// 24-hour clock; start < end is ensured at data entry, not re-checked here.
type AvailabilityWindow struct {
	Day   Weekday `bson:"day" json:"day" binding:"required"`
	Start string  `bson:"start" json:"start" binding:"required"`
	End   string  `bson:"end" json:"end" binding:"required"`
}

type Doctor struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Specialty   string             `bson:"specialty" json:"specialty"`
	Location    string             `bson:"location" json:"location"`
	Coordinates GeoPoint           `bson:"coordinates" json:"coordinates"`
	// Distance is written by the $geoNear stage only, in meters from the query point.
	Distance      float64              `bson:"distance,omitempty" json:"distance,omitempty"`
	CurrentQueue  int                  `bson:"currentQueue" json:"currentQueue"`
	EstimatedWait int                  `bson:"estimatedWait" json:"estimatedWait"`
	Availability  []AvailabilityWindow `bson:"availability" json:"availability"`
}

// WindowFor returns the first availability entry for the given day.
// First match wins when a day appears more than once.
func (d *Doctor) WindowFor(day Weekday) (AvailabilityWindow, bool) {
	for _, w := range d.Availability {
		if w.Day == day {
			return w, true
		}
	}
	return AvailabilityWindow{}, false
}
