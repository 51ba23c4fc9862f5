package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID        primitive.ObjectID `bson:"doctor" json:"doctorId"`
	PatientName     string             `bson:"patientName" json:"patientName"`
	PatientContact  string             `bson:"patientContact" json:"patientContact"`
	AppointmentDate time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	// TimeSlot is the generated label, e.g. "09:00 AM-10:00 AM". Slot identity
	// is this string only; the date's time-of-day component is not used.
	TimeSlot string `bson:"timeSlot" json:"timeSlot"`
}
