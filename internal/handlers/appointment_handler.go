package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/mediqueue-api/internal/scheduling"
	"github.com/harentsoaR/mediqueue-api/internal/utils"
)

// CreateAppointment books one patient into a doctor's time slot.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req struct {
		DoctorID        string `json:"doctorId"`
		PatientName     string `json:"patientName"`
		PatientContact  string `json:"patientContact"`
		AppointmentDate string `json:"appointmentDate"`
		TimeSlot        string `json:"timeSlot"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if req.DoctorID == "" || req.PatientName == "" || req.PatientContact == "" ||
		req.AppointmentDate == "" || req.TimeSlot == "" {
		respond(c, http.StatusBadRequest, "Missing required fields", nil)
		return
	}

	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}
	appointmentDate, err := utils.ParseDate(req.AppointmentDate)
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid appointment date", nil)
		return
	}

	apt, err := h.Scheduler.Book(c.Request.Context(), scheduling.BookingRequest{
		DoctorID:        doctorID,
		PatientName:     req.PatientName,
		PatientContact:  req.PatientContact,
		AppointmentDate: appointmentDate,
		TimeSlot:        req.TimeSlot,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrMissingFields):
			respond(c, http.StatusBadRequest, "Missing required fields", nil)
		case errors.Is(err, scheduling.ErrInvalidSlot):
			respond(c, http.StatusBadRequest, "Invalid time slot", nil)
		case errors.Is(err, scheduling.ErrPastSlot):
			respond(c, http.StatusBadRequest, "Appointment time cannot be in the past", nil)
		case errors.Is(err, scheduling.ErrDoctorNotFound):
			respond(c, http.StatusNotFound, "Doctor not found", nil)
		case errors.Is(err, scheduling.ErrSlotFull):
			// 400 rather than 409, matching the original client contract.
			respond(c, http.StatusBadRequest, "This time slot is already full", nil)
		default:
			h.Log.Error().Err(err).Msg("failed to save appointment")
			respond(c, http.StatusInternalServerError, "Error saving appointment", nil)
		}
		return
	}

	respond(c, http.StatusCreated, "Appointment created successfully", apt)
}
