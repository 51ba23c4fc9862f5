package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/mediqueue-api/internal/models"
	"github.com/harentsoaR/mediqueue-api/internal/scheduling"
	"github.com/harentsoaR/mediqueue-api/internal/storage"
	"github.com/harentsoaR/mediqueue-api/internal/utils"
)

// CreateDoctor is the administrative write that registers a doctor.
func (h *Handler) CreateDoctor(c *gin.Context) {
	var req struct {
		Name          string                      `json:"name" binding:"required"`
		Specialty     string                      `json:"specialty" binding:"required"`
		Location      string                      `json:"location" binding:"required"`
		Coordinates   []float64                   `json:"coordinates" binding:"required"`
		EstimatedWait int                         `json:"estimatedWait"`
		Availability  []models.AvailabilityWindow `json:"availability" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Missing required fields", nil)
		return
	}
	if len(req.Coordinates) != 2 {
		respond(c, http.StatusBadRequest, "Coordinates must be [longitude, latitude]", nil)
		return
	}
	for _, window := range req.Availability {
		if !window.Day.IsValid() {
			respond(c, http.StatusBadRequest, fmt.Sprintf("Invalid day %q", window.Day), nil)
			return
		}
	}

	doctor := models.Doctor{
		Name:          req.Name,
		Specialty:     req.Specialty,
		Location:      req.Location,
		Coordinates:   models.NewGeoPoint(req.Coordinates[0], req.Coordinates[1]),
		EstimatedWait: req.EstimatedWait,
		Availability:  req.Availability,
	}
	if err := h.Doctors.Create(c.Request.Context(), &doctor); err != nil {
		h.Log.Error().Err(err).Msg("failed to add doctor")
		respond(c, http.StatusInternalServerError, "Failed to add doctor details", nil)
		return
	}

	respond(c, http.StatusCreated, "Doctor details added successfully", doctor)
}

// ListDoctors returns every registered doctor.
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Doctors.List(c.Request.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("failed to list doctors")
		respond(c, http.StatusInternalServerError, "Error fetching doctors", nil)
		return
	}
	if doctors == nil {
		doctors = make([]models.Doctor, 0)
	}
	respond(c, http.StatusOK, "Doctors fetched successfully", doctors)
}

// FilterDoctors searches doctors by specialty and proximity, nearest first,
// optionally narrowed to those available today, tomorrow or any day this week.
func (h *Handler) FilterDoctors(c *gin.Context) {
	speciality := c.Query("speciality")
	longitudeStr := c.Query("longitude")
	latitudeStr := c.Query("latitude")

	if longitudeStr == "" || latitudeStr == "" {
		respond(c, http.StatusBadRequest, "Longitude and latitude are required for filtering by distance", nil)
		return
	}
	if speciality == "" {
		respond(c, http.StatusBadRequest, "Speciality is required", nil)
		return
	}

	longitude, err := strconv.ParseFloat(longitudeStr, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid longitude", nil)
		return
	}
	latitude, err := strconv.ParseFloat(latitudeStr, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid latitude", nil)
		return
	}

	maxDistance := 0
	if maxDistanceStr := c.Query("maxDistance"); maxDistanceStr != "" {
		maxDistance, err = strconv.Atoi(maxDistanceStr)
		if err != nil {
			respond(c, http.StatusBadRequest, "Invalid maxDistance", nil)
			return
		}
	}

	days, err := daysForAvailability(c.Query("availability"), time.Now())
	if err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	doctors, err := h.Doctors.FindNearby(c.Request.Context(), storage.NearbyQuery{
		Specialty:         speciality,
		Longitude:         longitude,
		Latitude:          latitude,
		MaxDistanceMeters: maxDistance,
		Days:              days,
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("failed to filter doctors")
		respond(c, http.StatusInternalServerError, "Error filtering doctors", nil)
		return
	}
	if doctors == nil {
		doctors = make([]models.Doctor, 0)
	}

	respond(c, http.StatusOK, "Filters applied", doctors)
}

// daysForAvailability maps an availability filter to the weekday set it allows.
func daysForAvailability(filter string, now time.Time) ([]models.Weekday, error) {
	switch filter {
	case "":
		return nil, nil
	case "today":
		return []models.Weekday{models.Weekday(now.Weekday().String())}, nil
	case "tomorrow":
		return []models.Weekday{models.Weekday(now.AddDate(0, 0, 1).Weekday().String())}, nil
	case "this_week":
		return models.AllWeekdays, nil
	default:
		return nil, fmt.Errorf("availability must be one of today, tomorrow, this_week")
	}
}

// GetDoctorSlots lists the doctor's slots for a weekday, each flagged full or
// not. Occupancy is scoped to the date query param, defaulting to today.
func (h *Handler) GetDoctorSlots(c *gin.Context) {
	doctorIDStr := c.Query("doctorId")
	if doctorIDStr == "" {
		respond(c, http.StatusBadRequest, "Doctor ID is required", nil)
		return
	}
	dayStr := c.Query("day")
	if dayStr == "" {
		respond(c, http.StatusBadRequest, "Select a day", nil)
		return
	}

	doctorID, err := primitive.ObjectIDFromHex(doctorIDStr)
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}
	day := models.Weekday(dayStr)
	if !day.IsValid() {
		respond(c, http.StatusBadRequest, fmt.Sprintf("Invalid day %q", dayStr), nil)
		return
	}

	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		date, err = utils.ParseDate(dateStr)
		if err != nil {
			respond(c, http.StatusBadRequest, "Invalid date", nil)
			return
		}
	}

	slots, err := h.Scheduler.DaySlots(c.Request.Context(), doctorID, day, date)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrDoctorNotFound):
			respond(c, http.StatusNotFound, "Doctor not found", nil)
		case errors.Is(err, scheduling.ErrNoAvailability):
			respond(c, http.StatusNotFound, fmt.Sprintf("No availability found for %s", day), nil)
		default:
			h.Log.Error().Err(err).Msg("failed to fetch time slots")
			respond(c, http.StatusInternalServerError, "Error fetching time slots", nil)
		}
		return
	}
	if slots == nil {
		slots = make([]scheduling.Slot, 0)
	}

	respond(c, http.StatusOK, "Time slots retrieved successfully", slots)
}
