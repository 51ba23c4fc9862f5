package handlers

import (
	"github.com/rs/zerolog"

	"github.com/harentsoaR/mediqueue-api/internal/scheduling"
	"github.com/harentsoaR/mediqueue-api/internal/services"
	"github.com/harentsoaR/mediqueue-api/internal/storage"
)

// Handler bundles the dependencies the route handlers share.
type Handler struct {
	Doctors   storage.DoctorRepository
	Scheduler *scheduling.Service
	Geocoder  *services.GeocodingService
	Log       zerolog.Logger
}

func NewHandler(doctors storage.DoctorRepository, scheduler *scheduling.Service, geocoder *services.GeocodingService, log zerolog.Logger) *Handler {
	return &Handler{
		Doctors:   doctors,
		Scheduler: scheduler,
		Geocoder:  geocoder,
		Log:       log,
	}
}
