package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/mediqueue-api/internal/models"
	"github.com/harentsoaR/mediqueue-api/internal/scheduling"
	"github.com/harentsoaR/mediqueue-api/internal/services"
	"github.com/harentsoaR/mediqueue-api/internal/storage"
	"github.com/harentsoaR/mediqueue-api/internal/utils"
)

// -- Mock repositories --

type mockDoctorRepo struct {
	mu        sync.Mutex
	doctors   map[primitive.ObjectID]*models.Doctor
	nearby    []models.Doctor
	lastQuery *storage.NearbyQuery
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[primitive.ObjectID]*models.Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *models.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) List(_ context.Context) ([]models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Doctor
	for _, d := range m.doctors {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

func (m *mockDoctorRepo) FindNearby(_ context.Context, q storage.NearbyQuery) ([]models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = &q
	return m.nearby, nil
}

func (m *mockDoctorRepo) IncrementQueue(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[id]
	if !ok {
		return storage.ErrNotFound
	}
	d.CurrentQueue++
	return nil
}

type mockAppointmentRepo struct {
	mu           sync.Mutex
	appointments []models.Appointment
}

func (m *mockAppointmentRepo) Insert(_ context.Context, apt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	m.appointments = append(m.appointments, *apt)
	return nil
}

func (m *mockAppointmentRepo) ListForDay(_ context.Context, doctorID primitive.ObjectID, date time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, apt := range m.appointments {
		if apt.DoctorID == doctorID && utils.SameDay(apt.AppointmentDate, date) {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) CountForSlot(_ context.Context, doctorID primitive.ObjectID, date time.Time, timeSlot string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, apt := range m.appointments {
		if apt.DoctorID == doctorID && apt.TimeSlot == timeSlot && utils.SameDay(apt.AppointmentDate, date) {
			count++
		}
	}
	return count, nil
}

// -- Test harness --

// testNow is a Monday at 10:00.
var testNow = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.Local)

type testEnv struct {
	router       *gin.Engine
	doctors      *mockDoctorRepo
	appointments *mockAppointmentRepo
	scheduler    *scheduling.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	doctors := newMockDoctorRepo()
	appointments := &mockAppointmentRepo{}
	scheduler := scheduling.NewService(doctors, appointments, scheduling.DefaultSlotCapacity, zerolog.Nop())
	scheduler.SetClock(func() time.Time { return testNow })

	geocoder, err := services.NewGeocodingService("http://geocoder.invalid", 10, zerolog.Nop())
	if err != nil {
		t.Fatalf("geocoder: %v", err)
	}

	h := NewHandler(doctors, scheduler, geocoder, zerolog.Nop())
	r := gin.New()
	r.POST("/doctors", h.CreateDoctor)
	r.GET("/doctors", h.ListDoctors)
	r.GET("/doctors/filter", h.FilterDoctors)
	r.GET("/doctors/slots", h.GetDoctorSlots)
	r.POST("/appointments", h.CreateAppointment)
	r.GET("/locations", h.SearchLocations)

	return &testEnv{router: r, doctors: doctors, appointments: appointments, scheduler: scheduler}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type apiBody struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) apiBody {
	t.Helper()
	var body apiBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body %q: %v", w.Body.String(), err)
	}
	return body
}

func (e *testEnv) seedDoctor(t *testing.T) *models.Doctor {
	t.Helper()
	doctor := &models.Doctor{
		Name:      "Dr. Rakoto",
		Specialty: "Cardiology",
		Location:  "Antananarivo",
		Availability: []models.AvailabilityWindow{
			{Day: models.Monday, Start: "09:00", End: "12:00"},
		},
	}
	if err := e.doctors.Create(context.Background(), doctor); err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	return doctor
}
