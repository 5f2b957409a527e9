package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"ayurclinic/pkg/logger"
	"ayurclinic/pkg/model"
)

type mockSlotService struct {
	generateFunc func(ctx context.Context, practitionerID string, date string) (*model.DaySchedule, error)
	validateFunc func(ctx context.Context, practitionerID string, date string, start, end time.Time) (*model.SlotValidation, error)
	nextFunc     func(ctx context.Context, practitionerID string, fromDate string, count int) ([]model.Slot, error)
}

func (m *mockSlotService) Generate(ctx context.Context, practitionerID string, date string) (*model.DaySchedule, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, practitionerID, date)
	}
	return &model.DaySchedule{Date: date, Slots: []model.Slot{}}, nil
}

func (m *mockSlotService) Validate(ctx context.Context, practitionerID string, date string, start, end time.Time) (*model.SlotValidation, error) {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, practitionerID, date, start, end)
	}
	return &model.SlotValidation{IsValid: true}, nil
}

func (m *mockSlotService) NextAvailable(ctx context.Context, practitionerID string, fromDate string, count int) ([]model.Slot, error) {
	if m.nextFunc != nil {
		return m.nextFunc(ctx, practitionerID, fromDate, count)
	}
	return []model.Slot{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func TestGetDayScheduleRequiresDate(t *testing.T) {
	handler := NewSlotHandler(&mockSlotService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/practitioners/abc/slots", nil)
	w := httptest.NewRecorder()

	handler.GetDaySchedule(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetDaySchedulePassesThrough(t *testing.T) {
	var receivedID, receivedDate string
	mockService := &mockSlotService{
		generateFunc: func(ctx context.Context, practitionerID string, date string) (*model.DaySchedule, error) {
			receivedID = practitionerID
			receivedDate = date
			return &model.DaySchedule{Date: date, TimeZone: "Asia/Kolkata", Slots: []model.Slot{}}, nil
		},
	}
	handler := NewSlotHandler(mockService, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/practitioners/abc/slots?date=2026-01-05", nil)
	w := httptest.NewRecorder()

	handler.GetDaySchedule(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if receivedID != "abc" || receivedDate != "2026-01-05" {
		t.Errorf("service received (%q, %q), want (abc, 2026-01-05)", receivedID, receivedDate)
	}

	var response struct {
		Data model.DaySchedule `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.TimeZone != "Asia/Kolkata" {
		t.Errorf("time_zone = %q, want Asia/Kolkata", response.Data.TimeZone)
	}
}

func TestGetNextAvailableInvalidCount(t *testing.T) {
	handler := NewSlotHandler(&mockSlotService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/practitioners/abc/slots/next?count=abc", nil)
	w := httptest.NewRecorder()

	handler.GetNextAvailable(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetNextAvailableDefaultsFromToday(t *testing.T) {
	var receivedFrom string
	var receivedCount int
	mockService := &mockSlotService{
		nextFunc: func(ctx context.Context, practitionerID string, fromDate string, count int) ([]model.Slot, error) {
			receivedFrom = fromDate
			receivedCount = count
			return []model.Slot{}, nil
		},
	}
	handler := NewSlotHandler(mockService, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/practitioners/abc/slots/next", nil)
	w := httptest.NewRecorder()

	handler.GetNextAvailable(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if receivedFrom != time.Now().UTC().Format("2006-01-02") {
		t.Errorf("from = %q, want today's date", receivedFrom)
	}
	if receivedCount != defaultNextSlotCount {
		t.Errorf("count = %d, want %d", receivedCount, defaultNextSlotCount)
	}
}

func TestValidateSlotRejectsBadBody(t *testing.T) {
	handler := NewSlotHandler(&mockSlotService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/practitioners/abc/slots/validate", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	handler.ValidateSlot(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestValidateSlotRequiresFields(t *testing.T) {
	handler := NewSlotHandler(&mockSlotService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/practitioners/abc/slots/validate", strings.NewReader(`{"date":"2026-01-05"}`))
	w := httptest.NewRecorder()

	handler.ValidateSlot(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestValidateSlotReturnsResult(t *testing.T) {
	mockService := &mockSlotService{
		validateFunc: func(ctx context.Context, practitionerID string, date string, start, end time.Time) (*model.SlotValidation, error) {
			return &model.SlotValidation{IsValid: false, Reason: "already booked"}, nil
		},
	}
	handler := NewSlotHandler(mockService, testLogger())

	body := `{"date":"2026-01-05","start_time":"2026-01-05T09:10:00Z","end_time":"2026-01-05T09:40:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/practitioners/abc/slots/validate", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ValidateSlot(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response struct {
		Data model.SlotValidation `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.IsValid {
		t.Error("expected is_valid to be false")
	}
	if response.Data.Reason != "already booked" {
		t.Errorf("reason = %q, want %q", response.Data.Reason, "already booked")
	}
}
