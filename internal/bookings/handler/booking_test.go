package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	bookingserrors "drivemart/internal/bookings/errors"
	apperrors "drivemart/pkg/errors"
	"drivemart/pkg/logger"
	"drivemart/pkg/model"
)

type mockBookingService struct {
	createFunc      func(ctx context.Context, booking *model.Booking) error
	getByIDFunc     func(ctx context.Context, id string) (*model.Booking, error)
	setFeedbackFunc func(ctx context.Context, id string, feedback *model.BookingFeedback) error
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) GetByCustomer(ctx context.Context, customerID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) GetBySlot(ctx context.Context, slotID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	return nil
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingService) SetFeedback(ctx context.Context, id string, feedback *model.BookingFeedback) error {
	if m.setFeedbackFunc != nil {
		return m.setFeedbackFunc(ctx, id, feedback)
	}
	return nil
}

func (m *mockBookingService) ClearFeedback(ctx context.Context, id string) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func TestCreate_FullSlotReturnsConflict(t *testing.T) {
	mockService := &mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return apperrors.ConflictWith(bookingserrors.ErrSlotFull, "Slot is fully booked")
		},
	}
	handler := NewBookingHandler(mockService, testLogger())

	body := `{"customer_id":"64b000000000000000000001","slot_id":"64a000000000000000000001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, w.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error != "Slot is fully booked" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestCreate_InvalidBodyReturnsBadRequest(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetByID_NotFoundReturns404(t *testing.T) {
	mockService := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}
	handler := NewBookingHandler(mockService, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/missing", nil)
	w := httptest.NewRecorder()

	handler.GetByID(w, req, httprouter.Params{{Key: "id", Value: "missing"}})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestSetFeedback_PassesPayloadThrough(t *testing.T) {
	var received *model.BookingFeedback
	mockService := &mockBookingService{
		setFeedbackFunc: func(ctx context.Context, id string, feedback *model.BookingFeedback) error {
			received = feedback
			return nil
		},
	}
	handler := NewBookingHandler(mockService, testLogger())

	body := `{"rating":5,"comment":"great"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/id/abc/feedback", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.SetFeedback(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if received == nil || received.Rating != 5 || received.Comment != "great" {
		t.Errorf("unexpected feedback payload: %+v", received)
	}
}
