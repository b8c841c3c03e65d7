package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"drivemart/internal/listings/service"
	"drivemart/pkg/logger"
	"drivemart/pkg/model"
)

type mockListingService struct {
	getPageFunc func(ctx context.Context, page, limit int, search, status string) (*service.ListingPage, error)
}

func (m *mockListingService) Create(ctx context.Context, listing *model.Listing) error {
	return nil
}

func (m *mockListingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	return &model.Listing{ID: id}, nil
}

func (m *mockListingService) GetPage(ctx context.Context, page, limit int, search, status string) (*service.ListingPage, error) {
	if m.getPageFunc != nil {
		return m.getPageFunc(ctx, page, limit, search, status)
	}
	return &service.ListingPage{Page: page, Limit: limit}, nil
}

func (m *mockListingService) Update(ctx context.Context, id string, updates *model.ListingUpdate) error {
	return nil
}

func (m *mockListingService) Delete(ctx context.Context, id string) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestGetPage_WritesPaginatedEnvelope(t *testing.T) {
	mockService := &mockListingService{
		getPageFunc: func(ctx context.Context, page, limit int, search, status string) (*service.ListingPage, error) {
			return &service.ListingPage{
				Items: []*model.Listing{{ID: "64d000000000000000000001", Title: "Fiat Panda"}},
				Total: 41,
				Page:  page,
				Limit: limit,
			}, nil
		},
	}
	handler := NewListingHandler(mockService, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?page=3&limit=20", nil)
	w := httptest.NewRecorder()

	handler.GetPage(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Data       []model.Listing `json:"data"`
		TotalCount int64           `json:"total_count"`
		Page       int             `json:"page"`
		Limit      int             `json:"limit"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Title != "Fiat Panda" {
		t.Errorf("unexpected data: %+v", resp.Data)
	}
	if resp.TotalCount != 41 || resp.Page != 3 || resp.Limit != 20 {
		t.Errorf("unexpected pagination metadata: total=%d page=%d limit=%d",
			resp.TotalCount, resp.Page, resp.Limit)
	}
}

func TestGetPage_InvalidPageReturnsBadRequest(t *testing.T) {
	handler := NewListingHandler(&mockListingService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?page=zero", nil)
	w := httptest.NewRecorder()

	handler.GetPage(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
