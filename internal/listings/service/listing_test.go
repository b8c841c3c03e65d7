package service

import (
	"context"
	"io"
	"testing"
	"time"

	listingserrors "drivemart/internal/listings/errors"
	"drivemart/internal/listings/validator"
	"drivemart/pkg/cache"
	"drivemart/pkg/config"
	apperrors "drivemart/pkg/errors"
	"drivemart/pkg/logger"
	"drivemart/pkg/model"
)

type mockListingRepo struct {
	CreateFunc   func(ctx context.Context, listing *model.Listing) error
	FindByIDFunc func(ctx context.Context, id string) (*model.Listing, error)
	FindPageFunc func(ctx context.Context, page, limit int, search, status string) ([]*model.Listing, int64, error)
	UpdateFunc   func(ctx context.Context, id string, listing *model.Listing) error
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *mockListingRepo) Create(ctx context.Context, listing *model.Listing) error {
	return m.CreateFunc(ctx, listing)
}

func (m *mockListingRepo) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockListingRepo) FindPage(ctx context.Context, page, limit int, search, status string) ([]*model.Listing, int64, error) {
	return m.FindPageFunc(ctx, page, limit, search, status)
}

func (m *mockListingRepo) Update(ctx context.Context, id string, listing *model.Listing) error {
	return m.UpdateFunc(ctx, id, listing)
}

func (m *mockListingRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type mockSellerRepo struct {
	FindByIDFunc func(ctx context.Context, id string) (*model.Seller, error)
}

func (m *mockSellerRepo) FindByID(ctx context.Context, id string) (*model.Seller, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockCatalog struct {
	GetModelByIDFunc func(ctx context.Context, id string) (*model.VehicleModel, error)
}

func (m *mockCatalog) GetModelByID(ctx context.Context, id string) (*model.VehicleModel, error) {
	return m.GetModelByIDFunc(ctx, id)
}

const (
	testListingID = "64d000000000000000000001"
	testSellerID  = "64d000000000000000000002"
	testModelID   = "64d000000000000000000003"
)

func newTestService(repo *mockListingRepo, store cache.Cache) ListingService {
	cfg := &config.Config{
		ListingsCacheTTL: time.Hour,
		Log:              logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
	sellers := &mockSellerRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Seller, error) {
			return &model.Seller{ID: id}, nil
		},
	}
	catalog := &mockCatalog{
		GetModelByIDFunc: func(ctx context.Context, id string) (*model.VehicleModel, error) {
			return &model.VehicleModel{ID: id}, nil
		},
	}
	return NewListingService(repo, sellers, catalog, store, validator.NewListingValidator(cfg.Log), cfg)
}

func validListing() *model.Listing {
	return &model.Listing{
		SellerID:       testSellerID,
		VehicleModelID: testModelID,
		Title:          "2022 hatchback, one owner",
		Price:          1450000,
		Mileage:        23000,
	}
}

func TestListingGetByIDCachesResult(t *testing.T) {
	calls := 0
	repo := &mockListingRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			calls++
			return &model.Listing{ID: id, Title: "cached"}, nil
		},
	}
	svc := newTestService(repo, cache.NewMemoryStore())

	for i := 0; i < 3; i++ {
		if _, err := svc.GetByID(context.Background(), testListingID); err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 repository call, got %d", calls)
	}
}

func TestListingGetPageCachesPerQuery(t *testing.T) {
	calls := 0
	repo := &mockListingRepo{
		FindPageFunc: func(ctx context.Context, page, limit int, search, status string) ([]*model.Listing, int64, error) {
			calls++
			return []*model.Listing{{ID: testListingID}}, 1, nil
		},
	}
	svc := newTestService(repo, cache.NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := svc.GetPage(ctx, 1, 10, "hatchback", model.ListingStatusActive)
		if err != nil {
			t.Fatalf("GetPage returned error: %v", err)
		}
		if result.Total != 1 || len(result.Items) != 1 {
			t.Fatalf("unexpected page result: %+v", result)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 repository call for a repeated query, got %d", calls)
	}

	// A different page is a different key.
	if _, err := svc.GetPage(ctx, 2, 10, "hatchback", model.ListingStatusActive); err != nil {
		t.Fatalf("GetPage returned error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected a second repository call for page 2, got %d", calls)
	}
}

func TestListingGetPageNormalizesSearchTerm(t *testing.T) {
	calls := 0
	repo := &mockListingRepo{
		FindPageFunc: func(ctx context.Context, page, limit int, search, status string) ([]*model.Listing, int64, error) {
			calls++
			if search != "hatchback" {
				t.Errorf("expected normalized search term, got %q", search)
			}
			return nil, 0, nil
		},
	}
	svc := newTestService(repo, cache.NewMemoryStore())
	ctx := context.Background()

	// Equivalent queries must share one cache entry.
	if _, err := svc.GetPage(ctx, 1, 10, "  HATCHBACK ", ""); err != nil {
		t.Fatalf("GetPage returned error: %v", err)
	}
	if _, err := svc.GetPage(ctx, 1, 10, "hatchback", ""); err != nil {
		t.Fatalf("GetPage returned error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 repository call, got %d", calls)
	}
}

func TestListingUpdateInvalidatesEntryAndPages(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()
	stale := []string{
		cache.ListingKey(testListingID),
		cache.ListingsPageKey(1, 10, "", ""),
		cache.ListingsPageKey(2, 10, "hatchback", model.ListingStatusActive),
	}
	for _, key := range stale {
		if err := store.Set(ctx, key, []byte(`{}`), time.Hour); err != nil {
			t.Fatalf("seeding cache: %v", err)
		}
	}

	existing := validListing()
	existing.ID = testListingID
	repo := &mockListingRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, listing *model.Listing) error {
			return nil
		},
	}
	svc := newTestService(repo, store)

	price := int64(1390000)
	if err := svc.Update(ctx, testListingID, &model.ListingUpdate{Price: &price}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	for _, key := range stale {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Errorf("expected key %q to be invalidated", key)
		}
	}
}

func TestListingCreateDefaultsToActive(t *testing.T) {
	var persisted *model.Listing
	repo := &mockListingRepo{
		CreateFunc: func(ctx context.Context, listing *model.Listing) error {
			persisted = listing
			return nil
		},
	}
	svc := newTestService(repo, cache.NewMemoryStore())

	if err := svc.Create(context.Background(), validListing()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if persisted.Status != model.ListingStatusActive {
		t.Errorf("expected status %q, got %q", model.ListingStatusActive, persisted.Status)
	}
}

func TestListingDeleteNotFound(t *testing.T) {
	repo := &mockListingRepo{
		DeleteFunc: func(ctx context.Context, id string) error {
			return listingserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, cache.NewMemoryStore())

	err := svc.Delete(context.Background(), testListingID)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}
