package service

import (
	"context"
	"io"
	"testing"
	"time"

	sellersrepository "drivemart/internal/sellers/repository"
	slotserrors "drivemart/internal/slots/errors"
	"drivemart/internal/slots/validator"
	"drivemart/pkg/cache"
	"drivemart/pkg/config"
	apperrors "drivemart/pkg/errors"
	"drivemart/pkg/logger"
	"drivemart/pkg/model"
)

type mockSlotRepo struct {
	CreateFunc       func(ctx context.Context, slot *model.Slot) error
	FindByIDFunc     func(ctx context.Context, id string) (*model.Slot, error)
	FindAllFunc      func(ctx context.Context) ([]*model.Slot, error)
	FindBySellerFunc func(ctx context.Context, sellerID string) ([]*model.Slot, error)
	FindActiveFunc   func(ctx context.Context) ([]*model.Slot, error)
	UpdateFunc       func(ctx context.Context, id string, slot *model.Slot) error
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *mockSlotRepo) Create(ctx context.Context, slot *model.Slot) error {
	return m.CreateFunc(ctx, slot)
}

func (m *mockSlotRepo) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockSlotRepo) FindAll(ctx context.Context) ([]*model.Slot, error) {
	return m.FindAllFunc(ctx)
}

func (m *mockSlotRepo) FindBySeller(ctx context.Context, sellerID string) ([]*model.Slot, error) {
	return m.FindBySellerFunc(ctx, sellerID)
}

func (m *mockSlotRepo) FindActive(ctx context.Context) ([]*model.Slot, error) {
	return m.FindActiveFunc(ctx)
}

func (m *mockSlotRepo) Update(ctx context.Context, id string, slot *model.Slot) error {
	return m.UpdateFunc(ctx, id, slot)
}

func (m *mockSlotRepo) Delete(ctx context.Context, id string) error {
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
	testSlotID   = "507f1f77bcf86cd799439011"
	testSellerID = "507f1f77bcf86cd799439012"
	testModelID  = "507f1f77bcf86cd799439013"
)

func testConfig() *config.Config {
	return &config.Config{
		CacheTTL: time.Hour,
		Log:      logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}

func happySellerRepo() *mockSellerRepo {
	return &mockSellerRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Seller, error) {
			return &model.Seller{ID: id}, nil
		},
	}
}

func happyCatalog() *mockCatalog {
	return &mockCatalog{
		GetModelByIDFunc: func(ctx context.Context, id string) (*model.VehicleModel, error) {
			return &model.VehicleModel{ID: id}, nil
		},
	}
}

func validSlot() *model.Slot {
	return &model.Slot{
		SellerID:       testSellerID,
		VehicleModelID: testModelID,
		Location:       "Lisbon showroom",
		AvailableDate:  time.Now().UTC().Add(48 * time.Hour),
		MaxBookings:    3,
		IsActive:       true,
	}
}

func newTestService(repo *mockSlotRepo, sellers *mockSellerRepo, catalog *mockCatalog, store cache.Cache) SlotService {
	cfg := testConfig()
	return NewSlotService(repo, sellers, catalog, store, validator.NewSlotValidator(cfg.Log), cfg)
}

func TestSlotGetByIDCachesResult(t *testing.T) {
	calls := 0
	repo := &mockSlotRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			calls++
			return &model.Slot{ID: id, SellerID: testSellerID, MaxBookings: 3}, nil
		},
	}
	svc := newTestService(repo, happySellerRepo(), happyCatalog(), cache.NewMemoryStore())

	for i := 0; i < 3; i++ {
		slot, err := svc.GetByID(context.Background(), testSlotID)
		if err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
		if slot.ID != testSlotID {
			t.Fatalf("expected slot %s, got %s", testSlotID, slot.ID)
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 repository call, got %d", calls)
	}
}

func TestSlotGetByIDNotFound(t *testing.T) {
	repo := &mockSlotRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return nil, slotserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, happySellerRepo(), happyCatalog(), cache.NewMemoryStore())

	_, err := svc.GetByID(context.Background(), testSlotID)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestSlotGetByIDEmptyID(t *testing.T) {
	svc := newTestService(&mockSlotRepo{}, happySellerRepo(), happyCatalog(), cache.NewMemoryStore())

	_, err := svc.GetByID(context.Background(), "")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestSlotCreateRejectsUnknownSeller(t *testing.T) {
	sellers := &mockSellerRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Seller, error) {
			return nil, sellersrepository.ErrNotFound
		},
	}
	created := false
	repo := &mockSlotRepo{
		CreateFunc: func(ctx context.Context, slot *model.Slot) error {
			created = true
			return nil
		},
	}
	svc := newTestService(repo, sellers, happyCatalog(), cache.NewMemoryStore())

	err := svc.Create(context.Background(), validSlot())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
	if created {
		t.Error("slot must not be persisted when the seller reference is invalid")
	}
}

func TestSlotCreateRejectsUnknownVehicleModel(t *testing.T) {
	catalog := &mockCatalog{
		GetModelByIDFunc: func(ctx context.Context, id string) (*model.VehicleModel, error) {
			return nil, apperrors.NotFoundWithID("Vehicle model", id)
		},
	}
	repo := &mockSlotRepo{
		CreateFunc: func(ctx context.Context, slot *model.Slot) error {
			t.Fatal("slot must not be persisted when the model reference is invalid")
			return nil
		},
	}
	svc := newTestService(repo, happySellerRepo(), catalog, cache.NewMemoryStore())

	err := svc.Create(context.Background(), validSlot())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestSlotCreateRejectsPastDate(t *testing.T) {
	svc := newTestService(&mockSlotRepo{}, happySellerRepo(), happyCatalog(), cache.NewMemoryStore())

	slot := validSlot()
	slot.AvailableDate = time.Now().UTC().Add(-48 * time.Hour)

	err := svc.Create(context.Background(), slot)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestSlotCreateNormalizesLocation(t *testing.T) {
	var persisted *model.Slot
	repo := &mockSlotRepo{
		CreateFunc: func(ctx context.Context, slot *model.Slot) error {
			persisted = slot
			return nil
		},
	}
	svc := newTestService(repo, happySellerRepo(), happyCatalog(), cache.NewMemoryStore())

	slot := validSlot()
	slot.Location = "  Lisbon   showroom  "
	if err := svc.Create(context.Background(), slot); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if persisted.Location != "Lisbon showroom" {
		t.Errorf("expected normalized location, got %q", persisted.Location)
	}
}

func TestSlotCreateInvalidatesListCaches(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()
	seedKeys := []string{
		cache.SlotsKey,
		cache.ActiveSlotsKey,
		cache.SellerSlotsKey(testSellerID),
		cache.SellerSlotsKey("other-seller"),
	}
	for _, key := range seedKeys {
		if err := store.Set(ctx, key, []byte(`[]`), time.Hour); err != nil {
			t.Fatalf("seeding cache: %v", err)
		}
	}

	repo := &mockSlotRepo{
		CreateFunc: func(ctx context.Context, slot *model.Slot) error {
			slot.ID = testSlotID
			return nil
		},
	}
	svc := newTestService(repo, happySellerRepo(), happyCatalog(), store)

	if err := svc.Create(ctx, validSlot()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for _, key := range seedKeys {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Errorf("expected key %q to be invalidated", key)
		}
	}
}

func TestSlotUpdateInvalidatesEntryAndLists(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()
	stale := []string{cache.SlotKey(testSlotID), cache.SlotsKey, cache.ActiveSlotsKey, cache.SellerSlotsKey(testSellerID)}
	for _, key := range stale {
		if err := store.Set(ctx, key, []byte(`{}`), time.Hour); err != nil {
			t.Fatalf("seeding cache: %v", err)
		}
	}

	existing := validSlot()
	existing.ID = testSlotID
	repo := &mockSlotRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, slot *model.Slot) error {
			return nil
		},
	}
	svc := newTestService(repo, happySellerRepo(), happyCatalog(), store)

	maxBookings := 5
	if err := svc.Update(ctx, testSlotID, &model.SlotUpdate{MaxBookings: &maxBookings}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	for _, key := range stale {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Errorf("expected key %q to be invalidated", key)
		}
	}
}

func TestSlotUpdatePreservesUnpatchedFields(t *testing.T) {
	existing := validSlot()
	existing.ID = testSlotID

	var updated *model.Slot
	repo := &mockSlotRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, slot *model.Slot) error {
			updated = slot
			return nil
		},
	}
	svc := newTestService(repo, happySellerRepo(), happyCatalog(), cache.NewMemoryStore())

	maxBookings := 7
	if err := svc.Update(context.Background(), testSlotID, &model.SlotUpdate{MaxBookings: &maxBookings}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.MaxBookings != 7 {
		t.Errorf("expected max_bookings 7, got %d", updated.MaxBookings)
	}
	if updated.SellerID != existing.SellerID {
		t.Errorf("seller_id must be preserved, got %q", updated.SellerID)
	}
	if updated.Location != existing.Location {
		t.Errorf("location must be preserved, got %q", updated.Location)
	}
}

func TestSlotDeleteNotFound(t *testing.T) {
	repo := &mockSlotRepo{
		DeleteFunc: func(ctx context.Context, id string) error {
			return slotserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, happySellerRepo(), happyCatalog(), cache.NewMemoryStore())

	err := svc.Delete(context.Background(), testSlotID)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestSlotGetActiveCachesResult(t *testing.T) {
	calls := 0
	repo := &mockSlotRepo{
		FindActiveFunc: func(ctx context.Context) ([]*model.Slot, error) {
			calls++
			return []*model.Slot{{ID: testSlotID}}, nil
		},
	}
	svc := newTestService(repo, happySellerRepo(), happyCatalog(), cache.NewMemoryStore())

	for i := 0; i < 2; i++ {
		slots, err := svc.GetActive(context.Background())
		if err != nil {
			t.Fatalf("GetActive returned error: %v", err)
		}
		if len(slots) != 1 {
			t.Fatalf("expected 1 slot, got %d", len(slots))
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 repository call, got %d", calls)
	}
}
