package cache

import "fmt"

// The cache key namespace. Every mutation must invalidate every key whose
// cached value depends on the touched entity; builders live here so call
// sites cannot drift apart on formatting.

const (
	SlotsKey       = "slots"
	ActiveSlotsKey = "slots_active"

	SellerSlotsPattern = "slots_seller_*"
	ListingsPattern    = "listings_*"
)

func SlotKey(id string) string {
	return "slot_" + id
}

func SellerSlotsKey(sellerID string) string {
	return "slots_seller_" + sellerID
}

func BookingKey(id string) string {
	return "booking_" + id
}

func CustomerBookingsKey(customerID string) string {
	return "bookings_customer_" + customerID
}

// Brand and category CRUD is owned by the catalog platform service;
// their builders stay here so every consumer of the shared namespace
// formats keys the same way.

func BrandKey(id string) string {
	return "brand_" + id
}

func CategoryKey(id string) string {
	return "category_" + id
}

func ModelKey(id string) string {
	return "model_" + id
}

func ListingKey(id string) string {
	return "listing_" + id
}

func ListingsPageKey(page, limit int, search, filter string) string {
	return fmt.Sprintf("listings_%d_%d_%s_%s", page, limit, search, filter)
}
