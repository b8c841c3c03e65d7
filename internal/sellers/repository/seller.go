package repository

import (
	"context"
	"errors"
	"fmt"

	"drivemart/pkg/config"
	"drivemart/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Sellers"
)

var (
	ErrNotFound  = errors.New("seller not found")
	ErrInvalidID = errors.New("invalid seller ID format")
)

// SellerRepository is the lookup surface the slot workflow uses to
// validate seller references before persisting.
type SellerRepository interface {
	FindByID(ctx context.Context, id string) (*model.Seller, error)
}

type mongoSellerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSellerRepository(cfg *config.Config) SellerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSellerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSellerRepository) FindByID(ctx context.Context, id string) (*model.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var seller model.Seller
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}

	return &seller, nil
}
