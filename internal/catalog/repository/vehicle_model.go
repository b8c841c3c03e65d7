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
	CollectionName = "Vehicle_models"
)

var (
	ErrNotFound  = errors.New("vehicle model not found")
	ErrInvalidID = errors.New("invalid vehicle model ID format")
)

type VehicleModelRepository interface {
	FindByID(ctx context.Context, id string) (*model.VehicleModel, error)
}

type mongoVehicleModelRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoVehicleModelRepository(cfg *config.Config) VehicleModelRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVehicleModelRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoVehicleModelRepository) FindByID(ctx context.Context, id string) (*model.VehicleModel, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var vehicleModel model.VehicleModel
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicleModel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vehicle model: %w", err)
	}

	return &vehicleModel, nil
}
