package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roomsched/internal/bookings/errors"
	"roomsched/pkg/config"
	"roomsched/pkg/model"
)

const SeriesCollectionName = "Booking_series"

type SeriesRepository interface {
	Create(ctx context.Context, series *model.BookingSeries) error
	FindByID(ctx context.Context, id string) (*model.BookingSeries, error)
}

type mongoSeriesRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSeriesRepository(cfg *config.Config) SeriesRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSeriesRepository{
		cfg:        cfg,
		collection: db.Collection(SeriesCollectionName),
	}
}

func (r *mongoSeriesRepository) Create(ctx context.Context, series *model.BookingSeries) error {
	if series.ID == "" {
		series.ID = uuid.NewString()
	}
	series.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, series); err != nil {
		return fmt.Errorf("failed to create booking series: %w", err)
	}
	return nil
}

func (r *mongoSeriesRepository) FindByID(ctx context.Context, id string) (*model.BookingSeries, error) {
	var series model.BookingSeries
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&series)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrSeriesNotFound
		}
		return nil, fmt.Errorf("failed to find booking series: %w", err)
	}
	return &series, nil
}
