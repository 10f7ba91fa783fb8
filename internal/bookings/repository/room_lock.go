package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roomsched/internal/bookings/errors"
	"roomsched/pkg/config"
	"roomsched/pkg/model"
)

const LockCollectionName = "Room_locks"

// RoomLockRepository is the storage-level safety net of the conflict guard.
// The unique _id (one lock document per room) serializes near-simultaneous
// writers on the same room; the application-level overlap check alone is
// racy. The expires_at TTL index reclaims locks from crashed writers.
type RoomLockRepository interface {
	// Acquire inserts the lock for the room. Returns ErrLockHeld when
	// another writer currently holds it.
	Acquire(ctx context.Context, roomID string, ttl time.Duration) error
	Release(ctx context.Context, roomID string) error
}

type mongoRoomLockRepository struct {
	collection *mongo.Collection
}

func NewRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoRoomLockRepository) Acquire(ctx context.Context, roomID string, ttl time.Duration) error {
	now := time.Now()
	lock := &model.RoomLock{
		ID:        roomID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire room lock: %w", err)
	}
	return nil
}

func (r *mongoRoomLockRepository) Release(ctx context.Context, roomID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": roomID})
	return err
}
