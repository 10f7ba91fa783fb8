package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	roomserrors "roomsched/internal/rooms/errors"
	"roomsched/pkg/config"
	"roomsched/pkg/model"
)

const (
	RoomCollectionName     = "Rooms"
	BuildingCollectionName = "Buildings"
)

// RoomRepository is the read-only room/building collaborator. Rooms and
// buildings are provisioned outside the engine.
type RoomRepository interface {
	FindByID(ctx context.Context, roomID string) (*model.Room, error)
	FindByBuilding(ctx context.Context, shortName string) ([]*model.Room, error)
	FindAll(ctx context.Context) ([]*model.Room, error)
	FindBuildings(ctx context.Context, shortNames []string) (map[string]*model.Building, error)
	ResolveBuilding(ctx context.Context, nameOrShortName string) (*model.Building, error)
}

type mongoRoomRepository struct {
	cfg       *config.Config
	rooms     *mongo.Collection
	buildings *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:       cfg,
		rooms:     db.Collection(RoomCollectionName),
		buildings: db.Collection(BuildingCollectionName),
	}
}

func (r *mongoRoomRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

// NormalizeRoomID canonicalizes a wire room id ("ecs-124 " -> "ECS-124").
// Empty after trimming means the id is unusable.
func NormalizeRoomID(roomID string) string {
	return strings.ToUpper(strings.TrimSpace(roomID))
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, roomID string) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var room model.Room
	err := r.rooms.FindOne(ctx, bson.M{"_id": NormalizeRoomID(roomID)}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) FindByBuilding(ctx context.Context, shortName string) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "room_number", Value: 1}})
	cursor, err := r.rooms.Find(ctx, bson.M{"building_short_name": strings.ToUpper(strings.TrimSpace(shortName))}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms by building: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "building_short_name", Value: 1},
		{Key: "room_number", Value: 1},
	})
	cursor, err := r.rooms.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) FindBuildings(ctx context.Context, shortNames []string) (map[string]*model.Building, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if len(shortNames) > 0 {
		filter["_id"] = bson.M{"$in": shortNames}
	}

	cursor, err := r.buildings.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find buildings: %w", err)
	}
	defer cursor.Close(ctx)

	var buildings []*model.Building
	if err = cursor.All(ctx, &buildings); err != nil {
		return nil, fmt.Errorf("failed to decode buildings: %w", err)
	}

	byShortName := make(map[string]*model.Building, len(buildings))
	for _, b := range buildings {
		byShortName[b.ShortName] = b
	}
	return byShortName, nil
}

// ResolveBuilding accepts a short name or a full name fragment,
// case-insensitively ("ECS", "Engineering").
func (r *mongoRoomRepository) ResolveBuilding(ctx context.Context, nameOrShortName string) (*model.Building, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	needle := strings.TrimSpace(nameOrShortName)
	if needle == "" {
		return nil, roomserrors.ErrBuildingNotFound
	}

	var building model.Building
	err := r.buildings.FindOne(ctx, bson.M{"_id": strings.ToUpper(needle)}).Decode(&building)
	if err == nil {
		return &building, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to find building: %w", err)
	}

	filter := bson.M{"name": bson.M{"$regex": regexQuoteMeta(needle), "$options": "i"}}
	err = r.buildings.FindOne(ctx, filter).Decode(&building)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrBuildingNotFound
		}
		return nil, fmt.Errorf("failed to find building: %w", err)
	}
	return &building, nil
}

// regexQuoteMeta escapes the needle so user input cannot inject regex
// operators into the Mongo query.
func regexQuoteMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
