// internal/app/store/rooms/roomstore.go
package roomstore

import (
	"context"
	"time"

	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/app/system/status"
	"github.com/dalemusser/roomhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the rooms collection. Documents are never deleted;
// deactivation is a status flip and the document stays put.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("rooms")}
}

func (s *Store) Insert(ctx context.Context, room models.Room) error {
	_, err := s.c.InsertOne(ctx, room)
	return err
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Room, bool, error) {
	var room models.Room
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return models.Room{}, false, nil
	}
	if err != nil {
		return models.Room{}, false, err
	}
	return room, true, nil
}

// UpdateInfo applies the non-nil fields of upd. Status, visibility and
// ownership have dedicated methods and are not reachable from here.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd roomservice.RoomUpdate) (bool, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
		set["name_ci"] = text.Fold(*upd.Name)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.LocationText != nil {
		set["location.text"] = *upd.LocationText
	}
	if upd.Lat != nil {
		set["location.lat"] = *upd.Lat
	}
	if upd.Lng != nil {
		set["location.lng"] = *upd.Lng
	}
	if upd.RoomType != nil {
		set["room_type"] = *upd.RoomType
	}
	if upd.Capacity != nil {
		set["capacity"] = *upd.Capacity
	}
	if upd.RentAmount != nil {
		set["rent.amount"] = *upd.RentAmount
	}
	if upd.RentCurrency != nil {
		set["rent.currency"] = *upd.RentCurrency
	}
	if upd.RentAdvance != nil {
		set["rent.advance"] = *upd.RentAdvance
	}
	if upd.Amenities != nil {
		set["amenities"] = *upd.Amenities
	}
	if upd.ImageURLs != nil {
		set["image_urls"] = *upd.ImageURLs
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) (bool, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) SetVisibility(ctx context.Context, id primitive.ObjectID, isPublic bool) (bool, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_public":  isPublic,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SetOwner assigns ownership only while the room is still unowned. The
// filter makes the write a compare-and-set so two approved claims can
// never both win.
func (s *Store) SetOwner(ctx context.Context, id, ownerID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "owner_id": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{
			"owner_id":      ownerID,
			"creation_type": models.OwnerCreated,
			"updated_at":    time.Now().UTC(),
		}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) AdjustMemberCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"member_count": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// ListVisible returns active public rooms, newest first.
func (s *Store) ListVisible(ctx context.Context) ([]models.Room, error) {
	return s.list(ctx, bson.M{"status": status.Active, "is_public": true})
}

func (s *Store) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Room, error) {
	return s.list(ctx, bson.M{"owner_id": ownerID})
}

// ListUnownedByCreator returns the member-created rooms a user created
// that still have no owner.
func (s *Store) ListUnownedByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Room, error) {
	return s.list(ctx, bson.M{
		"created_by": creatorID,
		"owner_id":   bson.M{"$exists": false},
	})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rooms []models.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}
