// Package mongo implements the approval store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetboard/internal/approval"
)

const (
	usersCollection = "users"
	opTimeout       = 10 * time.Second
)

// Store persists users in a MongoDB collection.
type Store struct {
	users *mongo.Collection
}

var _ approval.Store = (*Store)(nil)

// Connect dials MongoDB and returns the store plus a cleanup function that
// closes the connection.
func Connect(ctx context.Context, uri, database string) (*Store, func() error, error) {
	dialCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	cleanup := func() error {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return client.Disconnect(disconnectCtx)
	}
	return &Store{users: client.Database(database).Collection(usersCollection)}, cleanup, nil
}

func (s *Store) Create(ctx context.Context, user approval.User) (approval.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = approval.RoleViewer
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return approval.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *Store) Get(ctx context.Context, id string) (approval.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user approval.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return approval.User{}, approval.ErrNotFound
	}
	if err != nil {
		return approval.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *Store) List(ctx context.Context, pendingOnly bool) ([]approval.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if pendingOnly {
		filter["approved"] = false
	}

	cursor, err := s.users.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []approval.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *Store) SetApproved(ctx context.Context, id string, approved bool) error {
	return s.update(ctx, id, bson.M{"approved": approved})
}

func (s *Store) SetRole(ctx context.Context, id, role string) error {
	return s.update(ctx, id, bson.M{"role": role})
}

func (s *Store) update(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	fields["updated_at"] = time.Now().UTC()
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return approval.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return approval.ErrNotFound
	}
	return nil
}
