// Package approval manages dashboard user accounts and the approval gate
// that controls who may see fleet data.
package approval

import (
	"context"
	"errors"
	"time"
)

// Roles a user can hold.
const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)

// ErrNotFound is returned when a user ID does not exist.
var ErrNotFound = errors.New("user not found")

// User is a dashboard account awaiting or holding approval.
type User struct {
	ID          string    `json:"id" bson:"_id"`
	Email       string    `json:"email" bson:"email"`
	DisplayName string    `json:"displayName" bson:"display_name"`
	Role        string    `json:"role" bson:"role"`
	Approved    bool      `json:"approved" bson:"approved"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// Store is the persistence port for user accounts.
type Store interface {
	Create(ctx context.Context, user User) (User, error)
	Get(ctx context.Context, id string) (User, error)
	List(ctx context.Context, pendingOnly bool) ([]User, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	SetRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
}
