package approval

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, User{Email: "driver@fleet.example", DisplayName: "Driver"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create did not assign an ID")
	}
	if created.Role != RoleViewer {
		t.Errorf("default role = %q, want viewer", created.Role)
	}
	if created.Approved {
		t.Error("new user should not be approved")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil || got.Email != "driver@fleet.example" {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	if err := store.SetApproved(ctx, created.ID, true); err != nil {
		t.Fatalf("SetApproved returned error: %v", err)
	}
	if err := store.SetRole(ctx, created.ID, RoleAdmin); err != nil {
		t.Fatalf("SetRole returned error: %v", err)
	}

	got, _ = store.Get(ctx, created.ID)
	if !got.Approved || got.Role != RoleAdmin {
		t.Errorf("after updates = %+v", got)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListPending(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	pending, _ := store.Create(ctx, User{Email: "pending@fleet.example"})
	approved, _ := store.Create(ctx, User{Email: "approved@fleet.example"})
	if err := store.SetApproved(ctx, approved.ID, true); err != nil {
		t.Fatal(err)
	}

	all, err := store.List(ctx, false)
	if err != nil || len(all) != 2 {
		t.Fatalf("List(all) = %d users, %v", len(all), err)
	}

	got, err := store.List(ctx, true)
	if err != nil {
		t.Fatalf("List(pending) returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != pending.ID {
		t.Errorf("pending list = %+v", got)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.SetApproved(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetApproved = %v, want ErrNotFound", err)
	}
	if err := store.SetRole(ctx, "missing", RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetRole = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete = %v, want ErrNotFound", err)
	}
}
