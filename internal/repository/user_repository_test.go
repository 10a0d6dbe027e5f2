package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	users, _, _ := newTestRepos(t)
	ctx := context.Background()

	if err := users.Create(ctx, &model.User{Username: "alice", PasswordHash: "a"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	err := users.Create(ctx, &model.User{Username: "alice", PasswordHash: "b"})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate username: got %v, want gorm.ErrDuplicatedKey", err)
	}

	// The failed insert must not leave a second row behind.
	first, err := users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if first.PasswordHash != "a" {
		t.Fatalf("original row was replaced: hash = %q", first.PasswordHash)
	}
}

func TestFindByUsernameNotFound(t *testing.T) {
	users, _, _ := newTestRepos(t)

	_, err := users.FindByUsername(context.Background(), "nobody")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want gorm.ErrRecordNotFound", err)
	}
}
