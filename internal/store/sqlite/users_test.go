package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		Email:        "Dana@Example.com",
		PasswordHash: "$argon2id$fake",
		IsRoot:       true,
		DisplayName:  "Dana",
		FirstName:    "Dana",
		LastName:     "Reeve",
		LastLoginAt:  now,
	}
	user.ID = "user-1"
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("Email: got %q, want %q", got.Email, user.Email)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, user.PasswordHash)
	}
	if !got.IsRoot {
		t.Error("IsRoot: got false, want true")
	}
	if got.DisplayName != "Dana" {
		t.Errorf("DisplayName: got %q, want %q", got.DisplayName, "Dana")
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	got, err := s.GetUserByEmail(ctx, "USER-1@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "user-1")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	dup := &domain.User{
		Email:       "USER-1@example.com", // same email, different case
		LastLoginAt: time.Now(),
	}
	dup.ID = "user-2"
	dup.InitTimestamps()

	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	user, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	user.DisplayName = "New Name"
	user.Touch()
	if err := s.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser after update: %v", err)
	}
	if got.DisplayName != "New Name" {
		t.Errorf("DisplayName: got %q, want %q", got.DisplayName, "New Name")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	user := &domain.User{Email: "ghost@example.com", LastLoginAt: time.Now()}
	user.ID = "ghost"
	user.InitTimestamps()

	err := s.UpdateUser(context.Background(), user)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCountUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	count, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 0 {
		t.Errorf("count: got %d, want 0", count)
	}

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")

	count, err = s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 2 {
		t.Errorf("count: got %d, want 2", count)
	}
}

func TestSessions_RoundTripAndRotation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	now := time.Now()
	sess := &domain.Session{
		ID:               "sess-1",
		UserID:           "user-1",
		RefreshTokenHash: "hash-one",
		ExpiresAt:        now.Add(time.Hour),
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        "10.0.0.1",
		DeviceType:       "desktop",
		Platform:         "Linux",
		ClientName:       "CorkBoard CLI",
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByRefreshToken(ctx, "hash-one")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID: got %q, want %q", got.UserID, "user-1")
	}
	if got.Platform != "Linux" {
		t.Errorf("Platform: got %q, want %q", got.Platform, "Linux")
	}

	// Rotate the refresh token.
	got.RefreshTokenHash = "hash-two"
	got.Touch()
	if err := s.UpdateSession(ctx, got); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "hash-one"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("old token should be gone, got %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-two"); err != nil {
		t.Errorf("new token lookup: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	now := time.Now()
	for _, tc := range []struct {
		id      string
		expires time.Time
	}{
		{"sess-live", now.Add(time.Hour)},
		{"sess-dead", now.Add(-time.Hour)},
	} {
		sess := &domain.Session{
			ID:               tc.id,
			UserID:           "user-1",
			RefreshTokenHash: "hash-" + tc.id,
			ExpiresAt:        tc.expires,
			CreatedAt:        now,
			LastSeenAt:       now,
		}
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession %s: %v", tc.id, err)
		}
	}

	deleted, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted: got %d, want 1", deleted)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "hash-sess-live"); err != nil {
		t.Errorf("live session lookup: %v", err)
	}
}
