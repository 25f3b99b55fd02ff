package auth

import (
	"context"
	"errors"
	"testing"
)

func TestWithUser_UserFromCtx(t *testing.T) {
	ctx := WithUser(context.Background(), "alice")

	got, err := UserFromCtx(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "alice" {
		t.Fatalf("expected %q, got %q", "alice", got)
	}
}

func TestUserFromCtx_EmptyContext(t *testing.T) {
	_, err := UserFromCtx(context.Background())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserFromCtx_EmptyUsername(t *testing.T) {
	ctx := WithUser(context.Background(), "")
	_, err := UserFromCtx(ctx)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for empty username, got %v", err)
	}
}

func TestUserFromCtx_Isolation(t *testing.T) {
	ctx1 := WithUser(context.Background(), "alice")
	ctx2 := WithUser(context.Background(), "bob")

	got1, _ := UserFromCtx(ctx1)
	got2, _ := UserFromCtx(ctx2)

	if got1 != "alice" {
		t.Fatalf("ctx1: expected %q, got %q", "alice", got1)
	}
	if got2 != "bob" {
		t.Fatalf("ctx2: expected %q, got %q", "bob", got2)
	}
}
