package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/antcal/internal/application"
	"github.com/example/antcal/internal/persistence"
	"github.com/example/antcal/internal/testfixtures"
)

func newAuthService(h *testfixtures.StoreHarness) *application.AuthService {
	return application.NewAuthService(h.Store, h.IDs.NextFunc(), nil)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	params := application.RegisterParams{
		Email:    "a@x.com",
		Password: "p1",
		Username: "A",
		Phone:    "010-0000-0000",
	}

	t.Run("persists a new user with a hashed password", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newAuthService(harness)

		user, err := service.Register(context.Background(), params)
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.ID == "" {
			t.Fatal("expected generated identifier")
		}

		state := harness.State(t)
		if len(state.Users) != 1 {
			t.Fatalf("expected one stored user, got %d", len(state.Users))
		}
		stored := state.Users[0]
		if stored.Email != "a@x.com" || stored.Username != "A" || stored.Phone != "010-0000-0000" {
			t.Fatalf("unexpected stored user: %#v", stored)
		}
		if stored.Password == "p1" || stored.Password == "" {
			t.Fatalf("expected hashed password, got %q", stored.Password)
		}
	})

	t.Run("rejects missing fields without touching the store", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newAuthService(harness)

		incomplete := params
		incomplete.Phone = ""
		_, err := service.Register(context.Background(), incomplete)

		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["phone"]; !ok {
			t.Fatalf("expected phone field error, got %#v", vErr.FieldErrors)
		}
		if got := len(harness.State(t).Users); got != 0 {
			t.Fatalf("expected store unchanged, got %d users", got)
		}
	})

	t.Run("rejects a duplicate email and keeps exactly one record", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newAuthService(harness)
		ctx := context.Background()

		if _, err := service.Register(ctx, params); err != nil {
			t.Fatalf("first Register failed: %v", err)
		}
		_, err := service.Register(ctx, params)
		if !errors.Is(err, application.ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
		if got := len(harness.State(t).Users); got != 1 {
			t.Fatalf("expected exactly one user, got %d", got)
		}
	})

	t.Run("treats email comparison as case-sensitive", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newAuthService(harness)
		ctx := context.Background()

		if _, err := service.Register(ctx, params); err != nil {
			t.Fatalf("first Register failed: %v", err)
		}
		upper := params
		upper.Email = "A@X.COM"
		if _, err := service.Register(ctx, upper); err != nil {
			t.Fatalf("expected distinct-cased email to register, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("returns the reduced projection for valid credentials", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newAuthService(harness)
		ctx := context.Background()

		registered, err := service.Register(ctx, application.RegisterParams{
			Email: "a@x.com", Password: "p1", Username: "A", Phone: "010-0000-0000",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		profile, err := service.Login(ctx, application.LoginParams{Email: "a@x.com", Password: "p1"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		want := application.UserProfile{
			ID: registered.ID, Email: "a@x.com", Username: "A", Phone: "010-0000-0000",
		}
		if profile != want {
			t.Fatalf("unexpected profile: %#v", profile)
		}
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newAuthService(harness)

		_, err := service.Login(context.Background(), application.LoginParams{Email: "nobody@x.com", Password: "p1"})
		if !errors.Is(err, application.ErrUnknownEmail) {
			t.Fatalf("expected ErrUnknownEmail, got %v", err)
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newAuthService(harness)
		ctx := context.Background()

		if _, err := service.Register(ctx, application.RegisterParams{
			Email: "a@x.com", Password: "p1", Username: "A", Phone: "010-0000-0000",
		}); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		_, err := service.Login(ctx, application.LoginParams{Email: "a@x.com", Password: "wrong"})
		if !errors.Is(err, application.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewStoreHarness(t)
		service := newAuthService(harness)

		_, err := service.Login(context.Background(), application.LoginParams{Email: "a@x.com"})
		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := application.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if err := application.VerifyPassword(hash, "secret"); err != nil {
		t.Fatalf("VerifyPassword rejected the original password: %v", err)
	}
	if err := application.VerifyPassword(hash, "other"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewStoreHarness(t)
	service := newAuthService(harness)

	harness.Seed(t, persistence.State{Users: []persistence.User{testfixtures.NewUser()}})
	if err := service.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if got := len(harness.State(t).Users); got != 1 {
		t.Fatalf("logout must not mutate the store, got %d users", got)
	}
}
