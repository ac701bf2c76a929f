package services

import (
	"strings"
	"testing"

	"siteledger/internal/testutil"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func userTestStack(t *testing.T) (*gorm.DB, UserServicer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return db, NewUserService(db)
}

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		_, svc := userTestStack(t)

		user, err := svc.CreateUser("Foreman@Example.com", "secret123", "Ana", "Silva", "555-0100")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "foreman@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "secret123" {
			t.Error("expected password to be hashed")
		}
		if !strings.HasPrefix(user.Password, "$2") {
			t.Errorf("expected bcrypt hash, got %s", user.Password)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
			t.Errorf("stored hash does not match password: %v", err)
		}
		if !user.IsActive {
			t.Error("expected new user to be active")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		_, svc := userTestStack(t)

		_, err := svc.CreateUser("dup@example.com", "secret123", "", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "other456", "", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		_, svc := userTestStack(t)

		_, err := svc.CreateUser("", "secret123", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("user@example.com", "", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("case_insensitive", func(t *testing.T) {
		_, svc := userTestStack(t)

		created, err := svc.CreateUser("lookup@example.com", "secret123", "", "", "")
		testutil.AssertNoError(t, err)

		found, err := svc.GetUserByEmail("LOOKUP@Example.com")
		testutil.AssertNoError(t, err)
		if found.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, found.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		_, svc := userTestStack(t)

		_, err := svc.GetUserByEmail("missing@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("inactive_user_hidden", func(t *testing.T) {
		db, svc := userTestStack(t)

		created, err := svc.CreateUser("inactive@example.com", "secret123", "", "", "")
		testutil.AssertNoError(t, err)
		if err := db.Model(created).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate user: %v", err)
		}

		_, err = svc.GetUserByEmail("inactive@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestVerifyPassword(t *testing.T) {
	_, svc := userTestStack(t)

	user, err := svc.CreateUser("verify@example.com", "secret123", "", "", "")
	testutil.AssertNoError(t, err)

	if !svc.VerifyPassword(user, "secret123") {
		t.Error("expected correct password to verify")
	}
	if svc.VerifyPassword(user, "wrong") {
		t.Error("expected wrong password to fail")
	}
}
