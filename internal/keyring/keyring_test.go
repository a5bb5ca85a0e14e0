package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/tally?sslmode=disable"

	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetEmptyRejected(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
	if err := SetSessionToken(""); err == nil {
		t.Error("SetSessionToken(\"\") should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()

	_ = DeleteConnectionString()
	_ = DeleteSessionToken()

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := GetSessionToken(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSessionToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestSessionTokenLifecycle(t *testing.T) {
	gokeyring.MockInit()

	if err := SetSessionToken("token-123"); err != nil {
		t.Fatalf("SetSessionToken() failed: %v", err)
	}
	// The two accounts are independent.
	if err := SetConnectionString("postgres://u@h/db"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	token, err := GetSessionToken()
	if err != nil || token != "token-123" {
		t.Fatalf("GetSessionToken() = %q, %v", token, err)
	}

	if err := DeleteSessionToken(); err != nil {
		t.Fatalf("DeleteSessionToken() failed: %v", err)
	}
	if err := DeleteSessionToken(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteSessionToken() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := GetConnectionString(); err != nil {
		t.Errorf("connection string should survive sign-out: %v", err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() should be true with the mock keyring")
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus not running"))
	defer gokeyring.MockInit()

	if _, err := GetSessionToken(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetSessionToken() error = %v, want %v", err, ErrKeyringUnavailable)
	}
	if IsAvailable() {
		t.Error("IsAvailable() should be false when the keyring errors")
	}
}
