package security

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if hash == "correct horse battery" {
		t.Fatalf("hash must not equal the plain text")
	}

	if err := CheckPassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("CheckPassword with the right password: %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("CheckPassword accepted a wrong password")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err != ErrEmptyPassword {
		t.Fatalf("got %v, want ErrEmptyPassword", err)
	}
}

func TestHashPassword_TooLongInBytes(t *testing.T) {
	// 40 runes, 80 bytes
	if _, err := HashPassword(strings.Repeat("é", 40)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("got %v, want ErrPasswordTooLong", err)
	}

	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("72 bytes must hash: %v", err)
	}
}
