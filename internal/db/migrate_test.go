package db

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigrate_DBError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer sqlDB.Close()

	// no expectations: goose's first statement fails
	_ = mock

	err = Migrate(sqlDB)
	if err == nil {
		t.Fatal("expected error from Migrate, got nil")
	}

	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	err := Migrate(nil)
	if err == nil {
		t.Fatal("expected error when db is nil, got nil")
	}

	if !strings.Contains(err.Error(), "db is nil") {
		t.Errorf("expected 'db is nil' error, got: %v", err)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := embedMigrations.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("no migrations embedded")
	}

	body, err := embedMigrations.ReadFile("migrations/" + entries[0].Name())
	if err != nil {
		t.Fatalf("read %s: %v", entries[0].Name(), err)
	}

	for _, want := range []string{"+goose Up", "+goose Down", "users_email_key"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("first migration missing %q", want)
		}
	}
}
