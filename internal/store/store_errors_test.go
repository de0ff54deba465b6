package store

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/models"
)

// Failure paths that the in-memory database cannot produce are driven
// through sqlmock.

func TestListDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	defer db.Close()
	s := NewSQLStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM records WHERE kind = ?")).
		WillReturnError(fmt.Errorf("disk I/O error"))

	_, err = s.List(context.Background(), models.KindNote, ListOptions{})
	if !errors.Is(err, errors.ErrDatabase) {
		t.Fatalf("Expected DATABASE_ERROR, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDeleteDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	defer db.Close()
	s := NewSQLStore(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM records WHERE kind = ? AND id = ?")).
		WillReturnError(fmt.Errorf("database is locked"))

	err = s.Delete(context.Background(), models.KindNote, "some-id")
	if !errors.Is(err, errors.ErrDatabase) {
		t.Fatalf("Expected DATABASE_ERROR, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDeleteZeroRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	defer db.Close()
	s := NewSQLStore(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM records WHERE kind = ? AND id = ?")).
		WithArgs(models.KindNote, "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = s.Delete(context.Background(), models.KindNote, "gone")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("Expected NOT_FOUND, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
