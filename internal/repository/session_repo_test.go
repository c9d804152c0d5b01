package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"roastwatch"

	"github.com/DATA-DOG/go-sqlmock"
)

func newSessionMock(t *testing.T) (sqlmock.Sqlmock, *SessionSQLite, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return mock, NewSessionSQLite(db), cleanup
}

func sessionColumns() []string {
	return []string{"id", "user_id", "name", "target_temp_f", "serve_at", "active", "created_at"}
}

func TestSessionRepo_Create(t *testing.T) {
	t.Parallel()
	mock, repo, cleanup := newSessionMock(t)
	defer cleanup()

	serve := repoBase.Add(8 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
		WithArgs("s1", 1, "brisket", 203.0, serve, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), roastwatch.CookSession{
		ID: "s1", UserID: 1, Name: "brisket", TargetTempF: 203, ServeAt: &serve, Active: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestSessionRepo_GetByID(t *testing.T) {
	t.Parallel()
	mock, repo, cleanup := newSessionMock(t)
	defer cleanup()

	serve := repoBase.Add(8 * time.Hour)
	rows := sqlmock.NewRows(sessionColumns()).
		AddRow("s1", 1, "brisket", 203.0, serve, true, repoBase)

	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("s1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "brisket" || got.UserID != 1 {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.ServeAt == nil || !got.ServeAt.Equal(serve) {
		t.Fatalf("serve_at: want %v, got %v", serve, got.ServeAt)
	}
}

func TestSessionRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	mock, repo, cleanup := newSessionMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(sessionColumns()))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSessionRepo_ListActive_NullServeAt(t *testing.T) {
	t.Parallel()
	mock, repo, cleanup := newSessionMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(sessionColumns()).
		AddRow("s1", 1, "brisket", 203.0, nil, true, repoBase).
		AddRow("s2", 2, "ribs", 195.0, repoBase.Add(6*time.Hour), true, repoBase.Add(time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(selectActiveSessionsSQL)).
		WillReturnRows(rows)

	got, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 sessions, got %d", len(got))
	}
	if got[0].ServeAt != nil {
		t.Errorf("expected nil serve_at, got %v", got[0].ServeAt)
	}
	if got[1].ServeAt == nil {
		t.Errorf("expected serve_at on second session")
	}
}

func TestSessionRepo_Update_NotFound(t *testing.T) {
	t.Parallel()
	mock, repo, cleanup := newSessionMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(updateSessionSQL)).
		WithArgs("x", 200.0, nil, true, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), roastwatch.CookSession{
		ID: "missing", Name: "x", TargetTempF: 200, Active: true,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
