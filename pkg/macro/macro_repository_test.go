package macro

import (
	"SimpleMacro-Backend/entities"
	"SimpleMacro-Backend/internal/watch"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestDeleteAllEntriesForUserScopedToAccount(t *testing.T) {
	db, mock := newMockDB(t)
	hub := watch.NewHub()
	repo := NewMacroRepository(db, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals := hub.Subscribe(ctx, entriesTable, 7)

	// The bulk delete must carry the user_id filter; without it one
	// account's purge would wipe every account's entries.
	mock.ExpectExec(`DELETE FROM "macro_entries" WHERE user_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteAllEntriesForUser(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())

	select {
	case <-signals:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal after the bulk delete")
	}
}

func TestDeleteEntryScopedToRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMacroRepository(db, watch.NewHub())

	mock.ExpectExec(`DELETE FROM "macro_entries" WHERE id = \$1`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &entities.MacroEntry{ID: 42, UserID: 7}
	require.NoError(t, repo.DeleteEntry(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}
