package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserStoreFindByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := newPostgresUserStore(mock)
	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id::text, email, password_hash, role, created_at FROM admin_users WHERE email = \$1`).
		WithArgs("admin@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}).
			AddRow("u-1", "admin@example.com", "$2a$10$hash", RoleAdmin, created))

	user, err := store.FindByEmail(context.Background(), " Admin@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.True(t, user.IsAdmin())
	assert.Equal(t, created, user.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStoreFindByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := newPostgresUserStore(mock)
	mock.ExpectQuery(`FROM admin_users`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err = store.FindByEmail(context.Background(), "ghost@example.com")

	assert.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStoreCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := newPostgresUserStore(mock)
	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO admin_users \(email, password_hash, role\)`).
		WithArgs("new@example.com", "hash", RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("u-2", created))

	user := &User{Email: "New@Example.com", PasswordHash: "hash", Role: RoleAdmin}
	require.NoError(t, store.Create(context.Background(), user))
	assert.Equal(t, "u-2", user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStoreCreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := newPostgresUserStore(mock)
	mock.ExpectQuery(`INSERT INTO admin_users`).
		WithArgs("dup@example.com", "hash", RoleAdmin).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = store.Create(context.Background(), &User{Email: "dup@example.com", PasswordHash: "hash", Role: RoleAdmin})

	assert.ErrorIs(t, err, ErrUserExists)
	require.NoError(t, mock.ExpectationsWereMet())
}
