package postgresql_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "email", "password_hash", "role", "created_at", "updated_at", "employee_id"}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, db := newMockDB(t)
	repo := postgresql.NewUserRepository(db)

	employeeID := "emp-1"
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN employees e ON e.user_id = u.id")).
		WithArgs("asha@example.com").
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("user-1", "asha@example.com", "hash", user.RoleEmployee, now, now, &employeeID))

	u, err := repo.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, user.RoleEmployee, u.Role)
	require.NotNil(t, u.EmployeeID)
	assert.Equal(t, "emp-1", *u.EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock, db := newMockDB(t)
	repo := postgresql.NewUserRepository(db)

	mock.ExpectQuery("FROM users u").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock, db := newMockDB(t)
		repo := postgresql.NewUserRepository(db)

		now := time.Now()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "staff@example.com", "hash", user.RoleStaff).
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}).
				AddRow("user-9", "staff@example.com", "hash", user.RoleStaff, now, now))

		created, err := repo.Create(context.Background(), user.User{Email: "staff@example.com", PasswordHash: "hash", Role: user.RoleStaff})
		require.NoError(t, err)
		assert.Equal(t, "user-9", created.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock, db := newMockDB(t)
		repo := postgresql.NewUserRepository(db)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "staff@example.com", "hash", user.RoleStaff).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := repo.Create(context.Background(), user.User{Email: "staff@example.com", PasswordHash: "hash", Role: user.RoleStaff})
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
