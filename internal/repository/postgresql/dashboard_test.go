package postgresql_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRepository_GetAttendanceStats(t *testing.T) {
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)
	employeeID := "emp-1"

	t.Run("all employees", func(t *testing.T) {
		mock, db := newMockDB(t)
		repo := postgresql.NewDashboardRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE date BETWEEN $1 AND $2")).
			WithArgs(start, end).
			WillReturnRows(pgxmock.NewRows([]string{"present", "absent", "leave"}).AddRow(int64(40), int64(3), int64(2)))

		stats, err := repo.GetAttendanceStats(context.Background(), nil, start, end)
		require.NoError(t, err)
		assert.Equal(t, int64(40), stats.Present)
		assert.Equal(t, int64(3), stats.Absent)
		assert.Equal(t, int64(2), stats.Leave)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("single employee", func(t *testing.T) {
		mock, db := newMockDB(t)
		repo := postgresql.NewDashboardRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("AND employee_id = $3")).
			WithArgs(start, end, employeeID).
			WillReturnRows(pgxmock.NewRows([]string{"present", "absent", "leave"}).AddRow(int64(18), int64(2), int64(0)))

		stats, err := repo.GetAttendanceStats(context.Background(), &employeeID, start, end)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Absent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock, db := newMockDB(t)
		repo := postgresql.NewDashboardRepository(db)

		storeErr := errors.New("connection reset")
		mock.ExpectQuery("FROM attendance_records").WithArgs(start, end).WillReturnError(storeErr)

		_, err := repo.GetAttendanceStats(context.Background(), nil, start, end)
		assert.ErrorIs(t, err, storeErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
