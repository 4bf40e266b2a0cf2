// file: repository/audit_repository_test.go

package repository

import (
	"med-transcribe-api/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestAuditRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewAuditRepository(db)

	entry := &model.AuditLog{
		UserID:       7,
		ResourceType: "user",
		ResourceID:   7,
		Action:       "login",
		Description:  "User login",
		IPAddress:    "10.0.0.1",
		UserAgent:    "test-agent",
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO audit_logs`)).
		WithArgs(7, "user", 7, "login", "User login", "10.0.0.1", "test-agent").
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, time.Now()))

	err = repo.Create(entry)
	assert.NoError(t, err)
	assert.Equal(t, 1, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepository_GetByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewAuditRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "resource_type", "resource_id", "action", "description", "ip_address", "user_agent", "timestamp",
	}).
		AddRow(2, 7, "user", 7, "password_change", "User changed their password", "10.0.0.1", "test-agent", now).
		AddRow(1, 7, "user", 7, "login", "User login", "10.0.0.1", "test-agent", now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs(7, 10).
		WillReturnRows(rows)

	entries, err := repo.GetByUserID(7, 10)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "password_change", entries[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
