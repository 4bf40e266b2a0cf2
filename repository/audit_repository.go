// file: repository/audit_repository.go

package repository

import (
	"database/sql"
	"med-transcribe-api/logger"
	"med-transcribe-api/model"

	"github.com/sirupsen/logrus"
)

// IAuditRepository defines the contract for audit log database operations.
type IAuditRepository interface {
	Create(entry *model.AuditLog) error
	GetByUserID(userID int, limit int) ([]*model.AuditLog, error)
}

// AuditRepository implements IAuditRepository.
type AuditRepository struct {
	DB *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

// Create inserts a new audit log row.
func (r *AuditRepository) Create(entry *model.AuditLog) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":       entry.UserID,
		"resource_type": entry.ResourceType,
		"action":        entry.Action,
	})

	query := `INSERT INTO audit_logs (user_id, resource_type, resource_id, action, description, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, timestamp`
	err := r.DB.QueryRow(query, entry.UserID, entry.ResourceType, entry.ResourceID,
		entry.Action, entry.Description, entry.IPAddress, entry.UserAgent).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		log.WithError(err).Error("Failed to execute create audit log query")
		return err
	}
	return nil
}

// GetByUserID retrieves the most recent audit entries for a user.
func (r *AuditRepository) GetByUserID(userID int, limit int) ([]*model.AuditLog, error) {
	query := `SELECT id, user_id, resource_type, resource_id, action, description, ip_address, user_agent, timestamp
		FROM audit_logs WHERE user_id=$1 ORDER BY timestamp DESC LIMIT $2`
	rows, err := r.DB.Query(query, userID, limit)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute get audit logs query")
		return nil, err
	}
	defer rows.Close()

	var entries []*model.AuditLog
	for rows.Next() {
		entry := &model.AuditLog{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.ResourceType, &entry.ResourceID,
			&entry.Action, &entry.Description, &entry.IPAddress, &entry.UserAgent, &entry.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
