// file: service/audit_service.go

package service

import (
	"med-transcribe-api/logger"
	"med-transcribe-api/model"
	"med-transcribe-api/repository"

	"github.com/sirupsen/logrus"
)

// AuditService records data-access events for compliance. A failed write
// must never fail the operation being audited, so errors are logged and
// swallowed here.
type AuditService struct {
	repo repository.IAuditRepository
}

func NewAuditService(repo repository.IAuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends an audit entry.
func (s *AuditService) Record(userID int, resourceType string, resourceID int, action, description, ipAddress, userAgent string) {
	entry := &model.AuditLog{
		UserID:       userID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Description:  description,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	}

	if err := s.repo.Create(entry); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"user_id":       userID,
			"resource_type": resourceType,
			"action":        action,
		}).Error("Failed to write audit log entry")
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":       userID,
		"resource_type": resourceType,
		"resource_id":   resourceID,
		"action":        action,
	}).Info("Audit log entry recorded")
}
