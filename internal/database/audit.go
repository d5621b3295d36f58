package database

import (
	"context"
	"log"

	"stockdesk/internal/auth"
	"stockdesk/internal/models"

	"gorm.io/gorm"
)

// CreateAuditLog writes one audit row. Failures are logged, never returned.
func CreateAuditLog(db *gorm.DB, userID uint, entity string, entityID uint, action, details string) {
	if db == nil {
		return
	}
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := db.Create(&record).Error; err != nil {
		log.Printf("failed to write audit log (%s %s): %v", entity, action, err)
	}
}

func ListAuditLogs(ctx context.Context, db *gorm.DB, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.WithContext(ctx).
		Preload("User").
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// AuditObserver records session transitions in the audit log.
type AuditObserver struct {
	DB *gorm.DB
}

func (o AuditObserver) Observe(ctx context.Context, ev auth.Event) {
	CreateAuditLog(o.DB.WithContext(ctx), ev.Session.UserID, "session", ev.Session.UserID,
		string(ev.Kind), "role="+string(ev.Session.Role))
}
