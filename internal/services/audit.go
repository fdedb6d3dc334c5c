package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/models"
	repo "github.com/baharkarakas/debtme-backend/internal/repository"
	"github.com/baharkarakas/debtme-backend/internal/worker"
)

// Auditor writes audit entries on the worker pool. Failures are logged, never returned.
type Auditor struct {
	logs repo.AuditLogs
	wp   *worker.Pool
}

func NewAuditor(l repo.AuditLogs, wp *worker.Pool) *Auditor { return &Auditor{logs: l, wp: wp} }

func (a *Auditor) Record(actorID, entityType, entityID, action string, details map[string]any) {
	if a == nil {
		return
	}
	entry := models.AuditLog{
		ActorID:    &actorID,
		EntityType: entityType,
		EntityID:   &entityID,
		Action:     action,
		Details:    details,
	}
	write := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.logs.Create(ctx, entry); err != nil {
			slog.Error("audit write", "entity", entityType, "id", entityID, "action", action, "err", err)
		}
	}
	if a.wp == nil {
		write()
		return
	}
	a.wp.Submit(write)
}
