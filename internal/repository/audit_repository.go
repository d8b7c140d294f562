package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
)

// AuditRepo appends security-relevant actions to the audit_log table.
// Writes are best-effort observability: failures are logged, never
// propagated into the calling flow's result.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// LogAction records who did what to which resource. correlationID ties
// the entry back to the originating request.
func (r *AuditRepo) LogAction(ctx context.Context, actorID *int64, action, resourceType string, resourceID *int64, details map[string]any, correlationID string) {
	var detailsJSON *string
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			s := string(b)
			detailsJSON = &s
		}
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO audit_log (user_id, action, resource_type, resource_id, details, correlation_id) VALUES (?,?,?,?,?,?)",
		actorID, action, resourceType, resourceID, detailsJSON, correlationID)
	if err != nil {
		slog.Warn("audit write failed", "action", action, "error", err)
	}
}
