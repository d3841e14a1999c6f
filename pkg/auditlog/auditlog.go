package auditlog

import (
	"encoding/json"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// Auditlog records who did what to which request group. Writes are
// best-effort: a failed audit entry never fails the operation it documents.
type Auditlog struct {
	r   *repository.Repository
	log *zap.Logger
}

func NewAuditLog(r *repository.Repository, log *zap.Logger) *Auditlog {
	return &Auditlog{r: r, log: log}
}

func (a *Auditlog) Log(actor, action, resourceID string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		a.log.Warn("audit payload not serializable", zap.String("action", action), zap.Error(err))
		payload = []byte("{}")
	}

	insert := a.r.GoquDBWrapper.
		Insert("audit_logs").
		Rows(goqu.Record{
			"actor":       actor,
			"action":      action,
			"resource_id": resourceID,
			"data":        string(payload),
		})

	if _, err := insert.Executor().Exec(); err != nil {
		a.log.Warn("unable to create audit log entry",
			zap.String("action", action),
			zap.String("resource_id", resourceID),
			zap.Error(err))
		return
	}

	a.log.Debug("audit log entry created",
		zap.String("action", action),
		zap.String("resource_id", resourceID))
}
