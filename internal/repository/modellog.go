package repository

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"

	"logidocs/internal/common"
	"logidocs/internal/entity"
)

// DefaultModelLogTable is the table the backend writes quality logs to.
const DefaultModelLogTable = "model_log"

// The model-log dashboard reads this table directly rather than going
// through the API, so the table name is configurable the same way it is
// for the backend.
var tableNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ModelLogRepository reads the model quality log table.
type ModelLogRepository interface {
	List(ctx context.Context, limit int) ([]*entity.ModelLog, error)
	Stats(ctx context.Context) (*entity.ModelLogStats, error)
}

type modelLogRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

// NewModelLogRepository returns a reader over the given table. The
// table name must be a plain SQL identifier; anything else is refused
// since it is interpolated into queries.
func NewModelLogRepository(pool *pgxpool.Pool, table string, logger *slog.Logger) (ModelLogRepository, error) {
	if table == "" {
		table = DefaultModelLogTable
	}
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid model log table name %q", table)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &modelLogRepository{pool: pool, table: table, logger: logger}, nil
}

func (r *modelLogRepository) List(ctx context.Context, limit int) ([]*entity.ModelLog, error) {
	if limit <= 0 {
		limit = 100
	}
	q := fmt.Sprintf(`SELECT id, document_id, document_hash, success, corrections_made, failure_reason, created_at
FROM %s ORDER BY created_at DESC LIMIT $1`, r.table)

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		r.logger.Error("failed to list model logs", "table", r.table, "error", err)
		return nil, common.NewAppError("DB_QUERY", "list model logs", err)
	}
	defer rows.Close()

	var out []*entity.ModelLog
	for rows.Next() {
		var m entity.ModelLog
		if err := rows.Scan(&m.ID, &m.DocumentID, &m.DocumentHash, &m.Success,
			&m.CorrectionsMade, &m.FailureReason, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *modelLogRepository) Stats(ctx context.Context) (*entity.ModelLogStats, error) {
	q := fmt.Sprintf(`SELECT COUNT(*), COUNT(*) FILTER (WHERE success) FROM %s`, r.table)

	var s entity.ModelLogStats
	if err := r.pool.QueryRow(ctx, q).Scan(&s.Total, &s.Succeeded); err != nil {
		r.logger.Error("failed to read model log stats", "table", r.table, "error", err)
		return nil, common.NewAppError("DB_QUERY", "read model log stats", err)
	}
	s.Corrected = s.Total - s.Succeeded
	return &s, nil
}
