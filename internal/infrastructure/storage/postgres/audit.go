package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"rezerve/internal/domain/audit"
)

// Compile-time check that AuditStore implements audit.Repository.
var _ audit.Repository = (*AuditStore)(nil)

// AuditStore persists audit entries.
// Detail payloads above the threshold are zstd-compressed; the details
// column then holds a short marker and the compressed bytes live in
// details_compressed.
type AuditStore struct {
	txManager *TxManager
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder

	compressThreshold int // bytes
}

// NewAuditStore creates a new audit store.
func NewAuditStore(txManager *TxManager) (*AuditStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditStore{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 8 * 1024,
	}, nil
}

const compressedMarker = "[compressed]"

// Record inserts an entry. Runs inside the caller's transaction when one
// is active, so audit rows commit or roll back with the business change.
func (s *AuditStore) Record(ctx context.Context, entry audit.Entry) error {
	details := entry.Details
	var compressed []byte
	if len(details) > s.compressThreshold {
		compressed = s.encoder.EncodeAll([]byte(details), nil)
		details = compressedMarker
	}

	sql := `
		INSERT INTO audit_log (
			id, log_type, action, details, details_compressed,
			branch_id, user_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.LogType, entry.Action, details, compressed,
		entry.BranchID, entry.UserID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// auditRow is the scan target including the compressed payload.
type auditRow struct {
	audit.Entry
	DetailsCompressed []byte `db:"details_compressed"`
}

// List returns entries matching the filter, newest first, plus total count.
func (s *AuditStore) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	where := sq.And{}
	if filter.LogType != "" {
		where = append(where, sq.Eq{"log_type": filter.LogType})
	}
	if filter.Action != "" {
		where = append(where, sq.Eq{"action": filter.Action})
	}
	if filter.BranchID != nil {
		where = append(where, sq.Eq{"branch_id": *filter.BranchID})
	}
	if filter.From != nil {
		where = append(where, sq.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		where = append(where, sq.Lt{"created_at": *filter.To})
	}

	querier := s.txManager.GetQuerier(ctx)

	countSQL, countArgs, err := builder.Select("COUNT(*)").From("audit_log").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	listSQL, listArgs, err := builder.
		Select("id", "log_type", "action", "details", "details_compressed",
			"branch_id", "user_id", "created_at").
		From("audit_log").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	var rows []auditRow
	if err := pgxscan.Select(ctx, querier, &rows, listSQL, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("select audit entries: %w", err)
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, r := range rows {
		e := r.Entry
		if e.Details == compressedMarker && len(r.DetailsCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(r.DetailsCompressed, nil)
			if err != nil {
				return nil, 0, fmt.Errorf("decompress audit details: %w", err)
			}
			e.Details = string(decompressed)
		}
		entries = append(entries, e)
	}

	return entries, total, nil
}
