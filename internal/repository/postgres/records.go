package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/db-y99/workhub-api/internal/core/domain"
	"github.com/db-y99/workhub-api/internal/core/port"
	"github.com/db-y99/workhub-api/internal/repository"
)

// BulletinRepository reads bulletins for the ownership policy and file proxy.
type BulletinRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewBulletinRepository constructs a bulletin repository instance.
func NewBulletinRepository(db DB) *BulletinRepository {
	return &BulletinRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a non-deleted bulletin with its attachment manifest.
func (r *BulletinRepository) GetByID(ctx context.Context, id string) (*domain.Bulletin, error) {
	stmt, args, err := r.builder.Select("id", "title", "department_ids", "attachments", "created_at").
		From(table("bulletins")).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select bulletin sql: %w", err)
	}

	row := r.db.QueryRow(ctx, stmt, args...)

	var (
		bulletin    domain.Bulletin
		attachments []byte
	)

	if err := row.Scan(&bulletin.ID, &bulletin.Title, &bulletin.DepartmentIDs, &attachments, &bulletin.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan bulletin: %w", err)
	}

	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &bulletin.Attachments); err != nil {
			return nil, fmt.Errorf("decode bulletin attachments: %w", err)
		}
	}

	return &bulletin, nil
}

// RequestRepository reads requests for the ownership policy and file proxy.
type RequestRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewRequestRepository constructs a request repository instance.
func NewRequestRepository(db DB) *RequestRepository {
	return &RequestRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a non-deleted request with its attachment manifest.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	stmt, args, err := r.builder.Select("id", "title", "requested_by", "department_id", "attachments", "created_at").
		From(table("requests")).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select request sql: %w", err)
	}

	row := r.db.QueryRow(ctx, stmt, args...)

	var (
		request     domain.Request
		attachments []byte
	)

	if err := row.Scan(&request.ID, &request.Title, &request.RequestedBy, &request.DepartmentID, &attachments, &request.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan request: %w", err)
	}

	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &request.Attachments); err != nil {
			return nil, fmt.Errorf("decode request attachments: %w", err)
		}
	}

	return &request, nil
}

var (
	_ port.BulletinRepository = (*BulletinRepository)(nil)
	_ port.RequestRepository  = (*RequestRepository)(nil)
)
