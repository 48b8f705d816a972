package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markod/fitlink/internal/domain"
)

type PartnerRepo struct {
	pool *pgxpool.Pool
}

func NewPartnerRepo(pool *pgxpool.Pool) *PartnerRepo {
	return &PartnerRepo{pool: pool}
}

func (r *PartnerRepo) CreateRequest(ctx context.Context, req *domain.PartnerRequest) error {
	query := `
		INSERT INTO partner_requests (id, from_email, from_username, to_email, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		req.ID, req.FromEmail, req.FromUsername, req.ToEmail, req.Status, req.CreatedAt,
	)
	return mapError(err)
}

func (r *PartnerRepo) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.PartnerRequest, error) {
	query := `
		SELECT id, from_email, from_username, to_email, status, created_at
		FROM partner_requests
		WHERE id = $1`
	return r.scanRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *PartnerRepo) GetRequestByEmails(ctx context.Context, fromEmail, toEmail string) (*domain.PartnerRequest, error) {
	query := `
		SELECT id, from_email, from_username, to_email, status, created_at
		FROM partner_requests
		WHERE from_email = $1 AND to_email = $2`
	return r.scanRequest(r.pool.QueryRow(ctx, query, fromEmail, toEmail))
}

func (r *PartnerRepo) scanRequest(row pgx.Row) (*domain.PartnerRequest, error) {
	var req domain.PartnerRequest
	err := row.Scan(
		&req.ID, &req.FromEmail, &req.FromUsername, &req.ToEmail, &req.Status, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &req, nil
}

func (r *PartnerRepo) ListIncomingRequests(ctx context.Context, toEmail string) ([]domain.PartnerRequest, error) {
	query := `
		SELECT id, from_email, from_username, to_email, status, created_at
		FROM partner_requests
		WHERE to_email = $1 AND status = 'pending'
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, toEmail)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reqs []domain.PartnerRequest
	for rows.Next() {
		var req domain.PartnerRequest
		if err := rows.Scan(
			&req.ID, &req.FromEmail, &req.FromUsername, &req.ToEmail, &req.Status, &req.CreatedAt,
		); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *PartnerRepo) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	// Deleting a missing request is a no-op so a double-click cannot fail.
	_, err := r.pool.Exec(ctx, `DELETE FROM partner_requests WHERE id = $1`, id)
	return mapError(err)
}

// AcceptRequest creates the partnership and deletes the request in one
// transaction. The unique index on the canonical participant pair makes a
// racing second accept fail with ErrDuplicatePartnership.
func (r *PartnerRepo) AcceptRequest(ctx context.Context, requestID uuid.UUID, usernames map[string]string) (*domain.Partnership, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	defer tx.Rollback(ctx)

	var req domain.PartnerRequest
	err = tx.QueryRow(ctx, `
		SELECT id, from_email, from_username, to_email, status, created_at
		FROM partner_requests
		WHERE id = $1
		FOR UPDATE`, requestID).Scan(
		&req.ID, &req.FromEmail, &req.FromUsername, &req.ToEmail, &req.Status, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}

	email1, email2 := canonicalPair(req.FromEmail, req.ToEmail)
	pm := &domain.Partnership{
		ID:           uuid.New(),
		Participants: [2]string{email1, email2},
		Usernames:    usernames,
		CreatedAt:    time.Now(),
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO partnerships (id, email1, email2, usernames, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		pm.ID, email1, email2, pm.Usernames, pm.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM partner_requests WHERE id = $1`, requestID); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing accept: %w", mapError(err))
	}
	return pm, nil
}

func (r *PartnerRepo) GetPartnershipByID(ctx context.Context, id uuid.UUID) (*domain.Partnership, error) {
	query := `
		SELECT id, email1, email2, usernames, created_at
		FROM partnerships
		WHERE id = $1`
	return r.scanPartnership(r.pool.QueryRow(ctx, query, id))
}

func (r *PartnerRepo) PartnershipBetween(ctx context.Context, emailA, emailB string) (*domain.Partnership, error) {
	email1, email2 := canonicalPair(emailA, emailB)
	query := `
		SELECT id, email1, email2, usernames, created_at
		FROM partnerships
		WHERE email1 = $1 AND email2 = $2`
	return r.scanPartnership(r.pool.QueryRow(ctx, query, email1, email2))
}

func (r *PartnerRepo) scanPartnership(row pgx.Row) (*domain.Partnership, error) {
	var pm domain.Partnership
	err := row.Scan(
		&pm.ID, &pm.Participants[0], &pm.Participants[1], &pm.Usernames, &pm.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &pm, nil
}

func (r *PartnerRepo) ListPartnerships(ctx context.Context, email string) ([]domain.Partnership, error) {
	query := `
		SELECT id, email1, email2, usernames, created_at
		FROM partnerships
		WHERE email1 = $1 OR email2 = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var pms []domain.Partnership
	for rows.Next() {
		var pm domain.Partnership
		if err := rows.Scan(
			&pm.ID, &pm.Participants[0], &pm.Participants[1], &pm.Usernames, &pm.CreatedAt,
		); err != nil {
			return nil, err
		}
		pms = append(pms, pm)
	}
	return pms, rows.Err()
}

func (r *PartnerRepo) DeletePartnership(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM partnerships WHERE id = $1`, id)
	return mapError(err)
}

// canonicalPair orders two participant emails so a pair of users maps to
// exactly one partnership row.
func canonicalPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
