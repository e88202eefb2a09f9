package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-agreement-api/internal/models"
)

// PostgresStore persists submissions in a Postgres table. Unlike the file
// store, updates are row-scoped and atomic, so concurrent admins cannot
// lose each other's writes. Newest-first ordering comes from the seq column.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs the store.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type submissionRow struct {
	ID                    string         `db:"id"`
	Status                string         `db:"status"`
	FormData              []byte         `db:"form_data"`
	SignatureDataURL      string         `db:"signature_data_url"`
	AdminData             []byte         `db:"admin_data"`
	AdminSignatureDataURL sql.NullString `db:"admin_signature_data_url"`
	SubmittedAt           time.Time      `db:"submitted_at"`
	ApprovedAt            sql.NullTime   `db:"approved_at"`
}

const submissionColumns = `id, status, form_data, signature_data_url, admin_data, admin_signature_data_url, submitted_at, approved_at`

// Create inserts a new pending submission.
func (r *PostgresStore) Create(ctx context.Context, formData map[string]string, signatureDataURL string) (*models.Submission, error) {
	submission := models.Submission{
		ID:               uuid.NewString(),
		Status:           models.StatusPending,
		FormData:         formData,
		SignatureDataURL: signatureDataURL,
		SubmittedAt:      time.Now().UTC(),
	}

	formJSON, err := json.Marshal(formData)
	if err != nil {
		return nil, fmt.Errorf("encode form data: %w", err)
	}

	const query = `INSERT INTO submissions (id, status, form_data, signature_data_url, submitted_at)
VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, submission.ID, submission.Status, formJSON, submission.SignatureDataURL, submission.SubmittedAt); err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	return &submission, nil
}

// GetByID fetches a single submission.
func (r *PostgresStore) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE id = $1`, submissionColumns)
	var row submissionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return row.toModel()
}

// List returns all submissions newest first.
func (r *PostgresStore) List(ctx context.Context) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions ORDER BY seq DESC`, submissionColumns)
	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	submissions := make([]models.Submission, 0, len(rows))
	for i := range rows {
		submission, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *submission)
	}
	return submissions, nil
}

// Update applies the patch fields atomically to a single row.
func (r *PostgresStore) Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	args = append(args, id)

	if patch.Status != nil {
		args = append(args, string(*patch.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.AdminData != nil {
		adminJSON, err := json.Marshal(patch.AdminData)
		if err != nil {
			return nil, fmt.Errorf("encode admin data: %w", err)
		}
		args = append(args, adminJSON)
		sets = append(sets, fmt.Sprintf("admin_data = $%d", len(args)))
	}
	if patch.AdminSignatureDataURL != nil {
		args = append(args, *patch.AdminSignatureDataURL)
		sets = append(sets, fmt.Sprintf("admin_signature_data_url = $%d", len(args)))
	}
	if patch.ApprovedAt != nil {
		args = append(args, *patch.ApprovedAt)
		sets = append(sets, fmt.Sprintf("approved_at = $%d", len(args)))
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE submissions SET %s WHERE id = $1`, strings.Join(sets, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update submission result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (row *submissionRow) toModel() (*models.Submission, error) {
	submission := models.Submission{
		ID:               row.ID,
		Status:           models.SubmissionStatus(row.Status),
		SignatureDataURL: row.SignatureDataURL,
		SubmittedAt:      row.SubmittedAt,
	}

	if len(row.FormData) > 0 {
		if err := json.Unmarshal(row.FormData, &submission.FormData); err != nil {
			return nil, fmt.Errorf("decode form data: %w", err)
		}
	}
	if len(row.AdminData) > 0 {
		var admin models.AdminData
		if err := json.Unmarshal(row.AdminData, &admin); err != nil {
			return nil, fmt.Errorf("decode admin data: %w", err)
		}
		submission.AdminData = &admin
	}
	if row.AdminSignatureDataURL.Valid {
		value := row.AdminSignatureDataURL.String
		submission.AdminSignatureDataURL = &value
	}
	if row.ApprovedAt.Valid {
		approvedAt := row.ApprovedAt.Time
		submission.ApprovedAt = &approvedAt
	}
	return &submission, nil
}
