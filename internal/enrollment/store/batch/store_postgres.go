package batch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"coursebatch/internal/enrollment/models"
	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/sentinel"
)

// PostgresStore persists batches in the course_batch table. The participants
// column is a text[] and cert_templates is a jsonb object; both are mutated with
// one UPDATE per operation so concurrent writers never lose entries.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetBatch(ctx context.Context, key models.BatchKey) (*models.CourseBatch, error) {
	query := `
		SELECT name, description, enrollment_type, status, start_date, end_date,
			enrollment_end_date, created_by, created_date, max_participants,
			participants, cert_templates
		FROM course_batch
		WHERE course_id = $1 AND batch_id = $2
	`
	var (
		b            models.CourseBatch
		startDate    sql.NullTime
		endDate      sql.NullTime
		enrollEnd    sql.NullTime
		enrollType   string
		participants []string
		templates    []byte
	)
	err := s.db.QueryRowContext(ctx, query, key.CourseID.String(), key.BatchID.String()).Scan(
		&b.Name, &b.Description, &enrollType, &b.Status, &startDate, &endDate,
		&enrollEnd, &b.CreatedBy, &b.CreatedDate, &b.MaxParticipants,
		pq.Array(&participants), &templates,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("batch %s: %w", key, sentinel.ErrNotFound)
		}
		return nil, storeErr("get batch", err)
	}
	b.BatchKey = key
	b.EnrollmentType = models.EnrollmentType(enrollType)
	b.StartDate = startDate.Time
	b.EndDate = nullTimePtr(endDate)
	b.EnrollmentEndDate = nullTimePtr(enrollEnd)
	b.Participants = participants
	if len(templates) > 0 {
		if err := json.Unmarshal(templates, &b.CertificateTemplates); err != nil {
			return nil, storeErr("decode certificate templates", err)
		}
	}
	return &b, nil
}

// UpsertBatch writes the scalar columns. created_by and created_date keep their
// first value.
func (s *PostgresStore) UpsertBatch(ctx context.Context, key models.BatchKey, attrs models.BatchAttributes) error {
	query := `
		INSERT INTO course_batch (course_id, batch_id, name, description, enrollment_type, status,
			start_date, end_date, enrollment_end_date, created_by, created_date, max_participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (course_id, batch_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			enrollment_type = EXCLUDED.enrollment_type,
			status = EXCLUDED.status,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			enrollment_end_date = EXCLUDED.enrollment_end_date,
			max_participants = EXCLUDED.max_participants
	`
	_, err := s.db.ExecContext(ctx, query,
		key.CourseID.String(), key.BatchID.String(), attrs.Name, attrs.Description,
		string(attrs.EnrollmentType), int(attrs.Status), attrs.StartDate,
		timePtrArg(attrs.EndDate), timePtrArg(attrs.EnrollmentEndDate),
		attrs.CreatedBy, attrs.CreatedDate, attrs.MaxParticipants,
	)
	if err != nil {
		return storeErr("upsert batch", err)
	}
	return nil
}

func (s *PostgresStore) MapAdd(ctx context.Context, key models.BatchKey, column models.MapColumn, entry string, value models.CertificateTemplate) error {
	if column != models.ColumnCertTemplates {
		return unknownColumn(string(column))
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "certificate template is not serializable")
	}
	query := `
		UPDATE course_batch
		SET cert_templates = cert_templates || jsonb_build_object($3::text, $4::jsonb)
		WHERE course_id = $1 AND batch_id = $2
	`
	return s.execOne(ctx, "add certificate template", key, query, entry, string(payload))
}

func (s *PostgresStore) MapRemove(ctx context.Context, key models.BatchKey, column models.MapColumn, entry string) error {
	if column != models.ColumnCertTemplates {
		return unknownColumn(string(column))
	}
	query := `
		UPDATE course_batch
		SET cert_templates = cert_templates - $3::text
		WHERE course_id = $1 AND batch_id = $2
	`
	return s.execOne(ctx, "remove certificate template", key, query, entry)
}

// SetAdd appends member unless it is already present. The row lock taken by the
// UPDATE serializes concurrent adds and each re-evaluates against the latest
// array.
func (s *PostgresStore) SetAdd(ctx context.Context, key models.BatchKey, column models.SetColumn, member string) error {
	if column != models.ColumnParticipants {
		return unknownColumn(string(column))
	}
	query := `
		UPDATE course_batch
		SET participants = CASE
			WHEN $3::text = ANY(participants) THEN participants
			ELSE array_append(participants, $3::text)
		END
		WHERE course_id = $1 AND batch_id = $2
	`
	return s.execOne(ctx, "add participant", key, query, member)
}

func (s *PostgresStore) SetRemove(ctx context.Context, key models.BatchKey, column models.SetColumn, member string) error {
	if column != models.ColumnParticipants {
		return unknownColumn(string(column))
	}
	query := `
		UPDATE course_batch
		SET participants = array_remove(participants, $3::text)
		WHERE course_id = $1 AND batch_id = $2
	`
	return s.execOne(ctx, "remove participant", key, query, member)
}

func (s *PostgresStore) DeleteBatch(ctx context.Context, key models.BatchKey) error {
	return s.execOne(ctx, "delete batch", key,
		`DELETE FROM course_batch WHERE course_id = $1 AND batch_id = $2`)
}

func (s *PostgresStore) ListBatchKeys(ctx context.Context) ([]models.BatchKey, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT course_id, batch_id FROM course_batch ORDER BY course_id, batch_id`)
	if err != nil {
		return nil, storeErr("list batch keys", err)
	}
	defer rows.Close()

	var keys []models.BatchKey
	for rows.Next() {
		var courseID, batchID string
		if err := rows.Scan(&courseID, &batchID); err != nil {
			return nil, storeErr("scan batch key", err)
		}
		keys = append(keys, models.BatchKey{CourseID: id.CourseID(courseID), BatchID: id.BatchID(batchID)})
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate batch keys", err)
	}
	return keys, nil
}

// execOne runs a keyed statement and maps zero affected rows to ErrNotFound.
func (s *PostgresStore) execOne(ctx context.Context, op string, key models.BatchKey, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, append([]any{key.CourseID.String(), key.BatchID.String()}, args...)...)
	if err != nil {
		return storeErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("batch %s: %w", key, sentinel.ErrNotFound)
	}
	return nil
}

func storeErr(op string, err error) error {
	return dErrors.Wrap(err, dErrors.CodeStore, op)
}

func unknownColumn(name string) error {
	return dErrors.New(dErrors.CodeInternal, "unsupported batch column "+name)
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timePtrArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
