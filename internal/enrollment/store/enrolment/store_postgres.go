package enrolment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coursebatch/internal/enrollment/models"
	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/sentinel"
)

// PostgresStore persists enrollment rows in user_enrolments. The primary key
// (batch_id, user_id) makes every write an idempotent upsert.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const enrollmentColumns = `batch_id, user_id, course_id, active, enrolled_date, progress, status, completion_percentage`

func (s *PostgresStore) GetEnrollment(ctx context.Context, batchID id.BatchID, userID id.UserID) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM user_enrolments WHERE batch_id = $1 AND user_id = $2`
	e, err := scanEnrollment(s.db.QueryRowContext(ctx, query, batchID.String(), userID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("enrollment %s/%s: %w", batchID, userID, sentinel.ErrNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeStore, "get enrollment")
	}
	return e, nil
}

// UpsertEnrollment writes the membership columns. A zero EnrollDate keeps the
// stored date on update and uses now() on insert.
func (s *PostgresStore) UpsertEnrollment(ctx context.Context, w models.EnrollmentWrite) error {
	query := `
		INSERT INTO user_enrolments (batch_id, user_id, course_id, active, enrolled_date)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		ON CONFLICT (batch_id, user_id) DO UPDATE SET
			course_id = EXCLUDED.course_id,
			active = EXCLUDED.active,
			enrolled_date = COALESCE($5, user_enrolments.enrolled_date)
	`
	enrollDate := sql.NullTime{Time: w.EnrollDate, Valid: !w.EnrollDate.IsZero()}
	_, err := s.db.ExecContext(ctx, query,
		w.BatchID.String(), w.UserID.String(), w.CourseID.String(), w.Active, enrollDate)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStore, "upsert enrollment")
	}
	return nil
}

func (s *PostgresStore) ListActiveEnrollments(ctx context.Context, userID id.UserID) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM user_enrolments WHERE user_id = $1 AND active`
	return s.list(ctx, "list active enrollments", query, userID.String())
}

func (s *PostgresStore) ListBatchEnrollments(ctx context.Context, batchID id.BatchID) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM user_enrolments WHERE batch_id = $1`
	return s.list(ctx, "list batch enrollments", query, batchID.String())
}

func (s *PostgresStore) list(ctx context.Context, op, query string, arg string) ([]*models.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStore, op)
	}
	defer rows.Close()

	var out []*models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeStore, op)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStore, op)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(row rowScanner) (*models.Enrollment, error) {
	var (
		e                         models.Enrollment
		batchID, userID, courseID string
	)
	if err := row.Scan(&batchID, &userID, &courseID, &e.Active, &e.EnrollDate,
		&e.Progress, &e.Status, &e.CompletionPercentage); err != nil {
		return nil, err
	}
	e.BatchID = id.BatchID(batchID)
	e.UserID = id.UserID(userID)
	e.CourseID = id.CourseID(courseID)
	return &e, nil
}
