package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ahmedakg/dental-app-sub001/internal/schedule"
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
)

const appointmentColumns = `
	id, patient_id, patient_name, patient_phone, date::text, time, duration,
	type, status, reason, notes, created_at, created_by,
	completed_at, cancelled_at, cancel_reason`

const waitlistColumns = `
	id, patient_id, patient_name, patient_phone, requested_date::text,
	priority, reason, added_at, notified_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanAppointment(row pgx.Row) (*schedule.Appointment, error) {
	var a schedule.Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.PatientName,
		&a.PatientPhone,
		&a.Date,
		&a.Time,
		&a.Duration,
		&a.Type,
		&a.Status,
		&a.Reason,
		&a.Notes,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.CompletedAt,
		&a.CancelledAt,
		&a.CancelReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func scanWaitlistEntry(row pgx.Row) (*schedule.WaitlistEntry, error) {
	var e schedule.WaitlistEntry

	err := row.Scan(
		&e.ID,
		&e.PatientID,
		&e.PatientName,
		&e.PatientPhone,
		&e.RequestedDate,
		&e.Priority,
		&e.Reason,
		&e.AddedAt,
		&e.NotifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWaitlistEntryNotFound
		}
		return nil, err
	}

	return &e, nil
}

func (r *PgRepository) queryAppointments(ctx context.Context, sql string, args ...any) ([]schedule.Appointment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]schedule.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == uniqueViolation:
		return ErrSlotOccupied
	case pgErr.Code == checkViolation && pgErr.ConstraintName == "appointments_time_check":
		return fmt.Errorf("%w: %s", schedule.ErrInvalidTime, pgErr.Message)
	case pgErr.Code == checkViolation && pgErr.ConstraintName == "appointments_type_check":
		return fmt.Errorf("%w: %s", schedule.ErrInvalidType, pgErr.Message)
	}
	return err
}

// Appointments

func (r *PgRepository) ListAppointmentsByDate(ctx context.Context, date string) ([]schedule.Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1::date
		ORDER BY created_at
	`, date)
}

func (r *PgRepository) ListAppointmentsByDateRange(ctx context.Context, start, end string) ([]schedule.Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date BETWEEN $1::date AND $2::date
		ORDER BY date, created_at
	`, start, end)
}

func (r *PgRepository) ListAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]schedule.Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date DESC, time DESC
	`, patientID)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, b schedule.Booking) (*schedule.Appointment, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			id, patient_id, patient_name, patient_phone, date, time, duration,
			type, status, reason, notes, created_at, created_by, updated_at
		)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, 'scheduled', $9, $10, now(), $11, now())
		RETURNING `+appointmentColumns,
		id, b.PatientID, b.PatientName, b.PatientPhone, b.Date, b.Time, b.Duration,
		string(b.Type), b.Reason, b.Notes, b.CreatedBy,
	)

	a, err := scanAppointment(row)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return a, nil
}

func (r *PgRepository) UpdateAppointment(ctx context.Context, id uuid.UUID, p Patch) (*schedule.Appointment, error) {
	var typ *string
	if p.Type != nil {
		s := string(*p.Type)
		typ = &s
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET patient_name  = COALESCE($2, patient_name),
		    patient_phone = COALESCE($3, patient_phone),
		    date          = COALESCE($4::date, date),
		    time          = COALESCE($5, time),
		    duration      = COALESCE($6, duration),
		    type          = COALESCE($7, type),
		    reason        = COALESCE($8, reason),
		    notes         = COALESCE($9, notes),
		    updated_at    = now()
		WHERE id = $1
		RETURNING `+appointmentColumns,
		id, p.PatientName, p.PatientPhone, p.Date, p.Time, p.Duration, typ, p.Reason, p.Notes,
	)

	a, err := scanAppointment(row)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return a, nil
}

func (r *PgRepository) SetAppointmentStatus(ctx context.Context, id uuid.UUID, from, to schedule.Status, at time.Time, reason *string) (*schedule.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status        = $3::text,
		    completed_at  = CASE WHEN $3::text = 'completed' THEN $4 ELSE completed_at END,
		    cancelled_at  = CASE WHEN $3::text = 'cancelled' THEN $4 ELSE cancelled_at END,
		    cancel_reason = CASE WHEN $3::text = 'cancelled' THEN $5 ELSE cancel_reason END,
		    updated_at    = now()
		WHERE id = $1
		  AND status = $2::text
		RETURNING `+appointmentColumns,
		id, string(from), string(to), at, reason,
	)

	a, err := scanAppointment(row)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return a, nil
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// Waitlist

func (r *PgRepository) AddWaitlistEntry(ctx context.Context, req WaitlistRequest) (*schedule.WaitlistEntry, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO waitlist (id, patient_id, patient_name, patient_phone, requested_date, priority, reason, added_at)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, now())
		RETURNING `+waitlistColumns,
		uuid.New(), req.PatientID, req.PatientName, req.PatientPhone, req.RequestedDate,
		string(req.Priority), req.Reason,
	)
	return scanWaitlistEntry(row)
}

func (r *PgRepository) ListWaitlist(ctx context.Context) ([]schedule.WaitlistEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+waitlistColumns+`
		FROM waitlist
		ORDER BY added_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]schedule.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) MarkWaitlistNotified(ctx context.Context, id uuid.UUID, at time.Time) (*schedule.WaitlistEntry, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE waitlist
		SET notified_at = $2
		WHERE id = $1
		RETURNING `+waitlistColumns,
		id, at,
	)
	return scanWaitlistEntry(row)
}

func (r *PgRepository) DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM waitlist WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete waitlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWaitlistEntryNotFound
	}
	return nil
}

// Gap-fill candidates

// ListGapFillCandidates returns patients with an open treatment plan and no
// scheduled visit on or after date. Each patient's most urgent plan supplies
// the pending treatment and priority.
func (r *PgRepository) ListGapFillCandidates(ctx context.Context, date string, limit int) ([]schedule.Candidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.phone, tp.description, COALESCE(p.last_visit::text, ''), tp.priority
		FROM patients p
		JOIN LATERAL (
			SELECT description, priority
			FROM treatment_plans
			WHERE patient_id = p.id
			  AND status <> 'done'
			ORDER BY priority DESC, created_at
			LIMIT 1
		) tp ON true
		WHERE NOT EXISTS (
			SELECT 1
			FROM appointments a
			WHERE a.patient_id = p.id
			  AND a.date >= $1::date
			  AND a.status = 'scheduled'
		)
		ORDER BY tp.priority DESC, p.last_visit NULLS FIRST
		LIMIT $2
	`, date, limit)
	if err != nil {
		return nil, fmt.Errorf("query gap-fill candidates: %w", err)
	}
	defer rows.Close()

	result := make([]schedule.Candidate, 0)
	for rows.Next() {
		var c schedule.Candidate
		if err := rows.Scan(&c.PatientID, &c.PatientName, &c.PatientPhone, &c.PendingTreatment, &c.LastVisit, &c.Priority); err != nil {
			return nil, err
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Events

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
