package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
)

type ScheduleRepo struct {
	DB *sql.DB
}

func (r ScheduleRepo) db() *sql.DB { return dbOrGlobal(r.DB) }

const scheduleColumns = `schedule_token, route_number, route_name, registration_number, bus_number, operator_name,
	bus_type, ticket_price, capacity, available_seats, legs, valid_from, valid_to, is_active, created_at, updated_at`

const dateLayout = "2006-01-02"

// CreateSchedule inserts s. A token collision surfaces as a ConflictError.
func (r ScheduleRepo) CreateSchedule(ctx context.Context, s models.Schedule) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	legs, err := json.Marshal(s.Legs)
	if err != nil {
		return domain.InternalError{Msg: "encode schedule legs", Err: err}
	}
	_, err = db.ExecContext(ctx, `INSERT INTO schedules (`+scheduleColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.ScheduleToken, s.Route.RouteNumber, s.Route.RouteName,
		s.Bus.RegistrationNumber, s.Bus.BusNumber, s.Bus.OperatorName, s.Bus.BusType,
		s.Bus.TicketPrice, s.Bus.Capacity, s.Bus.AvailableSeats,
		legs, s.Valid.StartDate.Format(dateLayout), s.Valid.EndDate.Format(dateLayout),
		s.IsActive, s.CreatedAt, s.UpdatedAt)
	return translateErr("schedule", err)
}

func (r ScheduleRepo) GetSchedule(ctx context.Context, token string) (models.Schedule, error) {
	db := r.db()
	if db == nil {
		return models.Schedule{}, errNoDB
	}
	row := db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE schedule_token = ?`, token)
	s, err := scanSchedule(row)
	return s, translateErr("schedule", err)
}

// UpdateScheduleLegs replaces the leg list only; token and snapshots stay untouched.
func (r ScheduleRepo) UpdateScheduleLegs(ctx context.Context, token string, legs []models.Leg, updatedAt time.Time) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	raw, err := json.Marshal(legs)
	if err != nil {
		return domain.InternalError{Msg: "encode schedule legs", Err: err}
	}
	res, err := db.ExecContext(ctx, `UPDATE schedules SET legs = ?, updated_at = ? WHERE schedule_token = ?`, raw, updatedAt, token)
	if err != nil {
		return translateErr("schedule", err)
	}
	return requireAffected(res, "schedule")
}

func (r ScheduleRepo) DeleteSchedule(ctx context.Context, token string) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	res, err := db.ExecContext(ctx, `DELETE FROM schedules WHERE schedule_token = ?`, token)
	if err != nil {
		return translateErr("schedule", err)
	}
	return requireAffected(res, "schedule")
}

func (r ScheduleRepo) ListSchedulesByOperator(ctx context.Context, operatorName string) ([]models.Schedule, error) {
	return r.list(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE operator_name = ? ORDER BY created_at DESC, schedule_token ASC`, operatorName)
}

func (r ScheduleRepo) ListActiveSchedulesOn(ctx context.Context, day time.Time) ([]models.Schedule, error) {
	d := day.Format(dateLayout)
	return r.list(ctx, `SELECT `+scheduleColumns+` FROM schedules
		WHERE is_active = 1 AND valid_from <= ? AND valid_to >= ?
		ORDER BY schedule_token ASC`, d, d)
}

func (r ScheduleRepo) list(ctx context.Context, query string, args ...any) ([]models.Schedule, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr("schedule", err)
	}
	defer rows.Close()

	out := []models.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, translateErr("schedule", err)
		}
		out = append(out, s)
	}
	return out, translateErr("schedule", rows.Err())
}

func scanSchedule(sc rowScanner) (models.Schedule, error) {
	var (
		s    models.Schedule
		legs []byte
	)
	err := sc.Scan(&s.ScheduleToken, &s.Route.RouteNumber, &s.Route.RouteName,
		&s.Bus.RegistrationNumber, &s.Bus.BusNumber, &s.Bus.OperatorName, &s.Bus.BusType,
		&s.Bus.TicketPrice, &s.Bus.Capacity, &s.Bus.AvailableSeats,
		&legs, &s.Valid.StartDate, &s.Valid.EndDate, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	if len(legs) > 0 {
		if err := json.Unmarshal(legs, &s.Legs); err != nil {
			return s, domain.InternalError{Msg: "decode schedule legs", Err: err}
		}
	}
	return s, nil
}

func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return translateErr(resource, err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}
