package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intdb "busreservation/internal/db"
	"busreservation/internal/domain/models"
)

// SeatLedgerRepo stores seat events in seat_updates. Each row is unique per
// (schedule_id, source, seat_number): operator rows are upserted in place and
// reservation rows are inserted once.
type SeatLedgerRepo struct {
	DB *sql.DB
}

func (r SeatLedgerRepo) db() *sql.DB { return dbOrGlobal(r.DB) }

const seatUpdateColumns = `schedule_id, seat_number, status, gender, source, operator_name, reservation_id, updated_at`

func (r SeatLedgerRepo) ListSeatUpdates(ctx context.Context, scheduleID string) ([]models.SeatUpdate, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	byID, err := listSeatUpdates(ctx, db, []string{scheduleID})
	if err != nil {
		return nil, err
	}
	return byID[scheduleID], nil
}

func (r SeatLedgerRepo) ListSeatUpdatesFor(ctx context.Context, scheduleIDs []string) (map[string][]models.SeatUpdate, error) {
	if len(scheduleIDs) == 0 {
		return map[string][]models.SeatUpdate{}, nil
	}
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	return listSeatUpdates(ctx, db, scheduleIDs)
}

// ApplyOperatorSeatUpdates upserts the operator status of each seat while
// holding the schedule row lock, so it serializes with reservations.
func (r SeatLedgerRepo) ApplyOperatorSeatUpdates(ctx context.Context, scheduleID, operatorName string, updates []models.SeatUpdate) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr("seat ledger", err)
	}
	defer tx.Rollback()

	if _, err := lockSchedule(ctx, tx, scheduleID); err != nil {
		return err
	}

	for _, u := range updates {
		at := u.UpdatedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO seat_updates (`+seatUpdateColumns+`)
			VALUES (?,?,?,?,?,?,NULL,?)
			ON DUPLICATE KEY UPDATE status = VALUES(status), gender = VALUES(gender),
				operator_name = VALUES(operator_name), updated_at = VALUES(updated_at)`,
			scheduleID, u.SeatNumber, string(u.Status), intdb.NullIfEmpty(u.Gender),
			string(models.SourceOperator), operatorName, at)
		if err != nil {
			return translateErr("seat ledger", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return translateErr("seat ledger", err)
	}
	return nil
}

// lockSchedule takes the row lock that serializes every ledger write of one
// schedule and returns the schedule capacity.
func lockSchedule(ctx context.Context, tx *sql.Tx, scheduleID string) (int, error) {
	var capacity int
	err := tx.QueryRowContext(ctx, `SELECT capacity FROM schedules WHERE schedule_token = ? FOR UPDATE`, scheduleID).Scan(&capacity)
	if err != nil {
		return 0, translateErr("schedule", err)
	}
	return capacity, nil
}

func listSeatUpdates(ctx context.Context, q queryer, scheduleIDs []string) (map[string][]models.SeatUpdate, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(scheduleIDs)), ",")
	args := make([]any, 0, len(scheduleIDs))
	for _, id := range scheduleIDs {
		args = append(args, id)
	}
	rows, err := q.QueryContext(ctx, `SELECT `+seatUpdateColumns+` FROM seat_updates
		WHERE schedule_id IN (`+placeholders+`) ORDER BY id ASC`, args...)
	if err != nil {
		return nil, translateErr("seat ledger", err)
	}
	defer rows.Close()

	out := map[string][]models.SeatUpdate{}
	for rows.Next() {
		var (
			scheduleID, status, source string
			gender, operator, resID    sql.NullString
			u                          models.SeatUpdate
		)
		if err := rows.Scan(&scheduleID, &u.SeatNumber, &status, &gender, &source, &operator, &resID, &u.UpdatedAt); err != nil {
			return nil, translateErr("seat ledger", err)
		}
		u.Status = models.SeatStatus(status)
		u.Source = models.SeatSource(source)
		u.Gender = gender.String
		u.OperatorName = operator.String
		u.ReservationID = resID.String
		out[scheduleID] = append(out[scheduleID], u)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr("seat ledger", err)
	}
	return out, nil
}

