package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	intdb "busreservation/internal/db"
	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/utils"
)

type ReservationRepo struct {
	DB *sql.DB
}

func (r ReservationRepo) db() *sql.DB { return dbOrGlobal(r.DB) }

const reservationColumns = `reservation_id, username, passenger_name, gender, mobile_number, email,
	boarding_place, destination_place, seats, schedule_id, ticket_amount, created_at`

// CreateReservation runs the whole commit in one transaction:
// lock schedule, re-check the ledger, append Reserved events, insert the record.
// Any failure rolls back every write made so far.
func (r ReservationRepo) CreateReservation(ctx context.Context, res models.Reservation) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr("reservation", err)
	}
	defer tx.Rollback()

	if _, err := lockSchedule(ctx, tx, res.ScheduleID); err != nil {
		return err
	}

	byID, err := listSeatUpdates(ctx, tx, []string{res.ScheduleID})
	if err != nil {
		return err
	}
	merged := domain.MergeSeatUpdates(byID[res.ScheduleID])
	if taken := domain.UnavailableSeats(res.SeatNumbers(), merged); len(taken) > 0 {
		return domain.ConflictError{Resource: "seat", Msg: "seats are not available", Seats: taken}
	}

	at := res.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	for _, seat := range res.Seats {
		_, err := tx.ExecContext(ctx, `INSERT INTO seat_updates (`+seatUpdateColumns+`) VALUES (?,?,?,?,?,NULL,?,?)`,
			res.ScheduleID, seat.SeatNumber, string(models.SeatReserved), intdb.NullIfEmpty(res.Gender),
			string(models.SourceReservation), res.ReservationID, at)
		if err != nil {
			if intdb.IsDuplicateKey(err) {
				return domain.ConflictError{Resource: "seat", Msg: "seats are not available", Seats: []int{seat.SeatNumber}, Err: err}
			}
			return translateErr("seat ledger", err)
		}
	}

	seats, err := json.Marshal(res.Seats)
	if err != nil {
		return domain.InternalError{Msg: "encode reserved seats", Err: err}
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO reservations (`+reservationColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		res.ReservationID, res.Username, res.PassengerName, res.Gender, res.MobileNumber, intdb.NullIfEmpty(res.Email),
		res.BoardingPlace, res.DestinationPlace, seats, res.ScheduleID, res.TicketAmount, at)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "reservation", Msg: "reservation id already exists", Err: err}
		}
		return translateErr("reservation", err)
	}

	if err := tx.Commit(); err != nil {
		return translateErr("reservation", err)
	}
	utils.LogEventCtx(ctx, "reservation", "commit", "reservation_id="+res.ReservationID)
	return nil
}

func (r ReservationRepo) ListReservationsByUsername(ctx context.Context, username string) ([]models.Reservation, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	rows, err := db.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE username = ? ORDER BY created_at DESC, id DESC`, username)
	if err != nil {
		return nil, translateErr("reservation", err)
	}
	defer rows.Close()

	out := []models.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, translateErr("reservation", err)
		}
		out = append(out, res)
	}
	return out, translateErr("reservation", rows.Err())
}

func (r ReservationRepo) GetReservation(ctx context.Context, reservationID string) (models.Reservation, error) {
	db := r.db()
	if db == nil {
		return models.Reservation{}, errNoDB
	}
	row := db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE reservation_id = ?`, reservationID)
	res, err := scanReservation(row)
	return res, translateErr("reservation", err)
}

func scanReservation(s rowScanner) (models.Reservation, error) {
	var (
		res   models.Reservation
		email sql.NullString
		seats []byte
	)
	err := s.Scan(&res.ReservationID, &res.Username, &res.PassengerName, &res.Gender, &res.MobileNumber, &email,
		&res.BoardingPlace, &res.DestinationPlace, &seats, &res.ScheduleID, &res.TicketAmount, &res.CreatedAt)
	if err != nil {
		return res, err
	}
	res.Email = email.String
	if len(seats) > 0 {
		if err := json.Unmarshal(seats, &res.Seats); err != nil {
			return res, domain.InternalError{Msg: "decode reserved seats", Err: err}
		}
	}
	return res, nil
}
