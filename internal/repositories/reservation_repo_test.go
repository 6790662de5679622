package repositories

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

var seatUpdateRowColumns = []string{"schedule_id", "seat_number", "status", "gender", "source", "operator_name", "reservation_id", "updated_at"}

const lockQuery = "SELECT capacity FROM schedules WHERE schedule_token = ? FOR UPDATE"

func newReservation(seats ...int) models.Reservation {
	res := models.Reservation{
		ReservationID:    "241231-05-1234-1-2",
		Username:         "nimal",
		PassengerName:    "Nimal Perera",
		Gender:           "Male",
		MobileNumber:     "0771234567",
		BoardingPlace:    "Colombo",
		DestinationPlace: "Kurunegala",
		ScheduleID:       "05NB-123420241231-Colombo-Kurunegala",
		TicketAmount:     int64(len(seats)) * 1500,
		CreatedAt:        time.Date(2024, 12, 31, 6, 0, 0, 0, time.UTC),
	}
	for _, s := range seats {
		res.Seats = append(res.Seats, models.ReservedSeat{SeatNumber: s, Status: models.SeatReserved})
	}
	return res
}

func expectLockAndLedger(mock sqlmock.Sqlmock, scheduleID string, ledger *sqlmock.Rows) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).WithArgs(scheduleID).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(45))
	mock.ExpectQuery("FROM seat_updates").WithArgs(scheduleID).WillReturnRows(ledger)
}

func TestCreateReservation_CommitsLedgerAndRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	res := newReservation(1, 2)
	expectLockAndLedger(mock, res.ScheduleID, sqlmock.NewRows(seatUpdateRowColumns))
	for _, seat := range []int{1, 2} {
		mock.ExpectExec("INSERT INTO seat_updates").
			WithArgs(res.ScheduleID, seat, "Reserved", "Male", "reservation", res.ReservationID, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(int64(seat), 1))
	}
	mock.ExpectExec("INSERT INTO reservations").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := (ReservationRepo{DB: db}).CreateReservation(context.Background(), res); err != nil {
		t.Fatalf("expected commit, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservation_ConflictRollsBackWithAllSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	res := newReservation(2, 3, 4)
	now := time.Now().UTC()
	ledger := sqlmock.NewRows(seatUpdateRowColumns).
		AddRow(res.ScheduleID, 2, "Reserved", "Female", "reservation", nil, "older", now).
		AddRow(res.ScheduleID, 4, "NotAvailable", nil, "operator", "NB Express", nil, now)
	expectLockAndLedger(mock, res.ScheduleID, ledger)
	mock.ExpectRollback()

	err = (ReservationRepo{DB: db}).CreateReservation(context.Background(), res)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := domain.ConflictSeats(err); !reflect.DeepEqual(got, []int{2, 4}) {
		t.Fatalf("unexpected conflicting seats %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservation_RecordFailureAfterLedgerAppendRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	res := newReservation(7)
	expectLockAndLedger(mock, res.ScheduleID, sqlmock.NewRows(seatUpdateRowColumns))
	mock.ExpectExec("INSERT INTO seat_updates").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO reservations").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = (ReservationRepo{DB: db}).CreateReservation(context.Background(), res)
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ledger append was not rolled back: %v", err)
	}
}

func TestCreateReservation_DuplicateReservationIDIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	res := newReservation(7)
	expectLockAndLedger(mock, res.ScheduleID, sqlmock.NewRows(seatUpdateRowColumns))
	mock.ExpectExec("INSERT INTO seat_updates").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO reservations").WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err = (ReservationRepo{DB: db}).CreateReservation(context.Background(), res)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservation_DuplicateLedgerRowNamesSeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	res := newReservation(5)
	expectLockAndLedger(mock, res.ScheduleID, sqlmock.NewRows(seatUpdateRowColumns))
	mock.ExpectExec("INSERT INTO seat_updates").WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err = (ReservationRepo{DB: db}).CreateReservation(context.Background(), res)
	if got := domain.ConflictSeats(err); !reflect.DeepEqual(got, []int{5}) {
		t.Fatalf("expected seat 5 in conflict, got %v (%v)", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservation_UnknownSchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	res := newReservation(1)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).WithArgs(res.ScheduleID).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err = (ReservationRepo{DB: db}).CreateReservation(context.Background(), res)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetReservation_DecodesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	cols := []string{"reservation_id", "username", "passenger_name", "gender", "mobile_number", "email",
		"boarding_place", "destination_place", "seats", "schedule_id", "ticket_amount", "created_at"}
	mock.ExpectQuery("FROM reservations WHERE reservation_id").WithArgs("241231-05-1234-1-2").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("241231-05-1234-1-2", "nimal", "Nimal", "Male", "077", nil,
			"Colombo", "Kurunegala", []byte(`[{"seatNumber":1,"status":"Reserved"},{"seatNumber":2,"status":"Reserved"}]`),
			"S1", 3000, time.Now()))

	res, err := (ReservationRepo{DB: db}).GetReservation(context.Background(), "241231-05-1234-1-2")
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if !reflect.DeepEqual(res.SeatNumbers(), []int{1, 2}) {
		t.Fatalf("unexpected seats %v", res.SeatNumbers())
	}
	if res.Email != "" {
		t.Fatalf("NULL email should decode to empty, got %q", res.Email)
	}
}
