package repositories

import (
	"context"
	"database/sql"

	"busreservation/internal/domain/models"
)

type BusRepo struct {
	DB *sql.DB
}

func (r BusRepo) db() *sql.DB { return dbOrGlobal(r.DB) }

const busColumns = `bus_id, registration_number, bus_number, driver_name, conductor_name, operator_name, bus_type, capacity, ticket_price, is_available, route_number, created_at, updated_at`

func (r BusRepo) CreateBus(ctx context.Context, b models.Bus) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	_, err := db.ExecContext(ctx, `INSERT INTO buses (`+busColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.BusID, b.RegistrationNumber, b.BusNumber, b.DriverName, b.ConductorName, b.OperatorName, b.BusType, b.Capacity, b.TicketPrice,
		b.IsAvailable, b.RouteNumber, b.CreatedAt, b.UpdatedAt)
	return translateErr("bus", err)
}

func (r BusRepo) ListBuses(ctx context.Context) ([]models.Bus, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	rows, err := db.QueryContext(ctx, `SELECT `+busColumns+` FROM buses ORDER BY registration_number ASC`)
	if err != nil {
		return nil, translateErr("bus", err)
	}
	defer rows.Close()

	out := []models.Bus{}
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return nil, translateErr("bus", err)
		}
		out = append(out, b)
	}
	return out, translateErr("bus", rows.Err())
}

func (r BusRepo) GetBus(ctx context.Context, registrationNumber string) (models.Bus, error) {
	db := r.db()
	if db == nil {
		return models.Bus{}, errNoDB
	}
	row := db.QueryRowContext(ctx, `SELECT `+busColumns+` FROM buses WHERE registration_number = ?`, registrationNumber)
	b, err := scanBus(row)
	return b, translateErr("bus", err)
}

func scanBus(s rowScanner) (models.Bus, error) {
	var b models.Bus
	err := s.Scan(&b.BusID, &b.RegistrationNumber, &b.BusNumber, &b.DriverName, &b.ConductorName, &b.OperatorName, &b.BusType, &b.Capacity,
		&b.TicketPrice, &b.IsAvailable, &b.RouteNumber, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
