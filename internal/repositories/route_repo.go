package repositories

import (
	"context"
	"database/sql"

	"busreservation/internal/domain/models"
)

type RouteRepo struct {
	DB *sql.DB
}

func (r RouteRepo) db() *sql.DB { return dbOrGlobal(r.DB) }

const routeColumns = `route_number, starting_point, ending_point, distance, is_active, created_at, updated_at`

func (r RouteRepo) CreateRoute(ctx context.Context, rt models.Route) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	_, err := db.ExecContext(ctx, `INSERT INTO routes (`+routeColumns+`) VALUES (?,?,?,?,?,?,?)`,
		rt.RouteNumber, rt.StartingPoint, rt.EndingPoint, rt.Distance, rt.IsActive, rt.CreatedAt, rt.UpdatedAt)
	return translateErr("route", err)
}

func (r RouteRepo) ListRoutes(ctx context.Context) ([]models.Route, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	rows, err := db.QueryContext(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY route_number ASC`)
	if err != nil {
		return nil, translateErr("route", err)
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, translateErr("route", err)
		}
		out = append(out, rt)
	}
	return out, translateErr("route", rows.Err())
}

func (r RouteRepo) GetRoute(ctx context.Context, routeNumber string) (models.Route, error) {
	db := r.db()
	if db == nil {
		return models.Route{}, errNoDB
	}
	row := db.QueryRowContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE route_number = ?`, routeNumber)
	rt, err := scanRoute(row)
	return rt, translateErr("route", err)
}

func scanRoute(s rowScanner) (models.Route, error) {
	var rt models.Route
	err := s.Scan(&rt.RouteNumber, &rt.StartingPoint, &rt.EndingPoint, &rt.Distance, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt)
	return rt, err
}
