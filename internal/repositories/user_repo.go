package repositories

import (
	"context"
	"database/sql"

	"busreservation/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) db() *sql.DB { return dbOrGlobal(r.DB) }

// CreateUser inserts u and returns it with the generated id.
func (r UserRepo) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	db := r.db()
	if db == nil {
		return u, errNoDB
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, created_at) VALUES (?,?,?,?,?)`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return u, translateErr("user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return u, translateErr("user", err)
	}
	u.ID = id
	return u, nil
}

func (r UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r UserRepo) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r UserRepo) getBy(ctx context.Context, col string, val any) (models.User, error) {
	db := r.db()
	if db == nil {
		return models.User{}, errNoDB
	}
	var u models.User
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at FROM users WHERE `+col+` = ? LIMIT 1`, val).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, translateErr("user", err)
}
