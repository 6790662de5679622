package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables lists every table EnsureSchema manages, in creation order.
var Tables = []string{"users", "routes", "buses", "schedules", "seat_updates", "reservations"}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(191) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS routes (
		route_number VARCHAR(32) NOT NULL PRIMARY KEY,
		starting_point VARCHAR(120) NOT NULL,
		ending_point VARCHAR(120) NOT NULL,
		distance VARCHAR(32) NOT NULL DEFAULT '',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS buses (
		registration_number VARCHAR(32) NOT NULL PRIMARY KEY,
		bus_id VARCHAR(16) NOT NULL,
		bus_number VARCHAR(32) NOT NULL,
		driver_name VARCHAR(120) NOT NULL DEFAULT '',
		conductor_name VARCHAR(120) NOT NULL DEFAULT '',
		operator_name VARCHAR(120) NOT NULL,
		bus_type VARCHAR(32) NOT NULL,
		capacity INT NOT NULL,
		ticket_price BIGINT NOT NULL,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		route_number VARCHAR(32) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE KEY uq_buses_bus_number (bus_number),
		KEY idx_buses_operator (operator_name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS schedules (
		schedule_token VARCHAR(191) NOT NULL PRIMARY KEY,
		route_number VARCHAR(32) NOT NULL,
		route_name VARCHAR(255) NOT NULL,
		registration_number VARCHAR(32) NOT NULL,
		bus_number VARCHAR(32) NOT NULL DEFAULT '',
		operator_name VARCHAR(120) NOT NULL,
		bus_type VARCHAR(32) NOT NULL,
		ticket_price BIGINT NOT NULL,
		capacity INT NOT NULL,
		available_seats INT NOT NULL,
		legs JSON NOT NULL,
		valid_from DATE NOT NULL,
		valid_to DATE NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY idx_schedules_operator (operator_name),
		KEY idx_schedules_validity (is_active, valid_from, valid_to)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS seat_updates (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		schedule_id VARCHAR(191) NOT NULL,
		seat_number INT NOT NULL,
		status VARCHAR(16) NOT NULL,
		gender VARCHAR(16) NULL,
		source VARCHAR(16) NOT NULL,
		operator_name VARCHAR(120) NULL,
		reservation_id VARCHAR(191) NULL,
		updated_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_seat_updates (schedule_id, source, seat_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		reservation_id VARCHAR(191) NOT NULL,
		username VARCHAR(120) NOT NULL,
		passenger_name VARCHAR(120) NOT NULL,
		gender VARCHAR(16) NOT NULL,
		mobile_number VARCHAR(32) NOT NULL,
		email VARCHAR(191) NULL,
		boarding_place VARCHAR(120) NOT NULL,
		destination_place VARCHAR(120) NOT NULL,
		seats JSON NOT NULL,
		schedule_id VARCHAR(191) NOT NULL,
		ticket_amount BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE KEY uq_reservations_id (reservation_id),
		KEY idx_reservations_username (username),
		KEY idx_reservations_schedule (schedule_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates missing tables. It is safe to run on every boot.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure table %s: %w", Tables[i], err)
		}
	}
	return nil
}
