package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Role         string    `json:"role" db:"role"`
	IsLocked     bool      `json:"is_locked" db:"is_locked"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Customer struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	CustomerName string     `json:"customer_name" db:"customer_name"`
	Address      *string    `json:"address,omitempty" db:"address"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type Staff struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	FullName string    `json:"full_name" db:"full_name"`
	Phone    *string   `json:"phone,omitempty" db:"phone"`
	Position *string   `json:"position,omitempty" db:"position"`
	IsActive bool      `json:"is_active" db:"is_active"`
}

type Vehicle struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CustomerID      uuid.UUID `json:"customer_id" db:"customer_id"`
	VehicleName     string    `json:"vehicle_name" db:"vehicle_name"`
	VehicleClass    *string   `json:"vehicle_class,omitempty" db:"vehicle_class"`
	VehicleBrand    *string   `json:"vehicle_brand,omitempty" db:"vehicle_brand"`
	VehicleRate     float64   `json:"vehicle_rate" db:"vehicle_rate"`
	BodyNumber      *string   `json:"body_number,omitempty" db:"body_number"`
	EngineNumber    *string   `json:"engine_number,omitempty" db:"engine_number"`
	VehicleNumber   *string   `json:"vehicle_number,omitempty" db:"vehicle_number"`
	SeatCount       *int      `json:"seat_count,omitempty" db:"seat_count"`
	ManufactureYear *int      `json:"manufacture_year,omitempty" db:"manufacture_year"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type InsuranceType struct {
	ID              uuid.UUID `json:"id" db:"id"`
	TypeCode        string    `json:"type_code" db:"type_code"`
	TypeName        string    `json:"type_name" db:"type_name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	BaseRatePercent float64   `json:"base_rate_percent" db:"base_rate_percent"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type Notification struct {
	ID        uuid.UUID           `json:"id" db:"id"`
	ToUserID  *uuid.UUID          `json:"to_user_id,omitempty" db:"to_user_id"`
	Title     string              `json:"title" db:"title"`
	Message   string              `json:"message" db:"message"`
	Channel   NotificationChannel `json:"channel" db:"channel"`
	Status    NotificationStatus  `json:"status" db:"status"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	SentAt    *time.Time          `json:"sent_at,omitempty" db:"sent_at"`
}

type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Action    string     `json:"action" db:"action"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
