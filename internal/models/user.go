package models

import "database/sql"

// DateLayout is the wire format for date_birth values.
const DateLayout = "2006-01-02"

// User types accepted by the service.
const (
	TypeAdministrador = "Administrador"
	TypeWebmaster     = "Webmaster"
	TypeDesarrollador = "Desarrollador"
)

// UserTypes lists the accepted user types in presentation order.
var UserTypes = []string{TypeAdministrador, TypeWebmaster, TypeDesarrollador}

// UserDB represents a row of the example_users table.
type UserDB struct {
	TID   string        `db:"tid"`   // External identifier, digits only, unique
	Name  string        `db:"name"`  // Display name
	Age   sql.NullInt64 `db:"age"`   // Birth date as Unix timestamp, NULL when unset
	Type  string        `db:"type"`  // One of UserTypes, or empty
	State int           `db:"state"` // 1 iff Type is Administrador
}

// UserRecord is the public projection of a user returned by the API.
type UserRecord struct {
	Username  string `json:"username"`
	TargetID  string `json:"target_id"`
	DateBirth string `json:"date_birth"` // YYYY-MM-DD, or "" when unset
	Type      string `json:"type"`
	State     bool   `json:"state"`
}

// UserFields is the normalized, store-ready field set for an insert.
type UserFields struct {
	TID   string
	Name  string
	Age   sql.NullInt64
	Type  string
	State bool
}

// UserUpdateFields holds only the staged columns of a partial update.
// Nil fields are left untouched by the repository.
type UserUpdateFields struct {
	Name  *string
	Age   *int64
	Type  *string
	State *bool
}

// CreateUserRequest carries the input of the create operation.
// Empty optional fields mean the field was not sent.
type CreateUserRequest struct {
	TargetID  string `json:"target_id"`
	Username  string `json:"username"`
	DateBirth string `json:"date_birth,omitempty"`
	Type      string `json:"type,omitempty"`
}

// UpdateUserRequest carries the input of the partial update operation.
// Nil pointers mean the field was not sent; a present empty string is
// still validated.
type UpdateUserRequest struct {
	TargetID  string  `json:"target_id"`
	Username  *string `json:"username,omitempty"`
	DateBirth *string `json:"date_birth,omitempty"`
	Type      *string `json:"type,omitempty"`
}
