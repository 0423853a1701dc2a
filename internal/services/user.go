package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dcalderon/example-users-api/internal/logger"
	"github.com/dcalderon/example-users-api/internal/models"
	"github.com/dcalderon/example-users-api/internal/repositories"
)

// Error variables
var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrUserDoesNotExist      = errors.New("user does not exist")
	ErrEmptyUpdate           = errors.New("no fields to update")
)

// ValidationError carries the user-facing reason for a rejected field.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UserReader defines read-only operations for users.
type UserReader interface {
	Exists(ctx context.Context, tid string) (bool, error)
	ListAll(ctx context.Context) ([]models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Insert(ctx context.Context, fields models.UserFields) error
	Update(ctx context.Context, tid string, fields models.UserUpdateFields) error
}

// UserService validates incoming user data, maps it to store-ready
// fields and orchestrates reads and writes of the example_users table.
type UserService struct {
	reader UserReader
	writer UserWriter
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserReader, writer UserWriter) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
	}
}

// Create validates a create request and inserts the normalized row.
// Checks run in order; the first failing check wins.
func (svc *UserService) Create(ctx context.Context, req models.CreateUserRequest) error {
	if req.TargetID == "" || req.Username == "" {
		return ErrMissingRequiredFields
	}

	exists, err := svc.reader.Exists(ctx, req.TargetID)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "tid", req.TargetID, "err", err)
		return err
	}
	if exists {
		logger.Log.Errorw("user already exists", "tid", req.TargetID)
		return ErrUserAlreadyExists
	}

	if !isNumeric(req.TargetID) {
		return &ValidationError{Reason: "Target id can only contain numbers."}
	}
	if len(req.TargetID) > 10 {
		return &ValidationError{Reason: fmt.Sprintf("Target id %s it's not allowed.", req.TargetID)}
	}

	fields := models.UserFields{
		TID:  req.TargetID,
		Name: req.Username,
	}

	if req.DateBirth != "" {
		age, err := parseDateBirth(req.DateBirth)
		if err != nil {
			return err
		}
		fields.Age.Int64 = age
		fields.Age.Valid = true
	}

	if req.Type != "" {
		if !isValidType(req.Type) {
			return &ValidationError{Reason: "Incorrect user type ('Administrador', 'Webmaster', 'Desarrollador')."}
		}
		fields.Type = req.Type
	}
	fields.State = fields.Type == models.TypeAdministrador

	if err := svc.writer.Insert(ctx, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicateTID) {
			logger.Log.Errorw("concurrent create lost the race", "tid", req.TargetID)
			return ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to insert user", "tid", req.TargetID, "err", err)
		return err
	}

	return nil
}

// Update validates a partial update request and applies only the staged
// fields to the existing row.
func (svc *UserService) Update(ctx context.Context, req models.UpdateUserRequest) error {
	if req.TargetID == "" {
		return ErrMissingRequiredFields
	}

	exists, err := svc.reader.Exists(ctx, req.TargetID)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "tid", req.TargetID, "err", err)
		return err
	}
	if !exists {
		logger.Log.Errorw("user does not exist", "tid", req.TargetID)
		return ErrUserDoesNotExist
	}

	var fields models.UserUpdateFields

	if req.DateBirth != nil {
		age, err := parseDateBirth(*req.DateBirth)
		if err != nil {
			return err
		}
		fields.Age = &age
	}

	if req.Type != nil {
		if !isValidType(*req.Type) {
			return &ValidationError{Reason: "Incorrect user type ('Administrador', 'Webmaster', 'Desarrollador')."}
		}
		fields.Type = req.Type
		state := *req.Type == models.TypeAdministrador
		fields.State = &state
	}

	if req.Username != nil {
		fields.Name = req.Username
	}

	if fields.Name == nil && fields.Age == nil && fields.Type == nil {
		return ErrEmptyUpdate
	}

	if err := svc.writer.Update(ctx, req.TargetID, fields); err != nil {
		logger.Log.Errorw("failed to update user", "tid", req.TargetID, "err", err)
		return err
	}

	return nil
}

// List returns every user projected to the public record shape.
func (svc *UserService) List(ctx context.Context) ([]models.UserRecord, error) {
	users, err := svc.reader.ListAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}

	records := make([]models.UserRecord, 0, len(users))
	for _, u := range users {
		dateBirth := ""
		if u.Age.Valid {
			dateBirth = time.Unix(u.Age.Int64, 0).UTC().Format(models.DateLayout)
		}
		records = append(records, models.UserRecord{
			Username:  u.Name,
			TargetID:  u.TID,
			DateBirth: dateBirth,
			Type:      u.Type,
			State:     u.State != 0,
		})
	}

	return records, nil
}

// parseDateBirth parses a YYYY-MM-DD value into a Unix timestamp.
// The value must round-trip exactly, so loosely parsed forms such as
// "2024-2-1" are rejected.
func parseDateBirth(value string) (int64, error) {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil || t.Format(models.DateLayout) != value {
		return 0, &ValidationError{Reason: "Incorrect date format (Y-m-d)."}
	}
	return t.Unix(), nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isValidType(t string) bool {
	for _, known := range models.UserTypes {
		if t == known {
			return true
		}
	}
	return false
}
