package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/dcalderon/example-users-api/internal/logger"
	"github.com/dcalderon/example-users-api/internal/models"
)

// ErrDuplicateTID is returned by Insert when the tid unique constraint
// rejects the row. It is how a create that lost the check-then-insert
// race still surfaces as a duplicate, not as a generic store failure.
var ErrDuplicateTID = errors.New("duplicate tid")

const pgUniqueViolation = "23505"

// UserReadRepository performs read operations on the example_users table.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// Exists reports whether a row with the given tid is present.
func (r *UserReadRepository) Exists(ctx context.Context, tid string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM example_users WHERE tid = $1
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, tid)

	logger.Log.Infow("user exists query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{tid},
		"result", exists,
		"error", err,
	)

	return exists, err
}

// ListAll returns every row of the example_users table, unordered.
func (r *UserReadRepository) ListAll(ctx context.Context) ([]models.UserDB, error) {
	const query = `
		SELECT tid, name, age, type, state
		FROM example_users
	`

	var users []models.UserDB
	err := r.db.SelectContext(ctx, &users, query)

	logger.Log.Infow("user list query",
		"query", strings.Join(strings.Fields(query), " "),
		"result_count", len(users),
		"error", err,
	)

	return users, err
}

// UserWriteRepository performs write operations on the example_users table.
// Writes run on the transaction found in the context when txGetter yields one.
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

func (r *UserWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Insert appends one user row. A unique-constraint rejection on tid is
// reported as ErrDuplicateTID.
func (r *UserWriteRepository) Insert(ctx context.Context, fields models.UserFields) error {
	const query = `
		INSERT INTO example_users (tid, name, age, type, state)
		VALUES ($1, $2, $3, $4, $5)
	`

	state := 0
	if fields.State {
		state = 1
	}
	args := []any{fields.TID, fields.Name, fields.Age, fields.Type, state}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("user insert query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateTID
	}
	return err
}

// Update applies only the staged fields to the row matching tid.
// With nothing staged it is a no-op.
func (r *UserWriteRepository) Update(ctx context.Context, tid string, fields models.UserUpdateFields) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if fields.Name != nil {
		args = append(args, *fields.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if fields.Age != nil {
		args = append(args, *fields.Age)
		set = append(set, fmt.Sprintf("age = $%d", len(args)))
	}
	if fields.Type != nil {
		args = append(args, *fields.Type)
		set = append(set, fmt.Sprintf("type = $%d", len(args)))
	}
	if fields.State != nil {
		state := 0
		if *fields.State {
			state = 1
		}
		args = append(args, state)
		set = append(set, fmt.Sprintf("state = $%d", len(args)))
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, tid)
	query := fmt.Sprintf(
		`UPDATE example_users SET %s WHERE tid = $%d`,
		strings.Join(set, ", "), len(args),
	)

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("user update query",
		"query", query,
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}
