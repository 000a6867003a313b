package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/database"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	q database.DBTX
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(q database.DBTX) *UserPostgres {
	return &UserPostgres{q: q}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// FindByID returns the user joined with its role.
func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `
		SELECT u.id, u.login, u.first_name, u.last_name, u.middle_name,
		       r.id, r.name, r.description
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1
	`
	var (
		u      model.User
		middle sql.NullString
	)
	err := r.q.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Login, &u.FirstName, &u.LastName, &middle,
		&u.Role.ID, &u.Role.Name, &u.Role.Description,
	)
	if err != nil {
		return nil, err
	}
	u.MiddleName = middle.String
	return &u, nil
}

// Create inserts the account, resolving its role by name.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (login, last_name, first_name, middle_name, role_id)
		SELECT $1, $2, $3, $4, id FROM roles WHERE name = $5
		RETURNING id
	`
	var middle sql.NullString
	if u.MiddleName != "" {
		middle = sql.NullString{String: u.MiddleName, Valid: true}
	}
	var id int64
	if err := r.q.QueryRowContext(ctx, q, u.Login, u.LastName, u.FirstName, middle, u.Role.Name).Scan(&id); err != nil {
		return nil, translate(err)
	}
	return r.FindByID(ctx, id)
}
