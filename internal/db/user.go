package db

import (
	"context"
)

const createUser = `
INSERT INTO users (id, google_account_id, full_name, email, hashed_password, phone_number, role)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, google_account_id, full_name, email, hashed_password, phone_number, role, email_verified, created_at, updated_at
`

type CreateUserParams struct {
	ID              string
	GoogleAccountID *string
	FullName        string
	Email           string
	HashedPassword  *string
	PhoneNumber     *string
	Role            UserRole
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.ID,
		arg.GoogleAccountID,
		arg.FullName,
		arg.Email,
		arg.HashedPassword,
		arg.PhoneNumber,
		arg.Role,
	)
	var u User
	err := row.Scan(
		&u.ID,
		&u.GoogleAccountID,
		&u.FullName,
		&u.Email,
		&u.HashedPassword,
		&u.PhoneNumber,
		&u.Role,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const getUserByID = `
SELECT id, google_account_id, full_name, email, hashed_password, phone_number, role, email_verified, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(
		&u.ID,
		&u.GoogleAccountID,
		&u.FullName,
		&u.Email,
		&u.HashedPassword,
		&u.PhoneNumber,
		&u.Role,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const getUserByEmail = `
SELECT id, google_account_id, full_name, email, hashed_password, phone_number, role, email_verified, created_at, updated_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(
		&u.ID,
		&u.GoogleAccountID,
		&u.FullName,
		&u.Email,
		&u.HashedPassword,
		&u.PhoneNumber,
		&u.Role,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const markUserEmailVerified = `
UPDATE users
SET email_verified = true, updated_at = now()
WHERE id = $1
`

func (q *Queries) MarkUserEmailVerified(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, markUserEmailVerified, id)
	return err
}
