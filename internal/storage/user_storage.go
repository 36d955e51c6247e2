package storage

import (
	"context"
	"database/sql"
	"errors"

	"EVChatbot_MultimodalProject/internal/models"

	"modernc.org/sqlite"
)

var ErrUsernameExists = errors.New("storage: username already exists")

// sqlite extended error code for a unique constraint violation.
const sqliteConstraintUnique = 2067

// UserStorage reads and provisions user records. Reading is the credential
// store contract consumed by the verifier; records are never mutated here.
type UserStorage struct {
	db *sql.DB
}

func NewUserStorage(db *sql.DB) *UserStorage {
	return &UserStorage{db: db}
}

// CreateUser provisions one account. Out-of-band admin path; the chat core
// itself never writes users.
func (s *UserStorage) CreateUser(ctx context.Context, username, passwordHash, name string) error {
	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO users(username, password_hash, name) VALUES(?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, username, passwordHash, name); err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqliteConstraintUnique {
			return ErrUsernameExists
		}
		return err
	}
	return nil
}

// FindUserByUsername returns the record for an exact, case-sensitive
// username match, (nil, nil) when there is none, and a non-nil error only
// when the store itself fails.
func (s *UserStorage) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT username, password_hash, name FROM users WHERE username = ?", username)

	var user models.User
	var nullName sql.NullString
	if err := row.Scan(&user.Username, &user.PasswordHash, &nullName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if nullName.Valid {
		user.Name = nullName.String
	}
	return &user, nil
}
