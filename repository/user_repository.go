package repository

import (
	"database/sql"
	"med-transcribe-api/logger"
	"med-transcribe-api/model"
	"time"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	UpdatePassword(userID int, hashedPassword string) error
	RecordLogin(userID int) error
}

// UserRepository implements IUserRepository.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, email, hashed_password, is_active, created_at, updated_at,
	password_changed_at, password_reset_token, password_reset_expires, last_login_at`

func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (username, email, hashed_password, is_active)
		VALUES ($1, $2, $3, TRUE) RETURNING id, created_at`
	err := r.DB.QueryRow(query, user.Username, user.Email, user.HashedPassword).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to execute create user query")
		return err
	}
	user.IsActive = true
	return nil
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.scanUser(r.DB.QueryRow(query, email))
}

func (r *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.scanUser(r.DB.QueryRow(query, username))
}

// UpdatePassword replaces the stored digest and clears any pending
// password-reset token in the same statement. The old digest is discarded;
// no history is retained.
func (r *UserRepository) UpdatePassword(userID int, hashedPassword string) error {
	query := `UPDATE users SET hashed_password=$1, password_changed_at=$2, updated_at=$2,
		password_reset_token=NULL, password_reset_expires=NULL WHERE id=$3`
	_, err := r.DB.Exec(query, hashedPassword, time.Now().UTC(), userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute update password query")
		return err
	}
	return nil
}

func (r *UserRepository) RecordLogin(userID int) error {
	query := `UPDATE users SET last_login_at=$1 WHERE id=$2`
	_, err := r.DB.Exec(query, time.Now().UTC(), userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute record login query")
		return err
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt, &user.PasswordChangedAt,
		&user.PasswordResetToken, &user.PasswordResetExpires, &user.LastLoginAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to scan user row")
		}
		return nil, err // Return sql.ErrNoRows if not found
	}
	return user, nil
}
