package repository

import (
	"database/sql"
	"errors"
	"strings"

	"eduhub/pkg/models"

	"github.com/lib/pq"
)

type UserRepository interface {
	CreateUser(username, email, hashedPassword, fullName, role string) (models.User, error)
	GetUserByLogin(usernameOrEmail string) (models.User, string, error)
	GetUserByID(id int) (models.User, error)
	GetPasswordHash(userID int) (string, error)
	UpdatePassword(userID int, hashedPassword string) (int64, error)
	UpdateLastLogin(userID int) error
	SetActive(userID int, active bool) error
	ListUsers() ([]models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// the store. The unique indexes on username and email are the authority on
// duplicates; there is no pre-check SELECT.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const userColumns = `id, username, email, full_name, role, is_active, created_at, updated_at, last_login`

func (r *userRepository) CreateUser(username, email, hashedPassword, fullName, role string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`INSERT INTO users (username, email, password_hash, full_name, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		strings.ToLower(username), strings.ToLower(email), hashedPassword, fullName, role,
	).Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Role,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastLogin)
	return user, err
}

func (r *userRepository) GetUserByLogin(usernameOrEmail string) (models.User, string, error) {
	var user models.User
	var hashedPw string
	login := strings.ToLower(strings.TrimSpace(usernameOrEmail))
	err := r.db.QueryRow(
		`SELECT `+userColumns+`, password_hash FROM users
		 WHERE username = $1 OR email = $1`, login,
	).Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Role,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastLogin, &hashedPw)
	return user, hashedPw, err
}

func (r *userRepository) GetUserByID(id int) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Role,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastLogin)
	return user, err
}

func (r *userRepository) GetPasswordHash(userID int) (string, error) {
	var hash string
	err := r.db.QueryRow(`SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	return hash, err
}

func (r *userRepository) UpdatePassword(userID int, hashedPassword string) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		hashedPassword, userID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *userRepository) UpdateLastLogin(userID int) error {
	_, err := r.db.Exec(`UPDATE users SET last_login = NOW() WHERE id = $1`, userID)
	return err
}

func (r *userRepository) SetActive(userID int, active bool) error {
	_, err := r.db.Exec(
		`UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`,
		active, userID,
	)
	return err
}

func (r *userRepository) ListUsers() ([]models.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Role,
			&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLogin); err == nil {
			users = append(users, u)
		}
	}
	return users, nil
}
