package repository

import (
	"database/sql"
	"time"

	"eduhub/pkg/models"
)

type SessionRepository interface {
	CreateSession(userID int, token, userAgent, ip string, expiresAt time.Time) error
	GetSessionByToken(token string) (models.Session, models.User, error)
	DeleteSessionByToken(token string) (int64, error)
	DeleteSessionsByUserID(userID int) (int64, error)
	DeleteExpired() (int64, error)
	GetActiveSessionsByUserID(userID int) ([]models.Session, error)
}

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(userID int, token, userAgent, ip string, expiresAt time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (user_id, session_token, user_agent, ip, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, token, userAgent, ip, expiresAt,
	)
	return err
}

// GetSessionByToken returns the session joined with its owner. Expiry and
// the owner's active flag are checked by the caller at read time.
func (r *sessionRepository) GetSessionByToken(token string) (models.Session, models.User, error) {
	var session models.Session
	var user models.User
	err := r.db.QueryRow(
		`SELECT s.id, s.user_id, s.expires_at, s.created_at,
		        u.username, u.email, u.full_name, u.role, u.is_active,
		        u.created_at, u.updated_at, u.last_login
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.session_token = $1`, token,
	).Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt,
		&user.Username, &user.Email, &user.FullName, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt, &user.LastLogin)
	user.ID = session.UserID
	session.SessionToken = token
	return session, user, err
}

func (r *sessionRepository) DeleteSessionByToken(token string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE session_token = $1`, token)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionRepository) DeleteSessionsByUserID(userID int) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionRepository) DeleteExpired() (int64, error) {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionRepository) GetActiveSessionsByUserID(userID int) ([]models.Session, error) {
	rows, err := r.db.Query(
		`SELECT id, user_agent, ip, expires_at, created_at FROM sessions
		 WHERE user_id = $1 AND expires_at > NOW() ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.UserAgent, &s.IP, &s.ExpiresAt, &s.CreatedAt); err == nil {
			s.UserID = userID
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}
