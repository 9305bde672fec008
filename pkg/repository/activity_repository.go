package repository

import "database/sql"

type ActivityRepository interface {
	Log(userID int, action, details, ip, userAgent string) error
}

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Log(userID int, action, details, ip, userAgent string) error {
	_, err := r.db.Exec(
		`INSERT INTO activity_logs (user_id, action, details, ip, user_agent)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, action, details, ip, userAgent,
	)
	return err
}
