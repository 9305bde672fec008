package repository

import (
	"database/sql"

	"eduhub/pkg/models"
)

type ContentRepository interface {
	SaveContent(userID int, kind, subject, content string) (models.EducationContent, error)
	ListContents(userID int, kind string) ([]models.EducationContent, error)
	ToggleFavorite(userID, contentID int) (bool, error)
	SaveEvaluation(userID int, assignmentText, criteria, result string) (models.AssignmentEvaluation, error)
	ListEvaluations(userID int) ([]models.AssignmentEvaluation, error)
}

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) SaveContent(userID int, kind, subject, content string) (models.EducationContent, error) {
	var c models.EducationContent
	err := r.db.QueryRow(
		`INSERT INTO education_contents (user_id, kind, subject, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, kind, subject, content, is_favorite, generated_at`,
		userID, kind, subject, content,
	).Scan(&c.ID, &c.UserID, &c.Kind, &c.Subject, &c.Content, &c.IsFavorite, &c.GeneratedAt)
	return c, err
}

func (r *contentRepository) ListContents(userID int, kind string) ([]models.EducationContent, error) {
	query := `SELECT id, user_id, kind, subject, content, is_favorite, generated_at
	          FROM education_contents WHERE user_id = $1`
	args := []interface{}{userID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY generated_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contents := []models.EducationContent{}
	for rows.Next() {
		var c models.EducationContent
		if err := rows.Scan(&c.ID, &c.UserID, &c.Kind, &c.Subject, &c.Content,
			&c.IsFavorite, &c.GeneratedAt); err == nil {
			contents = append(contents, c)
		}
	}
	return contents, nil
}

// ToggleFavorite flips the flag and returns the new value. The user_id
// guard keeps one user from touching another's history.
func (r *contentRepository) ToggleFavorite(userID, contentID int) (bool, error) {
	var favorite bool
	err := r.db.QueryRow(
		`UPDATE education_contents SET is_favorite = NOT is_favorite
		 WHERE id = $1 AND user_id = $2
		 RETURNING is_favorite`,
		contentID, userID,
	).Scan(&favorite)
	return favorite, err
}

func (r *contentRepository) SaveEvaluation(userID int, assignmentText, criteria, result string) (models.AssignmentEvaluation, error) {
	var e models.AssignmentEvaluation
	err := r.db.QueryRow(
		`INSERT INTO assignment_evaluations (user_id, assignment_text, criteria, evaluation_result)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, assignment_text, criteria, evaluation_result, evaluated_at`,
		userID, assignmentText, criteria, result,
	).Scan(&e.ID, &e.UserID, &e.AssignmentText, &e.Criteria, &e.Result, &e.EvaluatedAt)
	return e, err
}

func (r *contentRepository) ListEvaluations(userID int) ([]models.AssignmentEvaluation, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, assignment_text, criteria, evaluation_result, evaluated_at
		 FROM assignment_evaluations WHERE user_id = $1 ORDER BY evaluated_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evals := []models.AssignmentEvaluation{}
	for rows.Next() {
		var e models.AssignmentEvaluation
		if err := rows.Scan(&e.ID, &e.UserID, &e.AssignmentText, &e.Criteria,
			&e.Result, &e.EvaluatedAt); err == nil {
			evals = append(evals, e)
		}
	}
	return evals, nil
}
