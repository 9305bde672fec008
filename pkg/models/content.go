package models

import "time"

const (
	ContentKindEducation  = "education"
	ContentKindCurriculum = "curriculum"
)

type EducationContent struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Kind        string    `json:"kind"`
	Subject     string    `json:"subject"`
	Content     string    `json:"content"`
	IsFavorite  bool      `json:"is_favorite"`
	GeneratedAt time.Time `json:"generated_at"`
}

type AssignmentEvaluation struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	AssignmentText string    `json:"assignment_text"`
	Criteria       string    `json:"criteria"`
	Result         string    `json:"evaluation_result"`
	EvaluatedAt    time.Time `json:"evaluated_at"`
}

type GenerateRequest struct {
	Subject        string `json:"subject"`
	Duration       string `json:"duration,omitempty"`
	LessonDuration int    `json:"lesson_duration,omitempty"`
	QuestionCount  int    `json:"question_count,omitempty"`
}

type EvaluateRequest struct {
	AssignmentText string `json:"assignment_text"`
	Criteria       string `json:"criteria"`
}
