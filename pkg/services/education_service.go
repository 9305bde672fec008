package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eduhub/pkg/apperrors"
	"eduhub/pkg/gemini"
	"eduhub/pkg/models"
	"eduhub/pkg/repository"
)

const (
	defaultDuration       = "14 weeks"
	defaultLessonDuration = 60
	defaultQuestionCount  = 10

	generationCacheTTL = 1 * time.Hour
	listCacheTTL       = 10 * time.Minute
)

// Generator is the upstream model collaborator.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Cache is the slice of cache.Redis this service needs. Narrow so tests
// can stand in a fake.
type Cache interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration)
	Del(keys ...string)
	DelPattern(pattern string)
}

type EducationService interface {
	GenerateEducation(ctx context.Context, userID int, req models.GenerateRequest) (models.EducationContent, error)
	GenerateCurriculum(ctx context.Context, userID int, req models.GenerateRequest) (models.EducationContent, error)
	EvaluateAssignment(ctx context.Context, userID int, req models.EvaluateRequest) (models.AssignmentEvaluation, error)
	ListContents(userID int, kind string) ([]models.EducationContent, error)
	ListEvaluations(userID int) ([]models.AssignmentEvaluation, error)
	ToggleFavorite(userID, contentID int) (bool, error)
}

type educationService struct {
	contents  repository.ContentRepository
	activity  repository.ActivityRepository
	generator Generator
	cache     Cache
}

func NewEducationService(
	contents repository.ContentRepository,
	activity repository.ActivityRepository,
	generator Generator,
	cache Cache,
) EducationService {
	return &educationService{
		contents:  contents,
		activity:  activity,
		generator: generator,
		cache:     cache,
	}
}

func (s *educationService) GenerateEducation(ctx context.Context, userID int, req models.GenerateRequest) (models.EducationContent, error) {
	return s.generate(ctx, userID, models.ContentKindEducation, req)
}

func (s *educationService) GenerateCurriculum(ctx context.Context, userID int, req models.GenerateRequest) (models.EducationContent, error) {
	return s.generate(ctx, userID, models.ContentKindCurriculum, req)
}

func (s *educationService) generate(ctx context.Context, userID int, kind string, req models.GenerateRequest) (models.EducationContent, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return models.EducationContent{}, fmt.Errorf("subject must not be empty")
	}

	if req.Duration == "" {
		req.Duration = defaultDuration
	}
	if req.LessonDuration <= 0 {
		req.LessonDuration = defaultLessonDuration
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = defaultQuestionCount
	}

	// Same subject, same program: serve repeated requests from cache
	// instead of burning upstream quota.
	text, hit := s.cachedText(kind, subject)
	if !hit {
		var prompt string
		if kind == models.ContentKindCurriculum {
			prompt = gemini.CurriculumPrompt(subject, req.Duration, req.LessonDuration, req.QuestionCount)
		} else {
			prompt = gemini.EducationPrompt(subject, req.Duration, req.LessonDuration, req.QuestionCount)
		}

		var err error
		text, err = s.generator.GenerateContent(ctx, prompt)
		if err != nil {
			log.Println("[EDU] generation error:", err)
			return models.EducationContent{}, err
		}
		s.storeText(kind, subject, text)
	}

	content, err := s.contents.SaveContent(userID, kind, subject, text)
	if err != nil {
		log.Println("[EDU] save content error:", err)
		return models.EducationContent{}, apperrors.ErrPersistence
	}

	s.invalidateContentLists(userID)
	s.logActivity(userID, "generate_"+kind, subject)
	return content, nil
}

func (s *educationService) EvaluateAssignment(ctx context.Context, userID int, req models.EvaluateRequest) (models.AssignmentEvaluation, error) {
	text := strings.TrimSpace(req.AssignmentText)
	criteria := strings.TrimSpace(req.Criteria)

	if text == "" {
		return models.AssignmentEvaluation{}, fmt.Errorf("assignment text must not be empty")
	}
	if len(text) < 10 {
		return models.AssignmentEvaluation{}, fmt.Errorf("assignment text too short for a meaningful evaluation")
	}
	if criteria == "" {
		criteria = "General evaluation criteria"
	}

	result, err := s.generator.GenerateContent(ctx, gemini.EvaluationPrompt(text, criteria))
	if err != nil {
		log.Println("[EDU] evaluation error:", err)
		return models.AssignmentEvaluation{}, err
	}

	eval, err := s.contents.SaveEvaluation(userID, text, criteria, result)
	if err != nil {
		log.Println("[EDU] save evaluation error:", err)
		return models.AssignmentEvaluation{}, apperrors.ErrPersistence
	}

	if s.cache != nil {
		s.cache.Del(evaluationListKey(userID))
	}
	s.logActivity(userID, "evaluate_assignment", "")
	return eval, nil
}

func (s *educationService) ListContents(userID int, kind string) ([]models.EducationContent, error) {
	key := contentListKey(userID, kind)
	if s.cache != nil {
		var cached []models.EducationContent
		if s.cache.Get(key, &cached) {
			return cached, nil
		}
	}

	contents, err := s.contents.ListContents(userID, kind)
	if err != nil {
		log.Println("[EDU] list contents error:", err)
		return nil, apperrors.ErrPersistence
	}
	if s.cache != nil {
		s.cache.Set(key, contents, listCacheTTL)
	}
	return contents, nil
}

func (s *educationService) ListEvaluations(userID int) ([]models.AssignmentEvaluation, error) {
	key := evaluationListKey(userID)
	if s.cache != nil {
		var cached []models.AssignmentEvaluation
		if s.cache.Get(key, &cached) {
			return cached, nil
		}
	}

	evals, err := s.contents.ListEvaluations(userID)
	if err != nil {
		log.Println("[EDU] list evaluations error:", err)
		return nil, apperrors.ErrPersistence
	}
	if s.cache != nil {
		s.cache.Set(key, evals, listCacheTTL)
	}
	return evals, nil
}

func (s *educationService) ToggleFavorite(userID, contentID int) (bool, error) {
	favorite, err := s.contents.ToggleFavorite(userID, contentID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, apperrors.ErrNotFound
	}
	if err != nil {
		log.Println("[EDU] toggle favorite error:", err)
		return false, apperrors.ErrPersistence
	}
	s.invalidateContentLists(userID)
	return favorite, nil
}

func (s *educationService) cachedText(kind, subject string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	var text string
	ok := s.cache.Get(generationKey(kind, subject), &text)
	return text, ok
}

func (s *educationService) storeText(kind, subject, text string) {
	if s.cache == nil {
		return
	}
	s.cache.Set(generationKey(kind, subject), text, generationCacheTTL)
}

// invalidateContentLists drops every cached list view for the user after a
// write so stale favorite flags and missing rows never get served.
func (s *educationService) invalidateContentLists(userID int) {
	if s.cache == nil {
		return
	}
	s.cache.DelPattern(fmt.Sprintf("contents:%d:*", userID))
}

func generationKey(kind, subject string) string {
	return "education:" + kind + ":" + strings.ToLower(subject)
}

func contentListKey(userID int, kind string) string {
	return fmt.Sprintf("contents:%d:%s", userID, kind)
}

func evaluationListKey(userID int) string {
	return fmt.Sprintf("evaluations:%d", userID)
}

func (s *educationService) logActivity(userID int, action, details string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(userID, action, details, "", ""); err != nil {
		log.Println("[EDU] activity log error:", err)
	}
}
