package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"eduhub/pkg/apperrors"
	"eduhub/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	lastPrompt string
	calls      int
	text       string
	err        error
}

func (g *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	g.calls++
	return g.text, g.err
}

type memContentRepo struct {
	nextID   int
	contents map[int]*models.EducationContent
	evals    map[int]*models.AssignmentEvaluation

	listCalls     int
	evalListCalls int

	failSave   bool
	failToggle bool
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{
		nextID:   1,
		contents: map[int]*models.EducationContent{},
		evals:    map[int]*models.AssignmentEvaluation{},
	}
}

func (r *memContentRepo) SaveContent(userID int, kind, subject, content string) (models.EducationContent, error) {
	if r.failSave {
		return models.EducationContent{}, errors.New("store down")
	}
	c := models.EducationContent{
		ID: r.nextID, UserID: userID, Kind: kind, Subject: subject,
		Content: content, GeneratedAt: time.Now(),
	}
	r.contents[c.ID] = &c
	r.nextID++
	return c, nil
}

func (r *memContentRepo) ListContents(userID int, kind string) ([]models.EducationContent, error) {
	r.listCalls++
	out := []models.EducationContent{}
	for _, c := range r.contents {
		if c.UserID == userID && (kind == "" || c.Kind == kind) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memContentRepo) ToggleFavorite(userID, contentID int) (bool, error) {
	if r.failToggle {
		return false, errors.New("store down")
	}
	c, ok := r.contents[contentID]
	if !ok || c.UserID != userID {
		return false, sql.ErrNoRows
	}
	c.IsFavorite = !c.IsFavorite
	return c.IsFavorite, nil
}

func (r *memContentRepo) SaveEvaluation(userID int, assignmentText, criteria, result string) (models.AssignmentEvaluation, error) {
	if r.failSave {
		return models.AssignmentEvaluation{}, errors.New("store down")
	}
	e := models.AssignmentEvaluation{
		ID: r.nextID, UserID: userID, AssignmentText: assignmentText,
		Criteria: criteria, Result: result, EvaluatedAt: time.Now(),
	}
	r.evals[e.ID] = &e
	r.nextID++
	return e, nil
}

func (r *memContentRepo) ListEvaluations(userID int) ([]models.AssignmentEvaluation, error) {
	r.evalListCalls++
	out := []models.AssignmentEvaluation{}
	for _, e := range r.evals {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

// fakeCache mirrors the JSON round trip of the real cache so Get sees
// exactly what Set stored.
type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (f *fakeCache) Get(key string, dest interface{}) bool {
	raw, ok := f.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (f *fakeCache) Set(key string, value interface{}, _ time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	f.data[key] = string(raw)
}

func (f *fakeCache) Del(keys ...string) {
	for _, k := range keys {
		delete(f.data, k)
	}
}

func (f *fakeCache) DelPattern(pattern string) {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
		}
	}
}

func newEducationTestService(gen *fakeGenerator) (EducationService, *memContentRepo) {
	repo := newMemContentRepo()
	return NewEducationService(repo, nil, gen, nil), repo
}

func newCachedEducationTestService(gen *fakeGenerator) (EducationService, *memContentRepo, *fakeCache) {
	repo := newMemContentRepo()
	c := newFakeCache()
	return NewEducationService(repo, nil, gen, c), repo, c
}

func TestGenerateEducation(t *testing.T) {
	gen := &fakeGenerator{text: "generated program"}
	svc, repo := newEducationTestService(gen)

	content, err := svc.GenerateEducation(context.Background(), 1, models.GenerateRequest{Subject: "Go Concurrency"})
	require.NoError(t, err)

	assert.Equal(t, "Go Concurrency", content.Subject)
	assert.Equal(t, models.ContentKindEducation, content.Kind)
	assert.Equal(t, "generated program", content.Content)
	assert.Contains(t, gen.lastPrompt, "Go Concurrency")
	// defaults applied when the request omits them
	assert.Contains(t, gen.lastPrompt, "14 weeks")
	assert.Contains(t, gen.lastPrompt, "60-minute")

	saved, err := repo.ListContents(1, models.ContentKindEducation)
	require.NoError(t, err)
	require.Len(t, saved, 1)
}

func TestGenerateCurriculumCustomParams(t *testing.T) {
	gen := &fakeGenerator{text: "curriculum"}
	svc, _ := newEducationTestService(gen)

	content, err := svc.GenerateCurriculum(context.Background(), 1, models.GenerateRequest{
		Subject: "Databases", Duration: "8 weeks", LessonDuration: 45, QuestionCount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContentKindCurriculum, content.Kind)
	assert.Contains(t, gen.lastPrompt, "8 weeks")
	assert.Contains(t, gen.lastPrompt, "45-minute")
	assert.Contains(t, gen.lastPrompt, "5 open-ended")
}

func TestGenerateEmptySubject(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	svc, _ := newEducationTestService(gen)

	_, err := svc.GenerateEducation(context.Background(), 1, models.GenerateRequest{Subject: "   "})
	assert.Error(t, err)
	assert.Zero(t, gen.calls)
}

func TestGenerateUpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: apperrors.ErrUpstreamGeneration}
	svc, repo := newEducationTestService(gen)

	_, err := svc.GenerateEducation(context.Background(), 1, models.GenerateRequest{Subject: "Go"})
	assert.ErrorIs(t, err, apperrors.ErrUpstreamGeneration)
	assert.Empty(t, repo.contents)
}

func TestGenerateSaveFailure(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	svc, repo := newEducationTestService(gen)
	repo.failSave = true

	_, err := svc.GenerateEducation(context.Background(), 1, models.GenerateRequest{Subject: "Go"})
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestEvaluateAssignment(t *testing.T) {
	gen := &fakeGenerator{text: "Score: 85/100"}
	svc, repo := newEducationTestService(gen)

	eval, err := svc.EvaluateAssignment(context.Background(), 7, models.EvaluateRequest{
		AssignmentText: "My essay about distributed consensus protocols.",
		Criteria:       "clarity, correctness",
	})
	require.NoError(t, err)
	assert.Equal(t, "Score: 85/100", eval.Result)
	assert.Contains(t, gen.lastPrompt, "distributed consensus")
	assert.Contains(t, gen.lastPrompt, "clarity, correctness")

	evals, err := repo.ListEvaluations(7)
	require.NoError(t, err)
	require.Len(t, evals, 1)
}

func TestEvaluateAssignmentGuards(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	svc, _ := newEducationTestService(gen)

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"too short", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.EvaluateAssignment(context.Background(), 1, models.EvaluateRequest{AssignmentText: tt.text})
			assert.Error(t, err)
		})
	}
	assert.Zero(t, gen.calls)
}

func TestEvaluateDefaultCriteria(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	svc, _ := newEducationTestService(gen)

	eval, err := svc.EvaluateAssignment(context.Background(), 1, models.EvaluateRequest{
		AssignmentText: strings.Repeat("solid work ", 5),
	})
	require.NoError(t, err)
	assert.Equal(t, "General evaluation criteria", eval.Criteria)
}

func TestToggleFavorite(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	svc, repo := newEducationTestService(gen)

	content, err := svc.GenerateEducation(context.Background(), 1, models.GenerateRequest{Subject: "Go"})
	require.NoError(t, err)

	fav, err := svc.ToggleFavorite(1, content.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	fav, err = svc.ToggleFavorite(1, content.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	// someone else's content is out of reach
	_, err = svc.ToggleFavorite(2, content.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, repo.contents[content.ID].IsFavorite)
}

func TestToggleFavoriteUnknownContent(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	svc, _ := newEducationTestService(gen)

	_, err := svc.ToggleFavorite(1, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrPersistence)
}

func TestToggleFavoriteStoreFailure(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	svc, repo := newEducationTestService(gen)
	repo.failToggle = true

	_, err := svc.ToggleFavorite(1, 1)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestGenerateServedFromCache(t *testing.T) {
	gen := &fakeGenerator{text: "generated program"}
	svc, repo, _ := newCachedEducationTestService(gen)

	first, err := svc.GenerateEducation(context.Background(), 1, models.GenerateRequest{Subject: "Go"})
	require.NoError(t, err)

	second, err := svc.GenerateEducation(context.Background(), 1, models.GenerateRequest{Subject: "Go"})
	require.NoError(t, err)

	// one upstream call, both requests persisted
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, first.Content, second.Content)
	assert.Len(t, repo.contents, 2)
}

func TestListContentsCached(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	svc, repo, _ := newCachedEducationTestService(gen)

	_, err := svc.GenerateEducation(context.Background(), 1, models.GenerateRequest{Subject: "Go"})
	require.NoError(t, err)

	out, err := svc.ListContents(1, "")
	require.NoError(t, err)
	require.Len(t, out, 1)

	out, err = svc.ListContents(1, "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestToggleFavoriteInvalidatesListCache(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	svc, repo, _ := newCachedEducationTestService(gen)

	content, err := svc.GenerateEducation(context.Background(), 1, models.GenerateRequest{Subject: "Go"})
	require.NoError(t, err)

	out, err := svc.ListContents(1, "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.False(t, out[0].IsFavorite)

	fav, err := svc.ToggleFavorite(1, content.ID)
	require.NoError(t, err)
	require.True(t, fav)

	// the toggle dropped the cached list, so the fresh flag is visible
	out, err = svc.ListContents(1, "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsFavorite)
	assert.Equal(t, 2, repo.listCalls)
}

func TestEvaluationListCacheInvalidation(t *testing.T) {
	gen := &fakeGenerator{text: "Score: 90/100"}
	svc, repo, _ := newCachedEducationTestService(gen)

	evals, err := svc.ListEvaluations(3)
	require.NoError(t, err)
	assert.Empty(t, evals)

	_, err = svc.EvaluateAssignment(context.Background(), 3, models.EvaluateRequest{
		AssignmentText: "A long enough assignment text.",
	})
	require.NoError(t, err)

	evals, err = svc.ListEvaluations(3)
	require.NoError(t, err)
	require.Len(t, evals, 1)
	assert.Equal(t, 2, repo.evalListCalls)
}
