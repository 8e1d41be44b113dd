package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"quiz-portal/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultStore.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]domain.Result)}
}

func (s *ResultStore) CreateResult(_ context.Context, result domain.Result) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	s.results[result.ID] = result
	return result, nil
}

func (s *ResultStore) GetResult(_ context.Context, id string) (domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return domain.Result{}, domain.ErrResultNotFound
	}
	return result, nil
}

func (s *ResultStore) ListResultsByStudent(_ context.Context, studentID string) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []domain.Result
	for _, result := range s.results {
		if result.StudentID == studentID {
			results = append(results, result)
		}
	}
	sortNewestFirst(results)
	return results, nil
}

func (s *ResultStore) ListResultsByQuizzes(_ context.Context, quizIDs []string) ([]domain.Result, error) {
	wanted := make(map[string]struct{}, len(quizIDs))
	for _, id := range quizIDs {
		wanted[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []domain.Result
	for _, result := range s.results {
		if _, ok := wanted[result.QuizID]; ok {
			results = append(results, result)
		}
	}
	sortNewestFirst(results)
	return results, nil
}

func (s *ResultStore) ListResults(_ context.Context) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.Result, 0, len(s.results))
	for _, result := range s.results {
		results = append(results, result)
	}
	sortNewestFirst(results)
	return results, nil
}

func sortNewestFirst(results []domain.Result) {
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.After(results[j].CreatedAt) })
}
