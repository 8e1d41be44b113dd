package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"quiz-portal/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizStore,
// app.QuestionStore and app.QuizContent.
type QuizStore struct {
	mu        sync.RWMutex
	quizzes   map[string]domain.Quiz
	questions map[string]domain.Question
}

func NewQuizStore() *QuizStore {
	return &QuizStore{
		quizzes:   make(map[string]domain.Quiz),
		questions: make(map[string]domain.Question),
	}
}

func (s *QuizStore) CreateQuiz(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	s.quizzes[quiz.ID] = quiz
	return quiz, nil
}

func (s *QuizStore) GetQuiz(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizStore) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quizzes := make([]domain.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		quizzes = append(quizzes, quiz)
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt) })
	return quizzes, nil
}

func (s *QuizStore) ListQuizzesByOwner(_ context.Context, ownerID string) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var quizzes []domain.Quiz
	for _, quiz := range s.quizzes {
		if quiz.CreatedBy == ownerID {
			quizzes = append(quizzes, quiz)
		}
	}
	return quizzes, nil
}

func (s *QuizStore) UpdateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return domain.ErrQuizNotFound
	}
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *QuizStore) AttachQuestion(_ context.Context, quizID, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	quiz.QuestionIDs = append(quiz.QuestionIDs, questionID)
	s.quizzes[quizID] = quiz
	return nil
}

func (s *QuizStore) DeleteQuiz(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, id)
	for qid, question := range s.questions {
		if question.QuizID == id {
			delete(s.questions, qid)
		}
	}
	return nil
}

func (s *QuizStore) CreateQuestion(_ context.Context, question domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	s.questions[question.ID] = question
	return question, nil
}

func (s *QuizStore) GetQuestion(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return question, nil
}

func (s *QuizStore) UpdateQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[question.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[question.ID] = question
	return nil
}

func (s *QuizStore) GetQuestionsByQuiz(_ context.Context, quizID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return nil, domain.ErrQuizNotFound
	}
	questions := make([]domain.Question, 0, len(quiz.QuestionIDs))
	for _, id := range quiz.QuestionIDs {
		if question, ok := s.questions[id]; ok {
			questions = append(questions, question)
		}
	}
	return questions, nil
}
