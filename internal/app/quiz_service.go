package app

import (
	"context"
	"time"

	"quiz-portal/internal/domain"
)

// QuizService covers quiz and question authoring. Every write that changes
// grading inputs invalidates the content cache, when one is wired.
type QuizService struct {
	quizzes   QuizStore
	questions QuestionStore
	notifier  Notifier
	cache     CacheInvalidator
	now       func() time.Time
}

func NewQuizService(quizzes QuizStore, questions QuestionStore, notifier Notifier, cache CacheInvalidator) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		questions: questions,
		notifier:  notifier,
		cache:     cache,
		now:       time.Now,
	}
}

func (s *QuizService) invalidate(ctx context.Context, quizID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, quizID)
	}
}

// CreateQuizInput is the authoring payload for a new quiz.
type CreateQuizInput struct {
	Title       string
	Category    string
	DurationMin int
}

// CreateQuiz stores a quiz owned by the caller and announces it to online
// students. The announcement is best-effort and does not delay the caller.
func (s *QuizService) CreateQuiz(ctx context.Context, creator domain.Identity, input CreateQuizInput) (domain.Quiz, error) {
	quiz, err := s.quizzes.CreateQuiz(ctx, domain.Quiz{
		Title:       input.Title,
		Category:    input.Category,
		DurationMin: input.DurationMin,
		CreatedBy:   creator.ID,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	s.notifier.NotifyNewQuiz(quiz, creator)
	return quiz, nil
}

// AddQuestionInput is the authoring payload for a new question.
type AddQuestionInput struct {
	QuizID        string
	Type          domain.QuestionType
	Text          string
	Options       []domain.Option
	CorrectAnswer any
}

// AddQuestion appends a question to a quiz the caller owns.
func (s *QuizService) AddQuestion(ctx context.Context, caller domain.Identity, input AddQuestionInput) (domain.Question, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, input.QuizID)
	if err != nil {
		return domain.Question{}, err
	}
	if quiz.CreatedBy != caller.ID && caller.Role != domain.RoleAdmin {
		return domain.Question{}, domain.ErrForbidden
	}

	question, err := s.questions.CreateQuestion(ctx, domain.Question{
		QuizID:        quiz.ID,
		Type:          input.Type,
		Text:          input.Text,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
	})
	if err != nil {
		return domain.Question{}, err
	}
	if err := s.quizzes.AttachQuestion(ctx, quiz.ID, question.ID); err != nil {
		return domain.Question{}, err
	}
	s.invalidate(ctx, quiz.ID)
	return question, nil
}

// UpdateQuizInput carries the editable quiz fields; zero values leave the
// stored field untouched.
type UpdateQuizInput struct {
	Title       string
	Category    string
	DurationMin int
}

// UpdateQuiz edits quiz metadata for its owner or an admin.
func (s *QuizService) UpdateQuiz(ctx context.Context, caller domain.Identity, id string, input UpdateQuizInput) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.CreatedBy != caller.ID && caller.Role != domain.RoleAdmin {
		return domain.Quiz{}, domain.ErrForbidden
	}

	if input.Title != "" {
		quiz.Title = input.Title
	}
	if input.Category != "" {
		quiz.Category = input.Category
	}
	if input.DurationMin > 0 {
		quiz.DurationMin = input.DurationMin
	}
	if err := s.quizzes.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	s.invalidate(ctx, quiz.ID)
	return quiz, nil
}

// UpdateQuestionInput carries the editable question fields; nil or empty
// values leave the stored field untouched.
type UpdateQuestionInput struct {
	Text          string
	Options       []domain.Option
	CorrectAnswer any
}

// UpdateQuestion edits a question on a quiz the caller owns.
func (s *QuizService) UpdateQuestion(ctx context.Context, caller domain.Identity, id string, input UpdateQuestionInput) (domain.Question, error) {
	question, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, question.QuizID)
	if err != nil {
		return domain.Question{}, err
	}
	if quiz.CreatedBy != caller.ID && caller.Role != domain.RoleAdmin {
		return domain.Question{}, domain.ErrForbidden
	}

	if input.Text != "" {
		question.Text = input.Text
	}
	if input.Options != nil {
		question.Options = input.Options
	}
	if input.CorrectAnswer != nil {
		question.CorrectAnswer = input.CorrectAnswer
	}
	if err := s.questions.UpdateQuestion(ctx, question); err != nil {
		return domain.Question{}, err
	}
	s.invalidate(ctx, quiz.ID)
	return question, nil
}

func (s *QuizService) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzes(ctx)
}

func (s *QuizService) Get(ctx context.Context, id string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, id)
}

// Questions lists a quiz's questions. Grading keys are redacted unless the
// caller owns the quiz or is an admin.
func (s *QuizService) Questions(ctx context.Context, caller domain.Identity, quizID string) ([]domain.Question, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.GetQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy == caller.ID || caller.Role == domain.RoleAdmin {
		return questions, nil
	}
	redacted := make([]domain.Question, len(questions))
	for i, q := range questions {
		q.CorrectAnswer = nil
		redacted[i] = q
	}
	return redacted, nil
}

// Delete removes a quiz for its owner or an admin.
func (s *QuizService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	quiz, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return err
	}
	if quiz.CreatedBy != caller.ID && caller.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.quizzes.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}
