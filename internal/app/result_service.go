package app

import (
	"context"
	"errors"
	"time"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/grading"
)

// ResultService grades and stores quiz submissions. Resubmission is
// allowed: every submission creates a new immutable Result.
type ResultService struct {
	content  QuizContent
	results  ResultStore
	quizzes  QuizStore
	notifier Notifier
	now      func() time.Time
}

func NewResultService(content QuizContent, results ResultStore, quizzes QuizStore, notifier Notifier) *ResultService {
	return &ResultService{
		content:  content,
		results:  results,
		quizzes:  quizzes,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit grades the answers against the quiz's full question set, persists
// the result, and notifies the quiz's owning teacher. A grading failure
// aborts the submission; nothing partial is stored.
func (s *ResultService) Submit(ctx context.Context, student domain.Identity, quizID string, answers []domain.SubmittedAnswer) (domain.Result, error) {
	quiz, err := s.content.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Result{}, err
	}
	questions, err := s.content.GetQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return domain.Result{}, err
	}

	summary, err := grading.Grade(questions, answers)
	if err != nil {
		return domain.Result{}, err
	}

	result, err := s.results.CreateResult(ctx, domain.Result{
		StudentID:      student.ID,
		QuizID:         quiz.ID,
		Answers:        summary.Answers,
		Score:          summary.Score,
		TotalQuestions: summary.TotalQuestions,
		CorrectAnswers: summary.CorrectAnswers,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return domain.Result{}, err
	}

	s.notifier.NotifyQuizCompleted(result, student, quiz)
	return result, nil
}

// MyResults lists the caller's own submissions.
func (s *ResultService) MyResults(ctx context.Context, studentID string) ([]domain.Result, error) {
	return s.results.ListResultsByStudent(ctx, studentID)
}

// Get fetches a single result. Students see their own, teachers see
// results for quizzes they own, admins see everything.
func (s *ResultService) Get(ctx context.Context, caller domain.Identity, id string) (domain.Result, error) {
	result, err := s.results.GetResult(ctx, id)
	if err != nil {
		return domain.Result{}, err
	}
	if caller.Role == domain.RoleAdmin || result.StudentID == caller.ID {
		return result, nil
	}
	quiz, err := s.quizzes.GetQuiz(ctx, result.QuizID)
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			return domain.Result{}, domain.ErrForbidden
		}
		return domain.Result{}, err
	}
	if quiz.CreatedBy != caller.ID {
		return domain.Result{}, domain.ErrForbidden
	}
	return result, nil
}

// ResultsForTeacher lists results across every quiz the teacher owns.
func (s *ResultService) ResultsForTeacher(ctx context.Context, teacherID string) ([]domain.Result, error) {
	quizzes, err := s.quizzes.ListQuizzesByOwner(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(quizzes))
	for i, quiz := range quizzes {
		ids[i] = quiz.ID
	}
	return s.results.ListResultsByQuizzes(ctx, ids)
}

// AllResults is the admin listing.
func (s *ResultService) AllResults(ctx context.Context) ([]domain.Result, error) {
	return s.results.ListResults(ctx)
}
