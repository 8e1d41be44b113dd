// Package app contains the portal use cases: account management, quiz
// authoring, and scored result submission.
package app

import (
	"context"
	"time"

	"quiz-portal/internal/domain"
)

// UserStore abstracts how account records are stored (in-memory, Mongo).
type UserStore interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByName(ctx context.Context, name string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

// QuizStore stores authored quiz metadata.
type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	ListQuizzesByOwner(ctx context.Context, ownerID string) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) error
	AttachQuestion(ctx context.Context, quizID, questionID string) error
	DeleteQuiz(ctx context.Context, id string) error
}

// QuestionStore stores question content and grading keys.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, question domain.Question) (domain.Question, error)
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	GetQuestionsByQuiz(ctx context.Context, quizID string) ([]domain.Question, error)
	UpdateQuestion(ctx context.Context, question domain.Question) error
}

// QuizContent is the read path result submission grades against. A cache
// layer may decorate it.
type QuizContent interface {
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	GetQuestionsByQuiz(ctx context.Context, quizID string) ([]domain.Question, error)
}

// CacheInvalidator drops cached quiz content after an authoring write so
// the grading read path never serves a stale question set. A nil
// invalidator means reads are uncached.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, quizID string)
}

// ResultStore stores graded submissions.
type ResultStore interface {
	CreateResult(ctx context.Context, result domain.Result) (domain.Result, error)
	GetResult(ctx context.Context, id string) (domain.Result, error)
	ListResultsByStudent(ctx context.Context, studentID string) ([]domain.Result, error)
	ListResultsByQuizzes(ctx context.Context, quizIDs []string) ([]domain.Result, error)
	ListResults(ctx context.Context) ([]domain.Result, error)
}

// TokenStore is the refresh-token allowlist (in-memory, Redis).
type TokenStore interface {
	SaveRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error
	HasRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
}

// Notifier pushes domain events to the realtime channel. Delivery is
// best-effort and never blocks the request path.
type Notifier interface {
	NotifyNewQuiz(quiz domain.Quiz, createdBy domain.Identity)
	NotifyQuizCompleted(result domain.Result, student domain.Identity, quiz domain.Quiz)
}

// NopNotifier is used when the realtime channel is not wired (tests, tools).
type NopNotifier struct{}

func (NopNotifier) NotifyNewQuiz(domain.Quiz, domain.Identity) {}

func (NopNotifier) NotifyQuizCompleted(domain.Result, domain.Identity, domain.Quiz) {}
