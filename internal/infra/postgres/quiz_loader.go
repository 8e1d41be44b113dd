// Package postgres loads quiz content from Postgres JSONB documents, an
// alternative backing store when MongoDB is not configured.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-portal/internal/domain"
)

// quizDocument is the JSONB shape stored per quiz: metadata plus embedded
// questions.
type quizDocument struct {
	domain.Quiz
	Questions []domain.Question `json:"questionDocs"`
}

// QuizLoader implements app.QuizContent over the quiz_documents table.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	doc, err := l.load(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	return doc.Quiz, nil
}

func (l *QuizLoader) GetQuestionsByQuiz(ctx context.Context, quizID string) ([]domain.Question, error) {
	doc, err := l.load(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return doc.Questions, nil
}

func (l *QuizLoader) load(ctx context.Context, id string) (quizDocument, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quiz_documents WHERE id=$1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quizDocument{}, domain.ErrQuizNotFound
		}
		return quizDocument{}, fmt.Errorf("load quiz document: %w", err)
	}
	var doc quizDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return quizDocument{}, fmt.Errorf("unmarshal quiz document: %w", err)
	}
	return doc, nil
}
