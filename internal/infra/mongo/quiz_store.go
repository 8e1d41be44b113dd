package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quiz-portal/internal/domain"
)

// QuizStore is a MongoDB implementation of app.QuizStore, app.QuestionStore
// and app.QuizContent.
type QuizStore struct {
	quizzes   *mongo.Collection
	questions *mongo.Collection
}

func NewQuizStore(db *mongo.Database) *QuizStore {
	return &QuizStore{
		quizzes:   db.Collection("quizzes"),
		questions: db.Collection("questions"),
	}
}

func (s *QuizStore) CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	if quiz.ID == "" {
		quiz.ID = primitive.NewObjectID().Hex()
	}
	if quiz.QuestionIDs == nil {
		quiz.QuestionIDs = []string{}
	}
	if _, err := s.quizzes.InsertOne(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizStore) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := s.quizzes.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, fmt.Errorf("find quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizStore) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.list(ctx, bson.M{})
}

func (s *QuizStore) ListQuizzesByOwner(ctx context.Context, ownerID string) ([]domain.Quiz, error) {
	return s.list(ctx, bson.M{"createdBy": ownerID})
}

func (s *QuizStore) list(ctx context.Context, filter bson.M) ([]domain.Quiz, error) {
	cursor, err := s.quizzes.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer cursor.Close(ctx)

	var quizzes []domain.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, fmt.Errorf("decode quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *QuizStore) UpdateQuiz(ctx context.Context, quiz domain.Quiz) error {
	result, err := s.quizzes.ReplaceOne(ctx, bson.M{"_id": quiz.ID}, quiz)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) AttachQuestion(ctx context.Context, quizID, questionID string) error {
	result, err := s.quizzes.UpdateOne(ctx, bson.M{"_id": quizID}, bson.M{"$push": bson.M{"questions": questionID}})
	if err != nil {
		return fmt.Errorf("attach question: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) DeleteQuiz(ctx context.Context, id string) error {
	result, err := s.quizzes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrQuizNotFound
	}
	if _, err := s.questions.DeleteMany(ctx, bson.M{"quizId": id}); err != nil {
		return fmt.Errorf("delete quiz questions: %w", err)
	}
	return nil
}

func (s *QuizStore) CreateQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.questions.InsertOne(ctx, question); err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return question, nil
}

func (s *QuizStore) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	var question domain.Question
	err := s.questions.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Question{}, domain.ErrQuestionNotFound
		}
		return domain.Question{}, fmt.Errorf("find question: %w", err)
	}
	return question, nil
}

func (s *QuizStore) UpdateQuestion(ctx context.Context, question domain.Question) error {
	result, err := s.questions.ReplaceOne(ctx, bson.M{"_id": question.ID}, question)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// GetQuestionsByQuiz returns the quiz's questions in authored order.
func (s *QuizStore) GetQuestionsByQuiz(ctx context.Context, quizID string) ([]domain.Question, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.questions.Find(ctx, bson.M{"_id": bson.M{"$in": quiz.QuestionIDs}})
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []domain.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]domain.Question, 0, len(questions))
	for _, id := range quiz.QuestionIDs {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}
