// Package grading implements answer-type-aware grading of quiz submissions.
package grading

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"quiz-portal/internal/domain"
)

// Summary is the outcome of grading one submission. The denominator is the
// quiz's question count, so an incomplete submission is scored against the
// full quiz.
type Summary struct {
	Answers        []domain.GradedAnswer
	Score          int
	TotalQuestions int
	CorrectAnswers int
}

// Grade evaluates submitted answers against the quiz's questions. It is a
// pure function: identical inputs always yield identical summaries. An
// answer referencing an unknown question aborts the whole submission, since
// a partial result would be misleading.
func Grade(questions []domain.Question, answers []domain.SubmittedAnswer) (Summary, error) {
	if len(questions) == 0 {
		return Summary{}, domain.ErrEmptyQuestionSet
	}

	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	graded := make([]domain.GradedAnswer, 0, len(answers))
	correct := 0
	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			return Summary{}, fmt.Errorf("question %q: %w", answer.QuestionID, domain.ErrUnknownQuestion)
		}
		isCorrect := evaluate(question, answer.UserAnswer)
		if isCorrect {
			correct++
		}
		graded = append(graded, domain.GradedAnswer{
			QuestionID: answer.QuestionID,
			UserAnswer: answer.UserAnswer,
			IsCorrect:  isCorrect,
		})
	}

	total := len(questions)
	return Summary{
		Answers:        graded,
		Score:          int(math.Round(float64(correct) / float64(total) * 100)),
		TotalQuestions: total,
		CorrectAnswers: correct,
	}, nil
}

// Percentage renders correct/total with two decimals for notification payloads.
func Percentage(correct, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(correct)/float64(total)*100)
}

func evaluate(question domain.Question, userAnswer any) bool {
	switch question.Type {
	case domain.QuestionMultipleChoice:
		want, okWant := optionSet(question.CorrectAnswer)
		got, okGot := optionSet(userAnswer)
		if !okWant || !okGot {
			return false
		}
		return equalSets(want, got)
	case domain.QuestionTrueFalse:
		want, okWant := question.CorrectAnswer.(bool)
		got, okGot := userAnswer.(bool)
		return okWant && okGot && want == got
	case domain.QuestionText:
		want, okWant := question.CorrectAnswer.(string)
		got, okGot := userAnswer.(string)
		if !okWant || !okGot {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(got))
	}
	return false
}

// optionSet normalizes a multiple-choice value to a sorted set of option
// identifiers. A scalar selection and a one-element list compare equal;
// multi-select quizzes are graded by set equality.
func optionSet(value any) ([]string, bool) {
	switch v := value.(type) {
	case string:
		return []string{v}, true
	case []string:
		return dedupSorted(v), true
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			ids = append(ids, s)
		}
		return dedupSorted(ids), true
	}
	return nil, false
}

func dedupSorted(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return len(a) > 0
}
