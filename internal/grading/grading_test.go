package grading

import (
	"errors"
	"testing"

	"quiz-portal/internal/domain"
)

func TestGradeMixedTypes(t *testing.T) {
	questions := []domain.Question{
		{ID: "q1", Type: domain.QuestionTrueFalse, CorrectAnswer: true},
		{ID: "q2", Type: domain.QuestionText, CorrectAnswer: "Paris"},
	}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: true},
		{QuestionID: "q2", UserAnswer: " paris "},
	}

	summary, err := Grade(questions, answers)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if summary.CorrectAnswers != 2 || summary.TotalQuestions != 2 || summary.Score != 100 {
		t.Fatalf("expected 2/2 score 100, got %+v", summary)
	}
	for _, graded := range summary.Answers {
		if !graded.IsCorrect {
			t.Fatalf("expected %s correct", graded.QuestionID)
		}
	}
}

func TestGradeEmptySubmission(t *testing.T) {
	questions := []domain.Question{
		{ID: "q1", Type: domain.QuestionTrueFalse, CorrectAnswer: false},
		{ID: "q2", Type: domain.QuestionText, CorrectAnswer: "x"},
		{ID: "q3", Type: domain.QuestionTrueFalse, CorrectAnswer: true},
	}

	summary, err := Grade(questions, nil)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if summary.CorrectAnswers != 0 || summary.Score != 0 {
		t.Fatalf("expected zero score, got %+v", summary)
	}
	if summary.TotalQuestions != 3 {
		t.Fatalf("denominator must be the quiz question count, got %d", summary.TotalQuestions)
	}
}

func TestGradeIncompleteSubmissionUsesFullDenominator(t *testing.T) {
	questions := []domain.Question{
		{ID: "q1", Type: domain.QuestionTrueFalse, CorrectAnswer: true},
		{ID: "q2", Type: domain.QuestionTrueFalse, CorrectAnswer: true},
		{ID: "q3", Type: domain.QuestionTrueFalse, CorrectAnswer: true},
	}
	answers := []domain.SubmittedAnswer{{QuestionID: "q1", UserAnswer: true}}

	summary, err := Grade(questions, answers)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if summary.Score != 33 {
		t.Fatalf("expected round(1/3*100)=33, got %d", summary.Score)
	}
}

func TestGradeUnknownQuestionAborts(t *testing.T) {
	questions := []domain.Question{{ID: "q1", Type: domain.QuestionTrueFalse, CorrectAnswer: true}}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: true},
		{QuestionID: "missing", UserAnswer: false},
	}

	if _, err := Grade(questions, answers); !errors.Is(err, domain.ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
}

func TestGradeEmptyQuestionSet(t *testing.T) {
	if _, err := Grade(nil, nil); !errors.Is(err, domain.ErrEmptyQuestionSet) {
		t.Fatalf("expected ErrEmptyQuestionSet, got %v", err)
	}
}

func TestGradeMultipleChoiceSetEquality(t *testing.T) {
	cases := []struct {
		name    string
		correct any
		given   any
		want    bool
	}{
		{"scalar match", "o2", "o2", true},
		{"scalar mismatch", "o2", "o1", false},
		{"scalar vs single list", "o2", []any{"o2"}, true},
		{"set match out of order", []any{"o1", "o3"}, []any{"o3", "o1"}, true},
		{"subset is wrong", []any{"o1", "o3"}, []any{"o1"}, false},
		{"duplicates collapse", []any{"o1", "o3"}, []any{"o1", "o1", "o3"}, true},
		{"empty selection", []any{"o1"}, []any{}, false},
		{"non-string selection", "o1", 7, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			questions := []domain.Question{{ID: "q1", Type: domain.QuestionMultipleChoice, CorrectAnswer: tc.correct}}
			answers := []domain.SubmittedAnswer{{QuestionID: "q1", UserAnswer: tc.given}}
			summary, err := Grade(questions, answers)
			if err != nil {
				t.Fatalf("grade: %v", err)
			}
			if summary.Answers[0].IsCorrect != tc.want {
				t.Fatalf("correct=%v given=%v: expected %v", tc.correct, tc.given, tc.want)
			}
		})
	}
}

func TestGradeTypeMismatchIsIncorrectNotError(t *testing.T) {
	questions := []domain.Question{{ID: "q1", Type: domain.QuestionTrueFalse, CorrectAnswer: true}}
	answers := []domain.SubmittedAnswer{{QuestionID: "q1", UserAnswer: "true"}}

	summary, err := Grade(questions, answers)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if summary.Answers[0].IsCorrect {
		t.Fatal("string answer to a boolean question must not grade correct")
	}
}

func TestGradeIsDeterministic(t *testing.T) {
	questions := []domain.Question{
		{ID: "q1", Type: domain.QuestionMultipleChoice, CorrectAnswer: []any{"o1", "o2"}},
		{ID: "q2", Type: domain.QuestionText, CorrectAnswer: "Go"},
	}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: []any{"o2", "o1"}},
		{QuestionID: "q2", UserAnswer: "go"},
	}

	first, err := Grade(questions, answers)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Grade(questions, answers)
		if err != nil {
			t.Fatalf("grade: %v", err)
		}
		if again.Score != first.Score || again.CorrectAnswers != first.CorrectAnswers {
			t.Fatalf("non-deterministic result: %+v vs %+v", again, first)
		}
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(2, 3); got != "66.67" {
		t.Fatalf("expected 66.67, got %s", got)
	}
	if got := Percentage(0, 0); got != "0.00" {
		t.Fatalf("expected 0.00 for empty, got %s", got)
	}
}
