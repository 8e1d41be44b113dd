package domain

import "time"

// Role is the authorization level attached to a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Identity is a verified user as seen by a request or connection.
// It is snapshotted at verification time and immutable afterwards.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// User is the stored account record behind an Identity.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Identity derives the routing identity from the stored record.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, DisplayName: u.Name, Role: u.Role}
}

// QuestionType discriminates how a question is graded.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionText           QuestionType = "text"
)

// Option is a selectable choice on a multiple-choice question.
type Option struct {
	ID   string `json:"id" bson:"id"`
	Text string `json:"text" bson:"text"`
}

// Question holds the prompt and the grading key for one quiz question.
// CorrectAnswer is shaped by Type: option id(s) for multiple-choice
// (string or []string), bool for true-false, string for text.
type Question struct {
	ID            string       `json:"id" bson:"_id,omitempty"`
	QuizID        string       `json:"quizId" bson:"quizId"`
	Type          QuestionType `json:"type" bson:"type"`
	Text          string       `json:"text" bson:"text"`
	Options       []Option     `json:"options,omitempty" bson:"options,omitempty"`
	CorrectAnswer any          `json:"correctAnswer,omitempty" bson:"correctAnswer"`
}

// Quiz is the authored quiz metadata; question content lives in Question.
type Quiz struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Category    string    `json:"category" bson:"category"`
	DurationMin int       `json:"duration" bson:"duration"`
	QuestionIDs []string  `json:"questions" bson:"questions"`
	CreatedBy   string    `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// SubmittedAnswer is a learner's answer to a single question.
type SubmittedAnswer struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	UserAnswer any    `json:"userAnswer" bson:"userAnswer"`
}

// GradedAnswer is a submitted answer after correctness evaluation.
type GradedAnswer struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	UserAnswer any    `json:"userAnswer" bson:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect" bson:"isCorrect"`
}

// Result is one immutable graded submission.
type Result struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	StudentID      string         `json:"student" bson:"student"`
	QuizID         string         `json:"quiz" bson:"quiz"`
	Answers        []GradedAnswer `json:"answers" bson:"answers"`
	Score          int            `json:"score" bson:"score"`
	TotalQuestions int            `json:"totalQuestions" bson:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers" bson:"correctAnswers"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
}

// Notification is a one-shot push message; it is never persisted.
type Notification struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Quiz      *QuizRef  `json:"quiz,omitempty"`
	CreatedBy *UserRef  `json:"createdBy,omitempty"`
	Student   *UserRef  `json:"student,omitempty"`
	Result    *ScoreRef `json:"result,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// QuizRef is the quiz summary embedded in notifications.
type QuizRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UserRef is the user summary embedded in notifications.
type UserRef struct {
	Name string `json:"name"`
	Role Role   `json:"role,omitempty"`
}

// ScoreRef is the grading summary embedded in QUIZ_COMPLETED notifications.
type ScoreRef struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	CorrectAnswers int    `json:"correctAnswers"`
	Percentage     string `json:"percentage"`
}
