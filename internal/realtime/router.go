package realtime

import (
	"fmt"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/grading"
)

// Notification type tags pushed over the wire.
const (
	NotificationNewQuiz       = "NEW_QUIZ"
	NotificationQuizCompleted = "QUIZ_COMPLETED"
)

// Router delivers notifications to live connections. Delivery is
// fire-and-forget: no acknowledgement, no retry, and nothing is persisted
// for offline recipients.
type Router struct {
	hub *Hub
	log Logger
}

func NewRouter(hub *Hub, log Logger) *Router {
	return &Router{hub: hub, log: log}
}

// BroadcastToRole delivers to every connection joined to the role group.
func (r *Router) BroadcastToRole(role domain.Role, n domain.Notification) {
	delivered := r.hub.sendToGroup(RoleGroup(role), Event{Type: EventNotification, Payload: n})
	r.log.Printf("notification %s: role=%s delivered=%d", n.Type, role, delivered)
}

// SendToUser delivers to every live connection of one identity. Zero live
// connections is an expected outcome, not an error.
func (r *Router) SendToUser(identityID string, n domain.Notification) {
	delivered := r.hub.sendToGroup(UserGroup(identityID), Event{Type: EventNotification, Payload: n})
	if delivered == 0 {
		r.log.Printf("notification %s: recipient offline user=%s", n.Type, identityID)
		return
	}
	r.log.Printf("notification %s: user=%s delivered=%d", n.Type, identityID, delivered)
}

// BroadcastAll delivers to every active connection.
func (r *Router) BroadcastAll(n domain.Notification) {
	delivered := r.hub.broadcast(Event{Type: EventNotification, Payload: n})
	r.log.Printf("notification %s: broadcast delivered=%d", n.Type, delivered)
}

// NotifyNewQuiz announces a freshly authored quiz to every online student.
func (r *Router) NotifyNewQuiz(quiz domain.Quiz, createdBy domain.Identity) {
	r.BroadcastToRole(domain.RoleStudent, domain.Notification{
		Type:    NotificationNewQuiz,
		Title:   "New quiz available",
		Message: fmt.Sprintf("%s created a new quiz: %q", createdBy.DisplayName, quiz.Title),
		Quiz:    &domain.QuizRef{ID: quiz.ID, Title: quiz.Title},
		CreatedBy: &domain.UserRef{
			Name: createdBy.DisplayName,
			Role: createdBy.Role,
		},
		Timestamp: r.hub.now(),
	})
}

// NotifyQuizCompleted tells the quiz's owning teacher that a student
// finished. The recipient is resolved from the quiz's CreatedBy identity,
// never from the submitting student.
func (r *Router) NotifyQuizCompleted(result domain.Result, student domain.Identity, quiz domain.Quiz) {
	r.SendToUser(quiz.CreatedBy, domain.Notification{
		Type:    NotificationQuizCompleted,
		Title:   "Quiz completed",
		Message: fmt.Sprintf("%s completed %q with %d/%d", student.DisplayName, quiz.Title, result.Score, result.TotalQuestions),
		Result: &domain.ScoreRef{
			Score:          result.Score,
			TotalQuestions: result.TotalQuestions,
			CorrectAnswers: result.CorrectAnswers,
			Percentage:     grading.Percentage(result.CorrectAnswers, result.TotalQuestions),
		},
		Student:   &domain.UserRef{Name: student.DisplayName},
		Quiz:      &domain.QuizRef{ID: quiz.ID, Title: quiz.Title},
		Timestamp: r.hub.now(),
	})
}
