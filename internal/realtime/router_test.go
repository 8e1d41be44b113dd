package realtime

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"quiz-portal/internal/domain"
)

func TestNotifyNewQuizReachesStudentsOnly(t *testing.T) {
	hub := newTestHub()
	router := NewRouter(hub, log.New(io.Discard, "", 0))

	studentTransport := newFakeTransport()
	student, err := hub.Connect(context.Background(), "tok-alice", studentTransport)
	if err != nil {
		t.Fatalf("connect student: %v", err)
	}
	defer hub.Disconnect(student)

	teacherTransport := newFakeTransport()
	teacher, err := hub.Connect(context.Background(), "tok-teacher", teacherTransport)
	if err != nil {
		t.Fatalf("connect teacher: %v", err)
	}
	defer hub.Disconnect(teacher)

	quiz := domain.Quiz{ID: "quiz-1", Title: "Capitals", CreatedBy: "t1"}
	router.NotifyNewQuiz(quiz, domain.Identity{ID: "t1", DisplayName: "Ms. Ada", Role: domain.RoleTeacher})

	event := studentTransport.next(t, EventNotification)
	n := event.Payload.(domain.Notification)
	if n.Type != NotificationNewQuiz || n.Quiz.ID != "quiz-1" {
		t.Fatalf("unexpected notification %+v", n)
	}

	// The teacher's own role group must stay quiet.
	drainDeadline := time.After(200 * time.Millisecond)
	for {
		select {
		case event := <-teacherTransport.events:
			if event.Type == EventNotification {
				t.Fatalf("teacher must not receive NEW_QUIZ, got %+v", event)
			}
		case <-drainDeadline:
			return
		}
	}
}

func TestNotifyQuizCompletedTargetsQuizOwner(t *testing.T) {
	hub := newTestHub()
	router := NewRouter(hub, log.New(io.Discard, "", 0))

	// The submitting student is online too; the notification must still go
	// to the quiz owner only.
	studentTransport := newFakeTransport()
	student, err := hub.Connect(context.Background(), "tok-alice", studentTransport)
	if err != nil {
		t.Fatalf("connect student: %v", err)
	}
	defer hub.Disconnect(student)

	ownerTransport := newFakeTransport()
	owner, err := hub.Connect(context.Background(), "tok-teacher", ownerTransport)
	if err != nil {
		t.Fatalf("connect owner: %v", err)
	}
	defer hub.Disconnect(owner)

	quiz := domain.Quiz{ID: "quiz-1", Title: "Capitals", CreatedBy: "t1"}
	result := domain.Result{Score: 67, TotalQuestions: 3, CorrectAnswers: 2}
	router.NotifyQuizCompleted(result, domain.Identity{ID: "u1", DisplayName: "Alice"}, quiz)

	event := ownerTransport.next(t, EventNotification)
	n := event.Payload.(domain.Notification)
	if n.Type != NotificationQuizCompleted {
		t.Fatalf("expected QUIZ_COMPLETED, got %s", n.Type)
	}
	if n.Result.Percentage != "66.67" {
		t.Fatalf("expected percentage 66.67, got %s", n.Result.Percentage)
	}
	if n.Student.Name != "Alice" {
		t.Fatalf("expected student summary, got %+v", n.Student)
	}

	drainDeadline := time.After(200 * time.Millisecond)
	for {
		select {
		case event := <-studentTransport.events:
			if event.Type == EventNotification {
				t.Fatalf("student must not receive QUIZ_COMPLETED, got %+v", event)
			}
		case <-drainDeadline:
			return
		}
	}
}

func TestSendToUserOfflineIsSilent(t *testing.T) {
	hub := newTestHub()
	router := NewRouter(hub, log.New(io.Discard, "", 0))

	before := hub.OnlineCount()
	router.SendToUser("nobody-home", domain.Notification{Type: NotificationQuizCompleted})
	if hub.OnlineCount() != before {
		t.Fatal("offline delivery must not alter presence state")
	}
}

func TestSendToUserReachesEveryTab(t *testing.T) {
	hub := newTestHub()
	router := NewRouter(hub, log.New(io.Discard, "", 0))

	tab1Transport := newFakeTransport()
	tab1, err := hub.Connect(context.Background(), "tok-alice", tab1Transport)
	if err != nil {
		t.Fatalf("connect tab1: %v", err)
	}
	defer hub.Disconnect(tab1)
	tab2Transport := newFakeTransport()
	tab2, err := hub.Connect(context.Background(), "tok-alice", tab2Transport)
	if err != nil {
		t.Fatalf("connect tab2: %v", err)
	}
	defer hub.Disconnect(tab2)

	router.SendToUser("u1", domain.Notification{Type: NotificationNewQuiz, Title: "hi"})

	for _, transport := range []*fakeTransport{tab1Transport, tab2Transport} {
		event := transport.next(t, EventNotification)
		if event.Payload.(domain.Notification).Title != "hi" {
			t.Fatalf("unexpected payload %+v", event.Payload)
		}
	}
}

func TestBroadcastAll(t *testing.T) {
	hub := newTestHub()
	router := NewRouter(hub, log.New(io.Discard, "", 0))

	transports := []*fakeTransport{newFakeTransport(), newFakeTransport()}
	for i, credential := range []string{"tok-alice", "tok-teacher"} {
		conn, err := hub.Connect(context.Background(), credential, transports[i])
		if err != nil {
			t.Fatalf("connect %s: %v", credential, err)
		}
		defer hub.Disconnect(conn)
	}

	router.BroadcastAll(domain.Notification{Type: "ANNOUNCEMENT", Title: "maintenance"})
	for _, transport := range transports {
		event := transport.next(t, EventNotification)
		if event.Payload.(domain.Notification).Type != "ANNOUNCEMENT" {
			t.Fatalf("unexpected event %+v", event)
		}
	}
}
