package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quiz-portal/internal/app"
	"quiz-portal/internal/domain"
	"quiz-portal/internal/infra/memory"
	pgstore "quiz-portal/internal/infra/postgres"
	pgmigrations "quiz-portal/internal/infra/postgres/migrations"
	redisstore "quiz-portal/internal/infra/redis"
)

// quizDocument mirrors the JSONB payload the loader reads.
type quizDocument struct {
	domain.Quiz
	Questions []domain.Question `json:"questionDocs"`
}

func TestSubmitAgainstPostgresContent(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuizDocument(t, ctx, pgURL, sampleDocument())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	loader := pgstore.NewQuizLoader(pool)
	content := redisstore.NewQuizCache(redisClient, loader, 5*time.Minute)
	results := memory.NewResultStore()
	service := app.NewResultService(content, results, memory.NewQuizStore(), app.NopNotifier{})

	student := domain.Identity{ID: "u1", DisplayName: "Alice", Role: domain.RoleStudent}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: true},
		{QuestionID: "q2", UserAnswer: " paris "},
	}

	result, err := service.Submit(ctx, student, "quiz-1", answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 100 || result.CorrectAnswers != 2 || result.TotalQuestions != 2 {
		t.Fatalf("expected perfect score, got %+v", result)
	}

	// A second submission is served from the warmed cache and graded the same.
	again, err := service.Submit(ctx, student, "quiz-1", answers)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if again.Score != 100 {
		t.Fatalf("expected 100 on resubmit, got %d", again.Score)
	}
	if again.ID == result.ID {
		t.Fatalf("resubmission must create a distinct result")
	}

	mine, err := service.MyResults(ctx, student.ID)
	if err != nil {
		t.Fatalf("my results: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 attempts recorded, got %d", len(mine))
	}

	if _, err := service.Submit(ctx, student, "missing-quiz", answers); err == nil {
		t.Fatalf("expected error for unknown quiz")
	}
}

func TestRefreshTokensAgainstRedis(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, cleanup := startRedis(t, ctx)
	defer cleanup()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	store := redisstore.NewTokenStore(redisClient)
	if err := store.SaveRefreshToken(ctx, "u1", "tok-1", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	ok, err := store.HasRefreshToken(ctx, "u1", "tok-1")
	if err != nil || !ok {
		t.Fatalf("expected token present, ok=%v err=%v", ok, err)
	}
	if err := store.DeleteRefreshToken(ctx, "u1", "tok-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err = store.HasRefreshToken(ctx, "u1", "tok-1")
	if err != nil || ok {
		t.Fatalf("expected token revoked, ok=%v err=%v", ok, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedQuizDocument(t *testing.T, ctx context.Context, dsn string, doc quizDocument) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal quiz document: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO quiz_documents (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, doc.ID, string(data)); err != nil {
		t.Fatalf("insert quiz document: %v", err)
	}
}

func sampleDocument() quizDocument {
	return quizDocument{
		Quiz: domain.Quiz{
			ID:          "quiz-1",
			Title:       "Capitals",
			Category:    "geo",
			DurationMin: 15,
			QuestionIDs: []string{"q1", "q2"},
			CreatedBy:   "t1",
			CreatedAt:   time.Now().UTC(),
		},
		Questions: []domain.Question{
			{
				ID:            "q1",
				QuizID:        "quiz-1",
				Type:          domain.QuestionTrueFalse,
				Text:          "The Earth is round.",
				CorrectAnswer: true,
			},
			{
				ID:            "q2",
				QuizID:        "quiz-1",
				Type:          domain.QuestionText,
				Text:          "Capital of France?",
				CorrectAnswer: "Paris",
			},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
