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
	"quizquest-service/internal/app"
	"quizquest-service/internal/domain"
	"quizquest-service/internal/infra/memory"
	"quizquest-service/internal/infra/postgres"
	pgmigrations "quizquest-service/internal/infra/postgres/migrations"
	infraredis "quizquest-service/internal/infra/redis"
)

func TestCompleteQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedCatalog(t, ctx, pgURL, memory.DefaultCatalog())

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

	rewards := redisClient.Subscribe(ctx, infraredis.DefaultRewardChannel)
	defer rewards.Close()
	if _, err := rewards.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	catalog := infraredis.NewCatalogCache(redisClient, postgres.NewCatalogLoader(pool), 5*time.Minute)
	workspaces := infraredis.NewWorkspaceStore(redisClient, 5*time.Minute)
	publisher := infraredis.NewRewardPublisher(redisClient, infraredis.DefaultRewardChannel)
	service := app.NewWorkspaceService(workspaces, catalog, publisher)

	ws, err := service.Open(ctx, "client-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer service.Close(ws)

	if got := len(ws.Quizzes.Quizzes()); got != 3 {
		t.Fatalf("expected 3 seeded quizzes, got %d", got)
	}

	ws.Auth.Login(domain.User{ID: "u1", Name: "Sam", Role: domain.RoleStudent, StudentID: "STU001"})
	attempt := ws.Quizzes.StartQuiz("dsa-fundamentals", "STU001")
	for _, qid := range []string{"dsa-q1", "dsa-q2"} {
		if err := ws.Quizzes.SubmitAnswer(attempt.ID, qid, 1); err != nil {
			t.Fatalf("answer %s: %v", qid, err)
		}
	}

	done, err := ws.Quizzes.CompleteQuiz(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Score == nil || *done.Score != 100 {
		t.Fatalf("expected score 100, got %+v", done.Score)
	}

	user, _ := ws.Auth.CurrentUser()
	if user.Experience != 200 || user.Level != 2 || !user.HasBadge("dsa-master") {
		t.Fatalf("expected 200 xp, level 2 and dsa-master, got %+v", user)
	}

	msg, err := rewards.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("receive reward: %v", err)
	}
	var event domain.RewardEvent
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		t.Fatalf("decode reward: %v", err)
	}
	if event.AttemptID != attempt.ID || event.Experience != 200 {
		t.Fatalf("unexpected published reward %+v", event)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
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

func seedCatalog(t *testing.T, ctx context.Context, dsn string, quizzes []domain.Quiz) {
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

	n, err := postgres.NewSeeder(db).Seed(ctx, quizzes)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(quizzes) {
		t.Fatalf("expected %d seeded rows, got %d", len(quizzes), n)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
