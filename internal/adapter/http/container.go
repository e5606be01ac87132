package http

import (
	"log/slog"
	"os"

	"todolists/internal/adapter/database/postgres"
	pgrepository "todolists/internal/adapter/database/postgres/repository"
	"todolists/internal/adapter/database/sqlite"
	"todolists/internal/adapter/database/sqlite/repository"
	"todolists/internal/adapter/http/handler"
	"todolists/internal/adapter/session"
	"todolists/internal/core/port"
	"todolists/internal/core/service"
	"todolists/internal/core/telemetry"
	"todolists/internal/shared"
)

type Container struct {
	UserRepo port.UserRepository
	ListRepo port.ListRepository
	TodoRepo port.TodoRepository

	Sessions port.SessionStore

	AuthService *service.AuthService
	ListService *service.ListService
	TodoService *service.TodoService

	AuthHandler *handler.AuthHandler
	ListHandler *handler.ListHandler
	TodoHandler *handler.TodoHandler

	CloseDB func()
}

func NewContainer(logger *shared.LokiLogger, metrics *shared.AppMetrics) (*Container, error) {
	probe := telemetry.NewOTELProbe(slog.Default())

	userRepo, listRepo, todoRepo, closeDB, err := newRepositories(probe)

	if err != nil {
		return nil, err
	}

	sessions := newSessionStore()

	authSvc := service.NewAuthService(userRepo, probe)
	listSvc := service.NewListService(listRepo, probe)
	todoSvc := service.NewTodoService(todoRepo, listRepo, probe)

	return &Container{
		UserRepo: userRepo,
		ListRepo: listRepo,
		TodoRepo: todoRepo,

		Sessions: sessions,

		AuthService: authSvc,
		ListService: listSvc,
		TodoService: todoSvc,

		AuthHandler: handler.NewAuthHandler(authSvc, sessions),
		ListHandler: handler.NewListHandler(listSvc, logger, metrics),
		TodoHandler: handler.NewTodoHandler(todoSvc, logger, metrics),

		CloseDB: closeDB,
	}, nil
}

// newRepositories selects the database backend. DATABASE_URL switches to
// postgres; the sqlite file database is the default.
func newRepositories(probe port.Telemetry) (port.UserRepository, port.ListRepository, port.TodoRepository, func(), error) {
	if os.Getenv("DATABASE_URL") != "" {
		db, err := postgres.NewDB()

		if err != nil {
			return nil, nil, nil, nil, err
		}

		return pgrepository.NewUserRepository(db, probe),
			pgrepository.NewListRepository(db, probe),
			pgrepository.NewTodoRepository(db, probe),
			db.Close, nil
	}

	db, err := sqlite.NewDB()

	if err != nil {
		return nil, nil, nil, nil, err
	}

	closeDB := func() {
		db.Close()
	}

	return repository.NewUserRepository(db, probe),
		repository.NewListRepository(db, probe),
		repository.NewTodoRepository(db, probe),
		closeDB, nil
}

// newSessionStore prefers Redis when SESSION_REDIS_URL is set, so sessions
// survive restarts and can be shared between replicas. The in-process store
// is the default for single-node and development runs.
func newSessionStore() port.SessionStore {
	redisURL := os.Getenv("SESSION_REDIS_URL")

	if redisURL != "" {
		store, err := session.NewRedisStore(redisURL)

		if err != nil {
			slog.Error("Falling back to in-memory sessions", "error", err)
			return session.NewMemoryStore()
		}

		return store
	}

	return session.NewMemoryStore()
}
