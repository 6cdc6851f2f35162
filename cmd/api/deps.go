package main

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"ledger/internal/domain/debt"
	"ledger/internal/domain/transaction"
	"ledger/internal/domain/user"
	"ledger/internal/infrastructure/postgres"
	"ledger/internal/infrastructure/redis"
	"ledger/internal/infrastructure/sms"
	httphandlers "ledger/internal/interfaces/http"
	"ledger/internal/interfaces/scheduler"
	"ledger/internal/shared/auth"
	"ledger/internal/shared/config"
	"ledger/internal/shared/logger"
	"ledger/internal/shared/middleware"
)

// Gatekeeper authenticates bearer tokens and answers staff checks.
type Gatekeeper interface {
	middleware.Authenticator
	middleware.StaffChecker
}

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB    *postgres.DB
	Redis *goredis.Client

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	TransactionHandler *httphandlers.TransactionHandler
	DebtHandler        *httphandlers.DebtHandler
	AdminHandler       *httphandlers.AdminHandler

	UserService Gatekeeper

	// Pruners are the stores cleaned by the housekeeping scheduler.
	Pruners map[string]scheduler.Pruner
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config, log *logger.Logger) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Info("Connected to database", "host", cfg.Database.Host, "name", cfg.Database.DBName)

	deps := &Dependencies{DB: db, Pruners: map[string]scheduler.Pruner{}}

	// Reset codes live in Redis when it is configured, otherwise in Postgres.
	var codes user.CodeStore
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(cfg.Redis)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		deps.Redis = rdb
		codes = redis.NewCodeStore(rdb)
		log.Info("Using Redis for reset codes", "addr", cfg.Redis.Addr)
	} else {
		codeRepo := postgres.NewResetCodeRepository(db)
		codes = codeRepo
		deps.Pruners["reset_codes"] = codeRepo
		log.Info("Using Postgres for reset codes")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	deps.Pruners["sessions"] = sessionRepo
	transactionRepo := postgres.NewTransactionRepository(db)
	debtRepo := postgres.NewDebtRepository(db)

	// Domain services
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	userService := user.NewService(userRepo, sessionRepo, codes, sms.NewLogSender(log), jwt, cfg.OTP.TTL)
	transactionService := transaction.NewService(transactionRepo)
	debtService := debt.NewService(debtRepo)

	deps.UserService = userService
	deps.AuthHandler = httphandlers.NewAuthHandler(userService, log)
	deps.UserHandler = httphandlers.NewUserHandler(userService, log)
	deps.TransactionHandler = httphandlers.NewTransactionHandler(transactionService, debtService, log)
	deps.DebtHandler = httphandlers.NewDebtHandler(debtService, log)
	deps.AdminHandler = httphandlers.NewAdminHandler(userService, transactionService, transactionService, debtService, debtService, log)

	return deps, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		d.Redis.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
