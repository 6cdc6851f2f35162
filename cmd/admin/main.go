package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ledger/internal/domain/debt"
	"ledger/internal/domain/ownership"
	"ledger/internal/domain/transaction"
	"ledger/internal/domain/user"
	"ledger/internal/infrastructure/postgres"
	"ledger/internal/shared/config"
	"ledger/internal/shared/logger"
)

const usage = `Ledger Admin CLI - Management commands for the Ledger API

Usage:
  admin <command> [options]

Commands:
  migrate              Apply the database schema, then repair debt statuses
  repair-debt-status   Set NULL or empty debt statuses to unpaid
  promote              Grant (or revoke) admin panel access
  totals               Print balance and outstanding debts for users
  prune-sessions       Delete expired login sessions

Examples:
  admin migrate
  admin repair-debt-status
  admin promote --email=ana@example.com
  admin promote --email=ana@example.com --revoke
  admin totals --user-id=1,2,3
  admin prune-sessions
`

// env carries what every command needs.
type env struct {
	log *logger.Logger
	db  *postgres.DB
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "migrate":
		err = withEnv("migrate", args, nil, runMigrate)
	case "repair-debt-status":
		err = withEnv("repair-debt-status", args, nil, runRepair)
	case "promote":
		err = runPromote(args)
	case "totals":
		err = runTotals(args)
	case "prune-sessions":
		err = withEnv("prune-sessions", args, nil, runPruneSessions)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withEnv parses the command's flags, connects to the database and runs fn
// under the --timeout deadline. define registers extra flags.
func withEnv(name string, args []string, define func(fs *flag.FlagSet), fn func(ctx context.Context, e env) error) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	timeoutStr := fs.String("timeout", "10m", "Timeout for the operation (e.g., 5m, 1h)")
	if define != nil {
		define(fs)
	}
	fs.Usage = func() {
		fmt.Printf("Usage: admin %s [options]\n", name)
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		return fmt.Errorf("invalid timeout format: %w", err)
	}

	cfg, err := config.LoadStore()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Options{
		Mode:     cfg.Log.Mode,
		Level:    cfg.Log.Level,
		Redact:   cfg.Log.Redact,
		HashSalt: cfg.Log.HashSalt,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to database", "host", cfg.Database.Host, "name", cfg.Database.DBName)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return fn(ctx, env{log: log, db: db})
}

func runMigrate(ctx context.Context, e env) error {
	if err := e.db.Migrate(ctx); err != nil {
		return err
	}
	e.log.Info("Schema applied")
	return runRepair(ctx, e)
}

func runRepair(ctx context.Context, e env) error {
	repairer := debt.NewStatusRepairer(postgres.NewDebtRepository(e.db), e.log)
	report, err := repairer.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Debt status repair ===")
	fmt.Printf("  Rows updated: %d\n", report.Updated)
	fmt.Printf("  Total debts:  %d\n", report.Total)
	fmt.Printf("  Paid:         %d\n", report.Paid)
	fmt.Printf("  Unpaid:       %d\n", report.Unpaid)
	return nil
}

func runPromote(args []string) error {
	var (
		email  *string
		revoke *bool
	)
	define := func(fs *flag.FlagSet) {
		email = fs.String("email", "", "Email of the user to promote")
		revoke = fs.Bool("revoke", false, "Revoke admin access instead of granting it")
	}

	return withEnv("promote", args, define, func(ctx context.Context, e env) error {
		if strings.TrimSpace(*email) == "" {
			return fmt.Errorf("must specify --email")
		}

		// Only the user repository is needed to flip the admin flag.
		users := user.NewService(postgres.NewUserRepository(e.db), nil, nil, nil, nil, 0)
		u, err := users.SetStaff(ctx, *email, !*revoke)
		if err != nil {
			return fmt.Errorf("update %s: %w", *email, err)
		}

		e.log.Info("Admin access updated", "user_id", u.ID, "is_admin", u.IsAdmin)
		fmt.Printf("User %d (%s) isAdmin=%t\n", u.ID, u.Email, u.IsAdmin)
		return nil
	})
}

func runTotals(args []string) error {
	var userIDStr *string
	define := func(fs *flag.FlagSet) {
		userIDStr = fs.String("user-id", "", "User ID(s) to report (comma-separated for multiple)")
	}

	return withEnv("totals", args, define, func(ctx context.Context, e env) error {
		userIDs, err := parseUserIDs(*userIDStr)
		if err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return fmt.Errorf("must specify --user-id")
		}

		transactions := transaction.NewService(postgres.NewTransactionRepository(e.db))
		debts := debt.NewService(postgres.NewDebtRepository(e.db))

		for _, uid := range userIDs {
			caller := ownership.Staff(uid)
			balance, err := transactions.BalanceOf(ctx, caller, uid)
			if err != nil {
				return fmt.Errorf("balance for user %d: %w", uid, err)
			}
			summary, err := debts.SummaryOf(ctx, caller, uid)
			if err != nil {
				return fmt.Errorf("debts for user %d: %w", uid, err)
			}

			fmt.Printf("\n=== User %d ===\n", uid)
			fmt.Printf("  Balance:      %s\n", balance.StringFixed(2))
			fmt.Printf("  Total debt:   %s\n", summary.Debt.StringFixed(2))
			fmt.Printf("  Total credit: %s\n", summary.Credit.StringFixed(2))
			fmt.Printf("  Outstanding:  %s\n", summary.Outstanding.StringFixed(2))
		}
		return nil
	})
}

func runPruneSessions(ctx context.Context, e env) error {
	n, err := postgres.NewSessionRepository(e.db).DeleteExpired(ctx)
	if err != nil {
		return err
	}
	e.log.Info("Expired sessions deleted", "count", n)
	fmt.Printf("Deleted %d expired session(s)\n", n)
	return nil
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid user ID '%s'", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
