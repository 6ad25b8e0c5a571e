// Command admin provisions admin panel accounts and checks the lead
// notification channel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vitornegrao/minha-landing-page/cmd/mainconfig"
	"github.com/vitornegrao/minha-landing-page/internal/auth"
	appconfig "github.com/vitornegrao/minha-landing-page/internal/config"
	"github.com/vitornegrao/minha-landing-page/internal/notify"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

const usage = `usage:
  admin create-user -email <email> -password <password>
  admin test-notify`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.NotifyTimeout+30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "create-user":
		err = createUser(ctx, cfg, os.Args[2:], os.Stdout, logger)
	case "test-notify":
		err = testNotify(ctx, cfg, os.Stdout, logger)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("admin command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

type userFlags struct {
	email    string
	password string
}

func parseUserFlags(args []string) (userFlags, error) {
	var f userFlags
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&f.email, "email", "", "admin e-mail")
	fs.StringVar(&f.password, "password", "", "admin password (min 6 characters)")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if f.email == "" || f.password == "" {
		return f, errors.New("-email and -password are required")
	}
	return f, nil
}

func createUser(ctx context.Context, cfg *appconfig.Config, args []string, out io.Writer, logger *logging.Logger) error {
	f, err := parseUserFlags(args)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	return provisionAdmin(ctx, auth.NewPostgresUserStore(pool), f, out, logger)
}

func provisionAdmin(ctx context.Context, users auth.UserStore, f userFlags, out io.Writer, logger *logging.Logger) error {
	svc := auth.NewService(users, auth.NewInMemorySessionStore(), auth.Config{}, logger)
	user, err := svc.CreateAdmin(ctx, f.email, f.password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created admin %s (%s)\n", user.Email, user.ID)
	return nil
}

func testNotify(ctx context.Context, cfg *appconfig.Config, out io.Writer, logger *logging.Logger) error {
	notifier, err := mainconfig.BuildLeadNotifier(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return sendTestNotification(ctx, notifier, out)
}

func sendTestNotification(ctx context.Context, notifier notify.LeadNotifier, out io.Writer) error {
	payload := notify.NewLeadPayload(notify.LeadFields{
		Name:           "Lead de Teste",
		Email:          "teste@example.com",
		Phone:          "11999990000",
		Age:            "30",
		Profession:     "Teste",
		AreaOfActivity: "Teste",
		Channel:        "Outro",
	})
	if err := notifier.NotifyLead(ctx, payload); err != nil {
		return fmt.Errorf("send test notification: %w", err)
	}
	fmt.Fprintln(out, "test notification sent")
	return nil
}
