// Command createuser registers an account from the terminal using the same
// rules as the HTTP API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/prompt"
	"github.com/dmitrijs2005/blogkeeper/internal/server"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

type passwordFunc func(in *bufio.Reader, prompt string, out io.Writer) ([]byte, error)

type registerer interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
}

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := server.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	users, _, err := server.NewUserService(db, m, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := run(ctx, bufio.NewReader(os.Stdin), os.Stdout, users, prompt.Password); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}

}

func run(ctx context.Context, in *bufio.Reader, out io.Writer, users registerer, password passwordFunc) error {
	username, err := prompt.Text(in, "Username", out)
	if err != nil {
		return err
	}
	email, err := prompt.Text(in, "Email", out)
	if err != nil {
		return err
	}
	fullName, err := prompt.Optional(in, "Full name (optional)", out)
	if err != nil {
		return err
	}

	pw, err := password(in, "Password", out)
	if err != nil {
		return err
	}
	defer prompt.Wipe(pw)
	if len(pw) == 0 {
		return common.Validation("Password must not be empty", nil)
	}

	user, err := users.Register(ctx, services.RegisterInput{
		Username: username,
		Email:    email,
		Password: string(pw),
		FullName: fullName,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created user %s (id=%s)\n", user.Username, user.ID)
	return nil
}

// describe prefers the caller-facing message and falls back to the raw
// error for input failures that never reached the service.
func describe(err error) string {
	var e *common.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
