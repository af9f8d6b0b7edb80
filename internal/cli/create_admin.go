package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hayatfoundation/site/internal/auth"
	"github.com/hayatfoundation/site/internal/database/users"
	"github.com/hayatfoundation/site/internal/entities"
)

// CreateAdminCommand creates a CMS account from the command line.
type CreateAdminCommand struct {
	Email        string
	Name         string
	Password     string
	Role         string
	DatabasePath string
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Email, "email", "", "Account email (required)")
	fs.StringVar(&cmd.Name, "name", "", "Display name")
	fs.StringVar(&cmd.Password, "password", "", "Account password (required)")
	fs.StringVar(&cmd.Role, "role", string(entities.UserRoleAdmin), "Account role: admin or editor")
	fs.StringVar(&cmd.DatabasePath, "db", "", "SQLite database path (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -email <email> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a CMS account. Useful when the first-run setup endpoint is not reachable.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" {
		return fmt.Errorf("required flag -email not provided")
	}
	if len(cmd.Password) < auth.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
	}
	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	db, cfg, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
	user, err := service.CreateUser(context.Background(), cmd.Email, cmd.Name, cmd.Password, entities.UserRole(cmd.Role))
	if err != nil {
		return err
	}

	fmt.Printf("Created %s account %s (id %d)\n", user.Role, user.Email, user.ID)
	return nil
}
