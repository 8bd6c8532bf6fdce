package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
)

// PasswordEnv lets scripts pass the password without exposing it in argv.
const PasswordEnv = "LIBRARIAN_PASSWORD"

// CreateLibrarianCommand adds a librarian account from the command line.
type CreateLibrarianCommand struct {
	Database config.Database
	Auth     config.Auth
	Username string
	Email    string
	Password string

	Out io.Writer
}

func NewCreateLibrarianCommand(authCfg config.Auth) *CreateLibrarianCommand {
	return &CreateLibrarianCommand{Auth: authCfg, Out: os.Stdout}
}

func (cmd *CreateLibrarianCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-librarian", flag.ContinueOnError)

	registerDatabaseFlags(fs, &cmd.Database)
	fs.StringVar(&cmd.Username, "username", "", "Login name (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password; defaults to $"+PasswordEnv)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-librarian [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a librarian account for AUTH_MODE=local.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s=... %s create-librarian -username anna -email anna@library.org\n", PasswordEnv, os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Password == "" {
		cmd.Password = os.Getenv(PasswordEnv)
	}
	if cmd.Username == "" || cmd.Email == "" {
		fs.Usage()
		return fmt.Errorf("username and email are required")
	}
	if cmd.Password == "" {
		return fmt.Errorf("password is required (use -password or $%s)", PasswordEnv)
	}

	return nil
}

func (cmd *CreateLibrarianCommand) Run() error {
	db, err := database.NewDatabase(cmd.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	librarian, err := auth.NewService(db.DB, cmd.Auth).CreateLibrarian(cmd.Username, cmd.Email, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create librarian: %w", err)
	}

	_, err = fmt.Fprintf(cmd.Out, "Created librarian %q (id %d)\n", librarian.Username, librarian.ID)
	return err
}
