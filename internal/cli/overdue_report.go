package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/people"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/validation"
)

// OverdueReportCommand prints current loans, or only the overdue ones.
type OverdueReportCommand struct {
	Database config.Database
	All      bool

	Out io.Writer
	Now func() time.Time
}

func NewOverdueReportCommand() *OverdueReportCommand {
	return &OverdueReportCommand{Out: os.Stdout, Now: time.Now}
}

func (cmd *OverdueReportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("overdue-report", flag.ContinueOnError)

	registerDatabaseFlags(fs, &cmd.Database)
	fs.BoolVar(&cmd.All, "all", false, "List every current loan, not only overdue ones")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s overdue-report [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print books held longer than the overdue threshold.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s overdue-report -db ./library.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s overdue-report -all\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *OverdueReportCommand) Run() error {
	db, err := database.NewDatabase(cmd.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	svc := services.NewBooksService(
		books.NewRepository(db.DB),
		people.NewRepository(db.DB),
		validation.NewBookValidator(cmd.Now),
	)
	if cmd.Now != nil {
		svc.SetClock(cmd.Now)
	}

	var loans []entities.Book
	if cmd.All {
		loans, err = svc.Loans()
	} else {
		loans, err = svc.OverdueLoans()
	}
	if err != nil {
		return err
	}

	return cmd.print(loans)
}

func (cmd *OverdueReportCommand) print(loans []entities.Book) error {
	if len(loans) == 0 {
		if cmd.All {
			_, err := fmt.Fprintln(cmd.Out, "No books are on loan.")
			return err
		}
		_, err := fmt.Fprintln(cmd.Out, "No overdue loans.")
		return err
	}

	w := tabwriter.NewWriter(cmd.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tREADER\tEMAIL\tTAKEN\tOVERDUE")
	for _, book := range loans {
		reader, email := "", ""
		if book.Reader != nil {
			reader, email = book.Reader.FullName, book.Reader.Email
		}
		taken := ""
		if book.TakenAt != nil {
			taken = book.TakenAt.Format("2006-01-02")
		}
		overdue := "no"
		if book.Expired {
			overdue = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", book.ID, book.Title, reader, email, taken, overdue)
	}
	return w.Flush()
}

func registerDatabaseFlags(fs *flag.FlagSet, cfg *config.Database) {
	fs.StringVar(&cfg.Driver, "driver", config.DriverSQLite, "Database driver: sqlite or postgres")
	fs.StringVar(&cfg.Path, "db", config.DefaultDatabasePath, "Path to the SQLite database file")
	fs.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (driver=postgres)")
}
