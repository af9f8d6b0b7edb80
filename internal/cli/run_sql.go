package cli

import (
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/hayatfoundation/site/internal/sqlsplit"
)

// RunSQLCommand executes a SQL script against the configured database, one
// statement at a time inside a single transaction.
type RunSQLCommand struct {
	File         string
	DatabasePath string
	DryRun       bool
	Verbose      bool
}

func NewRunSQLCommand() *RunSQLCommand {
	return &RunSQLCommand{}
}

func (cmd *RunSQLCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("run-sql", flag.ExitOnError)

	fs.StringVar(&cmd.File, "file", "", "Path to the SQL script (required)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "SQLite database path (defaults to DATABASE_PATH)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Print the statements without executing them")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print each statement as it runs")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s run-sql -file <script.sql> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run a SQL script (seed data, one-off fixes) against the site database.\n")
		fmt.Fprintf(os.Stderr, "Either every statement succeeds or none is applied.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.File == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *RunSQLCommand) Run() error {
	script, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	stmts := sqlsplit.Split(string(script))
	if len(stmts) == 0 {
		fmt.Println("No statements found")
		return nil
	}

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		for i, stmt := range stmts {
			fmt.Printf("\n-- [%d]\n%s;\n", i+1, stmt)
		}
		return nil
	}

	db, _, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := execStatements(db.DB, stmts, cmd.Verbose); err != nil {
		return err
	}
	fmt.Printf("Executed %d statements\n", len(stmts))
	return nil
}

func execStatements(db *gorm.DB, stmts []string, verbose bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i, stmt := range stmts {
			if verbose {
				fmt.Printf("[%d/%d] %s\n", i+1, len(stmts), stmt)
			}
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
}
