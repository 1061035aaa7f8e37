package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fernandodimas/myfoil-tui/internal/repositories"
	"github.com/fernandodimas/myfoil-tui/internal/services"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	client     *services.Client
	library    services.LibraryAPI
	jobsAPI    services.JobsAPI
	system     services.SystemAPI
	translator *shared.Translator
	logger     *log.Logger
	output     io.Writer

	stateDB *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Client     *services.Client
	Library    services.LibraryAPI
	Jobs       services.JobsAPI
	System     services.SystemAPI
	Translator *shared.Translator
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		client:     opts.Client,
		library:    opts.Library,
		jobsAPI:    opts.Jobs,
		system:     opts.System,
		translator: opts.Translator,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, libraryCommand, infoCommand, ignoreCommand,
		jobsCommand, wishlistCommand, systemCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openState opens the local state database and applies the schema. Cached
// for the life of the process.
func (r *Runner) openState() (*sql.DB, error) {
	if r.stateDB != nil {
		return r.stateDB, nil
	}
	db, err := shared.NewDatabase(r.config.State.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	if err := repositories.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	r.stateDB = db
	return db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
