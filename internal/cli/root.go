package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/gitlocal"
	"github.com/alexanderramin/nippo/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and host hooks used by CLI commands. Nil hooks fall
// back to safe defaults so tests can wire only what they exercise.
type App struct {
	Reports   service.ReportService
	Commits   app.ListCommitsUseCase
	WorkTime  service.WorkTimeService
	Transfer  service.TransferService
	Templates service.TemplateService

	// Serve runs the HTTP API until ctx is cancelled.
	Serve      func(ctx context.Context, addr string) error
	ServerAddr string

	DetectRepo  func(dir string) (*gitlocal.RepoInfo, error)
	Interactive func() bool
	Now         func() time.Time
}

func (a *App) interactive() bool {
	return a.Interactive != nil && a.Interactive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) resolver() *datewindow.Resolver {
	return &datewindow.Resolver{Loc: datewindow.JST, Now: a.now}
}

// NewRootCmd creates the top-level "nippo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "nippo",
		Short:         "Daily and meeting reports from GitHub commits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newReportCmd(app),
		newCommitsCmd(app),
		newWorkTimeCmd(app),
		newTemplateCmd(app),
		newHistoryCmd(app),
		newServeCmd(app),
	)

	return root
}
