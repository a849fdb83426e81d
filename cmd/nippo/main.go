package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/cli"
	"github.com/alexanderramin/nippo/internal/commits"
	"github.com/alexanderramin/nippo/internal/config"
	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/db"
	"github.com/alexanderramin/nippo/internal/github"
	"github.com/alexanderramin/nippo/internal/gitlocal"
	"github.com/alexanderramin/nippo/internal/intelligence"
	"github.com/alexanderramin/nippo/internal/llm"
	"github.com/alexanderramin/nippo/internal/repository"
	"github.com/alexanderramin/nippo/internal/service"
	"github.com/alexanderramin/nippo/internal/template"
	"github.com/alexanderramin/nippo/internal/web"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	// Open database
	database, err := db.OpenDB(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	workTimeRepo := repository.NewSQLiteWorkTimeRepo(database)
	varRepo := repository.NewSQLiteTemplateVarRepo(database)
	reportRepo := repository.NewSQLiteReportRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Hosting API. Requests served over HTTP may carry their own token.
	creds, err := credentialResolver(cfg.GitHub, logger)
	if err != nil {
		return err
	}
	gh := github.NewClient(cfg.GitHub.ClientConfig(), github.ContextResolver{Fallback: creds}, logger)
	aggregator := commits.NewAggregator(gh, cfg.GitHub.MaxConcurrency, logger)
	collector := commits.NewCollector(gh, aggregator)

	// Model client. A missing API key surfaces when a report is generated.
	llmCfg := cfg.LLMConfig()
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewSlogObserver(logger)
	}
	llmClient, err := llm.NewClient(llmCfg, observer)
	if err != nil {
		return err
	}

	resolver := datewindow.NewResolver()
	templates := template.NewDirSource(cfg.Templates.Dir)
	useCaseObserver := service.NewSlogUseCaseObserver(logger)

	// Wire services
	reportSvc := service.NewReportService(service.ReportDeps{
		Collector: collector,
		Resolver:  resolver,
		Templates: templates,
		Vars:      varRepo,
		WorkTimes: workTimeRepo,
		Reports:   reportRepo,
		Writer:    intelligence.NewReportWriter(llmClient),
		Logger:    logger,
	}, useCaseObserver)
	commitSvc := service.NewCommitService(gh, collector, resolver, useCaseObserver)
	workTimeSvc := service.NewWorkTimeService(workTimeRepo, useCaseObserver)
	templateSvc := service.NewTemplateService(templates, varRepo, useCaseObserver)

	cliApp := &cli.App{
		Reports:    reportSvc,
		Commits:    commitSvc,
		WorkTime:   workTimeSvc,
		Transfer:   service.NewTransferService(workTimeRepo, uow, useCaseObserver),
		Templates:  templateSvc,
		ServerAddr: cfg.Server.Addr,
		DetectRepo: gitlocal.Detect,
	}

	cliApp.Serve = func(ctx context.Context, addr string) error {
		srv := web.NewServer(web.Services{
			Reports:   reportSvc,
			Commits:   commitSvc,
			WorkTime:  workTimeSvc,
			Templates: templateSvc,
		}, logger)
		return srv.Run(ctx, addr)
	}

	// Spinners and prompts only when a person is at the terminal.
	cliApp.Interactive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
	}

	rootCmd := cli.NewRootCmd(cliApp)
	return rootCmd.Execute()
}

// credentialResolver prefers GitHub App credentials and falls back to a
// personal access token.
func credentialResolver(cfg config.GitHubConfig, logger *slog.Logger) (github.CredentialResolver, error) {
	if !cfg.UsesApp() {
		return github.StaticTokenResolver{Token: cfg.Token}, nil
	}
	key, err := github.LoadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, app.Configf(err, "%s", err.Error())
	}
	appID := strconv.FormatInt(cfg.AppID, 10)
	return github.NewAppInstallationResolver(cfg.ClientConfig(), appID, key, logger), nil
}
