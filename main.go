package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"

	"github.com/budgetmail/budgetmail/internal/config"
	"github.com/budgetmail/budgetmail/internal/destination"
	"github.com/budgetmail/budgetmail/internal/emailclient"
	"github.com/budgetmail/budgetmail/internal/emailstore"
	"github.com/budgetmail/budgetmail/internal/notifier"
	"github.com/budgetmail/budgetmail/internal/runner"
	"github.com/budgetmail/budgetmail/pkg/emailparser"
	"github.com/budgetmail/budgetmail/pkg/postgresutils"
)

func main() {
	singleRun := flag.Bool("single-run", false, "run sync once (disable cron)")
	configFile := flag.String("config", "./config.yml", "configuration file")
	secretsFile := flag.String("secrets", "./secrets.json", "secrets file")
	help := flag.Bool("help", false, "show command help")

	flag.Parse()

	if *help {
		fmt.Println("bank email transaction sync")
		fmt.Println("budgetmail [options]")
		flag.PrintDefaults()
		return
	}

	if err := realMain(*configFile, *secretsFile, *singleRun); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func realMain(configFile, secretsFile string, singleRun bool) error {
	err := config.ReadConfig("BUDGETMAIL_CONFIG", configFile, secretsFile)
	if err != nil {
		return err
	}

	cfg := config.CurrentConfig()
	ctx := context.Background()

	db, err := postgresutils.CreatePostgresClient(cfg.SQL.Database)
	if err != nil {
		return fmt.Errorf("error connecting to postgres: %w", err)
	}

	store := emailstore.New(db)
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("error migrating seen email table: %w", err)
	}

	parser, err := emailparser.NewFromConfig(cfg.Parser)
	if err != nil {
		return fmt.Errorf("error creating parser: %w", err)
	}

	dest, err := destination.NewFromConfig(cfg.Destination)
	if err != nil {
		return fmt.Errorf("error creating destination: %w", err)
	}

	notif, err := notifier.NewFromConfig(cfg.Notifier)
	if err != nil {
		return fmt.Errorf("error creating notifier: %w", err)
	}

	client, err := emailclient.NewFromConfig(cfg.Email)
	if err != nil {
		return fmt.Errorf("error creating email client: %w", err)
	}

	r := runner.New(parser, dest, notif, client, store)

	if err := r.Init(ctx); err != nil {
		return fmt.Errorf("error initializing sync: %w", err)
	}

	defer func() {
		if err := dest.Shutdown(context.Background()); err != nil {
			fmt.Println(err)
		}
	}()

	run(ctx, r)

	if singleRun {
		return nil
	}

	c := cron.New()

	err = c.AddFunc(cfg.UpdateFrequency, func() {
		run(ctx, r)
	})
	if err != nil {
		return fmt.Errorf("error scheduling sync: %w", err)
	}

	c.Start()
	defer c.Stop()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	return nil
}

func run(ctx context.Context, r *runner.Runner) {
	fmt.Println(time.Now().Format(time.RFC850))

	if err := r.RunPass(ctx); err != nil {
		fmt.Println(err)
	}
}
