// Command streamscribe serves the upload page, accepts MP3 uploads and
// streams their transcription to connected browsers over SSE.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/streamscribe/app"
	"github.com/kbukum/streamscribe/bootstrap"
	"github.com/kbukum/streamscribe/config"
	"github.com/kbukum/streamscribe/logger"
	"github.com/kbukum/streamscribe/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet(app.ServiceName, flag.ContinueOnError)
	configFile := fs.String("config", "", "path to config.yml (default: searched)")
	envFile := fs.String("env", "", "path to .env file (default: searched)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println(version.Get())
		return nil
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	var cfg app.Config
	if err := config.LoadConfig(app.ServiceName, &cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()

	log := logger.Init(&cfg.Logging)
	engine, err := app.NewEngine(cfg.Transcription, log)
	if err != nil {
		return err
	}
	svc, err := app.New(&cfg, engine, bootstrap.WithLogger(log))
	if err != nil {
		return err
	}
	return svc.Run(context.Background())
}
