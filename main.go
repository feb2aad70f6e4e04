package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jvitoroc/ruleast/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fset := flag.NewFlagSet("ruleast", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	configPath := fset.String("config", "", "configuration file (.yaml, .yml or .json)")
	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_, err = fmt.Fprint(stdout, usage)
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	fs := osfs.New("/")
	resolve := func(p string) string {
		abs, err := filepath.Abs(p)
		if err != nil {
			return p
		}
		return abs
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.FromFile(fs, resolve(*configPath))
		if err != nil {
			return err
		}
	}

	logger, err := cfg.Logger(stderr)
	if err != nil {
		return err
	}

	e := &engine{
		cfg:     cfg,
		logger:  logger,
		fs:      fs,
		resolve: resolve,
		stdout:  stdout,
	}

	return e.run(ctx, fset.Args())
}
