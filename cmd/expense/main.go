package main

import (
	"fmt"
	"io"
	"os"

	"expense-cli/internal/cli"
	"expense-cli/internal/config"
	"expense-cli/internal/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one command. Command failures are printed to stdout and do
// not produce an error; only an unusable configuration does.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	config.LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(stderr, cfg.LogLevel)

	root := cli.NewRootCmd(cli.Options{
		DataFile: cfg.DataFile,
		Logger:   logger,
	})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		logger.Debug().Err(err).Msg("command failed")
		cli.Report(stdout, err)
	}
	return nil
}
