package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Adda-Baaj/purpleair-go/internal/config"
	"github.com/Adda-Baaj/purpleair-go/internal/logger"
	"github.com/Adda-Baaj/purpleair-go/pkg/purpleair"
	"github.com/spf13/cobra"
)

// cliAppName tags CLI log lines apart from the relay's.
const cliAppName = "purpleair-cli"

// env carries what the commands need from the outside world so tests can
// swap the config source and outputs.
type env struct {
	out    io.Writer
	logOut io.Writer
	config func() (*config.Config, error)
}

// defaultEnv reads keys and addresses from the environment and configs/.env.
func defaultEnv() *env {
	return &env{
		out:    os.Stdout,
		logOut: os.Stderr,
		config: config.Load,
	}
}

// options merges flags over the loaded config. The logger is built after the
// merge so --debug also lowers the log level.
func (e *env) options(flags *globalFlags) (purpleair.Options, error) {
	cfg, err := e.config()
	if err != nil {
		return purpleair.Options{}, fmt.Errorf("load config: %w", err)
	}
	if flags.readKey != "" {
		cfg.ReadKey = flags.readKey
	}
	if flags.writeKey != "" {
		cfg.WriteKey = flags.writeKey
	}
	if len(flags.local) > 0 {
		cfg.LocalAddresses = flags.local
	}
	cfg.Debug = cfg.Debug || flags.debug
	cfg.AppName = cliAppName

	return purpleair.Options{
		ReadKey:        cfg.ReadKey,
		WriteKey:       cfg.WriteKey,
		LocalAddresses: cfg.LocalAddresses,
		Logger:         logger.New(cfg, e.logOut),
		Debug:          cfg.Debug,
		BaseURL:        cfg.BaseURL,
	}, nil
}

type globalFlags struct {
	readKey  string
	writeKey string
	local    []string
	debug    bool
}

func newRootCommand(e *env) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "purpleair",
		Short:         "Query and manage PurpleAir sensors from the command line",
		Long:          `Query the PurpleAir cloud API or a sensor on the local network. Keys default to PURPLEAIR_READ_KEY and PURPLEAIR_WRITE_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.readKey, "read-key", "", "read API key (overrides PURPLEAIR_READ_KEY)")
	pf.StringVar(&flags.writeKey, "write-key", "", "write API key (overrides PURPLEAIR_WRITE_KEY)")
	pf.StringSliceVar(&flags.local, "local", nil, "IPv4 address of a sensor on the local network")
	pf.BoolVar(&flags.debug, "debug", false, "log request URLs and bodies")

	connect := func(cmd *cobra.Command) (*purpleair.Client, error) {
		opts, err := e.options(flags)
		if err != nil {
			return nil, err
		}
		return purpleair.New(cmd.Context(), opts)
	}

	root.AddCommand(
		newKeysCommand(e, connect),
		newSensorCommand(e, connect),
		newSensorsCommand(e, connect),
		newHistoryCommand(e, connect),
		newRegisterCommand(e, connect),
		newUnregisterCommand(e, connect),
		newLocalCommand(e, connect),
	)
	return root
}

type connectFunc func(cmd *cobra.Command) (*purpleair.Client, error)

// runBody connects, runs call and prints the body it returns.
func runBody(e *env, connect connectFunc, call func(context.Context, *purpleair.Client) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		client, err := connect(cmd)
		if err != nil {
			return err
		}
		body, err := call(cmd.Context(), client)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.out, body)
		return err
	}
}
