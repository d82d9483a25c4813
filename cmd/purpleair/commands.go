package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Adda-Baaj/purpleair-go/pkg/purpleair"
	"github.com/spf13/cobra"
)

func newKeysCommand(e *env, connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Validate the configured keys and print what the API reports about them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := connect(cmd)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(map[string]map[string]string{
				"api_versions":     redactKeys(client.APIVersions()),
				"key_last_checked": redactKeys(client.KeyLastChecked()),
				"key_types":        redactKeys(client.KeyTypes()),
			}, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.out, string(out))
			return err
		},
	}
}

func newSensorCommand(e *env, connect connectFunc) *cobra.Command {
	var opts purpleair.SensorDataOptions
	cmd := &cobra.Command{
		Use:   "sensor <sensor_index>",
		Short: "Fetch the latest data of one sensor",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&opts.Fields, "fields", "", "comma separated field list")
	cmd.Flags().StringVar(&opts.ReadKey, "sensor-read-key", "", "read key of a private sensor")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		return runBody(e, connect, func(ctx context.Context, c *purpleair.Client) (string, error) {
			return c.SensorData(ctx, index, opts)
		})(cmd, args)
	}
	return cmd
}

func newSensorsCommand(e *env, connect connectFunc) *cobra.Command {
	var opts purpleair.SensorsDataOptions
	cmd := &cobra.Command{
		Use:   "sensors",
		Short: "Fetch data for many sensors",
		Args:  cobra.NoArgs,
	}
	f := cmd.Flags()
	f.StringVar(&opts.Fields, "fields", "", "comma separated field list (required)")
	f.StringVar(&opts.LocationType, "location-type", "", "0 for outside, 1 for inside")
	f.StringVar(&opts.ReadKeys, "read-keys", "", "comma separated read keys of private sensors")
	f.StringVar(&opts.ShowOnly, "show-only", "", "comma separated sensor indexes")
	f.StringVar(&opts.ModifiedSince, "modified-since", "", "only sensors modified after this unix time")
	f.IntVar(&opts.MaxAge, "max-age", 0, "only sensors updated within this many seconds")
	f.StringVar(&opts.NWLng, "nwlng", "", "north west longitude of the bounding box")
	f.StringVar(&opts.NWLat, "nwlat", "", "north west latitude of the bounding box")
	f.StringVar(&opts.SELng, "selng", "", "south east longitude of the bounding box")
	f.StringVar(&opts.SELat, "selat", "", "south east latitude of the bounding box")
	cmd.RunE = runBody(e, connect, func(ctx context.Context, c *purpleair.Client) (string, error) {
		return c.SensorsData(ctx, opts)
	})
	return cmd
}

func newHistoryCommand(e *env, connect connectFunc) *cobra.Command {
	var opts purpleair.SensorHistoryOptions
	cmd := &cobra.Command{
		Use:   "history <sensor_index>",
		Short: "Fetch historical data of one sensor",
		Args:  cobra.ExactArgs(1),
	}
	f := cmd.Flags()
	f.Int64Var(&opts.StartTimestamp, "start", 0, "start unix timestamp")
	f.Int64Var(&opts.EndTimestamp, "end", 0, "end unix timestamp")
	f.IntVar(&opts.Average, "average", 0, "averaging period in minutes")
	f.StringVar(&opts.Fields, "fields", "", "comma separated field list")
	f.StringVar(&opts.Privacy, "privacy", "", "public or private")
	f.StringVar(&opts.ReadKey, "sensor-read-key", "", "read key of a private sensor")
	f.BoolVar(&opts.CSV, "csv", false, "request CSV instead of JSON")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		return runBody(e, connect, func(ctx context.Context, c *purpleair.Client) (string, error) {
			return c.SensorHistory(ctx, index, opts)
		})(cmd, args)
	}
	return cmd
}

func newRegisterCommand(e *env, connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "register <sensor_index>",
		Short: "Register a sensor with the write key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return runBody(e, connect, func(ctx context.Context, c *purpleair.Client) (string, error) {
				return c.RegisterSensor(ctx, index)
			})(cmd, args)
		},
	}
}

func newUnregisterCommand(e *env, connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "unregister <member_id>",
		Short: "Remove a registered member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return runBody(e, connect, func(ctx context.Context, c *purpleair.Client) (string, error) {
				return c.UnregisterSensor(ctx, id)
			})(cmd, args)
		},
	}
}

func newLocalCommand(e *env, connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "local",
		Short: "Read the first configured sensor on the local network",
		Args:  cobra.NoArgs,
		RunE: runBody(e, connect, func(ctx context.Context, c *purpleair.Client) (string, error) {
			return c.LocalSensorData(ctx)
		}),
	}
}

func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid index %q", arg)
	}
	return n, nil
}

// redactKeys keeps only the last four characters of each key.
func redactKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if len(k) > 4 {
			k = "****" + k[len(k)-4:]
		}
		out[k] = v
	}
	return out
}
