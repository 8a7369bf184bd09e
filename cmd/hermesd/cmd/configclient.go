package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/EuroplacerUk/hermes-sdk/configsvc"
	"github.com/EuroplacerUk/hermes-sdk/message"

	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	var timeout time.Duration

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Query or change a station's configuration over the configuration service",
	}
	configCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "how long to wait for the station's reply")

	get := &cobra.Command{
		Use:   "get <station-addr>",
		Short: "Print a station's current configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cur, notifications, err := configsvc.NewClient().Get(context.Background(), args[0], timeout)
			printNotifications(notifications)
			if err != nil {
				return err
			}
			printSettings(cur.Settings)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <station-addr> <key>=<value> [<key>=<value>...]",
		Short: "Apply one or more settings to a station and print what took effect",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			settings, err := parseSettings(args[1:])
			if err != nil {
				return err
			}
			cur, notifications, err := configsvc.NewClient().Set(context.Background(), args[0], timeout, settings)
			printNotifications(notifications)
			if err != nil {
				return err
			}
			printSettings(cur.Settings)
			return nil
		},
	}

	configCmd.AddCommand(get, set)
	return configCmd
}

func parseSettings(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid setting %q, want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}

func printSettings(settings map[string]string) {
	for k, v := range settings {
		fmt.Printf("%s=%s\n", k, v)
	}
}

func printNotifications(notifications []message.NotificationData) {
	for _, n := range notifications {
		fmt.Printf("%s %s: %s\n", n.Severity, n.Code, n.Description)
	}
}
