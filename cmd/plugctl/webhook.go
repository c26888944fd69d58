package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/PlugSync/internal/pkg/archive"
)

func webhookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Inspect received webhooks",
	}
	cmd.AddCommand(webhookPayloadCmd(a), webhookCountersCmd(a))
	return cmd
}

func webhookPayloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "payload <archive-key>",
		Short: "Print an archived webhook payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd)
			if err != nil {
				return err
			}
			reader, ok := c.Archive.(archive.Reader)
			if !ok {
				return errors.New("webhook archive is not configured")
			}

			exists, err := reader.ObjectExists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("no archived payload at %s", args[0])
			}

			payload, err := reader.GetPayload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
}

func webhookCountersCmd(a *app) *cobra.Command {
	var drain bool
	cmd := &cobra.Command{
		Use:   "counters",
		Short: "Show webhook deliveries per event type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd)
			if err != nil {
				return err
			}

			var counts map[string]int64
			if drain {
				counts, err = c.Counter.Drain(cmd.Context())
			} else {
				counts, err = c.Counter.Snapshot(cmd.Context())
			}
			if err != nil {
				return err
			}

			labels := make([]string, 0, len(counts))
			for label := range counts {
				labels = append(labels, label)
			}
			sort.Strings(labels)
			for _, label := range labels {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", label, counts[label])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&drain, "drain", false, "Reset the counters after reading")
	return cmd
}
