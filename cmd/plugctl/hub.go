package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func hubCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hub",
		Short: "Manage the hub integration",
	}
	cmd.AddCommand(hubStartCmd(a), hubStatusCmd(a))
	return cmd
}

func hubStartCmd(a *app) *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Expire the active install token and issue a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd)
			if err != nil {
				return err
			}
			if seed == "" {
				seed = uuid.NewString()
			}
			token, err := c.Hub.StartIntegration(cmd.Context(), seed)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&seed, "seed", "s", "", "Install seed (random when empty)")
	return cmd
}

func hubStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the hub integration is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Hub.GetStatus())
			return nil
		},
	}
}
