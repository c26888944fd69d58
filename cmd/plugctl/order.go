package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/PlugSync/app/controllers"
	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/bootstrap"
)

func orderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Reconcile orders with Plug",
	}
	cmd.AddCommand(orderCreateCmd(a), orderCancelCmd(a), orderSyncCmd(a))
	return cmd
}

func loadPlatformOrder(cmd *cobra.Command, c *bootstrap.Container, code string) (models.PlatformOrder, error) {
	platformOrder, err := c.Platforms.LoadByCode(cmd.Context(), code)
	if err != nil {
		return nil, err
	}
	if platformOrder == nil {
		return nil, fmt.Errorf("order #%s not found", code)
	}
	return platformOrder, nil
}

func orderCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create [code]",
		Short: "Send a platform order to Plug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd)
			if err != nil {
				return err
			}
			platformOrder, err := loadPlatformOrder(cmd, c, args[0])
			if err != nil {
				return err
			}
			if platformOrder.PlugID() != "" {
				return fmt.Errorf("order #%s was already sent to Plug as %s", platformOrder.Code(), platformOrder.PlugID())
			}

			order, err := c.Orders.CreateOrderAtPlug(cmd.Context(), platformOrder)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order #%s created at Plug as %s (%s)\n", platformOrder.Code(), order.PlugID, order.Status)
			return nil
		},
	}
}

func orderCancelCmd(a *app) *cobra.Command {
	var retry bool
	cmd := &cobra.Command{
		Use:   "cancel [code]",
		Short: "Cancel every charge of an order at Plug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd)
			if err != nil {
				return err
			}
			platformOrder, err := loadPlatformOrder(cmd, c, args[0])
			if err != nil {
				return err
			}
			if err := c.Orders.CancelAtPlugByPlatformOrder(cmd.Context(), platformOrder); err != nil {
				return err
			}

			order, err := c.Orders.GetOrderByPlatformID(cmd.Context(), platformOrder.ID())
			if err != nil {
				return err
			}
			if order == nil || order.IsCanceled() {
				fmt.Fprintf(cmd.OutOrStdout(), "order #%s canceled\n", platformOrder.Code())
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "order #%s still has charges that could not be canceled\n", platformOrder.Code())
			if !retry {
				return nil
			}
			if err := c.Scheduler.ScheduleCancelRetry(cmd.Context(), order.PlugID, controllers.DefaultCancelRetryDelay); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cancel retry scheduled in %s\n", controllers.DefaultCancelRetryDelay)
			return nil
		},
	}
	cmd.Flags().BoolVar(&retry, "retry", true, "Schedule a background retry when charges remain")
	return cmd
}

func orderSyncCmd(a *app) *cobra.Command {
	var queue bool
	cmd := &cobra.Command{
		Use:   "sync [code]",
		Short: "Pull an order from Plug and sync the platform order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd)
			if err != nil {
				return err
			}
			platformOrder, err := loadPlatformOrder(cmd, c, args[0])
			if err != nil {
				return err
			}
			if platformOrder.PlugID() == "" {
				return fmt.Errorf("order #%s was never sent to Plug", platformOrder.Code())
			}

			if queue {
				job, err := c.Scheduler.SyncNow(cmd.Context(), platformOrder.PlugID())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sync job %s enqueued\n", job.ID)
				return nil
			}

			order, err := c.Orders.RefreshFromPlug(cmd.Context(), platformOrder.PlugID())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order #%s synced (%s)\n", platformOrder.Code(), order.Status)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&queue, "queue", "q", false, "Enqueue the sync for the worker instead of running it now")
	return cmd
}
