package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/PlugSync/internal/pkg/bootstrap"
)

var Version = "dev"

// app is set up lazily so --help works without database or redis
type app struct {
	container *bootstrap.Container
}

func (a *app) load(cmd *cobra.Command) (*bootstrap.Container, error) {
	if a.container != nil {
		return a.container, nil
	}
	c, err := bootstrap.New(cmd.Context(), bootstrap.Options{})
	if err != nil {
		return nil, err
	}
	a.container = c
	return c, nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "plugctl",
		Short:         "PlugSync operator CLI",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(hubCmd(a))
	rootCmd.AddCommand(orderCmd(a))
	rootCmd.AddCommand(webhookCmd(a))
	return rootCmd
}

func main() {
	a := &app{}
	err := newRootCmd(a).ExecuteContext(context.Background())
	if a.container != nil {
		a.container.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
