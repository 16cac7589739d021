package main

import (
	"context"
	"fmt"

	"github.com/function61/domainwatcher/pkg/domainwatcher"
	"github.com/function61/gokit/logex"
	"github.com/function61/gokit/osutil"
	"github.com/spf13/cobra"
)

func reportEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the HTML report once",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			osutil.ExitIfError(printReport(
				osutil.CancelOnInterruptOrTerminate(logex.Discard),
				*configPath))
		},
	}
}

func printReport(ctx context.Context, configPath string) error {
	conf, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// stdout is for the HTML
	watcher, err := domainwatcher.NewFromConfig(*conf, logex.StandardLogger(), nil)
	if err != nil {
		return err
	}

	html, err := watcher.Report(ctx)
	if err != nil {
		return err
	}

	fmt.Println(html)

	return nil
}
