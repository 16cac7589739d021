package main

import (
	"context"
	"log"
	"net/http"

	"github.com/function61/domainwatcher/pkg/domainwatcher"
	"github.com/function61/domainwatcher/pkg/watcherconfig"
	"github.com/function61/domainwatcher/pkg/watchermetrics"
	"github.com/function61/gokit/httputils"
	"github.com/function61/gokit/logex"
	"github.com/function61/gokit/osutil"
	"github.com/function61/gokit/taskrunner"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveEntry(configPath *string) *cobra.Command {
	addr := ":80"

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report over HTTP (instead of running in Lambda)",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rootLogger := logex.StandardLogger()

			conf, err := loadConfig(*configPath)
			osutil.ExitIfError(err)

			osutil.ExitIfError(serve(
				osutil.CancelOnInterruptOrTerminate(rootLogger),
				addr,
				*conf,
				rootLogger))
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "", addr, "Address to listen on")

	return cmd
}

func serve(ctx context.Context, addr string, conf watcherconfig.Config, logger *log.Logger) error {
	handler, err := serverHandler(conf, prometheus.NewRegistry(), logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	tasks := taskrunner.New(ctx, logger)

	tasks.Start("listener "+srv.Addr, func(_ context.Context) error {
		return httputils.RemoveGracefulServerClosedError(srv.ListenAndServe())
	})

	tasks.Start("listenershutdowner", httputils.ServerShutdownTask(srv))

	return tasks.Wait()
}

func serverHandler(conf watcherconfig.Config, registry *prometheus.Registry, logger *log.Logger) (http.Handler, error) {
	watcher, err := domainwatcher.NewFromConfig(
		conf,
		logex.Prefix("domainwatcher", logger),
		watchermetrics.New(registry))
	if err != nil {
		return nil, err
	}

	routes := mux.NewRouter()

	routes.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	routes.Handle("/", watcher.Handler())

	return routes, nil
}
