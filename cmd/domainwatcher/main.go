package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/function61/domainwatcher/pkg/domainwatcher"
	"github.com/function61/domainwatcher/pkg/watcherconfig"
	"github.com/function61/gokit/logex"
	"github.com/function61/gokit/osutil"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Lambda runs us without arguments
	if runningInLambda() {
		osutil.ExitIfError(lambdaMain())
		return
	}

	configPath := ""

	app := &cobra.Command{
		Use:     os.Args[0],
		Short:   "Tells whether a domain was transferred away from its known registrant",
		Version: version,
	}

	app.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.json/.yaml). Default: read from env")

	commands := []*cobra.Command{
		serveEntry(&configPath),
		reportEntry(&configPath),
		whoisEntry(&configPath),
	}

	for _, cmd := range commands {
		app.AddCommand(cmd)
	}

	if err := app.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func lambdaMain() error {
	rootLogger := logex.StandardLogger()

	conf, err := loadConfig("")
	if err != nil {
		return err
	}

	// built once so the WHOIS cache survives across warm invocations
	watcher, err := domainwatcher.NewFromConfig(*conf, rootLogger, nil)
	if err != nil {
		return err
	}

	lambda.Start(watcher.LambdaHandler())

	return nil
}

func runningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
}

func loadConfig(path string) (*watcherconfig.Config, error) {
	if path == "" {
		return watcherconfig.FromEnv()
	}

	return watcherconfig.ReadFile(path)
}
