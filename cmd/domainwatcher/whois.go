package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/function61/domainwatcher/pkg/domainwhois"
	"github.com/function61/domainwatcher/pkg/domainwhois/domainwhoiswhoisxmlapi"
	"github.com/function61/domainwatcher/pkg/duration"
	"github.com/function61/gokit/logex"
	"github.com/function61/gokit/osutil"
	"github.com/scylladb/termtables"
	"github.com/spf13/cobra"
)

func whoisEntry(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whois [domain]",
		Short: "Show WHOIS data (of the configured domain, if not given)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			conf, err := loadConfig(*configPath)
			osutil.ExitIfError(err)

			domain := conf.Domain
			if len(args) == 1 {
				domain = args[0]
			}

			svc, err := domainwhoiswhoisxmlapi.New(conf.ApiKeys, conf.LookupTimeout)
			osutil.ExitIfError(err)

			osutil.ExitIfError(printWhois(
				osutil.CancelOnInterruptOrTerminate(logex.Discard),
				domain,
				svc,
				os.Stdout))
		},
	}
}

func printWhois(ctx context.Context, domain string, svc domainwhois.Service, out io.Writer) error {
	data, err := svc.Whois(ctx, domain)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, whoisTable(*data, time.Now()))
	return err
}

func whoisTable(data domainwhois.Data, now time.Time) string {
	tbl := termtables.CreateTable()
	tbl.AddHeaders("Domain", "Registrant", "Organization", "Registrar", "Created", "Expires")

	tbl.AddRow(
		data.Domain,
		data.RegistrantName,
		data.RegistrantOrganization,
		data.Registrar,
		formatDate(data.Created, now),
		formatDate(data.Expires, now))

	return tbl.Render()
}

func formatDate(ts time.Time, now time.Time) string {
	if ts.IsZero() {
		return "-"
	}

	return fmt.Sprintf("%s (%s)", ts.Format("2006-01-02"), duration.Relative(ts, now))
}
