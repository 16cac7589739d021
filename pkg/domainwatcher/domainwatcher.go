// Answers "was the domain transferred?" on every invocation:
// cached WHOIS record -> verdict -> HTML page.
package domainwatcher

import (
	"context"
	"log"
	"net/http"

	"github.com/function61/domainwatcher/pkg/domainwhois/domainwhoiswhoisxmlapi"
	"github.com/function61/domainwatcher/pkg/transferreport"
	"github.com/function61/domainwatcher/pkg/watcherconfig"
	"github.com/function61/domainwatcher/pkg/watchermetrics"
	"github.com/function61/domainwatcher/pkg/whoiscache"
	"github.com/function61/gokit/logex"
)

type RecordGetter interface {
	Get(ctx context.Context) (*domainwhoiswhoisxmlapi.Response, error)
}

var _ RecordGetter = (*whoiscache.Cache)(nil)

type Watcher struct {
	records RecordGetter
	report  *transferreport.Builder
	metrics *watchermetrics.Metrics
	logl    *logex.Leveled
}

func New(
	conf watcherconfig.Config,
	records RecordGetter,
	logger *log.Logger,
	metrics *watchermetrics.Metrics,
) *Watcher {
	return &Watcher{
		records: records,
		report: transferreport.NewBuilder(
			conf.Domain,
			conf.ExpectedOrganization,
			logex.Prefix("report", logger)),
		metrics: metrics,
		logl:    logex.Levels(logger),
	}
}

// NewFromConfig wires up the whoisxmlapi.com client and a process-lifetime
// cache. Call once per process and share the result across invocations.
func NewFromConfig(
	conf watcherconfig.Config,
	logger *log.Logger,
	metrics *watchermetrics.Metrics,
) (*Watcher, error) {
	whoisXmlApi, err := domainwhoiswhoisxmlapi.New(conf.ApiKeys, conf.LookupTimeout)
	if err != nil {
		return nil, err
	}

	cache := whoiscache.New(
		func(ctx context.Context) (*domainwhoiswhoisxmlapi.Response, error) {
			return whoisXmlApi.Lookup(ctx, conf.Domain)
		},
		logex.Prefix("whoiscache", logger),
		metrics)

	return New(conf, cache, logger, metrics), nil
}

// Report always produces a page. Lookup or interpretation problems become the
// "unknown" page, so error is only returned if rendering itself fails.
func (w *Watcher) Report(ctx context.Context) (string, error) {
	record, err := w.records.Get(ctx)

	result := w.report.Interpret(record, err)

	w.metrics.ReportRendered(string(result.Outcome))

	return w.report.Render(result)
}

// Handler ignores everything about the request
func (w *Watcher) Handler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		html, err := w.Report(r.Context())
		if err != nil {
			w.logl.Error.Printf("Report: %v", err)
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}

		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = rw.Write([]byte(html))
	})
}
