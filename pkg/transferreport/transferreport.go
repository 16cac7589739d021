// Decides whether a domain was transferred away from its known registrant
// organization, and renders the verdict as a one-page HTML report.
package transferreport

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"regexp"

	"github.com/function61/gokit/logex"
)

const SourceUrl = "https://github.com/function61/domainwatcher"

type Outcome string

const (
	OutcomeUnknown     Outcome = "unknown"
	OutcomeTransferred Outcome = "transferred"
	OutcomeUnchanged   Outcome = "unchanged"
)

// green is "changed" and red is "unchanged". don't swap them.
const (
	ColorUnknown     = "#666666"
	ColorTransferred = "#19ad6e"
	ColorUnchanged   = "#d40115"
)

type Result struct {
	Outcome  Outcome
	Headline string
	Text     string
	Color    string // "#rrggbb"
}

// Record is satisfied by *domainwhoiswhoisxmlapi.Response
type Record interface {
	RegistrantOrganization() (string, error)
}

var (
	//go:embed report.html
	reportTemplateSrc string

	reportTemplate = template.Must(template.New("report.html").Parse(reportTemplateSrc))

	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

type Builder struct {
	domain               string
	expectedOrganization string
	logl                 *logex.Leveled
}

func NewBuilder(domain string, expectedOrganization string, logger *log.Logger) *Builder {
	return &Builder{
		domain:               domain,
		expectedOrganization: expectedOrganization,
		logl:                 logex.Levels(logger),
	}
}

// Interpret never fails: problems in getting or reading the record turn into
// an "unknown" result that tells the reader what went wrong. fetchErr is the
// error from getting record (if any), in which case record is not looked at.
func (b *Builder) Interpret(record Record, fetchErr error) Result {
	b.logl.Info.Println("Checking if domain was transferred")

	organization, err := func() (string, error) {
		if fetchErr != nil {
			return "", fetchErr
		}

		return record.RegistrantOrganization()
	}()
	if err != nil {
		b.logl.Error.Printf("Failed to interpret WHOIS data: %v", err)

		return Result{
			Outcome:  OutcomeUnknown,
			Headline: "Keine Ahnung!",
			Text:     fmt.Sprintf("Beim Laden der Daten ging anscheinend etwas schief: \"%s\"", err.Error()),
			Color:    ColorUnknown,
		}
	}

	if organization != b.expectedOrganization {
		b.logl.Info.Printf("Organization changed to %s", organization)

		return Result{
			Outcome:  OutcomeTransferred,
			Headline: "Anscheinend schon!",
			Text:     fmt.Sprintf("Die registrierte Organisation hat sich verändert und lautet nun \"%s\"", organization),
			Color:    ColorTransferred,
		}
	}

	b.logl.Info.Printf("Organization still %s", organization)

	return Result{
		Outcome:  OutcomeUnchanged,
		Headline: "Nein!",
		Text:     fmt.Sprintf("Die registrierte Organisation ist weiterhin \"%s\"", organization),
		Color:    ColorUnchanged,
	}
}

// Render produces the whole HTML document. Interpolated values are escaped.
func (b *Builder) Render(result Result) (string, error) {
	b.logl.Info.Println("Building HTML")

	if !hexColorRe.MatchString(result.Color) {
		return "", fmt.Errorf("Render: invalid color: %q", result.Color)
	}

	html := &bytes.Buffer{}
	if err := reportTemplate.Execute(html, struct {
		Domain    string
		Color     template.CSS
		Headline  string
		Text      string
		SourceUrl string
	}{
		Domain:    b.domain,
		Color:     template.CSS(result.Color), // validated above
		Headline:  result.Headline,
		Text:      result.Text,
		SourceUrl: SourceUrl,
	}); err != nil {
		return "", fmt.Errorf("Render: %w", err)
	}

	return html.String(), nil
}
