package transferreport

import (
	"errors"
	"strings"
	"testing"

	"github.com/function61/domainwatcher/pkg/domainwhois"
	"github.com/function61/domainwatcher/pkg/domainwhois/domainwhoiswhoisxmlapi"
	"github.com/function61/gokit/assert"
	"github.com/function61/gokit/logex"
	"github.com/google/go-cmp/cmp"
)

type staticRecord struct {
	organization string
	err          error
}

func (s staticRecord) RegistrantOrganization() (string, error) {
	return s.organization, s.err
}

func TestInterpret(t *testing.T) {
	builder := NewBuilder("example.com", "Acme Inc", logex.Discard)

	tcs := []struct {
		name     string
		record   Record
		fetchErr error
		expected Result
	}{
		{
			name:   "unchanged",
			record: staticRecord{organization: "Acme Inc"},
			expected: Result{
				Outcome:  OutcomeUnchanged,
				Headline: "Nein!",
				Text:     `Die registrierte Organisation ist weiterhin "Acme Inc"`,
				Color:    "#d40115",
			},
		},
		{
			name:   "transferred",
			record: staticRecord{organization: "New Corp"},
			expected: Result{
				Outcome:  OutcomeTransferred,
				Headline: "Anscheinend schon!",
				Text:     `Die registrierte Organisation hat sich verändert und lautet nun "New Corp"`,
				Color:    "#19ad6e",
			},
		},
		{
			name:   "comparison is case sensitive",
			record: staticRecord{organization: "ACME INC"},
			expected: Result{
				Outcome:  OutcomeTransferred,
				Headline: "Anscheinend schon!",
				Text:     `Die registrierte Organisation hat sich verändert und lautet nun "ACME INC"`,
				Color:    "#19ad6e",
			},
		},
		{
			name:   "missing field",
			record: staticRecord{err: &domainwhois.InterpretationError{Field: "WhoisRecord.registryData"}},
			expected: Result{
				Outcome:  OutcomeUnknown,
				Headline: "Keine Ahnung!",
				Text:     `Beim Laden der Daten ging anscheinend etwas schief: "whois record has no WhoisRecord.registryData"`,
				Color:    "#666666",
			},
		},
		{
			name:     "fetch failed",
			fetchErr: errors.New("connection refused"),
			expected: Result{
				Outcome:  OutcomeUnknown,
				Headline: "Keine Ahnung!",
				Text:     `Beim Laden der Daten ging anscheinend etwas schief: "connection refused"`,
				Color:    "#666666",
			},
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			result := builder.Interpret(tc.record, tc.fetchErr)

			if diff := cmp.Diff(tc.expected, result); diff != "" {
				t.Errorf("Interpret() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterpretRealRecordMissingRegistryData(t *testing.T) {
	builder := NewBuilder("example.com", "Acme Inc", logex.Discard)

	record := &domainwhoiswhoisxmlapi.Response{
		Record: &domainwhoiswhoisxmlapi.Record{Domain: "example.com"},
	}

	result := builder.Interpret(record, nil)

	assert.Assert(t, result.Outcome == OutcomeUnknown)
	assert.EqualString(t, result.Color, ColorUnknown)
	assert.Assert(t, strings.Contains(result.Text, "WhoisRecord.registryData"))
}

func TestRender(t *testing.T) {
	builder := NewBuilder("example.com", "Acme Inc", logex.Discard)

	html, err := builder.Render(Result{
		Outcome:  OutcomeUnchanged,
		Headline: "Nein!",
		Text:     "Die registrierte Organisation ist weiterhin Acme Inc",
		Color:    ColorUnchanged,
	})
	assert.Assert(t, err == nil)

	assert.Assert(t, strings.HasPrefix(html, "<!DOCTYPE html>\n<html lang=\"de\">"))
	assert.Assert(t, strings.Contains(html, "<title>Wurde example.com schon umgezogen?</title>"))
	assert.Assert(t, strings.Contains(html, "background-color: #d40115;"))
	assert.Assert(t, strings.Contains(html, "<h1>Nein!</h1>"))
	assert.Assert(t, strings.Contains(html, "<p>Die registrierte Organisation ist weiterhin Acme Inc</p>"))
	assert.Assert(t, strings.Contains(html, `<a href="https://github.com/function61/domainwatcher" target="_blank">Wie funktioniert das?</a>`))
}

func TestRenderIsDeterministic(t *testing.T) {
	builder := NewBuilder("example.com", "Acme Inc", logex.Discard)

	result := builder.Interpret(staticRecord{organization: "New Corp"}, nil)

	first, err := builder.Render(result)
	assert.Assert(t, err == nil)

	second, err := builder.Render(result)
	assert.Assert(t, err == nil)

	assert.EqualString(t, first, second)
}

func TestRenderEscapesProviderData(t *testing.T) {
	builder := NewBuilder("example.com", "Acme Inc", logex.Discard)

	result := builder.Interpret(staticRecord{organization: `<script>alert("pwned")</script>`}, nil)

	html, err := builder.Render(result)
	assert.Assert(t, err == nil)

	assert.Assert(t, !strings.Contains(html, "<script>"))
	assert.Assert(t, strings.Contains(html, "&lt;script&gt;"))
}

func TestRenderRejectsNonHexColor(t *testing.T) {
	builder := NewBuilder("example.com", "Acme Inc", logex.Discard)

	_, err := builder.Render(Result{
		Headline: "Nein!",
		Color:    "red; background-image: url(https://evil.example/)",
	})

	assert.Assert(t, err != nil)
	assert.Assert(t, strings.HasPrefix(err.Error(), "Render: invalid color: "))
}
