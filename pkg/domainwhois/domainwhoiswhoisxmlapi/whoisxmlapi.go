package domainwhoiswhoisxmlapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/function61/domainwatcher/pkg/domainwhois"
	"github.com/function61/gokit/ezhttp"
)

const (
	DefaultBaseUrl = "https://www.whoisxmlapi.com"

	// responses routinely last > 10 s
	DefaultTimeout = 20 * time.Second
)

var errNoApiKeys = errors.New("no API keys given")

// jsonwhois.com didn't seem to be able to parse .fi ccTLD dates
// whoisxmlapi.com worked better
func New(apiKeys []string, timeout time.Duration) (*WhoisXmlApi, error) {
	return NewWithBaseUrl(DefaultBaseUrl, apiKeys, timeout)
}

// timeout 0 means we wait for as long as the caller's ctx lets us
func NewWithBaseUrl(baseUrl string, apiKeys []string, timeout time.Duration) (*WhoisXmlApi, error) {
	if len(apiKeys) == 0 {
		return nil, errNoApiKeys
	}

	return &WhoisXmlApi{
		baseUrl: baseUrl,
		apiKeys: append([]string{}, apiKeys...),
		timeout: timeout,
		intn:    rand.Intn,
	}, nil
}

type WhoisXmlApi struct {
	baseUrl string
	apiKeys []string
	timeout time.Duration
	intn    func(n int) int
}

var _ domainwhois.Service = (*WhoisXmlApi)(nil)

func (w *WhoisXmlApi) Whois(ctx context.Context, domain string) (*domainwhois.Data, error) {
	res, err := w.Lookup(ctx, domain)
	if err != nil {
		return nil, err
	}

	normalized := normalizeWhoisXmlApi(*res)

	return &normalized, nil
}

// Lookup makes exactly one request to the provider. The HTTP status is not
// looked at: the provider reports quota and input problems as JSON bodies and
// whatever parses is returned as-is.
func (w *WhoisXmlApi) Lookup(ctx context.Context, domain string) (*Response, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	apiKey := w.pickApiKey()

	resp, err := ezhttp.Get(
		ctx,
		w.endpoint(apiKey, domain),
		ezhttp.TolerateNon2xxResponse)
	if err != nil {
		return nil, &domainwhois.LookupError{Domain: domain, Err: withoutApiKey(err, apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domainwhois.LookupError{Domain: domain, Err: err}
	}

	result, err := parseResponse(body)
	if err != nil {
		return nil, &domainwhois.LookupError{Domain: domain, Err: err}
	}

	return result, nil
}

// transport errors quote the request URL, which contains the API key. the
// message ends up on a public page.
func withoutApiKey(err error, apiKey string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	if msg := err.Error(); strings.Contains(msg, apiKey) {
		return &redactedError{msg: strings.ReplaceAll(msg, apiKey, "<redacted>"), cause: err}
	}

	return err
}

// keeps the cause for errors.Is (context.DeadlineExceeded etc.)
type redactedError struct {
	msg   string
	cause error
}

func (r *redactedError) Error() string {
	return r.msg
}

func (r *redactedError) Unwrap() error {
	return r.cause
}

// keys are interchangeable and quota-limited, so spread the load
func (w *WhoisXmlApi) pickApiKey() string {
	return w.apiKeys[w.intn(len(w.apiKeys))]
}

func (w *WhoisXmlApi) endpoint(apiKey string, domain string) string {
	return fmt.Sprintf(
		"%s/whoisserver/WhoisService?outputFormat=JSON&apiKey=%s&domainName=%s",
		w.baseUrl,
		url.QueryEscape(apiKey),
		url.QueryEscape(domain))
}

// syntax errors fail the lookup. a well-formed document whose values have
// unexpected types is kept, the mismatching fields just stay unset.
func parseResponse(body []byte) (*Response, error) {
	result := &Response{}
	if err := json.Unmarshal(body, result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("parse response: %w", err)
		}
	}

	return result, nil
}

type whoisXmlApiStupidDate time.Time

// some registries give dates the provider can't normalize. those are not worth
// failing the whole record over, so they decode as zero time.
func (w *whoisXmlApiStupidDate) UnmarshalJSON(input []byte) error {
	t, err := time.Parse(`"2006-01-02 15:04:05 UTC"`, string(input))
	if err != nil {
		*w = whoisXmlApiStupidDate(time.Time{})
		return nil
	}
	*w = whoisXmlApiStupidDate(t)
	return nil
}

// nested levels are pointers so that an absent level is distinguishable from
// an empty one
type Response struct {
	Record *Record `json:"WhoisRecord"`
}

type Record struct {
	Domain       string        `json:"domainName"`
	Registrar    string        `json:"registrarName"`
	RegistryData *RegistryData `json:"registryData"`
}

type RegistryData struct {
	Registrant *Registrant           `json:"registrant"`
	Created    whoisXmlApiStupidDate `json:"createdDateNormalized"`
	Expires    whoisXmlApiStupidDate `json:"expiresDateNormalized"`
}

type Registrant struct {
	Name         string  `json:"name"`
	Organization *string `json:"organization"`
	RawText      string  `json:"rawText"`
}

func (r *Response) registryData() (*RegistryData, error) {
	if r == nil || r.Record == nil {
		return nil, &domainwhois.InterpretationError{Field: "WhoisRecord"}
	}
	if r.Record.RegistryData == nil {
		return nil, &domainwhois.InterpretationError{Field: "WhoisRecord.registryData"}
	}

	return r.Record.RegistryData, nil
}

func (r *Response) registrant() (*Registrant, error) {
	registryData, err := r.registryData()
	if err != nil {
		return nil, err
	}
	if registryData.Registrant == nil {
		return nil, &domainwhois.InterpretationError{Field: "WhoisRecord.registryData.registrant"}
	}

	return registryData.Registrant, nil
}

// RegistrantOrganization returns *domainwhois.InterpretationError naming the
// first missing level if the path isn't there
func (r *Response) RegistrantOrganization() (string, error) {
	registrant, err := r.registrant()
	if err != nil {
		return "", err
	}
	if registrant.Organization == nil {
		return "", &domainwhois.InterpretationError{Field: "WhoisRecord.registryData.registrant.organization"}
	}

	return *registrant.Organization, nil
}

func normalizeWhoisXmlApi(w Response) domainwhois.Data {
	data := domainwhois.Data{}

	if w.Record == nil {
		return data
	}

	data.Domain = w.Record.Domain
	data.Registrar = w.Record.Registrar

	if registryData := w.Record.RegistryData; registryData != nil {
		data.Created = time.Time(registryData.Created)
		data.Expires = time.Time(registryData.Expires)

		if registrant := registryData.Registrant; registrant != nil {
			data.RegistrantName = registrant.Name
			data.RegistrantDetails = registrant.RawText

			if registrant.Organization != nil {
				data.RegistrantOrganization = *registrant.Organization
			}
		}
	}

	return data
}
