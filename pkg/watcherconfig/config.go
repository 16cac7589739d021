// Static configuration, loaded once at process start
package watcherconfig

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/function61/domainwatcher/pkg/domainwhois/domainwhoiswhoisxmlapi"
	"github.com/function61/gokit/envvar"
	"github.com/function61/gokit/jsonfile"
	"github.com/go-yaml/yaml"
)

type Config struct {
	Domain               string
	ExpectedOrganization string
	ApiKeys              []string
	LookupTimeout        time.Duration // 0 = no timeout
}

// on-disk / env representation
type serialized struct {
	Domain               string   `json:"domain" yaml:"domain"`
	ExpectedOrganization string   `json:"expected_organization" yaml:"expected_organization"`
	ApiKeys              []string `json:"api_keys" yaml:"api_keys"`
	// Go duration. empty = default, "0s" = no timeout
	LookupTimeout string `json:"lookup_timeout,omitempty" yaml:"lookup_timeout,omitempty"`
}

var errUnsupportedFormat = errors.New("unsupported config file format (use .json, .yaml or .yml)")

// ReadFile reads .json, .yaml or .yml. Unknown fields are errors.
func ReadFile(path string) (*Config, error) {
	ser := serialized{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := jsonfile.Read(path, &ser, true); err != nil {
			return nil, fmt.Errorf("ReadFile: %w", err)
		}
	case ".yaml", ".yml":
		content, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ReadFile: %w", err)
		}

		if err := yaml.UnmarshalStrict(content, &ser); err != nil {
			return nil, fmt.Errorf("ReadFile: %s: %w", path, err)
		}
	default:
		return nil, errUnsupportedFormat
	}

	return ser.toConfig()
}

// FromEnv reads DOMAIN, EXPECTED_ORGANIZATION, WHOISXMLAPI_KEYS (comma
// separated) and optionally LOOKUP_TIMEOUT
func FromEnv() (*Config, error) {
	domain, err := envvar.Required("DOMAIN")
	if err != nil {
		return nil, err
	}

	expectedOrganization, err := envvar.Required("EXPECTED_ORGANIZATION")
	if err != nil {
		return nil, err
	}

	apiKeys, err := envvar.Required("WHOISXMLAPI_KEYS")
	if err != nil {
		return nil, err
	}

	return serialized{
		Domain:               domain,
		ExpectedOrganization: expectedOrganization,
		ApiKeys:              splitKeys(apiKeys),
		LookupTimeout:        os.Getenv("LOOKUP_TIMEOUT"),
	}.toConfig()
}

func (s serialized) toConfig() (*Config, error) {
	timeout := domainwhoiswhoisxmlapi.DefaultTimeout
	if s.LookupTimeout != "" {
		var err error
		timeout, err = time.ParseDuration(s.LookupTimeout)
		if err != nil {
			return nil, fmt.Errorf("lookup_timeout: %w", err)
		}
	}

	conf := &Config{
		Domain:               s.Domain,
		ExpectedOrganization: s.ExpectedOrganization,
		ApiKeys:              s.ApiKeys,
		LookupTimeout:        timeout,
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Domain == "":
		return errors.New("domain not set")
	case c.ExpectedOrganization == "":
		return errors.New("expected_organization not set")
	case len(c.ApiKeys) == 0:
		return errors.New("api_keys not set")
	case c.LookupTimeout < 0:
		return errors.New("lookup_timeout cannot be negative")
	}

	for _, apiKey := range c.ApiKeys {
		if apiKey == "" {
			return errors.New("api_keys contains an empty key")
		}
	}

	return nil
}

func splitKeys(serialized string) []string {
	keys := []string{}
	for _, key := range strings.Split(serialized, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}

	return keys
}
