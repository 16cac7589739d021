// Domain registration (WHOIS) data and the errors that lookups can produce
package domainwhois

import (
	"context"
	"time"
)

type Data struct {
	Domain                 string    `json:"domain"`
	Registrar              string    `json:"registrar"`
	RegistrantName         string    `json:"registrant_name"`
	RegistrantOrganization string    `json:"registrant_organization"`
	RegistrantDetails      string    `json:"registrant_details"`
	Created                time.Time `json:"created"`
	Expires                time.Time `json:"expires"`
}

type Service interface {
	Whois(ctx context.Context, domain string) (*Data, error)
}
