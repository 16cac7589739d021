package domainwhois

import (
	"fmt"
)

// LookupError means we didn't get a usable response from the WHOIS provider:
// the request failed or the body was not well-formed JSON.
type LookupError struct {
	Domain string
	Err    error
}

func (l *LookupError) Error() string {
	return fmt.Sprintf("whois lookup for %s: %v", l.Domain, l.Err)
}

func (l *LookupError) Unwrap() error {
	return l.Err
}

// InterpretationError means the response parsed but lacked a field we need
type InterpretationError struct {
	Field string
}

func (i *InterpretationError) Error() string {
	return "whois record has no " + i.Field
}
