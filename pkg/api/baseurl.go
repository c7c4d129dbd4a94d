package api

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aretw0/noteguard/pkg/core"
)

const (
	// ProductionPath is the API prefix when the backend serves the client.
	ProductionPath = "/api"
	// DevelopmentURL is the default address of a locally running backend.
	DevelopmentURL = "http://localhost:8080/api"
)

// ResolveBaseURL picks the backend address: an explicit override wins, then
// the production default, then the local development default.
func ResolveBaseURL(override string, production bool) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	if production {
		return ProductionPath
	}
	return DevelopmentURL
}

// absoluteBase turns base into an absolute URL, resolving a relative path
// such as the production default against origin.
func absoluteBase(base, origin string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: base url %q: %v", core.ErrInvalidArgument, base, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	if origin == "" {
		return nil, fmt.Errorf("%w: relative base url %q needs an origin", core.ErrInvalidArgument, base)
	}
	o, err := url.Parse(origin)
	if err != nil || !o.IsAbs() {
		return nil, fmt.Errorf("%w: origin %q", core.ErrInvalidArgument, origin)
	}
	return o.ResolveReference(u), nil
}
