package health

import "context"

// ServiceNames lists the services Run understands, in display order.
var ServiceNames = []string{
	"github",
	"cloudflare",
	"salesforce",
	"vercel",
	"digitalocean",
	"anthropic",
}

// Run executes the probes for one service, or for every service when
// service is "all". Unknown services return nil.
func (c *Checker) Run(ctx context.Context, service string) []Result {
	if service == "" || service == "all" {
		var all []Result
		for _, name := range ServiceNames {
			all = append(all, c.Run(ctx, name)...)
		}
		return all
	}

	checks := c.serviceChecks(service)
	if checks == nil {
		return nil
	}

	var results []Result
	for _, ec := range checks {
		if ec.URL == "" {
			results = append(results, Result{Name: ec.Name, Status: StatusSkip, Detail: "not configured"})
			continue
		}
		results = append(results, c.Probe(ctx, ec))
	}
	return results
}

// serviceChecks builds the endpoint probes for a service. A check with an
// empty URL is reported as skipped; that happens when the credential it
// needs is absent.
func (c *Checker) serviceChecks(service string) []EndpointCheck {
	bearer := func(token string) map[string]string {
		return map[string]string{"Authorization": "Bearer " + token}
	}

	switch service {
	case "github":
		checks := []EndpointCheck{{
			Name: "github api",
			URL:  c.base("github", "https://api.github.com") + "/",
		}}
		auth := EndpointCheck{Name: "github auth"}
		if c.Creds.GitHubToken != "" {
			auth.URL = c.base("github", "https://api.github.com") + "/user"
			auth.Headers = bearer(c.Creds.GitHubToken)
		}
		return append(checks, auth)

	case "cloudflare":
		ec := EndpointCheck{Name: "cloudflare api"}
		if c.Creds.CloudflareAPIToken != "" {
			ec.URL = c.base("cloudflare", "https://api.cloudflare.com/client/v4") + "/user/tokens/verify"
			ec.Headers = bearer(c.Creds.CloudflareAPIToken)
		}
		return []EndpointCheck{ec}

	case "salesforce":
		ec := EndpointCheck{Name: "salesforce api"}
		if c.Creds.SalesforceAccessToken != "" && c.Creds.SalesforceInstanceURL != "" {
			ec.URL = c.base("salesforce", c.Creds.SalesforceInstanceURL) + "/services/data/v59.0"
			ec.Headers = bearer(c.Creds.SalesforceAccessToken)
		}
		return []EndpointCheck{ec}

	case "vercel":
		ec := EndpointCheck{Name: "vercel api"}
		if c.Creds.VercelToken != "" {
			ec.URL = c.base("vercel", "https://api.vercel.com") + "/v2/user"
			ec.Headers = bearer(c.Creds.VercelToken)
		}
		return []EndpointCheck{ec}

	case "digitalocean":
		ec := EndpointCheck{Name: "digitalocean api"}
		if c.Creds.DigitalOceanToken != "" {
			ec.URL = c.base("digitalocean", "https://api.digitalocean.com") + "/v2/account"
			ec.Headers = bearer(c.Creds.DigitalOceanToken)
		}
		return []EndpointCheck{ec}

	case "anthropic":
		ec := EndpointCheck{Name: "anthropic api"}
		if c.Creds.AnthropicAPIKey != "" {
			ec.URL = c.base("anthropic", "https://api.anthropic.com") + "/v1/models"
			ec.Headers = map[string]string{
				"x-api-key":         c.Creds.AnthropicAPIKey,
				"anthropic-version": "2023-06-01",
			}
		}
		return []EndpointCheck{ec}
	}
	return nil
}

// KnownService reports whether Run understands the given service name.
func KnownService(service string) bool {
	if service == "" || service == "all" || service == "local" {
		return true
	}
	for _, name := range ServiceNames {
		if name == service {
			return true
		}
	}
	return false
}
