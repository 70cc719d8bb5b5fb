package tenant

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const tenantContextKey contextKey = "tenant.slug"

// Resolver resolves the tenant from HTTP requests using either a header
// or the request subdomain. Every design studio served by the platform
// is addressed by its tenant slug.
type Resolver struct {
	HeaderName    string
	RootDomain    string
	DefaultTenant string
}

// NewResolver returns a resolver configured with the provided header name,
// root domain, and default tenant slug. If headerName is empty,
// "X-Tenant-ID" is used.
func NewResolver(headerName, rootDomain, defaultTenant string) *Resolver {
	if headerName == "" {
		headerName = "X-Tenant-ID"
	}
	return &Resolver{
		HeaderName:    headerName,
		RootDomain:    strings.ToLower(strings.TrimSpace(rootDomain)),
		DefaultTenant: strings.TrimSpace(defaultTenant),
	}
}

// Middleware resolves the tenant from the request and injects it into the
// context passed downstream.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		slug := r.Resolve(req)
		if slug == "" {
			slug = r.DefaultTenant
		}
		if slug != "" {
			req = req.WithContext(With(req.Context(), slug))
		}
		next.ServeHTTP(w, req)
	})
}

// Resolve attempts to find the tenant slug from the configured header or
// the request subdomain.
func (r *Resolver) Resolve(req *http.Request) string {
	if r == nil || req == nil {
		return ""
	}
	if slug := strings.TrimSpace(req.Header.Get(r.HeaderName)); slug != "" {
		return slug
	}
	host := hostWithoutPort(req.Host)
	if host == "" {
		return ""
	}
	return strings.TrimSpace(r.subdomainFromHost(host))
}

func (r *Resolver) subdomainFromHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if r.RootDomain != "" {
		if host == r.RootDomain {
			return ""
		}
		suffix := "." + r.RootDomain
		if !strings.HasSuffix(host, suffix) {
			return ""
		}
		host = strings.TrimSuffix(host, suffix)
	}
	parts := strings.Split(host, ".")
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func hostWithoutPort(hostport string) string {
	hostport = strings.TrimSpace(hostport)
	if hostport == "" {
		return ""
	}
	if strings.HasPrefix(hostport, "[") {
		if idx := strings.Index(hostport, "]"); idx != -1 {
			if host := hostport[1:idx]; host != "" {
				return host
			}
		}
	}
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	if idx := strings.Index(hostport, ":"); idx != -1 && strings.Count(hostport, ":") == 1 {
		return hostport[:idx]
	}
	return hostport
}

// With stores the tenant slug inside the context.
func With(ctx context.Context, slug string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, tenantContextKey, slug)
}

// From extracts the tenant slug from the context if available.
func From(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	slug, ok := ctx.Value(tenantContextKey).(string)
	if !ok {
		return "", false
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", false
	}
	return slug, true
}

// PrefixKey creates a namespaced cache key per tenant slug.
func PrefixKey(slug, key string) string {
	if slug == "" {
		return key
	}
	return slug + ":" + key
}
