package firebase

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/lestrrat-go/httpcc"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// GoogleCertificatesURL publishes the x509 certificates that sign Firebase ID tokens.
const GoogleCertificatesURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

const maxCertificatesBody = 1 << 20

// ErrKeyFetch wraps every failure to obtain a usable key set.
var ErrKeyFetch = errors.New("could not fetch and process provider public keys")

// KeyFetcher supplies the current provider key set.
type KeyFetcher interface {
	FetchKeys(ctx context.Context) (jwk.Set, error)
}

// CertificateFetcher downloads the provider certificates and converts them to a jwk.Set.
// A non-zero maxCacheAge enables caching bounded by the response's Cache-Control max-age.
type CertificateFetcher struct {
	client      *http.Client
	url         string
	maxCacheAge time.Duration
	now         func() time.Time

	mu      sync.RWMutex
	keys    jwk.Set
	expires time.Time
}

// FetcherOption configures a CertificateFetcher
type FetcherOption func(*CertificateFetcher)

// WithHTTPClient replaces the default 10s-timeout client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *CertificateFetcher) {
		f.client = client
	}
}

// WithCertificatesURL points the fetcher at another endpoint.
func WithCertificatesURL(url string) FetcherOption {
	return func(f *CertificateFetcher) {
		f.url = url
	}
}

// WithClock overrides time.Now for cache expiry.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *CertificateFetcher) {
		f.now = now
	}
}

// NewCertificateFetcher creates a fetcher. maxCacheAge of zero fetches on every call.
func NewCertificateFetcher(maxCacheAge time.Duration, opts ...FetcherOption) *CertificateFetcher {
	f := &CertificateFetcher{
		client:      &http.Client{Timeout: 10 * time.Second},
		url:         GoogleCertificatesURL,
		maxCacheAge: maxCacheAge,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchKeys returns the provider key set. A failed fetch never falls back to a cached set.
func (f *CertificateFetcher) FetchKeys(ctx context.Context) (jwk.Set, error) {
	if keys := f.cached(); keys != nil {
		return keys, nil
	}

	keys, ttl, err := f.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyFetch, err)
	}

	if ttl > f.maxCacheAge {
		ttl = f.maxCacheAge
	}
	if ttl > 0 {
		f.mu.Lock()
		f.keys = keys
		f.expires = f.now().Add(ttl)
		f.mu.Unlock()
	}

	return keys, nil
}

func (f *CertificateFetcher) cached() jwk.Set {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.keys != nil && f.now().Before(f.expires) {
		return f.keys
	}
	return nil
}

func (f *CertificateFetcher) fetch(ctx context.Context) (jwk.Set, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch certificates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, fmt.Errorf("certificates endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCertificatesBody))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read certificates response: %w", err)
	}

	keys, err := ParseCertificates(body)
	if err != nil {
		return nil, 0, err
	}

	return keys, cacheLifetime(resp.Header.Get("Cache-Control")), nil
}

// ParseCertificates converts a {"kid": "PEM certificate"} document into a key set.
// Any malformed entry fails the whole document.
func ParseCertificates(body []byte) (jwk.Set, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("certificates response is not a JSON object: %w", err)
	}

	kids := make([]string, 0, len(doc))
	for kid := range doc {
		kids = append(kids, kid)
	}
	sort.Strings(kids)

	set := jwk.NewSet()
	for _, kid := range kids {
		certPEM, ok := doc[kid].(string)
		if !ok {
			return nil, fmt.Errorf("certificate for kid %s is not a PEM string", kid)
		}
		key, err := parseCertificateKey(kid, certPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to import certificate for kid %s: %w", kid, err)
		}
		if err := set.AddKey(key); err != nil {
			return nil, fmt.Errorf("failed to add key %s: %w", kid, err)
		}
	}

	if set.Len() == 0 {
		return nil, errors.New("no public keys in certificates response")
	}

	return set, nil
}

func parseCertificateKey(kid, certPEM string) (jwk.Key, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, errors.New("no PEM certificate block")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}

	key, err := jwk.FromRaw(cert.PublicKey)
	if err != nil {
		return nil, err
	}
	if key.KeyType() != jwa.RSA {
		return nil, fmt.Errorf("unexpected key type %s", key.KeyType())
	}
	if err := key.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		return nil, err
	}

	return key, nil
}

// cacheLifetime returns the max-age the provider allows, or zero when caching is not allowed.
func cacheLifetime(header string) time.Duration {
	if header == "" {
		return 0
	}
	dir, err := httpcc.ParseResponse(header)
	if err != nil {
		return 0
	}
	if dir.NoStore() {
		return 0
	}
	maxAge, ok := dir.MaxAge()
	if !ok {
		return 0
	}
	return time.Duration(maxAge) * time.Second
}
