// Package firebasetest provides signing keys and a fake certificate endpoint
// for tests that exercise Firebase ID token verification.
package firebasetest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ProjectID is the Firebase project used by test tokens.
const ProjectID = "autoartisan-test"

// Issuer is the iss claim Firebase sets for ProjectID.
const Issuer = "https://securetoken.google.com/" + ProjectID

// Signer is an RSA key with a self-signed certificate, as Google publishes them.
type Signer struct {
	KID     string
	Key     *rsa.PrivateKey
	CertPEM string
}

var (
	signersMu sync.Mutex
	signers   = map[string]*Signer{}
)

// NewSigner returns the signer for kid, generating it on first use.
// RSA generation is slow, so signers are shared across tests in a binary.
func NewSigner(t testing.TB, kid string) *Signer {
	t.Helper()
	signersMu.Lock()
	defer signersMu.Unlock()
	if s, ok := signers[kid]; ok {
		return s
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: "securetoken.system.gserviceaccount.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("Failed to create certificate: %v", err)
	}

	s := &Signer{
		KID:     kid,
		Key:     key,
		CertPEM: string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
	}
	signers[kid] = s
	return s
}

// Claims describes a test ID token.
type Claims struct {
	Issuer        string
	Audience      string
	Subject       string
	UserID        string
	Email         string
	EmailVerified *bool
	ExpiresAt     time.Time
	// IssuedAt defaults to an hour before ExpiresAt.
	IssuedAt time.Time
}

// ValidClaims returns claims that verify for ProjectID and the given email.
func ValidClaims(email string) Claims {
	return Claims{
		Issuer:    Issuer,
		Audience:  ProjectID,
		Subject:   "firebase-uid-1",
		UserID:    "firebase-uid-1",
		Email:     email,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// Sign mints an RS256 token carrying the signer's kid.
func (s *Signer) Sign(t testing.TB, c Claims) string {
	t.Helper()
	issuedAt := c.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = c.ExpiresAt.Add(-time.Hour)
	}
	builder := jwt.NewBuilder().
		Issuer(c.Issuer).
		Audience([]string{c.Audience}).
		IssuedAt(issuedAt).
		Expiration(c.ExpiresAt)
	if c.Subject != "" {
		builder = builder.Subject(c.Subject)
	}
	if c.UserID != "" {
		builder = builder.Claim("user_id", c.UserID)
	}
	if c.Email != "" {
		builder = builder.Claim("email", c.Email)
	}
	if c.EmailVerified != nil {
		builder = builder.Claim("email_verified", *c.EmailVerified)
	}
	tok, err := builder.Build()
	if err != nil {
		t.Fatalf("Failed to build token: %v", err)
	}

	hdrs := jws.NewHeaders()
	if err := hdrs.Set(jws.KeyIDKey, s.KID); err != nil {
		t.Fatalf("Failed to set kid header: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, s.Key, jws.WithProtectedHeaders(hdrs)))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return string(signed)
}

// CertificatesJSON renders the signers the way the Google endpoint does.
func CertificatesJSON(t testing.TB, signers ...*Signer) []byte {
	t.Helper()
	doc := make(map[string]string, len(signers))
	for _, s := range signers {
		doc[s.KID] = s.CertPEM
	}
	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal certificates: %v", err)
	}
	return body
}

// Server is a fake certificate endpoint that counts requests.
type Server struct {
	*httptest.Server
	hits atomic.Int64
}

// Hits returns how many requests the endpoint served.
func (s *Server) Hits() int64 {
	return s.hits.Load()
}

// NewServer serves body with the given status and Cache-Control header.
func NewServer(t testing.TB, status int, cacheControl string, body []byte) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if cacheControl != "" {
			w.Header().Set("Cache-Control", cacheControl)
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}
