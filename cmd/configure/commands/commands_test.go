package commands

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/benvon/autoartisan/internal/models"
	"github.com/benvon/autoartisan/internal/services/firebase/firebasetest"
	"github.com/spf13/pflag"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	want := []string{"migrate", "store", "footer", "chat", "cors", "ratelimit", "keys"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}

func TestKeysCmd(t *testing.T) {
	t.Parallel()

	a := firebasetest.NewSigner(t, "kid-a")
	b := firebasetest.NewSigner(t, "kid-b")
	srv := firebasetest.NewServer(t, http.StatusOK, "public, max-age=3600", firebasetest.CertificatesJSON(t, a, b))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"keys", "--url", srv.URL})

	if err := root.Execute(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Fetched 2 key(s)") {
		t.Errorf("Expected key count in output, got %q", got)
	}
	for _, kid := range []string{"kid-a", "kid-b"} {
		if !strings.Contains(got, kid) {
			t.Errorf("Expected %s in output, got %q", kid, got)
		}
	}
}

func TestKeysCmd_FetchFailure(t *testing.T) {
	t.Parallel()

	srv := firebasetest.NewServer(t, http.StatusServiceUnavailable, "", []byte(`{}`))

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"keys", "--url", srv.URL})

	if err := root.Execute(); err == nil {
		t.Error("Expected error for unavailable endpoint")
	}
}

func TestReadFooter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "yaml document",
			doc: `copyrightText: "2025 AutoArtisan"
socialLinks:
  - platform: instagram
    url: https://instagram.com/autoartisan
contactInfo:
  phone: "+34 600 000 000"
  email: hola@autoartisan.com
`,
		},
		{
			name: "json document",
			doc:  `{"copyrightText":"AutoArtisan","socialLinks":[],"contactInfo":{"address":"Calle Mayor 1"}}`,
		},
		{
			name:    "unknown field",
			doc:     "copyright: typo\n",
			wantErr: true,
		},
		{
			name:    "invalid social url",
			doc:     "socialLinks:\n  - platform: x\n    url: not a url\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			footer, err := readFooter(strings.NewReader(tt.doc))
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if footer.CopyrightText == "" {
				t.Error("Expected copyright text to be decoded")
			}
		})
	}
}

func TestStoreFlags_ApplyOnlyChanged(t *testing.T) {
	t.Parallel()

	flags := &storeFlags{}
	fs := pflag.NewFlagSet("store", pflag.ContinueOnError)
	flags.register(fs)
	if err := fs.Parse([]string{"--name", "Motors Madrid", "--hero-media-type", "video"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	s := models.DefaultStoreSettings()
	s.LogoURL = "https://cdn.example.com/logo.png"
	flags.apply(fs, &s)

	if s.StoreName != "Motors Madrid" {
		t.Errorf("Expected store name to change, got '%s'", s.StoreName)
	}
	if s.HeroMediaType != models.HeroMediaVideo {
		t.Errorf("Expected hero media type video, got '%s'", s.HeroMediaType)
	}
	if s.LogoURL != "https://cdn.example.com/logo.png" {
		t.Errorf("Expected untouched logo URL, got '%s'", s.LogoURL)
	}
	if s.HeroSubtitle != models.DefaultHeroSubtitle {
		t.Errorf("Expected untouched hero subtitle, got '%s'", s.HeroSubtitle)
	}
}

func TestChatFlags_DisableWidget(t *testing.T) {
	t.Parallel()

	flags := &chatFlags{}
	fs := pflag.NewFlagSet("chat", pflag.ContinueOnError)
	flags.register(fs)
	if err := fs.Parse([]string{"--enabled=false", "--phone", "+34 600 111 222"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	c := models.DefaultChatWidgetSettings()
	flags.apply(fs, &c)

	if c.IsChatEnabled {
		t.Error("Expected chat to be disabled")
	}
	if c.IconSize != models.DefaultChatIconSize {
		t.Errorf("Expected icon size to stay %d, got %d", models.DefaultChatIconSize, c.IconSize)
	}
	if c.PhoneNumber != "+34 600 111 222" {
		t.Errorf("Expected phone to be set, got '%s'", c.PhoneNumber)
	}
}

func TestPrintRatelimits(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printRatelimits(&out, []*models.RatelimitConfig{{ConfigKey: models.RatelimitScopeSession, Rate: "3-M"}})

	got := out.String()
	if !strings.Contains(got, "3-M") {
		t.Errorf("Expected stored session rate, got %q", got)
	}
	if !strings.Contains(got, models.DefaultRate(models.RatelimitScopeContact)+" (default)") {
		t.Errorf("Expected default contact rate, got %q", got)
	}
}

func TestPrintCorsConfig(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printCorsConfig(&out, nil)
	if !strings.Contains(out.String(), "No CORS configuration") {
		t.Errorf("Expected empty notice, got %q", out.String())
	}

	out.Reset()
	printCorsConfig(&out, &models.CorsConfig{AllowedOrigins: "https://a.com,https://b.com", AllowCredentials: true, MaxAge: 60})
	if strings.Count(out.String(), "Allowed origin:") != 2 {
		t.Errorf("Expected two origins listed, got %q", out.String())
	}
}
