package models

import (
	"testing"
	"time"
)

func TestChatWidgetSettings_WhatsAppLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings ChatWidgetSettings
		want     string
	}{
		{
			name:     "no phone number",
			settings: ChatWidgetSettings{DefaultMessage: "hi"},
			want:     "",
		},
		{
			name:     "formatted phone number is reduced to digits",
			settings: ChatWidgetSettings{PhoneNumber: "+1 (650) 555-1234", DefaultMessage: "Hello, I am interested in your cars."},
			want:     "https://wa.me/16505551234?text=Hello%2C%20I%20am%20interested%20in%20your%20cars.",
		},
		{
			name:     "no message",
			settings: ChatWidgetSettings{PhoneNumber: "16505551234"},
			want:     "https://wa.me/16505551234",
		},
		{
			name:     "reserved characters escaped",
			settings: ChatWidgetSettings{PhoneNumber: "1", DefaultMessage: "a&b+c"},
			want:     "https://wa.me/1?text=a%26b%2Bc",
		},
		{
			name:     "non-ASCII digits are dropped",
			settings: ChatWidgetSettings{PhoneNumber: "+34 ٦١٢ 345 678"},
			want:     "https://wa.me/34345678",
		},
		{
			name:     "only non-ASCII digits",
			settings: ChatWidgetSettings{PhoneNumber: "٠١٢٣", DefaultMessage: "hi"},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.settings.WhatsAppLink(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStoreSettings_Normalize(t *testing.T) {
	t.Parallel()

	s := StoreSettings{StoreName: "   "}
	s.Normalize()

	if s.StoreName != DefaultStoreName {
		t.Errorf("Expected store name %q, got %q", DefaultStoreName, s.StoreName)
	}
	if s.HeroSubtitle != DefaultHeroSubtitle {
		t.Errorf("Expected default hero subtitle, got %q", s.HeroSubtitle)
	}
	if s.HeroMediaType != HeroMediaImage {
		t.Errorf("Expected hero media type image, got %q", s.HeroMediaType)
	}

	custom := StoreSettings{StoreName: "Velo Cars", HeroSubtitle: "Fast", HeroMediaType: HeroMediaVideo}
	custom.Normalize()
	if custom.StoreName != "Velo Cars" || custom.HeroSubtitle != "Fast" || custom.HeroMediaType != HeroMediaVideo {
		t.Errorf("Expected custom values to be kept, got %+v", custom)
	}
}

func TestDefaultFooterConfig(t *testing.T) {
	t.Parallel()

	footer := DefaultFooterConfig(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if footer.CopyrightText != "2025 AutoArtisan" {
		t.Errorf("Expected '2025 AutoArtisan', got %q", footer.CopyrightText)
	}
	if footer.SocialLinks == nil {
		t.Error("Expected empty, non-nil social links")
	}
	if footer.ContactInfo.Email != "contact@autoartisan.com" {
		t.Errorf("Expected default contact email, got %q", footer.ContactInfo.Email)
	}
}

func TestDefaultChatWidgetSettings(t *testing.T) {
	t.Parallel()

	c := DefaultChatWidgetSettings()
	if !c.IsChatEnabled || c.IconSize != 40 || c.DefaultMessage != DefaultChatMessage {
		t.Errorf("Unexpected defaults: %+v", c)
	}
}
