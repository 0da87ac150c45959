package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Keys of the singleton documents in site_settings.
const (
	SettingsKeyStore      = "store"
	SettingsKeyFooter     = "footer"
	SettingsKeyChatWidget = "chat_widget"
)

// HeroMediaType selects how the homepage hero renders its media
type HeroMediaType string

const (
	HeroMediaImage HeroMediaType = "image"
	HeroMediaVideo HeroMediaType = "video"
)

const (
	DefaultStoreName    = "AutoArtisan"
	DefaultHeroSubtitle = "Crafting Automotive Excellence. Discover your dream car with us."
	DefaultChatMessage  = "Hello, I am interested in your cars."
	DefaultChatIconSize = 40
)

// StoreSettings is the storefront branding
type StoreSettings struct {
	StoreName     string        `json:"storeName" yaml:"storeName" validate:"required,max=100"`
	LogoURL       string        `json:"logoUrl" yaml:"logoUrl" validate:"omitempty,url"`
	LogoURLDark   string        `json:"logoUrlDark" yaml:"logoUrlDark" validate:"omitempty,url"`
	HeroSubtitle  string        `json:"heroSubtitle" yaml:"heroSubtitle" validate:"max=500"`
	HeroMediaURL  string        `json:"heroMediaUrl" yaml:"heroMediaUrl" validate:"max=2048"`
	HeroMediaType HeroMediaType `json:"heroMediaType" yaml:"heroMediaType" validate:"omitempty,hero_media_type"`
}

// DefaultStoreSettings is served until the panel saves a document.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		StoreName:     DefaultStoreName,
		HeroSubtitle:  DefaultHeroSubtitle,
		HeroMediaType: HeroMediaImage,
	}
}

// Normalize fills blank fields from the defaults.
func (s *StoreSettings) Normalize() {
	s.StoreName = strings.TrimSpace(s.StoreName)
	if s.StoreName == "" {
		s.StoreName = DefaultStoreName
	}
	if s.HeroSubtitle == "" {
		s.HeroSubtitle = DefaultHeroSubtitle
	}
	if s.HeroMediaType == "" {
		s.HeroMediaType = HeroMediaImage
	}
}

// SocialLink is a footer link to a social profile
type SocialLink struct {
	Platform string `json:"platform" yaml:"platform" validate:"required,max=50"`
	URL      string `json:"url" yaml:"url" validate:"required,url"`
}

// ContactInfo is the showroom contact block
type ContactInfo struct {
	Address  string `json:"address" yaml:"address" validate:"max=500"`
	Phone    string `json:"phone" yaml:"phone" validate:"max=50"`
	Email    string `json:"email" yaml:"email" validate:"omitempty,email"`
	MapQuery string `json:"mapQuery" yaml:"mapQuery" validate:"max=500"`
}

// FooterConfig is the site footer content
type FooterConfig struct {
	CopyrightText string       `json:"copyrightText" yaml:"copyrightText" validate:"max=200"`
	SocialLinks   []SocialLink `json:"socialLinks" yaml:"socialLinks" validate:"max=20,dive"`
	ContactInfo   ContactInfo  `json:"contactInfo" yaml:"contactInfo"`
}

// DefaultFooterConfig returns the footer shown before one is saved.
func DefaultFooterConfig(now time.Time) FooterConfig {
	return FooterConfig{
		CopyrightText: fmt.Sprintf("%d %s", now.Year(), DefaultStoreName),
		SocialLinks:   []SocialLink{},
		ContactInfo: ContactInfo{
			Address:  "123 Luxury Drive, Auto City, AC 12345",
			Phone:    "+1 (555) 123-4567",
			Email:    "contact@autoartisan.com",
			MapQuery: "123 Luxury Drive, Auto City, AC 12345",
		},
	}
}

// ChatWidgetSettings configures the WhatsApp chat button
type ChatWidgetSettings struct {
	IsChatEnabled  bool   `json:"isChatEnabled" yaml:"isChatEnabled"`
	CustomIconURL  string `json:"customIconUrl" yaml:"customIconUrl" validate:"omitempty,url"`
	IconSize       int    `json:"iconSize" yaml:"iconSize" validate:"gte=16,lte=128"`
	PhoneNumber    string `json:"phoneNumber" yaml:"phoneNumber" validate:"max=30"`
	DefaultMessage string `json:"defaultMessage" yaml:"defaultMessage" validate:"max=500"`
}

// DefaultChatWidgetSettings returns the widget settings used before one is saved.
func DefaultChatWidgetSettings() ChatWidgetSettings {
	return ChatWidgetSettings{
		IsChatEnabled:  true,
		IconSize:       DefaultChatIconSize,
		DefaultMessage: DefaultChatMessage,
	}
}

// WhatsAppLink builds the wa.me deep link, or "" when no phone number has digits.
func (c ChatWidgetSettings) WhatsAppLink() string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.PhoneNumber)
	if digits == "" {
		return ""
	}
	link := "https://wa.me/" + digits
	if c.DefaultMessage != "" {
		// wa.me expects %20 for spaces, QueryEscape emits "+"
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(c.DefaultMessage), "+", "%20")
	}
	return link
}

// ChatWidgetView is the public representation of the widget with its computed link.
type ChatWidgetView struct {
	ChatWidgetSettings
	WhatsAppLink string `json:"whatsappLink,omitempty"`
}
