package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/benvon/autoartisan/internal/database"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/benvon/autoartisan/internal/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// NewStoreCmd manages the storefront branding document.
func NewStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Show or update store branding",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the store settings as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				s, err := database.NewSettingsRepository(db).GetStore(ctx)
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), s)
			})
		},
	})
	cmd.AddCommand(newStoreSetCmd())
	return cmd
}

type storeFlags struct {
	name, logoURL, logoURLDark, heroSubtitle, heroMediaURL, heroMediaType string
}

func (f *storeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Store name")
	fs.StringVar(&f.logoURL, "logo-url", "", "Logo URL (light theme)")
	fs.StringVar(&f.logoURLDark, "logo-url-dark", "", "Logo URL (dark theme)")
	fs.StringVar(&f.heroSubtitle, "hero-subtitle", "", "Homepage hero subtitle")
	fs.StringVar(&f.heroMediaURL, "hero-media-url", "", "Homepage hero image or video URL")
	fs.StringVar(&f.heroMediaType, "hero-media-type", "", "image or video")
}

// apply copies only the flags the operator passed.
func (f *storeFlags) apply(fs *pflag.FlagSet, s *models.StoreSettings) {
	if fs.Changed("name") {
		s.StoreName = f.name
	}
	if fs.Changed("logo-url") {
		s.LogoURL = f.logoURL
	}
	if fs.Changed("logo-url-dark") {
		s.LogoURLDark = f.logoURLDark
	}
	if fs.Changed("hero-subtitle") {
		s.HeroSubtitle = f.heroSubtitle
	}
	if fs.Changed("hero-media-url") {
		s.HeroMediaURL = f.heroMediaURL
	}
	if fs.Changed("hero-media-type") {
		s.HeroMediaType = models.HeroMediaType(f.heroMediaType)
	}
}

func newStoreSetCmd() *cobra.Command {
	flags := &storeFlags{}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update store settings; unspecified fields keep their value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				repo := database.NewSettingsRepository(db)
				s, err := repo.GetStore(ctx)
				if err != nil {
					return err
				}
				flags.apply(cmd.Flags(), s)
				if err := validation.Validate.Struct(s); err != nil {
					return fmt.Errorf("invalid store settings: %w", err)
				}
				if err := repo.SaveStore(ctx, s); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Store settings updated.")
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

// NewFooterCmd manages the footer document.
func NewFooterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "footer",
		Short: "Show or replace the site footer",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the footer as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				f, err := database.NewSettingsRepository(db).GetFooter(ctx)
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), f)
			})
		},
	})

	var file string
	set := &cobra.Command{
		Use:   "set",
		Short: "Replace the footer from a YAML or JSON file (the output of 'footer show')",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			fh, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open footer file: %w", err)
			}
			defer func() { _ = fh.Close() }()

			footer, err := readFooter(fh)
			if err != nil {
				return err
			}
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				if err := database.NewSettingsRepository(db).SaveFooter(ctx, footer); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Footer updated.")
				return nil
			})
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "", "Footer document (YAML or JSON)")
	cmd.AddCommand(set)
	return cmd
}

func readFooter(r io.Reader) (*models.FooterConfig, error) {
	var footer models.FooterConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&footer); err != nil {
		return nil, fmt.Errorf("decode footer: %w", err)
	}
	if err := validation.Validate.Struct(&footer); err != nil {
		return nil, fmt.Errorf("invalid footer: %w", err)
	}
	return &footer, nil
}

// NewChatCmd manages the WhatsApp chat widget.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Show or update the chat widget",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the chat widget settings and the computed WhatsApp link",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				c, err := database.NewSettingsRepository(db).GetChatWidget(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if err := writeYAML(out, c); err != nil {
					return err
				}
				if link := c.WhatsAppLink(); link != "" {
					fmt.Fprintf(out, "# whatsappLink: %s\n", link)
				}
				return nil
			})
		},
	})
	cmd.AddCommand(newChatSetCmd())
	return cmd
}

type chatFlags struct {
	enabled  bool
	iconURL  string
	iconSize int
	phone    string
	message  string
}

func (f *chatFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.enabled, "enabled", true, "Show the chat button")
	fs.StringVar(&f.iconURL, "icon-url", "", "Custom icon URL")
	fs.IntVar(&f.iconSize, "icon-size", models.DefaultChatIconSize, "Icon size in pixels (16-128)")
	fs.StringVar(&f.phone, "phone", "", "WhatsApp phone number, international format")
	fs.StringVar(&f.message, "message", "", "Prefilled chat message")
}

func (f *chatFlags) apply(fs *pflag.FlagSet, c *models.ChatWidgetSettings) {
	if fs.Changed("enabled") {
		c.IsChatEnabled = f.enabled
	}
	if fs.Changed("icon-url") {
		c.CustomIconURL = f.iconURL
	}
	if fs.Changed("icon-size") {
		c.IconSize = f.iconSize
	}
	if fs.Changed("phone") {
		c.PhoneNumber = f.phone
	}
	if fs.Changed("message") {
		c.DefaultMessage = f.message
	}
}

func newChatSetCmd() *cobra.Command {
	flags := &chatFlags{}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update chat widget settings; unspecified fields keep their value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *database.DB) error {
				repo := database.NewSettingsRepository(db)
				c, err := repo.GetChatWidget(ctx)
				if err != nil {
					return err
				}
				flags.apply(cmd.Flags(), c)
				if err := validation.Validate.Struct(c); err != nil {
					return fmt.Errorf("invalid chat widget settings: %w", err)
				}
				if err := repo.SaveChatWidget(ctx, c); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Chat widget updated.")
				return nil
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
