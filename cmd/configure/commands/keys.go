package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/benvon/autoartisan/internal/services/firebase"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/spf13/cobra"
)

// NewKeysCmd fetches the identity provider certificates and lists their key ids.
// Useful to check outbound connectivity from the API host.
func NewKeysCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Fetch and list the Firebase signing key ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher := firebase.NewCertificateFetcher(0, firebase.WithCertificatesURL(url))
			start := time.Now()
			keys, err := fetcher.FetchKeys(cmd.Context())
			if err != nil {
				return err
			}
			printKeys(cmd.OutOrStdout(), keys, time.Since(start))
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", firebase.GoogleCertificatesURL, "Certificates endpoint")
	return cmd
}

func printKeys(out io.Writer, keys jwk.Set, elapsed time.Duration) {
	fmt.Fprintf(out, "Fetched %d key(s) in %v:\n", keys.Len(), elapsed.Round(time.Millisecond))
	for i := 0; i < keys.Len(); i++ {
		key, ok := keys.Key(i)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  %s (%s)\n", key.KeyID(), key.Algorithm())
	}
}
