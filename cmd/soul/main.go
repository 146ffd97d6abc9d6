package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/soulprotocol/soul-go/pkg/client"
	"github.com/soulprotocol/soul-go/pkg/did"
	"github.com/soulprotocol/soul-go/pkg/soul"
)

// version is overridden by goreleaser via -ldflags "-X main.version=...".
var version = "dev"

var (
	registryURL string
	cfgFile     string
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "soul",
	Short: "Soul Protocol CLI",
	Long: `soul is the command-line interface for the Soul Protocol registry.

It registers agent identities ("Souls"), resolves and claims them by DID,
verifies birth certificates, and lists registry contents.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(home + "/.soul")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("soul")
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		if registryURL == "" {
			registryURL = viper.GetString("registry_url")
		}
		// client.New falls back to the public registry when this stays empty.
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.soul/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&registryURL, "registry", "", "Soul registry URL (default "+client.DefaultRegistryURL+")")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log every registry request")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func newClient() (*client.Client, error) {
	opts := []client.Option{}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
		opts = append(opts, client.WithLogger(logger))
	}
	return client.New(registryURL, opts...)
}

// ── register ─────────────────────────────────────────────────────────────────

var (
	regName        string
	regBaseModel   string
	regPlatform    string
	regPublicKey   string
	regCharterHash string
	regPurpose     string
	regKeyOut      string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new Soul with the registry",
	Long: `Register creates a new Soul and prints its DID, claim URL, and
verification code.

When --public-key is not given, the registry generates a keypair and returns
the private half exactly once; it is written to ~/.soul/keys/<did>.key
(override with --key-out).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		result, err := c.Register(context.Background(), client.RegisterRequest{
			Name:        regName,
			BaseModel:   regBaseModel,
			Platform:    regPlatform,
			PublicKey:   regPublicKey,
			CharterHash: regCharterHash,
			Purpose:     regPurpose,
		})
		if err != nil {
			return fmt.Errorf("register soul: %w", err)
		}

		fmt.Printf("✓ Soul registered\n\n")
		fmt.Printf("  DID:               %s\n", result.DID)
		fmt.Printf("  Claim URL:         %s\n", result.ClaimURL)
		fmt.Printf("  Verification code: %s\n", result.VerificationCode)

		if result.PrivateKey != nil {
			path, err := savePrivateKey(regKeyOut, result.DID, result.PrivateKey)
			if err != nil {
				return fmt.Errorf("save private key: %w", err)
			}
			fmt.Printf("  Private key:       %s\n", path)
			fmt.Println("\nThe registry does not keep a copy of this key. Back it up.")
		}

		fmt.Printf("\nNext: open the claim URL, or run 'soul claim %s'\n", result.DID)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&regName, "name", "", "Unique Soul name")
	registerCmd.Flags().StringVar(&regBaseModel, "model", "", "Base model identifier (e.g. gpt-5)")
	registerCmd.Flags().StringVar(&regPlatform, "platform", "", "Hosting platform identifier")
	registerCmd.Flags().StringVar(&regPublicKey, "public-key", "", "Multibase-encoded public key; omit to have the registry generate a keypair")
	registerCmd.Flags().StringVar(&regCharterHash, "charter-hash", "", "Hash of the agent's charter document")
	registerCmd.Flags().StringVar(&regPurpose, "purpose", "", "Free-text statement of purpose")
	registerCmd.Flags().StringVar(&regKeyOut, "key-out", "", "Private key output directory (default ~/.soul/keys)")

	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("model")
	_ = registerCmd.MarkFlagRequired("platform")
}

// savePrivateKey writes key material to <dir>/<did>.key with mode 0600,
// flattening the DID's colons for the filename.
func savePrivateKey(dir, soulDID string, key soul.PrivateKey) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".soul", "keys")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create key dir: %w", err)
	}

	name := strings.ReplaceAll(soulDID, ":", "_") + ".key"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return "", fmt.Errorf("write key file: %w", err)
	}
	return path, nil
}

// ── resolve ──────────────────────────────────────────────────────────────────

var resolveFormat string

var resolveCmd = &cobra.Command{
	Use:   "resolve <did>",
	Short: "Resolve a Soul by DID",
	Long: `Resolve fetches the full Soul record: DID document, birth
certificate, and lifecycle status.

A Soul the registry does not know is reported as not found, which is a
normal outcome, not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		soulDID := args[0]
		if !did.IsValid(soulDID) {
			return fmt.Errorf("invalid DID %q", soulDID)
		}

		c, err := newClient()
		if err != nil {
			return err
		}

		s, err := c.Resolve(context.Background(), soulDID)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", soulDID, err)
		}
		if s == nil {
			fmt.Printf("Soul not found: %s\n", soulDID)
			return nil
		}

		if resolveFormat == "json" {
			return printJSON(s)
		}
		printSoul(s)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "text", "Output format: text or json")
}

func printSoul(s *soul.Soul) {
	subject := s.BirthCertificate.CredentialSubject
	fmt.Printf("DID:      %s\n", s.DID)
	fmt.Printf("Name:     %s\n", subject.SoulName)
	fmt.Printf("Model:    %s\n", subject.BaseModel)
	fmt.Printf("Platform: %s\n", subject.Platform)
	fmt.Printf("Status:   %s\n", s.Status)
	fmt.Printf("Created:  %s\n", s.CreatedAt)
	if s.ClaimedAt != "" {
		fmt.Printf("Claimed:  %s\n", s.ClaimedAt)
	}
	if s.RevokedAt != "" {
		fmt.Printf("Revoked:  %s\n", s.RevokedAt)
	}
	if subject.Operator != "" {
		fmt.Printf("Operator: %s\n", subject.Operator)
	}
	if subject.Purpose != "" {
		fmt.Printf("Purpose:  %s\n", subject.Purpose)
	}
	fmt.Printf("Issuer:   %s\n", s.BirthCertificate.Issuer)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ── claim ─────────────────────────────────────────────────────────────────────

var claimOperator string

var claimCmd = &cobra.Command{
	Use:   "claim <did>",
	Short: "Take custody of an unclaimed Soul",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		soulDID := args[0]
		if !did.IsValid(soulDID) {
			return fmt.Errorf("invalid DID %q", soulDID)
		}
		if claimOperator != "" && !did.IsValid(claimOperator) {
			return fmt.Errorf("invalid operator DID %q", claimOperator)
		}

		c, err := newClient()
		if err != nil {
			return err
		}

		s, err := c.Claim(context.Background(), soulDID, claimOperator)
		if err != nil {
			return fmt.Errorf("claim %q: %w", soulDID, err)
		}

		fmt.Printf("✓ Soul claimed\n\n")
		fmt.Printf("  DID:     %s\n", s.DID)
		fmt.Printf("  Status:  %s\n", s.Status)
		fmt.Printf("  Claimed: %s\n", s.ClaimedAt)
		return nil
	},
}

func init() {
	claimCmd.Flags().StringVar(&claimOperator, "operator", "", "Operator DID to record on the claim")
}

// ── verify ────────────────────────────────────────────────────────────────────

var verifyCmd = &cobra.Command{
	Use:   "verify <certificate.json>",
	Short: "Verify a birth certificate against the registry",
	Long: `Verify submits a birth-certificate JSON file to the registry, which
checks the signature against the issuer's published keys. Exits non-zero
when the certificate is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read certificate: %w", err)
		}
		var cert soul.BirthCertificate
		if err := json.Unmarshal(data, &cert); err != nil {
			return fmt.Errorf("parse certificate: %w", err)
		}

		c, err := newClient()
		if err != nil {
			return err
		}

		result, err := c.Verify(context.Background(), &cert)
		if err != nil {
			return fmt.Errorf("verify certificate: %w", err)
		}

		names := make([]string, 0, len(result.Checks))
		for name := range result.Checks {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CHECK\tRESULT")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", name, string(result.Checks[name]))
		}
		w.Flush() //nolint:errcheck

		if !result.Valid {
			return fmt.Errorf("certificate is not valid")
		}
		fmt.Println("\n✓ Certificate is valid")
		return nil
	},
}

// ── list ──────────────────────────────────────────────────────────────────────

var (
	listStatus string
	listLimit  int
	listOffset int
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List Souls on the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		page, err := c.List(context.Background(), client.ListOptions{
			Status: soul.Status(listStatus),
			Limit:  listLimit,
			Offset: listOffset,
		})
		if err != nil {
			return fmt.Errorf("list souls: %w", err)
		}

		if listFormat == "json" {
			return printJSON(page)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DID\tNAME\tSTATUS\tCREATED")
		for _, s := range page.Souls {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				s.DID, s.BirthCertificate.CredentialSubject.SoulName, s.Status, s.CreatedAt)
		}
		w.Flush() //nolint:errcheck
		fmt.Printf("\n%d of %d soul(s)\n", len(page.Souls), page.Total)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status: unclaimed, claimed, or revoked")
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "Page size")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Page offset")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "Output format: text or json")
}

// ── stats ─────────────────────────────────────────────────────────────────────

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		stats, err := c.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("fetch stats: %w", err)
		}

		names := make([]string, 0, len(stats))
		for name := range stats {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%d\n", name, stats[name])
		}
		return w.Flush()
	},
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the soul CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("soul %s (Soul Protocol)\n", version)
	},
}
