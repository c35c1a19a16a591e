package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rogersnm/frontdesk/internal/config"
	"github.com/rogersnm/frontdesk/internal/datalink"
	"github.com/rogersnm/frontdesk/internal/logging"
	"github.com/rogersnm/frontdesk/internal/metrics"
	"github.com/rogersnm/frontdesk/internal/persist"
	"github.com/rogersnm/frontdesk/internal/store"
)

var (
	version = "dev"
	dataDir string
	cfg     *config.Config
	logger  = zap.NewNop()
	mtr     = metrics.New()
	backend persist.Backend
	stores  *store.Stores
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".frontdesk")
	}
	return filepath.Join(home, ".frontdesk")
}

var rootCmd = &cobra.Command{
	Use:     "frontdesk",
	Short:   "Client roster and document records for an insurance front office",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("data-dir") {
			if cwd, err := os.Getwd(); err == nil {
				linked, err := datalink.Find(cwd)
				if err != nil {
					return fmt.Errorf("reading %s: %w", datalink.FileName, err)
				}
				if linked != "" {
					dataDir = linked
				}
			}
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		if err := loadDotEnv(filepath.Join(dataDir, ".env")); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		config.ApplyEnv(cfg)

		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("configuring logging: %w", err)
		}

		// Config commands work without opening storage
		if cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config") {
			return nil
		}
		if stores != nil {
			return nil
		}
		return openStores(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		_ = logger.Sync()
		if backend == nil {
			return nil
		}
		err := backend.Close()
		backend, stores = nil, nil
		return err
	},
	SilenceUsage: true,
}

// openStores connects the configured backend and loads both collections.
func openStores(cmd *cobra.Command) error {
	b, err := persist.Open(cmd.Context(), cfg.Storage, dataDir)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.BackendName(), err)
	}
	s, err := store.Open(cmd.Context(), b, store.WithLogger(logger), store.WithMetrics(mtr))
	if err != nil {
		b.Close()
		return fmt.Errorf("loading records: %w", err)
	}
	logger.Debug("stores opened",
		zap.String("backend", cfg.Storage.BackendName()),
		zap.Int("clients", len(s.Clients.ListClients())))
	backend, stores = b, s
	return nil
}

// loadDotEnv sets variables from path without overriding ones already in
// the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"client add": {
				Stdin: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Free-form notes for the client",
				},
				Examples: []mtp.Example{
					{Description: "Add a prospect", Command: "frontdesk client add \"Ada Lovelace\" --email ada@example.com --category life"},
					{Description: "Add with a renewal date", Command: "frontdesk client add \"Grace Hopper\" --status active --renewal 2026-03-01"},
				},
			},
			"client list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of clients with ID, name, category, status, and renewal date",
				},
				Examples: []mtp.Example{
					{Description: "List active life clients", Command: "frontdesk client list --status active --category life"},
				},
			},
			"client show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Client profile as YAML frontmatter with notes as the body, or a styled view with --pretty",
				},
			},
			"client update": {
				Stdin: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Replacement notes for the client",
				},
				Examples: []mtp.Example{
					{Description: "Change the phone number", Command: "frontdesk client update CLI-XXXX --phone 555-0100"},
					{Description: "Clear the renewal date", Command: "frontdesk client update CLI-XXXX --renewal \"\""},
				},
			},
			"client delete": {
				Examples: []mtp.Example{
					{Description: "Delete a client (interactive confirm)", Command: "frontdesk client delete CLI-XXXX"},
					{Description: "Delete a client (skip confirm)", Command: "frontdesk client delete CLI-XXXX --force"},
				},
			},
			"client status": {
				Examples: []mtp.Example{
					{Description: "Mark a prospect as active", Command: "frontdesk client status CLI-XXXX active"},
				},
			},
			"client interact": {
				Stdin: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Interaction notes when --notes is not given",
				},
				Examples: []mtp.Example{
					{Description: "Log a phone call", Command: "frontdesk client interact CLI-XXXX --type call --notes \"Discussed renewal\""},
				},
			},
			"client attach": {
				Examples: []mtp.Example{
					{Description: "Attach a policy document", Command: "frontdesk client attach CLI-XXXX policy.pdf --type policy --url s3://docs/policy.pdf"},
				},
			},
			"client renewals": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Clients whose policy renews within the window",
				},
				Examples: []mtp.Example{
					{Description: "Renewals in the next two weeks", Command: "frontdesk client renewals --days 14"},
				},
			},
			"client timeline": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Creation, interactions, and documents, most recent first",
				},
			},
			"client checkout": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Local file path where the client was checked out (e.g. .frontdesk/CLI-XXXX.md)",
				},
				Examples: []mtp.Example{
					{Description: "Checkout a client for local editing", Command: "frontdesk client checkout CLI-XXXX"},
				},
			},
			"client checkin": {
				Examples: []mtp.Example{
					{Description: "Check in a locally edited client", Command: "frontdesk client checkin CLI-XXXX"},
				},
			},
			"doc add": {
				Examples: []mtp.Example{
					{Description: "Record a document for a client", Command: "frontdesk doc add CLI-XXXX \"Auto policy.pdf\" --type policy --tags auto,2026"},
				},
			},
			"doc version": {
				Examples: []mtp.Example{
					{Description: "Upload a new revision", Command: "frontdesk doc version DOC-XXXX --url s3://docs/policy-v2.pdf --comment \"signed\""},
				},
			},
			"doc versions": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of versions, or one version when a number is given",
				},
			},
			"doc recent": {
				Examples: []mtp.Example{
					{Description: "Five most recent uploads", Command: "frontdesk doc recent --limit 5"},
				},
			},
			"doc stats": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Totals by type and status plus uploads in the last 30 days",
				},
			},
			"search": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Matching clients and active documents with ID, title, and snippet",
				},
				Examples: []mtp.Example{
					{Description: "Search clients and documents", Command: "frontdesk search \"harbor\""},
				},
			},
			"config link": {
				Examples: []mtp.Example{
					{Description: "Share one data directory across an office folder", Command: "frontdesk config link /srv/office/frontdesk"},
				},
			},
			"config set-backend": {
				Examples: []mtp.Example{
					{Description: "Store records in SQLite", Command: "frontdesk config set-backend sqlite"},
					{Description: "Store records in a MinIO bucket", Command: "frontdesk config set-backend minio --minio-endpoint localhost:9000 --minio-bucket frontdesk"},
				},
			},
			"metrics": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Prometheus text exposition of store counters for this run",
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	return rootCmd.Execute()
}
