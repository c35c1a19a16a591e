package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rogersnm/frontdesk/internal/config"
	"github.com/rogersnm/frontdesk/internal/datalink"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change storage and logging settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration, secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		shown.Storage.Backend = cfg.Storage.BackendName()
		shown.Storage.Postgres.Password = mask(shown.Storage.Postgres.Password)
		shown.Storage.MinIO.SecretKey = mask(shown.Storage.MinIO.SecretKey)

		data, err := yaml.Marshal(shown)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Printf("# data dir: %s\n%s", dataDir, data)
		return nil
	},
}

var configSetBackendCmd = &cobra.Command{
	Use:   "set-backend <file|memory|sqlite|postgres|minio>",
	Short: "Choose where records are stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateBackend(args[0]); err != nil {
			return err
		}

		// Write the file's own values, not ones from the environment.
		saved, err := config.Load(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		s := &saved.Storage
		s.Backend = args[0]
		setIfChanged(cmd, "sqlite-path", &s.SQLite.Path)
		setIfChanged(cmd, "pg-host", &s.Postgres.Host)
		setIfChanged(cmd, "pg-port", &s.Postgres.Port)
		setIfChanged(cmd, "pg-user", &s.Postgres.User)
		setIfChanged(cmd, "pg-password", &s.Postgres.Password)
		setIfChanged(cmd, "pg-name", &s.Postgres.Name)
		setIfChanged(cmd, "pg-sslmode", &s.Postgres.SSLMode)
		setIfChanged(cmd, "minio-endpoint", &s.MinIO.Endpoint)
		setIfChanged(cmd, "minio-access-key", &s.MinIO.AccessKey)
		setIfChanged(cmd, "minio-secret-key", &s.MinIO.SecretKey)
		setIfChanged(cmd, "minio-bucket", &s.MinIO.Bucket)
		setIfChanged(cmd, "minio-prefix", &s.MinIO.Prefix)
		if cmd.Flags().Changed("minio-ssl") {
			s.MinIO.UseSSL, _ = cmd.Flags().GetBool("minio-ssl")
		}

		if err := config.Save(dataDir, saved); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Storage backend set to %s\n", args[0])
		return nil
	},
}

var configLinkCmd = &cobra.Command{
	Use:   "link <data-dir>",
	Short: "Use <data-dir> for commands run in this directory tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := datalink.Write(cwd, args[0]); err != nil {
			return err
		}
		fmt.Printf("Linked %s to %s\n", cwd, args[0])
		return nil
	},
}

var configUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Remove the data directory link in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := datalink.Remove(cwd); err != nil {
			return err
		}
		fmt.Println("Removed data directory link")
		return nil
	},
}

func setIfChanged(cmd *cobra.Command, flag string, dst *string) {
	if v := stringFlag(cmd, flag); v != nil {
		*dst = *v
	}
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}

func init() {
	f := configSetBackendCmd.Flags()
	f.String("sqlite-path", "", "SQLite database file (default <data-dir>/frontdesk.db)")
	f.String("pg-host", "", "Postgres host")
	f.String("pg-port", "", "Postgres port")
	f.String("pg-user", "", "Postgres user")
	f.String("pg-password", "", "Postgres password")
	f.String("pg-name", "", "Postgres database name")
	f.String("pg-sslmode", "", "Postgres sslmode")
	f.String("minio-endpoint", "", "MinIO/S3 endpoint (host:port)")
	f.String("minio-access-key", "", "MinIO access key")
	f.String("minio-secret-key", "", "MinIO secret key")
	f.String("minio-bucket", "", "bucket holding the snapshots")
	f.String("minio-prefix", "", "object key prefix")
	f.Bool("minio-ssl", false, "connect to MinIO over TLS")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetBackendCmd)
	configCmd.AddCommand(configLinkCmd)
	configCmd.AddCommand(configUnlinkCmd)
	rootCmd.AddCommand(configCmd)
}
