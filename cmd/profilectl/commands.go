package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/anjiri1684/wordpace/codec"
	config "github.com/anjiri1684/wordpace/configs"
	"github.com/anjiri1684/wordpace/database"
	"github.com/anjiri1684/wordpace/models"
	"github.com/anjiri1684/wordpace/utils"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errUnconfirmed = errors.New("refusing to reset without --yes")

// openCodec is replaced in tests.
var openCodec = func() (*codec.Codec, func(), error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := utils.NewLogger(logLevel)
	if err != nil {
		return nil, nil, err
	}
	store, err := database.Open(database.Options{
		Driver:        settings.StoreDriver,
		SQLitePath:    settings.SQLitePath,
		DatabaseURL:   settings.DatabaseURL,
		RedisAddr:     settings.RedisAddr,
		RedisPassword: settings.RedisPassword,
		RedisPrefix:   "wordpace:",
	}, log.Named("store"))
	if err != nil {
		return nil, nil, err
	}
	return codec.New(store, settings.ProfileKey, nil, log), func() {
		store.Close()
		log.Sync()
	}, nil
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile as the current build would read it",
	Long:  "Decodes the stored profile (upgrading it in memory) without writing anything back.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeFn, err := openCodec()
		if err != nil {
			return err
		}
		defer closeFn()

		p, report, err := c.Inspect(cmd.Context())
		if err != nil {
			return err
		}
		printReport(cmd.ErrOrStderr(), c.Key(), report)
		return render(cmd.OutOrStdout(), p)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade the stored profile to the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeFn, err := openCodec()
		if err != nil {
			return err
		}
		defer closeFn()

		_, report, err := c.Inspect(cmd.Context())
		if err != nil {
			return err
		}
		printReport(cmd.ErrOrStderr(), c.Key(), report)
		if !report.Migrated && !report.Corrupt && !report.FirstLaunch {
			fmt.Fprintln(cmd.OutOrStdout(), "profile is up to date")
			return nil
		}
		c.Load(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "profile written at schema version %d\n", models.CurrentSchemaVersion)
		return nil
	},
}

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the decoded profile to a file or stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeFn, err := openCodec()
		if err != nil {
			return err
		}
		defer closeFn()

		p, _, err := c.Inspect(cmd.Context())
		if err != nil {
			return err
		}
		if exportPath == "" || exportPath == "-" {
			return render(cmd.OutOrStdout(), p)
		}
		f, err := os.Create(exportPath)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		if err := render(f, p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported profile to %s\n", exportPath)
		return nil
	},
}

var resetConfirmed bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored profile so the next launch starts fresh",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirmed {
			return errUnconfirmed
		}
		c, closeFn, err := openCodec()
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := c.Delete(ctx); err != nil && !errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("delete profile: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "profile deleted")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "destination file (default stdout)")
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "confirm the reset")
}

func printReport(w io.Writer, key string, r codec.Report) {
	switch {
	case r.FirstLaunch:
		fmt.Fprintf(w, "%s: no stored profile, showing defaults\n", key)
	case r.Corrupt:
		fmt.Fprintf(w, "%s: stored payload is corrupt (%v), showing defaults\n", key, r.Err)
	case r.Migrated:
		fmt.Fprintf(w, "%s: stored at version %d, upgraded to %d in memory\n", key, r.FromVersion, r.ToVersion)
	default:
		fmt.Fprintf(w, "%s: schema version %d\n", key, r.FromVersion)
	}
}

// render prints v in the selected format. YAML goes through the JSON form so
// both formats share the persisted key names.
func render(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch outputFormat {
	case "json", "":
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case "yaml":
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(doc)
	}
	return fmt.Errorf("unknown format %q", outputFormat)
}
