// Package cli implements the recipebook CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/recipebook/internal/config"
	"github.com/rcliao/recipebook/internal/ident"
	"github.com/rcliao/recipebook/internal/logging"
	"github.com/rcliao/recipebook/internal/recipe"
	"github.com/rcliao/recipebook/internal/session"
	"github.com/rcliao/recipebook/internal/store"
)

var (
	catalogPath string
	sessionDB   string
	formatFlag  string
	logLevel    string
	configFile  string

	cfg *config.Config
	log = zap.NewNop()
	ids = ident.New()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "recipebook",
	Short: "Build recipes ingredient by ingredient and keep them in a catalog",
	Long: "A small CLI for drafting recipes and keeping a catalog in a single JSON file.\n" +
		"The draft lives between invocations; `save` turns it into a catalog record.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		c, err := config.Load(config.Options{ConfigFile: configFile, Flags: cmd.Flags()})
		if err != nil {
			exitErr("config", err)
		}
		cfg = c
		log = logging.New(cfg.LogLevel, os.Stderr)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog path (default: $RECIPEBOOK_CATALOG or ~/.recipebook/my_recipes.json)")
	RootCmd.PersistentFlags().StringVar(&sessionDB, "session-db", "", "Session database path (default: ~/.recipebook/session.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.recipebook/config.yaml or ./config.yaml)")
}

func textOutput() bool {
	return cfg != nil && cfg.Format == "text"
}

// openCatalog loads the catalog. A corrupt file is reported and replaced by
// an empty catalog, and the command carries on. Unreadable records are
// reported and left in the file.
func openCatalog(cmd *cobra.Command) *store.JSONStore {
	policy, err := store.ParseDuplicatePolicy(cfg.DuplicateIDs)
	if err != nil {
		exitErr("config", err)
	}
	s, err := store.OpenJSONStore(cmd.Context(), cfg.Catalog, store.Options{
		DuplicatePolicy: policy,
		LockTimeout:     cfg.LockTimeout,
		IDs:             ids,
		Logger:          log,
	})
	var cerr *store.CorruptionError
	if errors.As(err, &cerr) {
		fmt.Fprintf(os.Stderr, "warning: %v; starting with an empty catalog\n", cerr)
		return s
	}
	var uerr *store.UnreadableRecordsError
	if errors.As(err, &uerr) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", uerr)
		return s
	}
	if err != nil {
		exitErr("open catalog", err)
	}
	return s
}

// openSession returns the session repository and the active session.
func openSession(cmd *cobra.Command) (*session.Repo, *session.Session) {
	repo, err := session.OpenRepo(cfg.SessionDB, log)
	if err != nil {
		exitErr("open session", err)
	}
	s, err := repo.Current(cmd.Context())
	if err != nil {
		repo.Close()
		exitErr("load session", err)
	}
	s.Draft.SetDefaultAmount(cfg.DefaultAmount)
	return repo, s
}

func newCommitter() *recipe.Committer {
	return recipe.NewCommitter(recipe.Rules{
		RequireAuthor:   cfg.Rules.RequireAuthor,
		RequireCategory: cfg.Rules.RequireCategory,
	}, ids, log)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
