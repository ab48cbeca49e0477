package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fentz26/papercheck/internal/api"
	"github.com/fentz26/papercheck/internal/auth"
	"github.com/fentz26/papercheck/internal/config"
	"github.com/fentz26/papercheck/internal/history"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "papercheck",
	Short: "papercheck - paper checking service client",
	Long: `papercheck is a terminal client for the paper checking service:
upload papers, submit check jobs, follow their progress live, and browse
graded results.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLevel(logrus.WarnLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}

		cfg = config.Load()
		if apiAddr != "" {
			cfg.APIBaseURL = apiAddr
		}
		if wsAddr != "" {
			cfg.WSURL = wsAddr
		}
	},
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	apiAddr string
	wsAddr  string
	verbose bool

	cfg *config.Config
	log = logrus.New()
)

func init() {
	log.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "", "API base URL (default from PAPERCHECK_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&wsAddr, "ws", "", "WebSocket base URL (default from PAPERCHECK_WS_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(paperCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(parameterCmd)
	rootCmd.AddCommand(prevPaperCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(userCmd)
}

// sessionManager loads the persisted session.
func sessionManager() (*auth.Manager, error) {
	return auth.NewManager()
}

// apiClient builds an API client bound to the stored session.
func apiClient() (*api.Client, *auth.Manager, error) {
	mgr, err := sessionManager()
	if err != nil {
		return nil, nil, err
	}
	return api.NewClient(cfg.APIBaseURL, mgr, api.WithLogger(log)), mgr, nil
}

// historyStore opens the local check history database.
func historyStore() (*history.Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return history.New(filepath.Join(homeDir, ".local", "share", "papercheck", "history.db"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
