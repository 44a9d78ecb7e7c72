package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/feedrank/logging"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage stored preference snapshots",
}

var prefsImportFile string

var prefsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a FeedRequest JSON snapshot into the preference store",
	RunE:  runPrefsImport,
}

var prefsShowUser string

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored preference snapshot of a user",
	RunE:  runPrefsShow,
}

func init() {
	prefsImportCmd.Flags().StringVarP(&prefsImportFile, "file", "f", "", "Path to FeedRequest JSON (\"-\" for stdin, required)")
	if err := prefsImportCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	prefsShowCmd.Flags().StringVarP(&prefsShowUser, "user", "u", "", "User id (required)")
	if err := prefsShowCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	prefsCmd.AddCommand(prefsImportCmd, prefsShowCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runPrefsImport(cmd *cobra.Command, _ []string) error {
	req, err := readRequest(prefsImportFile)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	prefs, closePrefs, err := openPreferences()
	if err != nil {
		return err
	}
	defer closePrefs()

	if err := prefs.Save(cmd.Context(), req); err != nil {
		return err
	}
	logging.Info().Str("user_id", req.UserID).Int("watch_history", len(req.WatchHistory)).Int("subscriptions", len(req.Subscriptions)).Msg("preference snapshot imported")
	return nil
}

func runPrefsShow(cmd *cobra.Command, _ []string) error {
	prefs, closePrefs, err := openPreferences()
	if err != nil {
		return err
	}
	defer closePrefs()

	req, err := prefs.Load(cmd.Context(), prefsShowUser)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), req)
}
