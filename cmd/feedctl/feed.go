package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/feed"
)

var (
	feedUser    string
	feedRequest string
	feedPages   int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Fetch feed pages for a user",
	Long:  "Builds the user's profile and runs the feed pipeline for the requested number of pages. Inputs come from the preference store (--user) or a JSON request file (--request).",
	RunE:  runFeed,
}

func init() {
	feedCmd.Flags().StringVarP(&feedUser, "user", "u", "", "User id to load from the preference store")
	feedCmd.Flags().StringVarP(&feedRequest, "request", "r", "", "Path to a FeedRequest JSON file (\"-\" for stdin)")
	feedCmd.Flags().IntVarP(&feedPages, "pages", "p", 1, "Number of pages to fetch")
	feedCmd.MarkFlagsOneRequired("user", "request")
	feedCmd.MarkFlagsMutuallyExclusive("user", "request")
	rootCmd.AddCommand(feedCmd)
}

type pageOutput struct {
	Page  int                `json:"page"`
	Items []core.ContentItem `json:"items"`
}

func runFeed(cmd *cobra.Command, _ []string) error {
	cat, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	var opts []feed.Option
	if feedUser != "" {
		prefs, closePrefs, err := openPreferences()
		if err != nil {
			return err
		}
		defer closePrefs()
		opts = append(opts, feed.WithPreferences(prefs))
	}

	engine, err := feed.New(cat, cfg, opts...)
	if err != nil {
		return err
	}

	var req *core.FeedRequest
	if feedRequest != "" {
		if req, err = readRequest(feedRequest); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	pages := make([]pageOutput, 0, feedPages)
	for page := 1; page <= max(feedPages, 1); page++ {
		var items []core.ContentItem
		if req != nil {
			items, err = engine.GetFeed(ctx, req, page)
		} else {
			items, err = engine.GetFeedForUser(ctx, feedUser, page)
		}
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		pages = append(pages, pageOutput{Page: page, Items: items})
		if s := engine.Session(); s == nil || s.Exhausted() {
			break
		}
	}
	return printJSON(cmd.OutOrStdout(), pages)
}
