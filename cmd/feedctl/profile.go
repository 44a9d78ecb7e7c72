package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/feed"
	"github.com/rushteam/feedrank/keyword"
)

var (
	profileUser    string
	profileRequest string
	profileTop     int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the keyword profile built for a user",
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVarP(&profileUser, "user", "u", "", "User id to load from the preference store")
	profileCmd.Flags().StringVarP(&profileRequest, "request", "r", "", "Path to a FeedRequest JSON file (\"-\" for stdin)")
	profileCmd.Flags().IntVarP(&profileTop, "top", "n", 20, "Number of top keywords to print")
	profileCmd.MarkFlagsOneRequired("user", "request")
	profileCmd.MarkFlagsMutuallyExclusive("user", "request")
	rootCmd.AddCommand(profileCmd)
}

type keywordWeight struct {
	Keyword string  `json:"keyword"`
	Weight  float64 `json:"weight"`
}

type profileOutput struct {
	UserID    string          `json:"user_id"`
	ColdStart bool            `json:"cold_start"`
	Magnitude float64         `json:"magnitude"`
	Keywords  []keywordWeight `json:"keywords"`
}

func runProfile(cmd *cobra.Command, _ []string) error {
	var (
		req *core.FeedRequest
		err error
	)
	if profileRequest != "" {
		req, err = readRequest(profileRequest)
	} else {
		prefs, closePrefs, openErr := openPreferences()
		if openErr != nil {
			return openErr
		}
		defer closePrefs()
		req, err = prefs.Load(cmd.Context(), profileUser)
	}
	if err != nil {
		return err
	}

	p := feed.NewProfileBuilder(cfg.Profile, keyword.NewExtractor()).Build(req)
	out := profileOutput{UserID: req.UserID, ColdStart: p.IsEmpty(), Magnitude: p.Magnitude}
	for _, kw := range p.TopKeywords(profileTop) {
		out.Keywords = append(out.Keywords, keywordWeight{Keyword: kw, Weight: p.Weight(kw)})
	}
	return printJSON(cmd.OutOrStdout(), out)
}
