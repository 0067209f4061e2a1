package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/matcher"
)

var (
	matchRank     string
	matchCategory string
	matchGender   string
	matchBranch   string
	matchCount    string
	matchPlaces   []string
	matchJSON     bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "List eligible colleges for a rank",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer env.Close()
		defer env.logMetrics()

		out := env.Matcher.Match(ctx, core.RawQuery{
			Rank:            matchRank,
			Category:        matchCategory,
			Gender:          matchGender,
			Branch:          matchBranch,
			MaxResults:      matchCount,
			PreferredPlaces: matchPlaces,
		})

		if matchJSON {
			return writeJSON(os.Stdout, out)
		}
		if out.Status == matcher.StatusError {
			return errors.New(out.Message)
		}
		writeOutcome(os.Stdout, out)
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchRank, "rank", "", "entrance exam rank")
	matchCmd.Flags().StringVar(&matchCategory, "category", "OC", "reservation category (OC, BC_A..BC_E, SC, ST, EWS)")
	matchCmd.Flags().StringVar(&matchGender, "gender", "male", "male or female")
	matchCmd.Flags().StringVar(&matchBranch, "branch", "", "branch code, e.g. CSE")
	matchCmd.Flags().StringVar(&matchCount, "count", "10", "max number of colleges")
	matchCmd.Flags().StringSliceVar(&matchPlaces, "place", nil, "preferred places (repeatable)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "print the outcome as JSON")
	_ = matchCmd.MarkFlagRequired("rank")
	_ = matchCmd.MarkFlagRequired("branch")
	rootCmd.AddCommand(matchCmd)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutcome 以表格形式输出结果；截止列名作为表头。
func writeOutcome(w io.Writer, out matcher.Outcome) {
	switch out.Status {
	case matcher.StatusError:
		fmt.Fprintf(w, "Error: %s\n", out.Message)
		return
	case matcher.StatusEmpty:
		fmt.Fprintln(w, out.Message)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tINSTITUTE\tPLACE\tBRANCH\t%s\tCHANCE(%%)\n", out.Column)
	for i, r := range out.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, r.Institute, r.Place, r.Branch, strconv.Itoa(r.CutoffRank), r.AdmissionChance)
	}
	_ = tw.Flush()
}
