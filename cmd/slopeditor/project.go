package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/slopeditor/internal/config"
	"github.com/kikiluvv/slopeditor/internal/project"
	"github.com/kikiluvv/slopeditor/internal/scoring"
)

func init() {
	libraryCmd.AddCommand(libraryListCmd, libraryDeleteCmd, libraryScoreCmd)
	projectCmd.AddCommand(projectValidateCmd, projectExportCmd)
}

func readProject(path string) (project.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return project.Project{}, err
	}
	defer f.Close()
	return project.Decode(f)
}

var scoreCmd = &cobra.Command{
	Use:   "score [project file]",
	Short: "Print the export report for a project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readProject(args[0])
		if err != nil {
			return err
		}

		scorer := scoring.NewHeuristicScorer()
		defer scorer.Close()

		r, err := scorer.Score(cmd.Context(), p.Composition())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s\n\n", p.Title)
		fmt.Fprintf(w, "Trend:      %3.0f  %s\n", r.Scores.Trend, r.Tiers["trend"])
		fmt.Fprintf(w, "Engagement: %3.0f  %s\n", r.Scores.Engagement, r.Tiers["engagement"])
		fmt.Fprintf(w, "Virality:   %3.0f  %s\n", r.Scores.Virality, r.Tiers["virality"])
		fmt.Fprintf(w, "Quality:    %3.0f  %s\n\n", r.Scores.Quality, r.Tiers["quality"])
		fmt.Fprintln(w, r.Virality)
		for _, rec := range r.Recommendations {
			fmt.Fprintln(w, "- "+rec)
		}
		fmt.Fprintln(w)
		for _, tip := range r.Tips {
			fmt.Fprintln(w, "* "+tip)
		}
		return nil
	},
}

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect the saved project library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openLibrary(config.FromContext(cmd.Context())).List()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tPLATFORM\tDURATION\tCREATED")
		for _, p := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Platform, p.Duration, p.DateCreated)
		}
		return tw.Flush()
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return openLibrary(config.FromContext(cmd.Context())).Delete(args[0])
	},
}

var libraryScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every saved project",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openLibrary(config.FromContext(cmd.Context())).List()
		if err != nil {
			return err
		}

		comps := make([]scoring.Composition, len(list))
		for i, p := range list {
			comps[i] = p.Composition()
		}

		reports, err := scoring.BatchScore(cmd.Context(), scoring.NewHeuristicScorer(), comps, runtime.NumCPU())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tTREND\tENGAGEMENT\tVIRALITY\tQUALITY")
		for i, r := range reports {
			fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\n", list[i].ID, list[i].Title,
				r.Scores.Trend, r.Scores.Engagement, r.Scores.Virality, r.Scores.Quality)
		}
		return tw.Flush()
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project file commands",
}

var projectValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check that a project file can be imported",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readProject(args[0])
		if err != nil {
			return err
		}
		log.Info().
			Str("title", p.Title).
			Int("clips", len(p.Clips)).
			Int("texts", len(p.TextOverlays)).
			Int("images", len(p.ImageOverlays)).
			Int("effects", len(p.EffectItems)).
			Int("audio", len(p.AudioTracks)).
			Msg("project is valid")
		return nil
	},
}

var projectExportCmd = &cobra.Command{
	Use:   "export [id] [file]",
	Short: "Export a saved project as a standalone project file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openLibrary(config.FromContext(cmd.Context())).Get(args[0])
		if err != nil {
			return err
		}

		path := project.ExportFilename(p.Title)
		if len(args) == 2 {
			path = args[1]
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := project.Export(f, p, time.Now()); err != nil {
			return err
		}
		log.Info().Str("id", p.ID).Str("file", path).Msg("project exported")
		return nil
	},
}
