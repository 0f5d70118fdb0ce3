package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"ttscore/internal/domain"
	"ttscore/internal/service"
	"ttscore/internal/settings"

	"github.com/spf13/cobra"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// seasonOrDefault picks the season flag, then the selected season, then the
// season TabT flags current.
func seasonOrDefault(ctx context.Context, d deps, flag int) (int, error) {
	if flag > 0 {
		return flag, nil
	}
	if sel := d.Selection.Current(); sel.SeasonID > 0 {
		return sel.SeasonID, nil
	}
	current, err := d.Seasons.GetCurrent(ctx)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, fmt.Errorf("no season given and none selected; run import or pass --season")
	}
	return current.ID, nil
}

func clubOrDefault(d deps, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if sel := d.Selection.Current(); sel.ClubID != "" {
		return sel.ClubID, nil
	}
	return "", fmt.Errorf("no club given and none selected; pass --club")
}

func positiveArg(args []string, name string) (int, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, args[0])
	}
	return n, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the local store to the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				version, err := d.DB.UserVersion(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("schema at version %d (%s)\n", version, d.DB.Path())
				return nil
			})
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import every season and the clubs of the current season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				last := service.NotStarted
				for p, err := range d.Importer.ImportAll(ctx) {
					if err != nil {
						return fmt.Errorf("import stopped while %s: %w", p.State, err)
					}
					if p.State != last {
						last = p.State
						fmt.Println(p.State)
					}
					if p.Progress.Total > 0 {
						fmt.Printf("\r  %d/%d", p.Progress.Imported, p.Progress.Total)
						if p.Progress.Completed {
							fmt.Println()
						}
					}
				}
				return nil
			})
		},
	}
}

func seasonsCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "seasons",
		Short: "List seasons",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				seasons, err := d.Catalog.Seasons(ctx, refresh)
				if err != nil {
					return err
				}
				w := newTable()
				fmt.Fprintln(w, "ID\tNAME\tCURRENT")
				for _, s := range seasons {
					fmt.Fprintf(w, "%d\t%s\t%t\n", s.ID, s, s.IsCurrent)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-import from TabT")
	return cmd
}

func clubsCmd() *cobra.Command {
	var (
		season  int
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "List the clubs of a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				seasonID, err := seasonOrDefault(ctx, d, season)
				if err != nil {
					return err
				}
				clubs, err := d.Catalog.Clubs(ctx, seasonID, refresh)
				if err != nil {
					return err
				}
				w := newTable()
				fmt.Fprintln(w, "ID\tNAME\tLONG NAME")
				for _, c := range clubs {
					fmt.Fprintf(w, "%s\t%s\t%s\n", c.UniqueID, c.Name, c.LongName)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season id (defaults to the selected or current season)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-import from TabT")
	return cmd
}

func membersCmd() *cobra.Command {
	var (
		season  int
		club    string
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the members of a club",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				seasonID, err := seasonOrDefault(ctx, d, season)
				if err != nil {
					return err
				}
				clubID, err := clubOrDefault(d, club)
				if err != nil {
					return err
				}
				members, err := d.Catalog.Members(ctx, clubID, seasonID, refresh)
				if err != nil {
					return err
				}
				w := newTable()
				fmt.Fprintln(w, "POS\tINDEX\tNAME\tRANKING")
				for _, m := range members {
					fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", m.Position, m.UniqueIndex, m, m.Ranking)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season id (defaults to the selected or current season)")
	cmd.Flags().StringVar(&club, "club", "", "Club id (defaults to the selected club)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-import from TabT")
	return cmd
}

func memberCmd() *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "member <uniqueIndex>",
		Short: "Show a member with individual results, straight from TabT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uniqueIndex, err := positiveArg(args, "uniqueIndex")
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				seasonID, err := seasonOrDefault(ctx, d, season)
				if err != nil {
					return err
				}
				member, err := d.Catalog.Member(ctx, uniqueIndex, seasonID)
				if err != nil {
					return err
				}
				if member == nil {
					return fmt.Errorf("member %d not found in season %d", uniqueIndex, seasonID)
				}

				fmt.Printf("%s (%s)\n", member, member.Ranking)
				w := newTable()
				fmt.Fprintln(w, "DATE\tOPPONENT\tRANKING\tRESULT\tSETS")
				for _, e := range member.ResultEntries {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Date, e.OpponentName(), e.OpponentRanking, e.ResultIndicator, e.Result())
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season id (defaults to the selected or current season)")
	return cmd
}

func teamsCmd() *cobra.Command {
	var (
		season  int
		club    string
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List the teams of a club",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				seasonID, err := seasonOrDefault(ctx, d, season)
				if err != nil {
					return err
				}
				clubID, err := clubOrDefault(d, club)
				if err != nil {
					return err
				}
				teams, err := d.Catalog.Teams(ctx, clubID, seasonID, refresh)
				if err != nil {
					return err
				}
				w := newTable()
				fmt.Fprintln(w, "ID\tTEAM\tDIVISION")
				for _, t := range teams {
					fmt.Fprintf(w, "%s\t%s\t%d\n", t.TeamID, t, t.DivisionID)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season id (defaults to the selected or current season)")
	cmd.Flags().StringVar(&club, "club", "", "Club id (defaults to the selected club)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-import from TabT")
	return cmd
}

func printWeeks(weeks []domain.DivisionWeekMatches) error {
	w := newTable()
	for _, week := range weeks {
		fmt.Fprintf(w, "%s\t\t\t\n", week.WeekName)
		for _, m := range week.Matches {
			fmt.Fprintf(w, "  %s\t%s %s\t%s\n", m.MatchID, m.MatchDate(), m.MatchTime(), m.FullNameWithResult())
		}
	}
	return w.Flush()
}

func printClubWeek(label string, week service.ClubWeek) {
	fmt.Printf("%s (%s to %s)\n", label, week.Week.StartDate(), week.Week.EndDate())
	w := newTable()
	for _, m := range week.Matches {
		fmt.Fprintf(w, "  %s\t%s %s\t%s\n", m.MatchID, m.MatchDate(), m.MatchTime(), m.FullNameWithResult())
	}
	_ = w.Flush()
}

func matchesCmd() *cobra.Command {
	var (
		team     string
		division int
		club     string
		day      string
		refresh  bool
	)
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List matches of a team, a division, or a club around a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				switch {
				case team != "":
					weeks, err := d.Matches.TeamMatches(ctx, team, refresh)
					if err != nil {
						return err
					}
					return printWeeks(weeks)
				case division > 0:
					weeks, err := d.Matches.DivisionMatches(ctx, division, refresh)
					if err != nil {
						return err
					}
					return printWeeks(weeks)
				}

				clubID, err := clubOrDefault(d, club)
				if err != nil {
					return err
				}
				when := time.Now()
				if day != "" {
					when, err = time.ParseInLocation("2006-01-02", day, time.Local)
					if err != nil {
						return fmt.Errorf("--day must be formatted yyyy-mm-dd: %w", err)
					}
				}
				weeks, err := d.Matches.ClubWeeks(ctx, clubID, when)
				if err != nil {
					return err
				}
				printClubWeek("Last week", weeks.LastWeek)
				printClubWeek("This week", weeks.ThisWeek)
				printClubWeek("Next week", weeks.NextWeek)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Team id")
	cmd.Flags().IntVar(&division, "division", 0, "Division id")
	cmd.Flags().StringVar(&club, "club", "", "Club id (defaults to the selected club)")
	cmd.Flags().StringVar(&day, "day", "", "Day yyyy-mm-dd for club weeks (defaults to today)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-import from TabT")
	cmd.MarkFlagsMutuallyExclusive("team", "division", "club")
	return cmd
}

func matchCmd() *cobra.Command {
	var (
		season   int
		division int
	)
	cmd := &cobra.Command{
		Use:   "match <matchUniqueId>",
		Short: "Show the individual results of a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchUniqueID, err := positiveArg(args, "matchUniqueId")
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				seasonID, err := seasonOrDefault(ctx, d, season)
				if err != nil {
					return err
				}
				view, err := d.Matches.Details(ctx, matchUniqueID, division, seasonID)
				if err != nil {
					return err
				}
				if view == nil {
					return fmt.Errorf("match %d not found", matchUniqueID)
				}

				fmt.Println(view.Match.FullNameWithResult())
				if view.Details == nil {
					fmt.Println("no details yet")
					return nil
				}
				w := newTable()
				for i, r := range view.Details.IndividualMatchResults {
					home := playerNames(view.Details.HomePlayers.PlayersAt(r.HomePlayerMatchIndex))
					away := playerNames(view.Details.AwayPlayers.PlayersAt(r.AwayPlayerMatchIndex))
					fmt.Fprintf(w, "%d\t%s\t%s\t%d-%d\t%s\t%s\n", r.Position, home, away,
						r.HomeSetCount, r.AwaySetCount, strings.Join(r.ScoreLines(), " "), view.Standings[i])
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season id (defaults to the selected or current season)")
	cmd.Flags().IntVar(&division, "division", 0, "Division id")
	_ = cmd.MarkFlagRequired("division")
	return cmd
}

func playerNames(players []domain.MatchPlayer) string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.FirstName + " " + p.LastName
	}
	return strings.Join(names, " / ")
}

func rankingCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "ranking <divisionId>",
		Short: "Show a division ranking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			divisionID, err := positiveArg(args, "divisionId")
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				ranking, err := d.Catalog.Ranking(ctx, divisionID, refresh)
				if err != nil {
					return err
				}
				w := newTable()
				fmt.Fprintln(w, "POS\tTEAM\tPLAYED\tWON\tLOST\tDRAW\tPOINTS")
				for _, r := range ranking {
					fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n", r.Position, r.TeamName, r.GamesPlayed, r.GamesWon, r.GamesLost, r.GamesDraw, r.Points)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-import from TabT")
	return cmd
}

func favoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite teams",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <teamId>",
			Short: "Mark a cached team as favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
					fav, err := d.Favorites.Add(ctx, args[0])
					if err != nil {
						return err
					}
					fmt.Printf("added %s (club %s, season %d)\n", fav.TeamID, fav.ClubID, fav.SeasonID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <teamId>",
			Short: "Remove a favorite team",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
					removed, err := d.Favorites.Remove(ctx, args[0])
					if err != nil {
						return err
					}
					if !removed {
						fmt.Printf("%s was not a favorite\n", args[0])
						return nil
					}
					fmt.Printf("removed %s\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List favorite teams",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
					favorites, err := d.Favorites.ListResolved(ctx)
					if err != nil {
						return err
					}
					w := newTable()
					fmt.Fprintln(w, "TEAM ID\tCLUB\tTEAM")
					for _, f := range favorites {
						club, team := f.Favorite.ClubID, f.Favorite.TeamID
						if f.Club != nil {
							club = f.Club.Name
						}
						if f.Team != nil {
							team = f.Team.String()
						}
						fmt.Fprintf(w, "%s\t%s\t%s\n", f.Favorite.TeamID, club, team)
					}
					return w.Flush()
				})
			},
		},
	)
	return cmd
}

func selectCmd() *cobra.Command {
	var sel settings.Selection
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Show or change the selected season, club and team",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, d deps) error {
				var (
					resolved *service.ResolvedSelection
					err      error
				)
				if cmd.Flags().NFlag() == 0 {
					resolved, err = d.Selection.Resolve(ctx)
				} else {
					resolved, err = d.Selection.Select(ctx, sel)
				}
				if err != nil {
					return err
				}

				w := newTable()
				if resolved.Season != nil {
					fmt.Fprintf(w, "season\t%d\t%s\n", resolved.Season.ID, resolved.Season)
				}
				if resolved.Club != nil {
					fmt.Fprintf(w, "club\t%s\t%s\n", resolved.Club.UniqueID, resolved.Club.Name)
				}
				if resolved.Team != nil {
					fmt.Fprintf(w, "team\t%s\t%s\n", resolved.Team.TeamID, resolved.Team)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&sel.SeasonID, "season", 0, "Season id")
	cmd.Flags().StringVar(&sel.ClubID, "club", "", "Club id")
	cmd.Flags().StringVar(&sel.TeamID, "team", "", "Team id")
	return cmd
}
