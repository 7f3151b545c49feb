package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"nba-boxscore-scraper/models"
)

// PrintInsightReport formats and prints the insight report to w
func PrintInsightReport(w io.Writer, report *models.InsightReport) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("NBA BOX SCORE DATASET", 55))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Games                   : %d\n", report.Games)
	fmt.Fprintf(w, "  Team Rows               : %d\n", report.TeamRows)
	fmt.Fprintf(w, "  Stat Columns            : %d\n", report.StatColumns)
	fmt.Fprintf(w, "  Seasons                 : %d\n", report.Seasons)
	fmt.Fprintf(w, "  Home Win Rate           : %.1f%%\n", report.HomeWinRate*100)
	fmt.Fprintf(w, "  Average Points          : %.1f\n", report.AveragePoints)

	if report.TopScoring != nil {
		r := report.TopScoring
		fmt.Fprintf(w, "\n HIGHEST SCORING TEAM GAME\n%s\n", thin)
		fmt.Fprintf(w, "  Team     : %s\n", r.Team)
		fmt.Fprintf(w, "  Points   : %d\n", r.Total)
		fmt.Fprintf(w, "  Opponent : %s (%d)\n", r.Opp.Team, r.Opp.Total)
		fmt.Fprintf(w, "  Date     : %s\n", r.Date.Format("2006-01-02"))
	}

	if len(report.GamesBySeason) > 0 {
		fmt.Fprintf(w, "\n GAMES PER SEASON\n%s\n", thin)
		seasons := make([]string, 0, len(report.GamesBySeason))
		for s := range report.GamesBySeason {
			seasons = append(seasons, s)
		}
		sort.Strings(seasons)
		for _, s := range seasons {
			fmt.Fprintf(w, "  %-25s %5d\n", s+":", report.GamesBySeason[s])
		}
	}

	if len(report.TopTeams) > 0 {
		fmt.Fprintf(w, "\n TOP %d TEAMS BY WINS\n%s\n", len(report.TopTeams), thin)
		for i, t := range report.TopTeams {
			bar := strings.Repeat("▓", barLength(t.Wins, t.Games, 20))
			fmt.Fprintf(w, "  %d. %-5s %4d-%-4d %s\n", i+1, t.Team, t.Wins, t.Games-t.Wins, bar)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

// barLength scales part/whole to at most max characters
func barLength(part, whole, max int) int {
	if whole <= 0 {
		return 0
	}
	return part * max / whole
}
