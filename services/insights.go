package services

import (
	"sort"

	"nba-boxscore-scraper/models"
	"nba-boxscore-scraper/utils"
)

const topTeams = 5

// InsightService computes analytics from the finished dataset
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the report. Every game contributes two rows, one per team.
func (s *InsightService) Generate(ds *models.Dataset) *models.InsightReport {
	report := &models.InsightReport{
		StatColumns:   len(ds.Schema),
		GamesBySeason: make(map[string]int),
	}

	if ds.Len() == 0 {
		s.logger.Warn("No records to generate insights from")
		return report
	}

	var totalPoints int
	wins := make(map[string]*models.TeamWins)

	for i := range ds.Records {
		r := &ds.Records[i]
		report.TeamRows++
		totalPoints += r.Total

		if r.Home == 1 {
			// count each game once, from the home row
			report.Games++
			report.GamesBySeason[r.Season]++
			if r.Won {
				report.HomeWins++
			}
		}

		if report.TopScoring == nil || r.Total > report.TopScoring.Total {
			report.TopScoring = r
		}

		tw, ok := wins[r.Team]
		if !ok {
			tw = &models.TeamWins{Team: r.Team}
			wins[r.Team] = tw
		}
		tw.Games++
		if r.Won {
			tw.Wins++
		}
	}

	report.Seasons = len(report.GamesBySeason)
	report.AveragePoints = float64(totalPoints) / float64(report.TeamRows)
	if report.Games > 0 {
		report.HomeWinRate = float64(report.HomeWins) / float64(report.Games)
	}

	teams := make([]models.TeamWins, 0, len(wins))
	for _, tw := range wins {
		teams = append(teams, *tw)
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Wins != teams[j].Wins {
			return teams[i].Wins > teams[j].Wins
		}
		return teams[i].Team < teams[j].Team
	})
	maxTop := topTeams
	if len(teams) < maxTop {
		maxTop = len(teams)
	}
	report.TopTeams = teams[:maxTop]

	return report
}
