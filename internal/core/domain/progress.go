package domain

import (
	"sort"
	"time"
)

// DefaultWeeklyGoal is the classic "30 plants a week" diversity target.
const DefaultWeeklyGoal = 30

// WeeklyProgress is the derived weekly aggregate. It is recomputed wholesale
// on every read and never persisted (the user_streaks snapshot is written
// separately and never read back by this logic).
type WeeklyProgress struct {
	TotalPoints  int           `json:"total_points"`
	TodayPoints  int           `json:"today_points"`
	UniquePlants int           `json:"unique_plants"`
	LoggedPlants []LoggedPlant `json:"logged_plants"`
}

// AggregateWeek folds this week's raw log rows into the weekly aggregate.
// The input is assumed already filtered to logged_at >= weekStart.
//
// A plant id counts once no matter how often it was logged: the first record
// seen in input order wins and keeps its timestamp and points, later
// duplicates are ignored entirely. LoggedPlants comes back newest-first,
// with input order preserved between equal timestamps.
func AggregateWeek(events []LoggedPlant, todayStart time.Time) WeeklyProgress {
	seen := make(map[string]bool, len(events))
	unique := make([]LoggedPlant, 0, len(events))
	for _, e := range events {
		if seen[e.PlantID] {
			continue
		}
		seen[e.PlantID] = true
		unique = append(unique, e)
	}

	progress := WeeklyProgress{
		UniquePlants: len(unique),
		LoggedPlants: unique,
	}

	for _, p := range unique {
		progress.TotalPoints += p.Points
		if !p.LoggedAt.Before(todayStart) {
			progress.TodayPoints += p.Points
		}
	}

	sort.SliceStable(progress.LoggedPlants, func(i, j int) bool {
		return progress.LoggedPlants[i].LoggedAt.After(progress.LoggedPlants[j].LoggedAt)
	})

	return progress
}

// DayPoints is one bar of the weekly chart.
type DayPoints struct {
	Date    time.Time `json:"date"`
	DayName string    `json:"day_name"`
	Points  int       `json:"points"`
	IsToday bool      `json:"is_today"`
}

// DailyBreakdown buckets an already-deduplicated week list into seven
// Monday-first days. A plant's points land in the day of its retained
// logged_at, so the chart always sums to TotalPoints.
func DailyBreakdown(plants []LoggedPlant, window WeekWindow) []DayPoints {
	days := make([]DayPoints, 0, 7)

	for i := 0; i < 7; i++ {
		dayStart := window.WeekStart.AddDate(0, 0, i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		points := 0
		for _, p := range plants {
			if !p.LoggedAt.Before(dayStart) && p.LoggedAt.Before(dayEnd) {
				points += p.Points
			}
		}

		days = append(days, DayPoints{
			Date:    dayStart,
			DayName: dayStart.Weekday().String(),
			Points:  points,
			IsToday: dayStart.Equal(window.TodayStart),
		})
	}

	return days
}
