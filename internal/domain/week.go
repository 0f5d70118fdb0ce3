package domain

import "time"

const dateLayout = "2006-01-02"

// Monday returns the first day of d's week. Weeks start on Monday, so a
// Sunday belongs to the week that started six days earlier.
func Monday(d time.Time) time.Time {
	day := startOfDay(d)
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return day.AddDate(0, 0, -offset)
}

// Sunday returns the last day of d's week, six days after Monday(d).
func Sunday(d time.Time) time.Time {
	return Monday(d).AddDate(0, 0, 6)
}

// Week is an inclusive date range used as a remote filter.
type Week struct {
	Start time.Time
	End   time.Time
}

func WeekOf(d time.Time) Week {
	return Week{Start: Monday(d), End: Sunday(d)}
}

func (w Week) StartDate() string {
	return w.Start.Format(dateLayout)
}

func (w Week) EndDate() string {
	return w.End.Format(dateLayout)
}

func startOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}

// DivisionWeekMatches groups the matches of one division week.
type DivisionWeekMatches struct {
	DivisionID int
	WeekName   string
	Matches    []TeamMatch
}

// GroupByWeek groups matches by week name, keeping the order in which weeks first appear.
func GroupByWeek(matches []TeamMatch) []DivisionWeekMatches {
	var weeks []DivisionWeekMatches
	index := make(map[string]int)
	for _, m := range matches {
		i, ok := index[m.WeekName]
		if !ok {
			i = len(weeks)
			index[m.WeekName] = i
			weeks = append(weeks, DivisionWeekMatches{DivisionID: m.DivisionID, WeekName: m.WeekName})
		}
		weeks[i].Matches = append(weeks[i].Matches, m)
	}
	return weeks
}
