package domain

import (
	"fmt"
	"strings"
)

type Season struct {
	ID        int
	Name      string
	IsCurrent bool
}

func (s Season) String() string {
	return s.Name
}

type Club struct {
	UniqueID     string
	SeasonID     int
	Name         string
	LongName     string
	CategoryID   int
	CategoryName string // remote only
	Venues       []ClubVenue
}

type ClubVenue struct {
	ID        int
	ClubVenue int
	Name      string
	Street    string
	Town      string
	Phone     string
	Comment   string
}

type ClubMember struct {
	Position      int
	UniqueIndex   int
	RankingIndex  int
	FirstName     string
	LastName      string
	Ranking       string
	SeasonID      int
	ClubID        string
	ResultEntries []ClubMemberResultEntry // remote only
}

func (m ClubMember) String() string {
	return fmt.Sprintf("%s %s", m.FirstName, m.LastName)
}

type Team struct {
	TeamID             string
	Team               string
	DivisionID         int
	DivisionName       string
	DivisionCategoryID int
	ClubID             string
	SeasonID           int
}

func (t Team) DivisionCategoryName() string {
	switch t.DivisionCategoryID {
	case 1:
		return "Heren"
	case 2:
		return "Dames"
	case 13:
		return "Jeugd"
	default:
		return ""
	}
}

func (t Team) String() string {
	return fmt.Sprintf("%s %s - %s", t.DivisionCategoryName(), t.Team, t.DivisionName)
}

// TeamMatch rows with an empty TeamID were fetched for a whole division,
// rows with a TeamID were fetched for that team.
type TeamMatch struct {
	MatchUniqueIndex int
	DivisionID       int
	MatchID          string
	TeamID           string
	WeekName         string
	Date             string // yyyy-MM-dd
	Time             string // hh:mm:ss
	Venue            int
	HomeClubID       string
	HomeTeam         string
	AwayClubID       string
	AwayTeam         string
	IsHomeForfeited  bool
	IsAwayForfeited  bool
	Score            string
	Details          *MatchDetails // remote only
}

func (m TeamMatch) FullName() string {
	return fmt.Sprintf("%s - %s", m.HomeTeam, m.AwayTeam)
}

func (m TeamMatch) FullNameWithResult() string {
	if m.Score != "" {
		return fmt.Sprintf("%s: %s", m.FullName(), m.Score)
	}
	return m.FullName()
}

// MatchDate renders the date as dd/MM/yyyy. The remote source uses 1970 dates
// for matches that are not scheduled yet; those render empty.
func (m TeamMatch) MatchDate() string {
	parts := strings.Split(m.Date, "-")
	if len(parts) != 3 || parts[0] == "1970" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", parts[2], parts[1], parts[0])
}

func (m TeamMatch) MatchTime() string {
	if strings.HasPrefix(m.Date, "1970") {
		return ""
	}
	parts := strings.Split(m.Time, ":")
	if len(parts) < 2 {
		return ""
	}
	return fmt.Sprintf("%s:%s", parts[0], parts[1])
}

type DivisionRanking struct {
	DivisionID            int
	Position              int
	TeamName              string
	GamesPlayed           int
	GamesWon              int
	GamesLost             int
	GamesDraw             int
	IndividualMatchesWon  int
	IndividualMatchesLost int
	IndividualSetsWon     int
	IndividualSetsLost    int
	Points                int
	TeamClubID            string
}

type Favorite struct {
	SeasonID int
	ClubID   string
	TeamID   string
}

// ResolvedFavorite is a favorite joined with the current Team and Club rows.
type ResolvedFavorite struct {
	Favorite Favorite
	Team     *Team
	Club     *Club
}
