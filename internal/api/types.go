package api

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
)

type SeasonsResponse struct {
	CurrentSeason     int           `json:"CurrentSeason"`
	CurrentSeasonName string        `json:"CurrentSeasonName"`
	SeasonEntries     []SeasonEntry `json:"SeasonEntries"`
}

type SeasonEntry struct {
	Season    int    `json:"Season"`
	Name      string `json:"Name"`
	IsCurrent bool   `json:"IsCurrent"`
}

// ClubsResponse is a bare JSON array, unlike the other actions.
type ClubsResponse []ClubEntry

type ClubEntry struct {
	UniqueIndex  string       `json:"UniqueIndex"`
	Name         string       `json:"Name"`
	LongName     string       `json:"LongName"`
	Category     int          `json:"Category"`
	CategoryName string       `json:"CategoryName"`
	VenueCount   int          `json:"VenueCount"`
	VenueEntries []VenueEntry `json:"VenueEntries"`
}

type VenueEntry struct {
	ID        int    `json:"Id"`
	ClubVenue int    `json:"ClubVenue"`
	Name      string `json:"Name"`
	Street    string `json:"Street"`
	Town      string `json:"Town"`
	Phone     string `json:"Phone"`
	Comment   string `json:"Comment"`
}

type MembersResponse struct {
	MemberCount   int           `json:"MemberCount"`
	MemberEntries []MemberEntry `json:"MemberEntries"`
}

type MemberEntry struct {
	Position      int           `json:"Position"`
	UniqueIndex   int           `json:"UniqueIndex"`
	RankingIndex  int           `json:"RankingIndex"`
	FirstName     string        `json:"FirstName"`
	LastName      string        `json:"LastName"`
	Ranking       string        `json:"Ranking"`
	ResultEntries []ResultEntry `json:"ResultEntries"`
}

// ResultEntry set counts are pointers because the source omits them for
// some walkovers.
type ResultEntry struct {
	Date        string `json:"Date"`
	UniqueIndex int    `json:"UniqueIndex"`
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Ranking     string `json:"Ranking"`
	Result      string `json:"Result"`
	SetFor      *int   `json:"SetFor"`
	SetAgainst  *int   `json:"SetAgainst"`
}

type ClubTeamsResponse struct {
	TeamCount   int         `json:"TeamCount"`
	TeamEntries []TeamEntry `json:"TeamEntries"`
}

type TeamEntry struct {
	TeamID           string `json:"TeamId"`
	Team             string `json:"Team"`
	DivisionID       int    `json:"DivisionId"`
	DivisionName     string `json:"DivisionName"`
	DivisionCategory int    `json:"DivisionCategory"`
	MatchType        int    `json:"MatchType"`
}

type MatchesResponse struct {
	MatchCount         int          `json:"MatchCount"`
	TeamMatchesEntries []MatchEntry `json:"TeamMatchesEntries"`
}

type MatchEntry struct {
	MatchID          string        `json:"MatchId"`
	MatchUniqueID    int           `json:"MatchUniqueId"`
	DivisionID       int           `json:"DivisionId"`
	WeekName         string        `json:"WeekName"`
	Date             string        `json:"Date"`
	Time             string        `json:"Time"`
	Venue            int           `json:"Venue"`
	HomeClub         string        `json:"HomeClub"`
	HomeTeam         string        `json:"HomeTeam"`
	AwayClub         string        `json:"AwayClub"`
	AwayTeam         string        `json:"AwayTeam"`
	NextWeekName     string        `json:"NextWeekName"`
	PreviousWeekName string        `json:"PreviousWeekName"`
	IsHomeForfeited  bool          `json:"IsHomeForfeited"`
	IsAwayForfeited  bool          `json:"IsAwayForfeited"`
	Score            string        `json:"Score"`
	MatchDetails     *MatchDetails `json:"MatchDetails"`
}

type MatchDetails struct {
	DetailsCreated         bool                    `json:"DetailsCreated"`
	HomeCaptain            int                     `json:"HomeCaptain"`
	AwayCaptain            int                     `json:"AwayCaptain"`
	Referee                int                     `json:"Referee"`
	HomePlayers            MatchPlayers            `json:"HomePlayers"`
	AwayPlayers            MatchPlayers            `json:"AwayPlayers"`
	IndividualMatchResults []IndividualMatchResult `json:"IndividualMatchResults"`
	MatchSystem            int                     `json:"MatchSystem"`
	HomeScore              int                     `json:"HomeScore"`
	AwayScore              int                     `json:"AwayScore"`
}

type MatchPlayers struct {
	PlayerCount     int           `json:"PlayerCount"`
	DoubleTeamCount int           `json:"DoubleTeamCount"`
	Players         []MatchPlayer `json:"Players"`
}

type MatchPlayer struct {
	Position     int    `json:"Position"`
	UniqueIndex  int    `json:"UniqueIndex"`
	FirstName    string `json:"FirstName"`
	LastName     string `json:"LastName"`
	Ranking      string `json:"Ranking"`
	VictoryCount int    `json:"VictoryCount"`
}

type IndividualMatchResult struct {
	Position              int     `json:"Position"`
	HomePlayerMatchIndex  IntList `json:"HomePlayerMatchIndex"`
	HomePlayerUniqueIndex IntList `json:"HomePlayerUniqueIndex"`
	IsHomeForfeited       bool    `json:"IsHomeForfeited"`
	AwayPlayerMatchIndex  IntList `json:"AwayPlayerMatchIndex"`
	AwayPlayerUniqueIndex IntList `json:"AwayPlayerUniqueIndex"`
	IsAwayForfeited       bool    `json:"IsAwayForfeited"`
	HomeSetCount          int     `json:"HomeSetCount"`
	AwaySetCount          int     `json:"AwaySetCount"`
	Scores                string  `json:"Scores"`
}

type DivisionRankingResponse struct {
	DivisionName   string         `json:"DivisionName"`
	RankingEntries []RankingEntry `json:"RankingEntries"`
}

type RankingEntry struct {
	Position              int    `json:"Position"`
	Team                  string `json:"Team"`
	GamesPlayed           int    `json:"GamesPlayed"`
	GamesWon              int    `json:"GamesWon"`
	GamesLost             int    `json:"GamesLost"`
	GamesDraw             int    `json:"GamesDraw"`
	IndividualMatchesWon  int    `json:"IndividualMatchesWon"`
	IndividualMatchesLost int    `json:"IndividualMatchesLost"`
	IndividualSetsWon     int    `json:"IndividualSetsWon"`
	IndividualSetsLost    int    `json:"IndividualSetsLost"`
	Points                int    `json:"Points"`
	TeamClub              string `json:"TeamClub"`
}

// IntList accepts a single number or an array of numbers. Singles report one
// player index, doubles report two.
type IntList []int

func (l *IntList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var values []int
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*l = values
		return nil
	}

	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*l = IntList{value}
	return nil
}

// MembersQuery selects either a club roster or a single member. WithResults
// only applies to the single member form.
type MembersQuery struct {
	SeasonID    int
	ClubID      string
	UniqueIndex int
	WithResults bool
}

func (q MembersQuery) values() url.Values {
	params := url.Values{}
	if q.SeasonID != 0 {
		params.Set("Season", strconv.Itoa(q.SeasonID))
	}
	if q.ClubID != "" {
		params.Set("Club", q.ClubID)
	}
	if q.UniqueIndex != 0 {
		params.Set("UniqueIndex", strconv.Itoa(q.UniqueIndex))
	}
	if q.WithResults {
		params.Set("WithResults", "true")
	}
	return params
}

// MatchesQuery covers the four GetMatches forms: a team in a division, a
// whole division, a club within a date range, and one match with details.
type MatchesQuery struct {
	ClubID        string
	Team          string
	DivisionID    int
	DateFrom      string // yyyy-mm-dd
	DateTo        string
	MatchUniqueID int
	WithDetails   bool
	SeasonID      int
}

func (q MatchesQuery) values() url.Values {
	params := url.Values{}
	if q.ClubID != "" {
		params.Set("Club", q.ClubID)
	}
	if q.Team != "" {
		params.Set("Team", q.Team)
	}
	if q.DivisionID != 0 {
		params.Set("DivisionId", strconv.Itoa(q.DivisionID))
	}
	if q.DateFrom != "" {
		params.Set("YearDateFrom", q.DateFrom)
	}
	if q.DateTo != "" {
		params.Set("YearDateTo", q.DateTo)
	}
	if q.MatchUniqueID != 0 {
		params.Set("MatchUniqueId", strconv.Itoa(q.MatchUniqueID))
	}
	if q.WithDetails {
		params.Set("WithDetails", "true")
	}
	if q.SeasonID != 0 {
		params.Set("Season", strconv.Itoa(q.SeasonID))
	}
	return params
}
