package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type MatchDetails struct {
	DetailsCreated         bool
	HomeCaptain            int
	AwayCaptain            int
	Referee                int
	HomePlayers            MatchTeamPlayers
	AwayPlayers            MatchTeamPlayers
	IndividualMatchResults []IndividualMatchResult
	MatchSystem            int
	HomeScore              int
	AwayScore              int
}

type MatchTeamPlayers struct {
	PlayerCount     int
	DoubleTeamCount int
	Players         []MatchPlayer
}

type MatchPlayer struct {
	Position     int
	UniqueIndex  int
	FirstName    string
	LastName     string
	Ranking      string
	VictoryCount int
}

// Player resolves a 1-based match index into the roster.
func (p MatchTeamPlayers) Player(matchIndex int) (MatchPlayer, bool) {
	if matchIndex < 1 || matchIndex > len(p.Players) {
		return MatchPlayer{}, false
	}
	return p.Players[matchIndex-1], true
}

// PlayersAt resolves several 1-based match indices, as used by doubles.
func (p MatchTeamPlayers) PlayersAt(matchIndices []int) []MatchPlayer {
	players := make([]MatchPlayer, 0, len(matchIndices))
	for _, idx := range matchIndices {
		if player, ok := p.Player(idx); ok {
			players = append(players, player)
		}
	}
	return players
}

type IndividualMatchResult struct {
	Position              int
	HomePlayerMatchIndex  []int
	HomePlayerUniqueIndex []int
	IsHomeForfeited       bool
	AwayPlayerMatchIndex  []int
	AwayPlayerUniqueIndex []int
	IsAwayForfeited       bool
	HomeSetCount          int
	AwaySetCount          int
	Scores                []SetScore
}

// HomeWon reports the winner of the individual match; a home forfeit counts as an away win.
func (r IndividualMatchResult) HomeWon() bool {
	return !(r.HomeSetCount < r.AwaySetCount || r.IsHomeForfeited)
}

// ScoreLines renders every set as "home-away".
func (r IndividualMatchResult) ScoreLines() []string {
	lines := make([]string, len(r.Scores))
	for i, s := range r.Scores {
		lines[i] = s.String()
	}
	return lines
}

// Standing is the cumulative team score after an individual match.
type Standing struct {
	Home int
	Away int
}

func (s Standing) String() string {
	return fmt.Sprintf("%d - %d", s.Home, s.Away)
}

// RunningStandings returns the team score after each individual match, in order.
func (d MatchDetails) RunningStandings() []Standing {
	standings := make([]Standing, len(d.IndividualMatchResults))
	var current Standing
	for i, r := range d.IndividualMatchResults {
		if r.HomeWon() {
			current.Home++
		} else {
			current.Away++
		}
		standings[i] = current
	}
	return standings
}

const maxSetScore = 30

// SetScore is one decoded set: the losing side's points and who won.
type SetScore struct {
	Score     int
	IsHomeWin bool
}

// WinnerScore applies the deuce rule: 11 unless the loser reached 10, then loser + 2.
func (s SetScore) WinnerScore() int {
	if s.Score >= 10 {
		return s.Score + 2
	}
	return 11
}

func (s SetScore) String() string {
	if s.IsHomeWin {
		return fmt.Sprintf("%d-%d", s.WinnerScore(), s.Score)
	}
	return fmt.Sprintf("%d-%d", s.Score, s.WinnerScore())
}

// ParseSetScores decodes a comma separated list of "<indicator>|<score>" or
// bare signed tokens. A minus sign on either part marks an away win.
func ParseSetScores(raw string) ([]SetScore, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	tokens := strings.Split(raw, ",")
	scores := make([]SetScore, 0, len(tokens))
	for _, token := range tokens {
		s, err := parseSetScore(token)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, nil
}

func parseSetScore(token string) (SetScore, error) {
	token = strings.ReplaceAll(strings.TrimSpace(token), "−", "-")

	indicator, score, hasPipe := strings.Cut(token, "|")
	if !hasPipe {
		score, indicator = indicator, ""
	}
	indicator = strings.TrimSpace(indicator)
	score = strings.TrimSpace(score)

	n, err := strconv.Atoi(score)
	if err != nil {
		return SetScore{}, fmt.Errorf("invalid set score %q: %w", token, err)
	}
	if indicator != "" {
		if _, err := strconv.Atoi(indicator); err != nil {
			return SetScore{}, fmt.Errorf("invalid set indicator %q: %w", token, err)
		}
	}

	away := strings.HasPrefix(indicator, "-") || strings.HasPrefix(score, "-")
	if n < 0 {
		n = -n
	}
	if n > maxSetScore {
		return SetScore{}, fmt.Errorf("set score %q out of range", token)
	}

	return SetScore{Score: n, IsHomeWin: !away}, nil
}
