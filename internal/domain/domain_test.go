package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSetScores(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "home win below deuce", raw: "1|9", want: []string{"11-9"}},
		{name: "away win after deuce", raw: "-1|12", want: []string{"12-14"}},
		{name: "unicode minus", raw: "−1|12", want: []string{"12-14"}},
		{name: "bare signed tokens", raw: "5,-7,10", want: []string{"11-5", "7-11", "12-10"}},
		{name: "negative score after pipe", raw: "2|-3", want: []string{"3-11"}},
		{name: "zero", raw: "1|0", want: []string{"11-0"}},
		{name: "full match", raw: "1|5, 2|-8,3|11", want: []string{"11-5", "8-11", "13-11"}},
		{name: "empty", raw: "", want: []string{}},
		{name: "garbage", raw: "1|x", wantErr: true},
		{name: "bad indicator", raw: "a|5", wantErr: true},
		{name: "out of range", raw: "1|31", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := ParseSetScores(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			r := IndividualMatchResult{Scores: scores}
			assert.Equal(t, tt.want, r.ScoreLines())
		})
	}
}

func TestSetScoreDecoding(t *testing.T) {
	scores, err := ParseSetScores("1|9,-1|12")
	require.NoError(t, err)
	assert.Equal(t, []SetScore{{Score: 9, IsHomeWin: true}, {Score: 12, IsHomeWin: false}}, scores)
}

func TestResultEntrySwapNormalization(t *testing.T) {
	tests := []struct {
		name  string
		entry ClubMemberResultEntry
		want  string
	}{
		{name: "victory reported swapped", entry: ClubMemberResultEntry{ResultIndicator: "V", SetsFor: 0, SetsAgainst: 3}, want: "3-0"},
		{name: "victory in order", entry: ClubMemberResultEntry{ResultIndicator: "V", SetsFor: 3, SetsAgainst: 1}, want: "3-1"},
		{name: "defeat reported swapped", entry: ClubMemberResultEntry{ResultIndicator: "D", SetsFor: 3, SetsAgainst: 2}, want: "2-3"},
		{name: "defeat in order", entry: ClubMemberResultEntry{ResultIndicator: "D", SetsFor: 0, SetsAgainst: 3}, want: "0-3"},
		{name: "missing sets", entry: ClubMemberResultEntry{ResultIndicator: "V", SetsFor: NoSets, SetsAgainst: 3}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Result())
		})
	}
}

func TestWeekBounds(t *testing.T) {
	wednesday := time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), Monday(wednesday))
	assert.Equal(t, time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), Sunday(wednesday))

	sunday := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), Monday(sunday))
	assert.Equal(t, time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), Sunday(sunday))

	monday := time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, Monday(monday))

	w := WeekOf(wednesday)
	assert.Equal(t, "2026-10-12", w.StartDate())
	assert.Equal(t, "2026-10-18", w.EndDate())
}

func TestWeekBoundsAcrossMonth(t *testing.T) {
	thursday := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	w := WeekOf(thursday)
	assert.Equal(t, "2026-09-28", w.StartDate())
	assert.Equal(t, "2026-10-04", w.EndDate())
}

func TestRunningStandings(t *testing.T) {
	d := MatchDetails{IndividualMatchResults: []IndividualMatchResult{
		{Position: 1, HomeSetCount: 3, AwaySetCount: 1},
		{Position: 2, HomeSetCount: 0, AwaySetCount: 3},
		{Position: 3, HomeSetCount: 3, AwaySetCount: 0, IsHomeForfeited: true},
		{Position: 4, HomeSetCount: 3, AwaySetCount: 2},
	}}

	assert.Equal(t, []Standing{{1, 0}, {1, 1}, {1, 2}, {2, 2}}, d.RunningStandings())
	assert.Equal(t, "2 - 2", d.RunningStandings()[3].String())
}

func TestMatchTeamPlayers(t *testing.T) {
	p := MatchTeamPlayers{Players: []MatchPlayer{{Position: 1, UniqueIndex: 10}, {Position: 2, UniqueIndex: 20}}}

	first, ok := p.Player(1)
	require.True(t, ok)
	assert.Equal(t, 10, first.UniqueIndex)

	_, ok = p.Player(3)
	assert.False(t, ok)

	assert.Len(t, p.PlayersAt([]int{1, 2, 5}), 2)
}

func TestTeamMatchDisplay(t *testing.T) {
	m := TeamMatch{HomeTeam: "Home A", AwayTeam: "Away B", Date: "2026-10-14", Time: "19:45:00", Score: "10-6"}
	assert.Equal(t, "Home A - Away B: 10-6", m.FullNameWithResult())
	assert.Equal(t, "14/10/2026", m.MatchDate())
	assert.Equal(t, "19:45", m.MatchTime())

	m.Date = "1970-01-01"
	m.Score = ""
	assert.Equal(t, "Home A - Away B", m.FullNameWithResult())
	assert.Empty(t, m.MatchDate())
	assert.Empty(t, m.MatchTime())
}

func TestTeamString(t *testing.T) {
	assert.Equal(t, "Heren B - Afdeling 3", Team{Team: "B", DivisionName: "Afdeling 3", DivisionCategoryID: 1}.String())
	assert.Equal(t, "", Team{DivisionCategoryID: 99}.DivisionCategoryName())
}

func TestGroupByWeek(t *testing.T) {
	matches := []TeamMatch{
		{DivisionID: 4, WeekName: "01", MatchID: "a"},
		{DivisionID: 4, WeekName: "02", MatchID: "b"},
		{DivisionID: 4, WeekName: "01", MatchID: "c"},
	}

	weeks := GroupByWeek(matches)
	require.Len(t, weeks, 2)
	assert.Equal(t, "01", weeks[0].WeekName)
	assert.Len(t, weeks[0].Matches, 2)
	assert.Equal(t, "c", weeks[0].Matches[1].MatchID)
	assert.Equal(t, 4, weeks[1].DivisionID)
}
