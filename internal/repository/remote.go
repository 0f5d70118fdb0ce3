package repository

import (
	"ttscore/internal/api"
	"ttscore/internal/domain"
)

// Mappers from TabT entries into domain values. Missing booleans decode as
// false and missing arrays are replaced by empty ones.

func seasonFromRemote(e api.SeasonEntry) domain.Season {
	return domain.Season{ID: e.Season, Name: e.Name, IsCurrent: e.IsCurrent}
}

func clubFromRemote(e api.ClubEntry, seasonID int) domain.Club {
	venues := make([]domain.ClubVenue, len(e.VenueEntries))
	for i, v := range e.VenueEntries {
		venues[i] = domain.ClubVenue{
			ID:        v.ID,
			ClubVenue: v.ClubVenue,
			Name:      v.Name,
			Street:    v.Street,
			Town:      v.Town,
			Phone:     v.Phone,
			Comment:   v.Comment,
		}
	}

	return domain.Club{
		UniqueID:     e.UniqueIndex,
		SeasonID:     seasonID,
		Name:         e.Name,
		LongName:     e.LongName,
		CategoryID:   e.Category,
		CategoryName: e.CategoryName,
		Venues:       venues,
	}
}

func memberFromRemote(e api.MemberEntry, clubID string, seasonID int) domain.ClubMember {
	results := make([]domain.ClubMemberResultEntry, len(e.ResultEntries))
	for i, r := range e.ResultEntries {
		results[i] = domain.ClubMemberResultEntry{
			Date:                r.Date,
			OpponentUniqueIndex: r.UniqueIndex,
			OpponentFirstName:   r.FirstName,
			OpponentLastName:    r.LastName,
			OpponentRanking:     r.Ranking,
			ResultIndicator:     r.Result,
			SetsFor:             setCount(r.SetFor),
			SetsAgainst:         setCount(r.SetAgainst),
		}
	}

	return domain.ClubMember{
		Position:      e.Position,
		UniqueIndex:   e.UniqueIndex,
		RankingIndex:  e.RankingIndex,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Ranking:       e.Ranking,
		SeasonID:      seasonID,
		ClubID:        clubID,
		ResultEntries: results,
	}
}

func setCount(n *int) int {
	if n == nil {
		return domain.NoSets
	}
	return *n
}

func teamFromRemote(e api.TeamEntry, clubID string, seasonID int) domain.Team {
	return domain.Team{
		TeamID:             e.TeamID,
		Team:               e.Team,
		DivisionID:         e.DivisionID,
		DivisionName:       e.DivisionName,
		DivisionCategoryID: e.DivisionCategory,
		ClubID:             clubID,
		SeasonID:           seasonID,
	}
}

func rankingFromRemote(e api.RankingEntry, divisionID int) domain.DivisionRanking {
	return domain.DivisionRanking{
		DivisionID:            divisionID,
		Position:              e.Position,
		TeamName:              e.Team,
		GamesPlayed:           e.GamesPlayed,
		GamesWon:              e.GamesWon,
		GamesLost:             e.GamesLost,
		GamesDraw:             e.GamesDraw,
		IndividualMatchesWon:  e.IndividualMatchesWon,
		IndividualMatchesLost: e.IndividualMatchesLost,
		IndividualSetsWon:     e.IndividualSetsWon,
		IndividualSetsLost:    e.IndividualSetsLost,
		Points:                e.Points,
		TeamClubID:            e.TeamClub,
	}
}

// matchesFromRemote stamps every match with divisionID and teamID. A zero
// divisionID keeps the division reported by the entry itself.
func matchesFromRemote(entries []api.MatchEntry, divisionID int, teamID string) ([]domain.TeamMatch, error) {
	matches := make([]domain.TeamMatch, len(entries))
	for i, e := range entries {
		m, err := matchFromRemote(e, divisionID, teamID)
		if err != nil {
			return nil, err
		}
		matches[i] = m
	}
	return matches, nil
}

func matchFromRemote(e api.MatchEntry, divisionID int, teamID string) (domain.TeamMatch, error) {
	if divisionID == 0 {
		divisionID = e.DivisionID
	}

	m := domain.TeamMatch{
		MatchUniqueIndex: e.MatchUniqueID,
		DivisionID:       divisionID,
		MatchID:          e.MatchID,
		TeamID:           teamID,
		WeekName:         e.WeekName,
		Date:             e.Date,
		Time:             e.Time,
		Venue:            e.Venue,
		HomeClubID:       e.HomeClub,
		HomeTeam:         e.HomeTeam,
		AwayClubID:       e.AwayClub,
		AwayTeam:         e.AwayTeam,
		IsHomeForfeited:  e.IsHomeForfeited,
		IsAwayForfeited:  e.IsAwayForfeited,
		Score:            e.Score,
	}

	if e.MatchDetails != nil {
		details, err := detailsFromRemote(*e.MatchDetails)
		if err != nil {
			return m, api.Malformed(api.ActionGetMatches, err)
		}
		m.Details = details
	}
	return m, nil
}

func detailsFromRemote(d api.MatchDetails) (*domain.MatchDetails, error) {
	results := make([]domain.IndividualMatchResult, len(d.IndividualMatchResults))
	for i, r := range d.IndividualMatchResults {
		scores, err := domain.ParseSetScores(r.Scores)
		if err != nil {
			return nil, err
		}
		if scores == nil {
			scores = []domain.SetScore{}
		}

		results[i] = domain.IndividualMatchResult{
			Position:              r.Position,
			HomePlayerMatchIndex:  ints(r.HomePlayerMatchIndex),
			HomePlayerUniqueIndex: ints(r.HomePlayerUniqueIndex),
			IsHomeForfeited:       r.IsHomeForfeited,
			AwayPlayerMatchIndex:  ints(r.AwayPlayerMatchIndex),
			AwayPlayerUniqueIndex: ints(r.AwayPlayerUniqueIndex),
			IsAwayForfeited:       r.IsAwayForfeited,
			HomeSetCount:          r.HomeSetCount,
			AwaySetCount:          r.AwaySetCount,
			Scores:                scores,
		}
	}

	return &domain.MatchDetails{
		DetailsCreated:         d.DetailsCreated,
		HomeCaptain:            d.HomeCaptain,
		AwayCaptain:            d.AwayCaptain,
		Referee:                d.Referee,
		HomePlayers:            playersFromRemote(d.HomePlayers),
		AwayPlayers:            playersFromRemote(d.AwayPlayers),
		IndividualMatchResults: results,
		MatchSystem:            d.MatchSystem,
		HomeScore:              d.HomeScore,
		AwayScore:              d.AwayScore,
	}, nil
}

func playersFromRemote(p api.MatchPlayers) domain.MatchTeamPlayers {
	players := make([]domain.MatchPlayer, len(p.Players))
	for i, pl := range p.Players {
		players[i] = domain.MatchPlayer{
			Position:     pl.Position,
			UniqueIndex:  pl.UniqueIndex,
			FirstName:    pl.FirstName,
			LastName:     pl.LastName,
			Ranking:      pl.Ranking,
			VictoryCount: pl.VictoryCount,
		}
	}
	return domain.MatchTeamPlayers{
		PlayerCount:     p.PlayerCount,
		DoubleTeamCount: p.DoubleTeamCount,
		Players:         players,
	}
}

func ints(l api.IntList) []int {
	if l == nil {
		return []int{}
	}
	return []int(l)
}
