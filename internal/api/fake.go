package api

import (
	"context"
	"errors"
	"sync"
)

var errNotConfigured = errors.New("fake tabt: no function configured")

// FakeTabT is a TabT whose behaviour is set per method. Unset methods fail.
type FakeTabT struct {
	GetSeasonsFn         func(ctx context.Context) (*SeasonsResponse, error)
	GetClubsFn           func(ctx context.Context, seasonID int) (ClubsResponse, error)
	GetMembersFn         func(ctx context.Context, q MembersQuery) (*MembersResponse, error)
	GetClubTeamsFn       func(ctx context.Context, seasonID int, clubID string) (*ClubTeamsResponse, error)
	GetMatchesFn         func(ctx context.Context, q MatchesQuery) (*MatchesResponse, error)
	GetDivisionRankingFn func(ctx context.Context, divisionID int) (*DivisionRankingResponse, error)

	mu    sync.Mutex
	calls map[string]int
}

var _ TabT = (*FakeTabT)(nil)

// Calls reports how often an action was requested.
func (f *FakeTabT) Calls(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[action]
}

func (f *FakeTabT) record(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[action]++
}

func (f *FakeTabT) GetSeasons(ctx context.Context) (*SeasonsResponse, error) {
	f.record(ActionGetSeasons)
	if f.GetSeasonsFn != nil {
		return f.GetSeasonsFn(ctx)
	}
	return nil, &RemoteFetchError{Action: ActionGetSeasons, Err: errNotConfigured}
}

func (f *FakeTabT) GetClubs(ctx context.Context, seasonID int) (ClubsResponse, error) {
	f.record(ActionGetClubs)
	if f.GetClubsFn != nil {
		return f.GetClubsFn(ctx, seasonID)
	}
	return nil, &RemoteFetchError{Action: ActionGetClubs, Err: errNotConfigured}
}

func (f *FakeTabT) GetMembers(ctx context.Context, q MembersQuery) (*MembersResponse, error) {
	f.record(ActionGetMembers)
	if f.GetMembersFn != nil {
		return f.GetMembersFn(ctx, q)
	}
	return nil, &RemoteFetchError{Action: ActionGetMembers, Err: errNotConfigured}
}

func (f *FakeTabT) GetClubTeams(ctx context.Context, seasonID int, clubID string) (*ClubTeamsResponse, error) {
	f.record(ActionGetClubTeams)
	if f.GetClubTeamsFn != nil {
		return f.GetClubTeamsFn(ctx, seasonID, clubID)
	}
	return nil, &RemoteFetchError{Action: ActionGetClubTeams, Err: errNotConfigured}
}

func (f *FakeTabT) GetMatches(ctx context.Context, q MatchesQuery) (*MatchesResponse, error) {
	f.record(ActionGetMatches)
	if f.GetMatchesFn != nil {
		return f.GetMatchesFn(ctx, q)
	}
	return nil, &RemoteFetchError{Action: ActionGetMatches, Err: errNotConfigured}
}

func (f *FakeTabT) GetDivisionRanking(ctx context.Context, divisionID int) (*DivisionRankingResponse, error) {
	f.record(ActionGetDivisionRanking)
	if f.GetDivisionRankingFn != nil {
		return f.GetDivisionRankingFn(ctx, divisionID)
	}
	return nil, &RemoteFetchError{Action: ActionGetDivisionRanking, Err: errNotConfigured}
}
