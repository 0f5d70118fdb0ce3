package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
	"ttscore/internal/api"
	"ttscore/internal/database"
	"ttscore/internal/domain"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *database.DB {
	t.Helper()
	db := database.Open(filepath.Join(t.TempDir(), "ttscore.db"), zerolog.Nop())
	t.Cleanup(func() { db.Close() })

	_, _, err := database.NewMigrator(db, zerolog.Nop()).Migrate(context.Background())
	require.NoError(t, err)
	return db
}

func collect(t *testing.T, seq func(func(Progress, error) bool)) ([]Progress, error) {
	t.Helper()
	var all []Progress
	for p, err := range seq {
		if err != nil {
			return all, err
		}
		all = append(all, p)
	}
	return all, nil
}

func TestClubUpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewClubRepository(newTestStore(t), &api.FakeTabT{}, nil, zerolog.Nop())
	faker := gofakeit.New(42)

	for i := 0; i < 20; i++ {
		club := domain.Club{
			UniqueID:   faker.LetterN(1) + faker.DigitN(3),
			SeasonID:   faker.Number(1, 30),
			Name:       faker.Company(),
			LongName:   faker.Company() + " " + faker.City(),
			CategoryID: faker.Number(1, 12),
		}

		_, err := repo.Save(ctx, club)
		require.NoError(t, err)

		got, err := repo.Get(ctx, club.UniqueID, club.SeasonID)
		require.NoError(t, err)
		require.NotNil(t, got)
		if diff := cmp.Diff(club, *got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("club mismatch (-want +got):\n%s", diff)
		}

		club.Name = faker.Company()
		_, err = repo.Save(ctx, club)
		require.NoError(t, err)

		all, err := repo.GetAllBySeason(ctx, club.SeasonID)
		require.NoError(t, err)
		matching := 0
		for _, c := range all {
			if c.UniqueID == club.UniqueID {
				matching++
				assert.Equal(t, club.Name, c.Name)
			}
		}
		assert.Equal(t, 1, matching)
	}
}

func TestGetWithAbsentKeyDoesNotQuery(t *testing.T) {
	db := database.Open(filepath.Join(t.TempDir(), "unused.db"), zerolog.Nop())
	t.Cleanup(func() { db.Close() })

	clubs := NewClubRepository(db, &api.FakeTabT{}, nil, zerolog.Nop())
	teams := NewTeamRepository(db, &api.FakeTabT{}, nil, zerolog.Nop())

	club, err := clubs.Get(context.Background(), "", 20)
	require.NoError(t, err)
	assert.Nil(t, club)

	team, err := teams.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, team)

	assert.False(t, db.IsConnected())
}

func TestImportCompletesWithMatchingTotals(t *testing.T) {
	ctx := context.Background()
	remote := &api.FakeTabT{
		GetDivisionRankingFn: func(ctx context.Context, divisionID int) (*api.DivisionRankingResponse, error) {
			entries := make([]api.RankingEntry, 12)
			for i := range entries {
				entries[i] = api.RankingEntry{Position: i + 1, Team: "Team", Points: 30 - i}
			}
			return &api.DivisionRankingResponse{RankingEntries: entries}, nil
		},
	}
	repo := NewDivisionRankingRepository(newTestStore(t), remote, nil, zerolog.Nop())

	progress, err := collect(t, repo.ImportFromRemote(ctx, 4321))
	require.NoError(t, err)
	require.Len(t, progress, 12)

	last := progress[len(progress)-1]
	assert.Equal(t, Progress{Imported: 12, Total: 12, Completed: true}, last)
	for _, p := range progress[:len(progress)-1] {
		assert.False(t, p.Completed)
	}

	rankings, err := repo.GetAllByDivision(ctx, 4321)
	require.NoError(t, err)
	require.Len(t, rankings, 12)
	assert.Equal(t, 1, rankings[0].Position)
	assert.Equal(t, 4321, rankings[0].DivisionID)
}

func TestImportEmptyFetchCompletesOnce(t *testing.T) {
	remote := &api.FakeTabT{
		GetClubTeamsFn: func(ctx context.Context, seasonID int, clubID string) (*api.ClubTeamsResponse, error) {
			return &api.ClubTeamsResponse{}, nil
		},
	}
	repo := NewTeamRepository(newTestStore(t), remote, nil, zerolog.Nop())

	progress, err := collect(t, repo.ImportFromRemote(context.Background(), "A123", 20))
	require.NoError(t, err)
	assert.Equal(t, []Progress{{Imported: 0, Total: 0, Completed: true}}, progress)
}

func TestImportFetchErrorIsYielded(t *testing.T) {
	remote := &api.FakeTabT{}
	repo := NewClubRepository(newTestStore(t), remote, nil, zerolog.Nop())

	progress, err := collect(t, repo.ImportFromRemote(context.Background(), 20))
	require.Error(t, err)
	assert.True(t, api.IsRemoteFetchError(err))
	assert.Empty(t, progress)
}

func TestImportStopsAfterSaveError(t *testing.T) {
	boom := errors.New("boom")
	var saved atomic.Int32

	seq := Import(context.Background(),
		func(context.Context) ([]int, error) { return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, nil },
		func(ctx context.Context, n int) error {
			if n == 3 {
				return boom
			}
			saved.Add(1)
			return nil
		},
	)

	_, err := Drain(seq)
	require.ErrorIs(t, err, boom)
}

func TestImportConsumerCanStopEarly(t *testing.T) {
	seq := Import(context.Background(),
		func(context.Context) ([]int, error) { return make([]int, 50), nil },
		func(ctx context.Context, n int) error { return nil },
	)

	seen := 0
	for _, err := range seq {
		require.NoError(t, err)
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}

func TestSeasonCacheInvalidatedOnSave(t *testing.T) {
	ctx := context.Background()
	repo := NewSeasonRepository(newTestStore(t), &api.FakeTabT{}, nil, zerolog.Nop())

	_, err := repo.Save(ctx, domain.Season{ID: 19, Name: "2018-2019"})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = repo.Save(ctx, domain.Season{ID: 20, Name: "2019-2020", IsCurrent: true})
	require.NoError(t, err)

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	current, err := repo.GetCurrent(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 20, current.ID)
}

func TestSeasonImportKeepsBatch(t *testing.T) {
	remote := &api.FakeTabT{
		GetSeasonsFn: func(ctx context.Context) (*api.SeasonsResponse, error) {
			return &api.SeasonsResponse{SeasonEntries: []api.SeasonEntry{
				{Season: 19, Name: "2018-2019"},
				{Season: 20, Name: "2019-2020", IsCurrent: true},
			}}, nil
		},
	}
	repo := NewSeasonRepository(newTestStore(t), remote, nil, zerolog.Nop())

	var batch []domain.Season
	last, err := Drain(repo.ImportFromRemoteInto(context.Background(), &batch))
	require.NoError(t, err)

	assert.True(t, last.Completed)
	require.Len(t, batch, 2)
	require.NotNil(t, CurrentSeason(batch))
	assert.Equal(t, "2019-2020", CurrentSeason(batch).Name)
}

func TestClubFetchDefaultsVenues(t *testing.T) {
	remote := &api.FakeTabT{
		GetClubsFn: func(ctx context.Context, seasonID int) (api.ClubsResponse, error) {
			return api.ClubsResponse{
				{UniqueIndex: "A123", Name: "TTC A", CategoryName: "Antwerpen"},
				{UniqueIndex: "B456", Name: "TTC B", VenueEntries: []api.VenueEntry{{ID: 1, Name: "Sporthal"}}},
			}, nil
		},
	}
	repo := NewClubRepository(newTestStore(t), remote, nil, zerolog.Nop())

	clubs, err := repo.FetchFromRemote(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, clubs, 2)

	assert.NotNil(t, clubs[0].Venues)
	assert.Empty(t, clubs[0].Venues)
	assert.Equal(t, "Antwerpen", clubs[0].CategoryName)
	assert.Equal(t, 20, clubs[0].SeasonID)
	assert.Equal(t, "Sporthal", clubs[1].Venues[0].Name)
}

func TestMemberFetchWithResults(t *testing.T) {
	three, one := 3, 1
	remote := &api.FakeTabT{
		GetMembersFn: func(ctx context.Context, q api.MembersQuery) (*api.MembersResponse, error) {
			if !q.WithResults {
				return nil, errors.New("expected WithResults")
			}
			return &api.MembersResponse{MemberEntries: []api.MemberEntry{{
				UniqueIndex: q.UniqueIndex,
				FirstName:   "Jan",
				LastName:    "Peeters",
				ResultEntries: []api.ResultEntry{
					{Result: "V", SetFor: &one, SetAgainst: &three},
					{Result: "D"},
				},
			}}}, nil
		},
	}
	repo := NewClubMemberRepository(newTestStore(t), remote, nil, zerolog.Nop())

	member, err := repo.FetchWithResults(context.Background(), 501234, 20)
	require.NoError(t, err)
	require.NotNil(t, member)

	assert.Equal(t, "Jan Peeters", member.String())
	require.Len(t, member.ResultEntries, 2)
	assert.Equal(t, "3-1", member.ResultEntries[0].Result())
	assert.Equal(t, domain.NoSets, member.ResultEntries[1].SetsFor)
	assert.Empty(t, member.ResultEntries[1].Result())
}

func TestMembersImportAndOrder(t *testing.T) {
	ctx := context.Background()
	remote := &api.FakeTabT{
		GetMembersFn: func(ctx context.Context, q api.MembersQuery) (*api.MembersResponse, error) {
			return &api.MembersResponse{MemberEntries: []api.MemberEntry{
				{Position: 2, UniqueIndex: 200, FirstName: "B"},
				{Position: 1, UniqueIndex: 100, FirstName: "A"},
			}}, nil
		},
	}
	repo := NewClubMemberRepository(newTestStore(t), remote, nil, zerolog.Nop())

	_, err := Drain(repo.ImportFromRemote(ctx, "A123", 20))
	require.NoError(t, err)

	members, err := repo.GetAllByClub(ctx, "A123", 20)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "A", members[0].FirstName)
	assert.Equal(t, "A123", members[0].ClubID)
}

func TestTeamMatchesTeamAndDivisionCopies(t *testing.T) {
	ctx := context.Background()
	entries := []api.MatchEntry{
		{MatchID: "PBH01/002", WeekName: "02", Date: "2026-10-17", HomeTeam: "A", AwayTeam: "B", MatchUniqueID: 12},
		{MatchID: "PBH01/001", WeekName: "01", Date: "2026-10-10", HomeTeam: "C", AwayTeam: "A", MatchUniqueID: 11},
	}
	var queries []api.MatchesQuery
	remote := &api.FakeTabT{
		GetMatchesFn: func(ctx context.Context, q api.MatchesQuery) (*api.MatchesResponse, error) {
			queries = append(queries, q)
			return &api.MatchesResponse{TeamMatchesEntries: entries}, nil
		},
	}
	repo := NewTeamMatchRepository(newTestStore(t), remote, nil, zerolog.Nop())
	team := domain.Team{TeamID: "1234-5", Team: "A", DivisionID: 4321, ClubID: "A123", SeasonID: 20}

	_, err := Drain(repo.ImportForTeam(ctx, team))
	require.NoError(t, err)
	_, err = Drain(repo.ImportForDivision(ctx, 4321))
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Equal(t, api.MatchesQuery{ClubID: "A123", Team: "A", DivisionID: 4321}, queries[0])
	assert.Equal(t, api.MatchesQuery{DivisionID: 4321}, queries[1])

	byTeam, err := repo.GetAllByTeam(ctx, "1234-5")
	require.NoError(t, err)
	require.Len(t, byTeam, 2)
	assert.Equal(t, "01", byTeam[0].WeekName)
	assert.Equal(t, 11, byTeam[0].MatchUniqueIndex)

	byDivision, err := repo.GetAllByDivision(ctx, 4321)
	require.NoError(t, err)
	require.Len(t, byDivision, 2)
	assert.Empty(t, byDivision[0].TeamID)

	divisionCopy, err := repo.Get(ctx, "PBH01/001", 4321, "")
	require.NoError(t, err)
	require.NotNil(t, divisionCopy)
	assert.Equal(t, "C", divisionCopy.HomeTeam)
}

func TestFetchClubMatchesInWeekUsesWeekBounds(t *testing.T) {
	var got api.MatchesQuery
	remote := &api.FakeTabT{
		GetMatchesFn: func(ctx context.Context, q api.MatchesQuery) (*api.MatchesResponse, error) {
			got = q
			return &api.MatchesResponse{TeamMatchesEntries: []api.MatchEntry{{MatchID: "x", DivisionID: 99}}}, nil
		},
	}
	repo := NewTeamMatchRepository(newTestStore(t), remote, nil, zerolog.Nop())

	matches, err := repo.FetchClubMatchesInWeek(context.Background(), "A123", time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, api.MatchesQuery{ClubID: "A123", DateFrom: "2026-10-12", DateTo: "2026-10-18"}, got)
	require.Len(t, matches, 1)
	assert.Equal(t, 99, matches[0].DivisionID)
}

func TestFetchDetailsDecodesScores(t *testing.T) {
	remote := &api.FakeTabT{
		GetMatchesFn: func(ctx context.Context, q api.MatchesQuery) (*api.MatchesResponse, error) {
			return &api.MatchesResponse{TeamMatchesEntries: []api.MatchEntry{{
				MatchID:       "PBH01/001",
				MatchUniqueID: q.MatchUniqueID,
				MatchDetails: &api.MatchDetails{
					DetailsCreated: true,
					HomePlayers:    api.MatchPlayers{Players: []api.MatchPlayer{{Position: 1, FirstName: "Jan"}}},
					IndividualMatchResults: []api.IndividualMatchResult{
						{Position: 1, HomePlayerMatchIndex: api.IntList{1}, Scores: "1|9,-1|12", HomeSetCount: 1, AwaySetCount: 1},
					},
				},
			}}}, nil
		},
	}
	repo := NewTeamMatchRepository(newTestStore(t), remote, nil, zerolog.Nop())

	match, err := repo.FetchDetails(context.Background(), 77, 4321, 20)
	require.NoError(t, err)
	require.NotNil(t, match)
	require.NotNil(t, match.Details)

	result := match.Details.IndividualMatchResults[0]
	assert.Equal(t, []string{"11-9", "12-14"}, result.ScoreLines())
	assert.Equal(t, []int{}, result.AwayPlayerMatchIndex)
	assert.Equal(t, 4321, match.DivisionID)
}

func TestFetchDetailsMalformedScores(t *testing.T) {
	remote := &api.FakeTabT{
		GetMatchesFn: func(ctx context.Context, q api.MatchesQuery) (*api.MatchesResponse, error) {
			return &api.MatchesResponse{TeamMatchesEntries: []api.MatchEntry{{
				MatchDetails: &api.MatchDetails{IndividualMatchResults: []api.IndividualMatchResult{{Scores: "1|x"}}},
			}}}, nil
		},
	}
	repo := NewTeamMatchRepository(newTestStore(t), remote, nil, zerolog.Nop())

	_, err := repo.FetchDetails(context.Background(), 77, 4321, 20)
	require.Error(t, err)
	assert.True(t, api.IsRemoteFetchError(err))
}

func TestFavoritesUpsertAndRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoriteRepository(newTestStore(t), nil, zerolog.Nop())

	_, err := repo.Add(ctx, domain.Favorite{SeasonID: 19, ClubID: "A123", TeamID: "t1"})
	require.NoError(t, err)
	_, err = repo.Add(ctx, domain.Favorite{SeasonID: 20, ClubID: "A123", TeamID: "t1"})
	require.NoError(t, err)
	_, err = repo.Add(ctx, domain.Favorite{SeasonID: 20, ClubID: "B456", TeamID: "t2"})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 20, all[0].SeasonID)

	removed, err := repo.Remove(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, removed)

	exists, err := repo.Exists(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, exists)

	removed, err = repo.Remove(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, removed)
}
