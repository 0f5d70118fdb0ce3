package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
	"ttscore/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *TabTClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{TabTBaseURL: srv.URL + "/ttscore.php", TabTTimeout: 2 * time.Second}
	return NewTabTClient(cfg, zerolog.Nop(), nil)
}

func TestGetSeasonsSendsAction(t *testing.T) {
	var got url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"CurrentSeason":20,"SeasonEntries":[{"Season":19,"Name":"2018-2019","IsCurrent":false},{"Season":20,"Name":"2019-2020","IsCurrent":true}]}`))
	})

	resp, err := client.GetSeasons(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionGetSeasons, got.Get("action"))
	require.Len(t, resp.SeasonEntries, 2)
	assert.True(t, resp.SeasonEntries[1].IsCurrent)
}

func TestGetClubsDecodesBareArray(t *testing.T) {
	var got url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`[{"UniqueIndex":"A123","Name":"TTC A","LongName":"Tafeltennisclub A","Category":4,"CategoryName":"Antwerpen"}]`))
	})

	clubs, err := client.GetClubs(context.Background(), 20)
	require.NoError(t, err)

	assert.Equal(t, "20", got.Get("Season"))
	require.Len(t, clubs, 1)
	assert.Equal(t, "A123", clubs[0].UniqueIndex)
	assert.Nil(t, clubs[0].VenueEntries)
}

func TestGetMatchesQueryForms(t *testing.T) {
	tests := []struct {
		name  string
		query MatchesQuery
		want  map[string]string
	}{
		{
			name:  "team",
			query: MatchesQuery{ClubID: "A123", Team: "B", DivisionID: 4321},
			want:  map[string]string{"Club": "A123", "Team": "B", "DivisionId": "4321"},
		},
		{
			name:  "division",
			query: MatchesQuery{DivisionID: 4321},
			want:  map[string]string{"DivisionId": "4321"},
		},
		{
			name:  "club week",
			query: MatchesQuery{ClubID: "A123", DateFrom: "2026-10-12", DateTo: "2026-10-18"},
			want:  map[string]string{"Club": "A123", "YearDateFrom": "2026-10-12", "YearDateTo": "2026-10-18"},
		},
		{
			name:  "details",
			query: MatchesQuery{MatchUniqueID: 99, WithDetails: true, SeasonID: 20},
			want:  map[string]string{"MatchUniqueId": "99", "WithDetails": "true", "Season": "20"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got url.Values
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query()
				_, _ = w.Write([]byte(`{"MatchCount":0,"TeamMatchesEntries":[]}`))
			})

			_, err := client.GetMatches(context.Background(), tt.query)
			require.NoError(t, err)

			assert.Equal(t, ActionGetMatches, got.Get("action"))
			assert.Len(t, got, len(tt.want)+1)
			for k, v := range tt.want {
				assert.Equal(t, v, got.Get(k), k)
			}
		})
	}
}

func TestNonSuccessStatusIsRemoteFetchError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetDivisionRanking(context.Background(), 1)
	require.Error(t, err)

	var re *RemoteFetchError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ActionGetDivisionRanking, re.Action)
	assert.Equal(t, http.StatusBadGateway, re.StatusCode)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestMalformedBodyIsRemoteFetchError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"TeamEntries": "nope"`))
	})

	_, err := client.GetClubTeams(context.Background(), 20, "A123")
	require.Error(t, err)
	assert.True(t, IsRemoteFetchError(err))
}

func TestUnreachableServerIsRemoteFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewTabTClient(&config.Config{TabTBaseURL: base, TabTTimeout: time.Second}, zerolog.Nop(), nil)
	_, err := client.GetSeasons(context.Background())
	require.Error(t, err)

	var re *RemoteFetchError
	require.ErrorAs(t, err, &re)
	assert.Zero(t, re.StatusCode)
}

func TestIntListAcceptsNumberOrArray(t *testing.T) {
	var r IndividualMatchResult
	require.NoError(t, json.Unmarshal([]byte(`{"HomePlayerMatchIndex":2,"AwayPlayerMatchIndex":[1,3],"HomePlayerUniqueIndex":null}`), &r))

	assert.Equal(t, IntList{2}, r.HomePlayerMatchIndex)
	assert.Equal(t, IntList{1, 3}, r.AwayPlayerMatchIndex)
	assert.Nil(t, r.HomePlayerUniqueIndex)
	assert.Nil(t, r.AwayPlayerUniqueIndex)

	assert.Error(t, json.Unmarshal([]byte(`{"HomePlayerMatchIndex":"x"}`), &r))
}

func TestMembersQueryWithResults(t *testing.T) {
	var got url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"MemberEntries":[{"UniqueIndex":5,"ResultEntries":[{"Result":"V","SetFor":3}]}]}`))
	})

	resp, err := client.GetMembers(context.Background(), MembersQuery{SeasonID: 20, UniqueIndex: 5, WithResults: true})
	require.NoError(t, err)

	assert.Equal(t, "true", got.Get("WithResults"))
	assert.Equal(t, "5", got.Get("UniqueIndex"))
	assert.Empty(t, got.Get("Club"))

	entry := resp.MemberEntries[0].ResultEntries[0]
	require.NotNil(t, entry.SetFor)
	assert.Equal(t, 3, *entry.SetFor)
	assert.Nil(t, entry.SetAgainst)
}
