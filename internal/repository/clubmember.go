package repository

import (
	"context"
	"iter"
	"ttscore/internal/api"
	"ttscore/internal/database"
	"ttscore/internal/domain"
	"ttscore/internal/metrics"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
)

type ClubMemberRepository struct {
	table  *Table[domain.ClubMember]
	remote api.TabT
	logger zerolog.Logger
}

func NewClubMemberRepository(db *database.DB, remote api.TabT, m *metrics.Metrics, logger zerolog.Logger) *ClubMemberRepository {
	table := &Table[domain.ClubMember]{
		Name:       "clubmembers",
		Columns:    []string{"position", "uniqueIndex", "rankingIndex", "firstName", "lastName", "ranking", "seasonId", "clubId"},
		KeyColumns: []string{"uniqueIndex", "seasonId"},
		Scan: func(row database.Row) domain.ClubMember {
			return domain.ClubMember{
				Position:     row.Int(0),
				UniqueIndex:  row.Int(1),
				RankingIndex: row.Int(2),
				FirstName:    row.String(3),
				LastName:     row.String(4),
				Ranking:      row.String(5),
				SeasonID:     row.Int(6),
				ClubID:       row.String(7),
			}
		},
		Values: func(m domain.ClubMember) []any {
			return []any{m.Position, m.UniqueIndex, m.RankingIndex, m.FirstName, m.LastName, m.Ranking, m.SeasonID, m.ClubID}
		},
		Key: func(m domain.ClubMember) []any {
			return []any{m.UniqueIndex, m.SeasonID}
		},
	}

	return &ClubMemberRepository{
		table:  table.bind(db, m, logger),
		remote: remote,
		logger: logger,
	}
}

func (r *ClubMemberRepository) Get(ctx context.Context, uniqueIndex, seasonID int) (*domain.ClubMember, error) {
	return r.table.Get(ctx, uniqueIndex, seasonID)
}

func (r *ClubMemberRepository) GetAllByClub(ctx context.Context, clubID string, seasonID int) ([]domain.ClubMember, error) {
	return r.table.List(ctx, Where(sq.Eq{"clubId": clubID, "seasonId": seasonID}), OrderBy("position"))
}

func (r *ClubMemberRepository) Save(ctx context.Context, member domain.ClubMember) (domain.ClubMember, error) {
	return member, r.table.Save(ctx, member)
}

func (r *ClubMemberRepository) FetchFromRemote(ctx context.Context, clubID string, seasonID int) ([]domain.ClubMember, error) {
	resp, err := r.remote.GetMembers(ctx, api.MembersQuery{SeasonID: seasonID, ClubID: clubID})
	if err != nil {
		return nil, err
	}

	members := make([]domain.ClubMember, len(resp.MemberEntries))
	for i, entry := range resp.MemberEntries {
		members[i] = memberFromRemote(entry, clubID, seasonID)
	}
	return members, nil
}

func (r *ClubMemberRepository) ImportFromRemote(ctx context.Context, clubID string, seasonID int) iter.Seq2[Progress, error] {
	r.logger.Info().Str("club_id", clubID).Int("season_id", seasonID).Msg("importing club members")
	return r.table.Import(ctx, func(ctx context.Context) ([]domain.ClubMember, error) {
		return r.FetchFromRemote(ctx, clubID, seasonID)
	})
}

// FetchWithResults loads one member with individual results. It never
// touches the local store and returns nil when the member is unknown.
func (r *ClubMemberRepository) FetchWithResults(ctx context.Context, uniqueIndex, seasonID int) (*domain.ClubMember, error) {
	resp, err := r.remote.GetMembers(ctx, api.MembersQuery{SeasonID: seasonID, UniqueIndex: uniqueIndex, WithResults: true})
	if err != nil {
		return nil, err
	}
	if len(resp.MemberEntries) == 0 {
		return nil, nil
	}

	member := memberFromRemote(resp.MemberEntries[0], "", seasonID)
	return &member, nil
}
