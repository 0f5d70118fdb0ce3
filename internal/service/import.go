package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"ttscore/internal/domain"
	"ttscore/internal/repository"
	"ttscore/internal/settings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrNoCurrentSeason = errors.New("no season is flagged current")

type ImportState int

const (
	NotStarted ImportState = iota
	ImportingSeasons
	ImportingClubs
	Complete
)

func (s ImportState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case ImportingSeasons:
		return "importing_seasons"
	case ImportingClubs:
		return "importing_clubs"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("ImportState(%d)", int(s))
	}
}

// ImportProgress is one step of the bootstrap import. SeasonID is set while
// clubs are imported.
type ImportProgress struct {
	State    ImportState
	Progress repository.Progress
	SeasonID int
}

// ImportService runs the one-time bootstrap: every season, then the clubs of
// the current season. Each finished phase is recorded in settings so later
// runs skip it.
type ImportService struct {
	seasons  *repository.SeasonRepository
	clubs    *repository.ClubRepository
	settings settings.Store
	logger   zerolog.Logger

	mu    sync.RWMutex
	state ImportState
}

func NewImportService(seasons *repository.SeasonRepository, clubs *repository.ClubRepository, store settings.Store, logger zerolog.Logger) *ImportService {
	s := &ImportService{
		seasons:  seasons,
		clubs:    clubs,
		settings: store,
		logger:   logger.With().Str("component", "import").Logger(),
	}
	if s.EverythingImported() {
		s.state = Complete
	}
	return s
}

func (s *ImportService) EverythingImported() bool {
	return s.settings.Bool(settings.KeySeasonsImported) && s.settings.Bool(settings.KeyClubsImported)
}

func (s *ImportService) State() ImportState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *ImportService) setState(state ImportState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// ImportAll yields progress for each saved entity and a final value in state
// Complete. On error the state falls back to NotStarted and the error is
// yielded once; flags of finished phases stay set.
func (s *ImportService) ImportAll(ctx context.Context) iter.Seq2[ImportProgress, error] {
	return func(yield func(ImportProgress, error) bool) {
		if s.EverythingImported() {
			s.setState(Complete)
			yield(ImportProgress{State: Complete, Progress: repository.Progress{Completed: true}}, nil)
			return
		}

		importID, err := gonanoid.New()
		if err != nil {
			yield(ImportProgress{State: s.State()}, fmt.Errorf("generate import id: %w", err))
			return
		}
		logger := s.logger.With().Str("import_id", importID).Logger()

		fail := func(err error) {
			logger.Error().Err(err).Stringer("state", s.State()).Msg("import failed")
			state := s.State()
			s.setState(NotStarted)
			yield(ImportProgress{State: state}, err)
		}

		var batch []domain.Season
		if !s.settings.Bool(settings.KeySeasonsImported) {
			s.setState(ImportingSeasons)
			logger.Info().Msg("importing seasons")

			completed := false
			for p, err := range s.seasons.ImportFromRemoteInto(ctx, &batch) {
				if err != nil {
					fail(err)
					return
				}
				completed = p.Completed
				if !yield(ImportProgress{State: ImportingSeasons, Progress: p}, nil) {
					return
				}
			}
			if !completed {
				return
			}

			if err := s.settings.SetBool(settings.KeySeasonsImported, true); err != nil {
				fail(fmt.Errorf("record seasons imported: %w", err))
				return
			}
		} else {
			batch, err = s.seasons.GetAll(ctx)
			if err != nil {
				fail(err)
				return
			}
		}

		current := repository.CurrentSeason(batch)
		if current == nil {
			fail(ErrNoCurrentSeason)
			return
		}
		if s.settings.Int(settings.KeySeasonID) == 0 {
			if err := s.settings.SetInt(settings.KeySeasonID, current.ID); err != nil {
				fail(fmt.Errorf("select current season: %w", err))
				return
			}
		}

		if !s.settings.Bool(settings.KeyClubsImported) {
			s.setState(ImportingClubs)
			logger.Info().Int("season_id", current.ID).Msg("importing clubs")

			completed := false
			for p, err := range s.clubs.ImportFromRemote(ctx, current.ID) {
				if err != nil {
					fail(err)
					return
				}
				completed = p.Completed
				if !yield(ImportProgress{State: ImportingClubs, Progress: p, SeasonID: current.ID}, nil) {
					return
				}
			}
			if !completed {
				return
			}

			if err := s.settings.SetBool(settings.KeyClubsImported, true); err != nil {
				fail(fmt.Errorf("record clubs imported: %w", err))
				return
			}
		}

		s.setState(Complete)
		logger.Info().Msg("bootstrap import complete")
		yield(ImportProgress{State: Complete, Progress: repository.Progress{Completed: true}, SeasonID: current.ID}, nil)
	}
}
