package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"time"
	"ttscore/internal/api"
	"ttscore/internal/domain"
	"ttscore/internal/metrics"
	"ttscore/internal/middleware"
	"ttscore/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Server is the read-only JSON view of the local cache for a separate UI.
type Server struct {
	importer  *service.ImportService
	catalog   *service.CatalogService
	matches   *service.MatchService
	favorites *service.FavoritesService
	selection *service.SelectionService
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewServer(
	importer *service.ImportService,
	catalog *service.CatalogService,
	matches *service.MatchService,
	favorites *service.FavoritesService,
	selection *service.SelectionService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Server {
	return &Server{
		importer:  importer,
		catalog:   catalog,
		matches:   matches,
		favorites: favorites,
		selection: selection,
		metrics:   m,
		logger:    logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/import", s.getImport)
		r.Get("/selection", s.getSelection)
		r.Get("/favorites", s.getFavorites)

		r.Get("/seasons", s.getSeasons)
		r.Get("/seasons/{seasonID}/clubs", s.getClubs)
		r.Get("/seasons/{seasonID}/clubs/{clubID}/members", s.getMembers)
		r.Get("/seasons/{seasonID}/clubs/{clubID}/teams", s.getTeams)
		r.Get("/seasons/{seasonID}/members/{uniqueIndex}", s.getMember)
		r.Get("/seasons/{seasonID}/divisions/{divisionID}/matches/{matchUniqueID}", s.getMatchDetails)

		r.Get("/clubs/{clubID}/weeks", s.getClubWeeks)
		r.Get("/teams/{teamID}/matches", s.getTeamMatches)
		r.Get("/divisions/{divisionID}/matches", s.getDivisionMatches)
		r.Get("/divisions/{divisionID}/ranking", s.getRanking)
	})

	return r
}

func (s *Server) getImport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":              s.importer.State().String(),
		"everythingImported": s.importer.EverythingImported(),
	})
}

func (s *Server) getSelection(w http.ResponseWriter, r *http.Request) {
	resolved, err := s.selection.Resolve(r.Context())
	s.respond(w, r, resolved, err)
}

func (s *Server) getFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.favorites.ListResolved(r.Context())
	s.respond(w, r, favorites, err)
}

func (s *Server) getSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.catalog.Seasons(r.Context(), refresh(r))
	s.respond(w, r, seasons, err)
}

func (s *Server) getClubs(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := intParam(w, r, "seasonID")
	if !ok {
		return
	}
	clubs, err := s.catalog.Clubs(r.Context(), seasonID, refresh(r))
	s.respond(w, r, clubs, err)
}

func (s *Server) getMembers(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := intParam(w, r, "seasonID")
	if !ok {
		return
	}
	members, err := s.catalog.Members(r.Context(), chi.URLParam(r, "clubID"), seasonID, refresh(r))
	s.respond(w, r, members, err)
}

func (s *Server) getTeams(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := intParam(w, r, "seasonID")
	if !ok {
		return
	}
	teams, err := s.catalog.Teams(r.Context(), chi.URLParam(r, "clubID"), seasonID, refresh(r))
	s.respond(w, r, teams, err)
}

type memberResult struct {
	Date     string `json:"date"`
	Opponent string `json:"opponent"`
	Ranking  string `json:"ranking"`
	Victory  bool   `json:"victory"`
	Result   string `json:"result"`
}

type memberView struct {
	Member  *domain.ClubMember `json:"member"`
	Results []memberResult     `json:"results"`
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := intParam(w, r, "seasonID")
	if !ok {
		return
	}
	uniqueIndex, ok := intParam(w, r, "uniqueIndex")
	if !ok {
		return
	}

	member, err := s.catalog.Member(r.Context(), uniqueIndex, seasonID)
	if err != nil || member == nil {
		s.respond(w, r, member, err)
		return
	}

	results := make([]memberResult, len(member.ResultEntries))
	for i, e := range member.ResultEntries {
		results[i] = memberResult{
			Date:     e.Date,
			Opponent: e.OpponentName(),
			Ranking:  e.OpponentRanking,
			Victory:  e.IsVictory(),
			Result:   e.Result(),
		}
	}
	s.respond(w, r, memberView{Member: member, Results: results}, nil)
}

func (s *Server) getMatchDetails(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := intParam(w, r, "seasonID")
	if !ok {
		return
	}
	divisionID, ok := intParam(w, r, "divisionID")
	if !ok {
		return
	}
	matchUniqueID, ok := intParam(w, r, "matchUniqueID")
	if !ok {
		return
	}

	view, err := s.matches.Details(r.Context(), matchUniqueID, divisionID, seasonID)
	s.respond(w, r, view, err)
}

func (s *Server) getClubWeeks(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "day must be formatted yyyy-mm-dd")
			return
		}
		day = parsed
	}

	weeks, err := s.matches.ClubWeeks(r.Context(), chi.URLParam(r, "clubID"), day)
	s.respond(w, r, weeks, err)
}

func (s *Server) getTeamMatches(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.matches.TeamMatches(r.Context(), chi.URLParam(r, "teamID"), refresh(r))
	s.respond(w, r, weeks, err)
}

func (s *Server) getDivisionMatches(w http.ResponseWriter, r *http.Request) {
	divisionID, ok := intParam(w, r, "divisionID")
	if !ok {
		return
	}
	weeks, err := s.matches.DivisionMatches(r.Context(), divisionID, refresh(r))
	s.respond(w, r, weeks, err)
}

func (s *Server) getRanking(w http.ResponseWriter, r *http.Request) {
	divisionID, ok := intParam(w, r, "divisionID")
	if !ok {
		return
	}
	ranking, err := s.catalog.Ranking(r.Context(), divisionID, refresh(r))
	s.respond(w, r, ranking, err)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, body any, err error) {
	if err != nil {
		status := statusFor(err)
		zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("request failed")
		writeError(w, status, err.Error())
		return
	}
	if isNil(body) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func statusFor(err error) int {
	switch {
	case api.IsRemoteFetchError(err):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrUnknownTeam):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidSelection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isNil(body any) bool {
	if body == nil {
		return true
	}
	v := reflect.ValueOf(body)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func refresh(r *http.Request) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return b
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
