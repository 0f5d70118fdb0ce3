package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"
	"ttscore/internal/config"
	"ttscore/internal/constants"
	"ttscore/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const (
	ActionGetSeasons         = "GetSeasons"
	ActionGetClubs           = "GetClubs"
	ActionGetMembers         = "GetMembers"
	ActionGetClubTeams       = "GetClubTeams"
	ActionGetMatches         = "GetMatches"
	ActionGetDivisionRanking = "GetDivisionRanking"
)

// TabT is the remote federation API as used by the repositories.
type TabT interface {
	GetSeasons(ctx context.Context) (*SeasonsResponse, error)
	GetClubs(ctx context.Context, seasonID int) (ClubsResponse, error)
	GetMembers(ctx context.Context, q MembersQuery) (*MembersResponse, error)
	GetClubTeams(ctx context.Context, seasonID int, clubID string) (*ClubTeamsResponse, error)
	GetMatches(ctx context.Context, q MatchesQuery) (*MatchesResponse, error)
	GetDivisionRanking(ctx context.Context, divisionID int) (*DivisionRankingResponse, error)
}

type TabTClient struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

var _ TabT = (*TabTClient)(nil)

func NewTabTClient(cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) *TabTClient {
	timeout := cfg.TabTTimeout
	if timeout <= 0 {
		timeout = constants.ExternalAPITimeout
	}
	return &TabTClient{
		baseURL: cfg.TabTBaseURL,
		timeout: timeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     constants.TabTMaxConnsPerHost,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: constants.TabTMaxIdleConnDuration,
		},
		logger:  logger.With().Str("component", "tabt").Logger(),
		metrics: m,
	}
}

func (c *TabTClient) GetSeasons(ctx context.Context) (*SeasonsResponse, error) {
	return doRequest[SeasonsResponse](ctx, c, ActionGetSeasons, url.Values{})
}

func (c *TabTClient) GetClubs(ctx context.Context, seasonID int) (ClubsResponse, error) {
	params := url.Values{}
	params.Set("Season", strconv.Itoa(seasonID))

	resp, err := doRequest[ClubsResponse](ctx, c, ActionGetClubs, params)
	if err != nil {
		return nil, err
	}
	return *resp, nil
}

func (c *TabTClient) GetMembers(ctx context.Context, q MembersQuery) (*MembersResponse, error) {
	return doRequest[MembersResponse](ctx, c, ActionGetMembers, q.values())
}

func (c *TabTClient) GetClubTeams(ctx context.Context, seasonID int, clubID string) (*ClubTeamsResponse, error) {
	params := url.Values{}
	params.Set("Season", strconv.Itoa(seasonID))
	params.Set("Club", clubID)
	return doRequest[ClubTeamsResponse](ctx, c, ActionGetClubTeams, params)
}

func (c *TabTClient) GetMatches(ctx context.Context, q MatchesQuery) (*MatchesResponse, error) {
	return doRequest[MatchesResponse](ctx, c, ActionGetMatches, q.values())
}

func (c *TabTClient) GetDivisionRanking(ctx context.Context, divisionID int) (*DivisionRankingResponse, error) {
	params := url.Values{}
	params.Set("DivisionId", strconv.Itoa(divisionID))
	return doRequest[DivisionRankingResponse](ctx, c, ActionGetDivisionRanking, params)
}

func doRequest[T any](ctx context.Context, client *TabTClient, action string, params url.Values) (*T, error) {
	params.Set("action", action)
	uri := client.baseURL + "?" + params.Encode()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	client.logger.Debug().Str("action", action).Str("uri", uri).Msg("calling TabT")

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.client.DoDeadline(req, resp, deadline)
	} else {
		err = client.client.DoTimeout(req, resp, client.timeout)
	}
	if err != nil {
		client.metrics.RemoteRequest(action, 0)
		client.logger.Warn().Err(err).Str("action", action).Msg("TabT request failed")
		return nil, &RemoteFetchError{Action: action, Err: err}
	}

	status := resp.StatusCode()
	client.metrics.RemoteRequest(action, status)

	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		client.logger.Warn().Str("action", action).Int("status", status).Msg("TabT returned an error status")
		return nil, &RemoteFetchError{Action: action, StatusCode: status, Err: ErrUnexpectedStatus}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		client.logger.Warn().Err(err).Str("action", action).Msg("malformed TabT response")
		return nil, &RemoteFetchError{Action: action, StatusCode: status, Err: err}
	}
	return &result, nil
}
