// randomuser.me API [Source] implementation
//
// Documented at https://randomuser.me/documentation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/roster/internal/models"
	"github.com/desertthunder/roster/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultRandomUserBaseURL string = "https://randomuser.me"
	defaultRandomUserResults int    = 20
)

// RandomUserName is the name object in randomuser.me responses.
type RandomUserName struct {
	Title string `json:"title"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// RandomUserPicture holds the avatar URLs in randomuser.me responses.
type RandomUserPicture struct {
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Thumbnail string `json:"thumbnail"`
}

// RandomUserLogin holds the login block; only the UUID is used.
type RandomUserLogin struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
}

// RandomUser represents a single entry of the results array.
type RandomUser struct {
	Name    RandomUserName    `json:"name"`
	Email   string            `json:"email"`
	Picture RandomUserPicture `json:"picture"`
	Login   RandomUserLogin   `json:"login"`
}

type randomUserInfo struct {
	Seed    string `json:"seed"`
	Results int    `json:"results"`
	Page    int    `json:"page"`
	Version string `json:"version"`
}

type randomUserResponse struct {
	Results []RandomUser    `json:"results"`
	Info    *randomUserInfo `json:"info,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// RandomUserOpts configures a [RandomUserService].
type RandomUserOpts struct {
	BaseURL       string
	Results       int
	Seed          string
	Nationalities []string
	RateLimit     float64 // requests per second, zero disables pacing
	HTTPClient    *http.Client
}

// RandomUserService implements the [Source] interface for randomuser.me.
type RandomUserService struct {
	baseURL       string
	results       int
	seed          string
	nationalities []string
	httpClient    *http.Client
	limiter       *rate.Limiter
}

// NewRandomUserService creates a new randomuser.me source.
func NewRandomUserService(opts RandomUserOpts) *RandomUserService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultRandomUserBaseURL
	}
	if opts.Results <= 0 {
		opts.Results = defaultRandomUserResults
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &RandomUserService{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		results:       opts.Results,
		seed:          opts.Seed,
		nationalities: opts.Nationalities,
		httpClient:    opts.HTTPClient,
		limiter:       rate.NewLimiter(limit, 1),
	}
}

// Name returns the service name.
func (s *RandomUserService) Name() string {
	return "randomuser.me"
}

// Fetch retrieves one page of users and translates them into records in response order.
//
// Calls GET /api/?results={n}[&seed={seed}][&nat={nat}] on the configured base URL.
func (s *RandomUserService) Fetch(ctx context.Context) ([]models.Record, error) {
	var resp randomUserResponse
	if err := s.doRequest(ctx, s.endpoint(), &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: randomuser API error: %s", shared.ErrAPIRequest, resp.Error)
	}

	if resp.Results == nil {
		return nil, fmt.Errorf("%w: response has no results field", shared.ErrAPIRequest)
	}

	return toRecords(resp.Results), nil
}

func (s *RandomUserService) endpoint() string {
	params := url.Values{}
	params.Set("results", strconv.Itoa(s.results))
	if s.seed != "" {
		params.Set("seed", s.seed)
	}
	if len(s.nationalities) > 0 {
		params.Set("nat", strings.Join(s.nationalities, ","))
	}
	return "/api/?" + params.Encode()
}

func (s *RandomUserService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%w: randomuser API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("%w: randomuser API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}

	return nil
}

// toRecords maps API users to records, generating an ID for any user whose login UUID is missing, malformed or
// repeated. IDs end up in file names, so only canonical UUIDs are kept.
func toRecords(users []RandomUser) []models.Record {
	seen := make(map[string]struct{}, len(users))
	records := make([]models.Record, len(users))
	for i, u := range users {
		id := shared.GenerateID()
		if parsed, err := uuid.Parse(u.Login.UUID); err == nil {
			if _, dup := seen[parsed.String()]; !dup {
				id = parsed.String()
			}
		}
		seen[id] = struct{}{}

		records[i] = models.Record{
			ID:           id,
			FirstName:    u.Name.First,
			LastName:     u.Name.Last,
			Email:        u.Email,
			ThumbnailURL: u.Picture.Thumbnail,
		}
	}
	return records
}
