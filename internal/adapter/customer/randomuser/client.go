package randomuser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/simaogato/banktrack-backend/internal/domain"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// DefaultBaseURL is the public randomuser.me endpoint.
const DefaultBaseURL = "https://randomuser.me"

const requestTimeout = 10 * time.Second

// Client fetches a random customer profile from the randomuser.me API.
// It implements domain.CustomerProvider. Every failure mode (transport,
// non-2xx status, malformed body, empty results) comes back as a
// *domain.ProfileFetchError so callers can treat it as recoverable.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the given base URL; an empty string
// selects the public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// apiResponse mirrors the subset of the randomuser.me document the
// tracker needs.
type apiResponse struct {
	Results []apiUser `json:"results"`
}

type apiUser struct {
	Name struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"picture"`
	Phone    string `json:"phone"`
	Location struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
}

// Fetch performs a single GET and maps results[0] into a CustomerProfile.
func (c *Client) Fetch(ctx context.Context) (*domain.CustomerProfile, error) {
	url := fmt.Sprintf("%s/api/", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.ProfileFetchError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("error connecting to customer API")
		return nil, &domain.ProfileFetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ProfileFetchError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Error().Err(err).Msg("failed to decode customer API response")
		return nil, &domain.ProfileFetchError{Err: err}
	}
	if len(payload.Results) == 0 {
		return nil, &domain.ProfileFetchError{Err: fmt.Errorf("response contained no results")}
	}

	user := payload.Results[0]
	photo := user.Picture.Large
	if photo == "" {
		photo = user.Picture.Medium
	}

	return &domain.CustomerProfile{
		Name:     fmt.Sprintf("%s %s", user.Name.First, user.Name.Last),
		Email:    user.Email,
		Photo:    photo,
		Phone:    user.Phone,
		Location: fmt.Sprintf("%s, %s", user.Location.City, user.Location.Country),
	}, nil
}

var _ domain.CustomerProvider = (*Client)(nil)
