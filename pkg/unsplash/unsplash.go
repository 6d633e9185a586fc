package unsplash

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const defaultBaseURL = "https://api.unsplash.com"

// ErrNoAccessKey is returned when the client was built without an access key.
// The handler surfaces this verbatim so the message doubles as the user-facing
// error body.
var ErrNoAccessKey = errors.New("Unsplash access key not found")

// ErrNoResults is returned when a search yields an empty result set.
var ErrNoResults = errors.New("no images found")

// Photo is the local projection of an Unsplash photo.
type Photo struct {
	UnsplashID  string   `json:"unsplashId"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Thumbnail   string   `json:"thumbnail"`
	Full        string   `json:"full"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// SearchResult is one page of search hits plus the upstream page count.
type SearchResult struct {
	TotalPages int
	Photos     []Photo
}

// Client talks to the Unsplash REST API with a Client-ID access key.
type Client struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an Unsplash client. httpClient may be nil, in which case
// http.DefaultClient is used.
func NewClient(accessKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		accessKey:  accessKey,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests to point the client at
// a local fake server.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// photoPayload mirrors the subset of the Unsplash photo schema this
// application reads.
type photoPayload struct {
	ID             string `json:"id"`
	AltDescription string `json:"alt_description"`
	Description    string `json:"description"`
	User           struct {
		Name string `json:"name"`
	} `json:"user"`
	URLs struct {
		Thumb string `json:"thumb"`
		Full  string `json:"full"`
	} `json:"urls"`
	Tags []struct {
		Title string `json:"title"`
	} `json:"tags"`
}

// toPhoto maps an upstream payload to the local projection, defaulting the
// title to "Untitled" and the description to "" when absent.
func (p *photoPayload) toPhoto() Photo {
	title := p.AltDescription
	if title == "" {
		title = "Untitled"
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Title)
	}
	return Photo{
		UnsplashID:  p.ID,
		Title:       title,
		Author:      p.User.Name,
		Thumbnail:   p.URLs.Thumb,
		Full:        p.URLs.Full,
		Description: p.Description,
		Tags:        tags,
	}
}

// SearchPhotos runs a free-text search against /search/photos.
func (c *Client) SearchPhotos(query string, page, perPage int) (*SearchResult, error) {
	if c.accessKey == "" {
		return nil, ErrNoAccessKey
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var payload struct {
		TotalPages int            `json:"total_pages"`
		Results    []photoPayload `json:"results"`
	}
	if err := c.get("/search/photos?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	if len(payload.Results) == 0 {
		return nil, ErrNoResults
	}

	photos := make([]Photo, 0, len(payload.Results))
	for i := range payload.Results {
		photos = append(photos, payload.Results[i].toPhoto())
	}
	return &SearchResult{TotalPages: payload.TotalPages, Photos: photos}, nil
}

// GetPhoto fetches the single-photo detail for the given Unsplash id.
func (c *Client) GetPhoto(unsplashID string) (*Photo, error) {
	if c.accessKey == "" {
		return nil, ErrNoAccessKey
	}

	var payload photoPayload
	if err := c.get("/photos/"+url.PathEscape(unsplashID), &payload); err != nil {
		return nil, err
	}

	photo := payload.toPhoto()
	return &photo, nil
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build Unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Unsplash request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Unsplash returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Unsplash response: %w", err)
	}
	return nil
}
