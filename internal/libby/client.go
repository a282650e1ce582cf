package libby

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"shelfsync/internal/creds"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:114.0) Gecko/20100101 Firefox/114.0"

// Production endpoints; tests point the client at httptest servers.
const (
	DefaultSentryBaseURL  = "https://sentry-read.svc.overdrive.com"
	DefaultThunderBaseURL = "https://thunder.api.overdrive.com"
	DefaultVandalBaseURL  = "https://vandal.svc.overdrive.com"
)

// Client is an authenticated Libby/OverDrive API client bound to one
// library card.
type Client struct {
	HTTP           *http.Client
	SentryBaseURL  string
	ThunderBaseURL string
	VandalBaseURL  string

	token        string
	cardID       string
	advantageKey string
}

// SearchOptions tunes one media search.
type SearchOptions struct {
	Type       BookType
	MaxResults int
}

// NewClient builds a client from the login artifact. Call ResolveCard
// before searching; tag operations only need the token and card id.
func NewClient(cfg creds.LibbyConfig) *Client {
	return &Client{
		HTTP:           &http.Client{Timeout: 30 * time.Second},
		SentryBaseURL:  DefaultSentryBaseURL,
		ThunderBaseURL: DefaultThunderBaseURL,
		VandalBaseURL:  DefaultVandalBaseURL,
		token:          cfg.BearerToken,
		cardID:         cfg.CardID,
	}
}

// CardID reports the card the client is bound to.
func (c *Client) CardID() string { return c.cardID }

// Cards lists the account's library cards via chip/sync.
func (c *Client) Cards(ctx context.Context) ([]Card, error) {
	var resp struct {
		Cards []Card `json:"cards"`
	}
	if err := c.getJSON(ctx, c.SentryBaseURL+"/chip/sync", &resp); err != nil {
		return nil, fmt.Errorf("card sync: %w", err)
	}
	return resp.Cards, nil
}

// ResolveCard looks the configured card up on the account and records
// its advantage key for media searches.
func (c *Client) ResolveCard(ctx context.Context) error {
	cards, err := c.Cards(ctx)
	if err != nil {
		return err
	}
	for _, card := range cards {
		if card.ID == c.cardID {
			c.advantageKey = card.AdvantageKey
			return nil
		}
	}
	return fmt.Errorf("%w: card %s", ErrCardNotFound, c.cardID)
}

// Search finds one acceptable result for the title. When a subtitled
// title yields nothing the part before the ':' is retried. Results whose
// creator does not fuzzily match any author are rejected.
func (c *Client) Search(ctx context.Context, opts SearchOptions, title string, authors []string) (SearchItem, error) {
	if c.advantageKey == "" {
		return SearchItem{}, fmt.Errorf("search %q: card not resolved", title)
	}

	items, err := c.searchOnce(ctx, opts, title)
	if err != nil {
		return SearchItem{}, err
	}
	if len(items) == 0 {
		if head, ok := trimSubtitle(title); ok {
			if items, err = c.searchOnce(ctx, opts, head); err != nil {
				return SearchItem{}, err
			}
		}
	}

	for _, item := range items {
		if authorMatches(authors, item.FirstCreatorName) {
			return item, nil
		}
	}
	return SearchItem{}, fmt.Errorf("%w: %q", ErrBookNotFound, title)
}

func (c *Client) searchOnce(ctx context.Context, opts SearchOptions, query string) ([]SearchItem, error) {
	perPage := opts.MaxResults
	if perPage <= 0 {
		perPage = 24
	}
	bookType := opts.Type
	if bookType == "" {
		bookType = Audiobook
	}

	params := url.Values{
		"query":       {query},
		"mediaTypes":  {string(bookType)},
		"perPage":     {fmt.Sprint(perPage)},
		"page":        {"1"},
		"x-client-id": {"dewey"},
	}
	endpoint := fmt.Sprintf("%s/v2/libraries/%s/media?%s", c.ThunderBaseURL, url.PathEscape(c.advantageKey), params.Encode())

	var resp struct {
		Items      []SearchItem `json:"items"`
		TotalItems int64        `json:"totalItems"`
	}
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return resp.Items, nil
}

// Formats lists the format ids a title is published in.
func (c *Client) Formats(ctx context.Context, titleID string) ([]string, error) {
	var resp struct {
		Formats []struct {
			ID string `json:"id"`
		} `json:"formats"`
	}
	if err := c.getJSON(ctx, c.ThunderBaseURL+"/v2/media/"+url.PathEscape(titleID), &resp); err != nil {
		return nil, fmt.Errorf("formats for %s: %w", titleID, err)
	}
	out := make([]string, 0, len(resp.Formats))
	for _, f := range resp.Formats {
		out = append(out, f.ID)
	}
	return out, nil
}

// TagByName finds an existing tag.
func (c *Client) TagByName(ctx context.Context, name string) (TagInfo, error) {
	var resp struct {
		Tags []struct {
			Name string `json:"name"`
			UUID string `json:"uuid"`
		} `json:"tags"`
	}
	if err := c.getJSON(ctx, c.VandalBaseURL+"/tags", &resp); err != nil {
		return TagInfo{}, fmt.Errorf("list tags: %w", err)
	}
	for _, tag := range resp.Tags {
		if tag.Name == name {
			return TagInfo{UUID: tag.UUID, Name: tag.Name}, nil
		}
	}
	return TagInfo{}, fmt.Errorf("%w: %q; create it in the Libby app first", ErrTagNotFound, name)
}

// BooksForTag lists the titles already tagged.
func (c *Client) BooksForTag(ctx context.Context, tag TagInfo) ([]TaggedBook, error) {
	endpoint := fmt.Sprintf("%s/tag/%s/%s?enc=1&sort=newest", c.VandalBaseURL, url.PathEscape(tag.UUID), encodeTagName(tag.Name))

	var resp struct {
		Tag struct {
			Taggings []struct {
				TitleID   string `json:"titleId"`
				SortTitle string `json:"sortTitle"`
			} `json:"taggings"`
		} `json:"tag"`
	}
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("read tag %q: %w", tag.Name, err)
	}

	out := make([]TaggedBook, 0, len(resp.Tag.Taggings))
	for _, t := range resp.Tag.Taggings {
		out = append(out, TaggedBook{TitleID: t.TitleID, SortTitle: t.SortTitle})
	}
	return out, nil
}

// TagTitle applies the tag to one title.
func (c *Client) TagTitle(ctx context.Context, tag TagInfo, titleID string) error {
	endpoint := fmt.Sprintf("%s/tag/%s/%s/tagging/%s?enc=1", c.VandalBaseURL, url.PathEscape(tag.UUID), encodeTagName(tag.Name), url.PathEscape(titleID))

	body := map[string]any{
		"tagging": map[string]any{
			"cardId":     c.cardID,
			"createTime": time.Now().Unix(),
			"titleId":    titleID,
			"websiteId":  "83",
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.decorate(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("tag %s: %w", titleID, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("tag %s: status %s: %s", titleID, resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	c.decorate(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", "https://libbyapp.com")
	req.Header.Set("Referer", "https://libbyapp.com")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
}
