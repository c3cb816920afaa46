package newswire

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"BullBearPK/internal/domain/models"
	drepo "BullBearPK/internal/domain/repository"
	svccache "BullBearPK/internal/service/cache"
	"BullBearPK/internal/service/ratelimit"
	pkghttp "BullBearPK/pkg/http"
	applogger "BullBearPK/pkg/logger"
)

const (
	rateKey       = "newswire"
	cacheTTL      = 10 * time.Minute
	rateCapacity  = 5
	ratePerSecond = 1
)

// Client fetches recent headlines from the news provider. Responses are
// cached per symbol; fetches are rate limited so scraping never hammers the
// provider during a fan-out.
type Client struct {
	http    *pkghttp.Client
	baseURL string
	apiKey  string
	limiter *ratelimit.Limiter
	cache   svccache.BytesCache
	log     *applogger.Logger
}

func New(httpClient *pkghttp.Client, baseURL, apiKey string, limiter *ratelimit.Limiter, cache svccache.BytesCache, log *applogger.Logger) drepo.NewsSource {
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: limiter,
		cache:   cache,
		log:     log,
	}
}

type wireArticle struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Source      string `json:"source"`
	PublishedAt int64  `json:"published_at"` // unix seconds
}

type wireResponse struct {
	Symbol   string        `json:"symbol"`
	Articles []wireArticle `json:"articles"`
}

// Recent returns up to limit recent headlines for the symbol, newest first.
func (c *Client) Recent(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	key := "news:" + symbol

	if b, ok, err := c.cache.GetBytes(key); err == nil && ok {
		items, err := decodeArticles(symbol, b, limit)
		if err == nil {
			return items, nil
		}
		// fall through on decode failure; cached payload is stale junk
	}

	if !c.limiter.Allow(rateKey, rateCapacity, ratePerSecond) {
		return nil, fmt.Errorf("newswire rate limited for %s", symbol)
	}

	var body []byte
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/v1/news",
		Headers: map[string]string{
			"X-Api-Key": c.apiKey,
		},
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"limit":  {strconv.Itoa(limit)},
		},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("newswire fetch %s: %w", symbol, err)
	}

	items, err := decodeArticles(symbol, body, limit)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetBytes(key, body, cacheTTL); err != nil && c.log != nil {
		c.log.Warn("newswire cache write failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
	return items, nil
}

func decodeArticles(symbol string, b []byte, limit int) ([]models.NewsItem, error) {
	var wr wireResponse
	if err := json.Unmarshal(b, &wr); err != nil {
		return nil, fmt.Errorf("newswire decode %s: %w", symbol, err)
	}
	items := make([]models.NewsItem, 0, len(wr.Articles))
	for _, a := range wr.Articles {
		if a.Title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Symbol:      symbol,
			Title:       a.Title,
			Summary:     a.Summary,
			Source:      a.Source,
			PublishedAt: time.Unix(a.PublishedAt, 0).UTC(),
		})
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}
