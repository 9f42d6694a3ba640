// Package n9e provides a client for the N9E (Nightingale) host inventory.
package n9e

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"dfinspect/internal/config"
	"dfinspect/internal/model"
)

// Client is a client for the N9E API.
type Client struct {
	query      string         // 主机过滤条件，如 "items=存储集群"
	httpClient *resty.Client  // HTTP 客户端
	logger     zerolog.Logger // 日志
}

// NewClient creates a new N9E API client.
func NewClient(cfg *config.N9EConfig, retryCfg *config.RetryConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retry := config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
	if retryCfg != nil {
		retry = *retryCfg
	}

	httpClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetHeader("X-User-Token", cfg.Token).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || (resp != nil && resp.StatusCode() >= 500)
		})

	return &Client{
		query:      cfg.Query,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "n9e-client").Logger(),
	}
}

// pageSize is the number of targets requested per page.
const pageSize = 500

// GetTargets retrieves all targets matching the configured query, following
// pagination until the reported total is reached.
func (c *Client) GetTargets(ctx context.Context) ([]TargetData, error) {
	c.logger.Debug().Str("query", c.query).Msg("fetching targets from N9E")

	var targets []TargetData
	for page := 1; ; page++ {
		dat, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		targets = append(targets, dat.List...)
		if len(dat.List) == 0 || len(targets) >= dat.Total {
			c.logger.Info().Int("count", len(targets)).Int("pages", page).Msg("fetched targets")
			return targets, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, page int) (*TargetListData, error) {
	params := map[string]string{
		"limit": strconv.Itoa(pageSize),
		"p":     strconv.Itoa(page),
	}
	if c.query != "" {
		params["query"] = c.query
	}

	var result TargetsResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetQueryParams(params).
		Get("/api/n9e/targets")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch targets page %d: %w", page, err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().Int("status_code", resp.StatusCode()).Int("page", page).Msg("unexpected N9E status")
		return nil, fmt.Errorf("N9E API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	if result.Err != "" {
		return nil, fmt.Errorf("N9E API error: %s", result.Err)
	}
	return &result.Dat, nil
}

// GetHostMetas retrieves all hosts and converts them to HostMeta models.
// Targets without an ident are skipped.
func (c *Client) GetHostMetas(ctx context.Context) ([]*model.HostMeta, error) {
	targets, err := c.GetTargets(ctx)
	if err != nil {
		return nil, err
	}

	hosts := make([]*model.HostMeta, 0, len(targets))
	for i := range targets {
		if targets[i].Ident == "" {
			c.logger.Warn().Int64("id", targets[i].ID).Msg("target without ident, skipping")
			continue
		}
		hosts = append(hosts, targets[i].ToHostMeta())
	}
	return hosts, nil
}
