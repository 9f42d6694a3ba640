// Package vm provides a client for VictoriaMetrics/Prometheus API.
package vm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"dfinspect/internal/config"
)

// Client is a client for the VictoriaMetrics/Prometheus API.
type Client struct {
	endpoint   string             // API endpoint
	timeout    time.Duration      // Request timeout
	retry      config.RetryConfig // Retry configuration
	httpClient *resty.Client      // HTTP client
	logger     zerolog.Logger     // Logger
}

// NewClient creates a new VictoriaMetrics/Prometheus API client.
func NewClient(cfg *config.VictoriaMetricsConfig, retryCfg *config.RetryConfig, logger zerolog.Logger) *Client {
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
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8).
		AddRetryCondition(retryCondition)

	return &Client{
		endpoint:   cfg.Endpoint,
		timeout:    timeout,
		retry:      retry,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "vm-client").Logger(),
	}
}

// retryCondition retries on transport errors and 5xx responses only.
func retryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp != nil && resp.StatusCode() >= 500
}

// Query executes an instant query at the /api/v1/query endpoint.
// A non-empty filter is applied by injecting label matchers into every selector.
func (c *Client) Query(ctx context.Context, query string, filter *HostFilter) (*QueryResponse, error) {
	finalQuery := query
	if !filter.IsEmpty() {
		finalQuery = InjectMatchers(query, filter.Matchers())
	}

	c.logger.Debug().
		Str("query", finalQuery).
		Msg("executing PromQL query")

	var result QueryResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("query", finalQuery).
		SetResult(&result).
		Get("/api/v1/query")

	if err != nil {
		c.logger.Error().Err(err).Str("query", finalQuery).Msg("failed to execute query")
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Str("query", finalQuery).
			Msg("VM API returned non-200 status")
		return nil, fmt.Errorf("VM API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	if !result.IsSuccess() {
		c.logger.Error().
			Str("error_type", result.ErrorType).
			Str("error", result.Error).
			Str("query", finalQuery).
			Msg("VM API returned error")
		return nil, fmt.Errorf("VM API error [%s]: %s", result.ErrorType, result.Error)
	}

	if len(result.Warnings) > 0 {
		c.logger.Warn().
			Strs("warnings", result.Warnings).
			Str("query", finalQuery).
			Msg("VM API returned warnings")
	}

	c.logger.Debug().
		Str("result_type", result.Data.ResultType).
		Int("result_count", len(result.Data.Result)).
		Msg("query executed successfully")

	return &result, nil
}

// QueryResults executes an instant query and returns parsed results.
func (c *Client) QueryResults(ctx context.Context, query string, filter *HostFilter) ([]QueryResult, error) {
	resp, err := c.Query(ctx, query, filter)
	if err != nil {
		return nil, err
	}
	return ParseQueryResults(resp)
}

// Label modifiers whose parenthesised argument is a label list, not an expression.
var groupingKeywords = map[string]bool{
	"by": true, "without": true, "on": true, "ignoring": true,
	"group_left": true, "group_right": true,
}

var reservedWords = map[string]bool{
	"and": true, "or": true, "unless": true, "bool": true, "offset": true,
	"nan": true, "inf": true, "atan2": true,
	// aggregation operators may be followed by a modifier instead of "("
	"sum": true, "min": true, "max": true, "avg": true, "count": true, "group": true,
	"stddev": true, "stdvar": true, "topk": true, "bottomk": true,
	"quantile": true, "count_values": true,
}

// InjectMatchers adds label matchers to every series selector in a PromQL query.
// Function names, keywords, grouping label lists, string literals, range
// durations and numbers are left untouched.
func InjectMatchers(query string, matchers []string) string {
	if len(matchers) == 0 {
		return query
	}
	matcherStr := strings.Join(matchers, ", ")

	var b strings.Builder
	b.Grow(len(query) + len(matcherStr)*2)

	for i := 0; i < len(query); {
		ch := query[i]
		switch {
		case ch == '"' || ch == '\'' || ch == '`':
			end := skipString(query, i)
			b.WriteString(query[i:end])
			i = end

		case ch == '[':
			end := skipUntil(query, i, ']')
			b.WriteString(query[i:end])
			i = end

		case ch == '{':
			// selector without metric name, e.g. {__name__=~"node_.*"}
			end := skipSelector(query, i)
			b.WriteString(mergeSelector(query[i:end], matcherStr))
			i = end

		case isIdentStart(ch) && (i == 0 || !isIdentChar(query[i-1])):
			j := i
			for j < len(query) && isIdentChar(query[j]) {
				j++
			}
			ident := query[i:j]
			next := skipSpace(query, j)
			lower := strings.ToLower(ident)

			switch {
			case groupingKeywords[lower]:
				b.WriteString(ident)
				if next < len(query) && query[next] == '(' {
					end := skipUntil(query, next, ')')
					b.WriteString(query[j:end])
					j = end
				}
			case reservedWords[lower]:
				b.WriteString(ident)
			case next < len(query) && query[next] == '(':
				b.WriteString(ident) // function call
			case next < len(query) && query[next] == '{':
				end := skipSelector(query, next)
				b.WriteString(ident)
				b.WriteString(query[j:next])
				b.WriteString(mergeSelector(query[next:end], matcherStr))
				j = end
			default:
				b.WriteString(ident + "{" + matcherStr + "}")
			}
			i = j

		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}

// mergeSelector appends matchers to a "{...}" selector.
func mergeSelector(selector, matchers string) string {
	inner := strings.TrimSpace(selector[1 : len(selector)-1])
	inner = strings.TrimSuffix(inner, ",")
	if inner == "" {
		return "{" + matchers + "}"
	}
	return "{" + inner + ", " + matchers + "}"
}

func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		if s[j] == '\\' && quote != '`' {
			j++
			continue
		}
		if s[j] == quote {
			return j + 1
		}
	}
	return len(s)
}

// skipSelector returns the index after the "}" closing the selector at i.
func skipSelector(s string, i int) int {
	for j := i + 1; j < len(s); {
		switch s[j] {
		case '"', '\'', '`':
			j = skipString(s, j)
		case '}':
			return j + 1
		default:
			j++
		}
	}
	return len(s)
}

// skipUntil returns the index after the first close at or after i, skipping string literals.
func skipUntil(s string, i int, close byte) int {
	for j := i + 1; j < len(s); {
		switch s[j] {
		case '"', '\'', '`':
			j = skipString(s, j)
		case close:
			return j + 1
		default:
			j++
		}
	}
	return len(s)
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || c == ':' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// escapeRegex escapes special regex characters in a string.
func escapeRegex(s string) string {
	special := []string{"\\", ".", "+", "*", "?", "^", "$", "(", ")", "[", "]", "{", "}", "|"}
	result := s
	for _, char := range special {
		result = strings.ReplaceAll(result, char, "\\"+char)
	}
	return result
}
