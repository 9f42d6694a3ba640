package vm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// QueryResponse represents the API response from /api/v1/query endpoint.
// This structure follows the Prometheus HTTP API specification.
type QueryResponse struct {
	Status    string    `json:"status"`    // 响应状态：success 或 error
	Data      QueryData `json:"data"`      // 查询数据
	ErrorType string    `json:"errorType"` // 错误类型（仅在 status=error 时存在）
	Error     string    `json:"error"`     // 错误信息（仅在 status=error 时存在）
	Warnings  []string  `json:"warnings"`  // 警告信息列表
}

// IsSuccess returns true if the query was successful.
func (r *QueryResponse) IsSuccess() bool {
	return r.Status == "success"
}

// QueryData contains the result data from a query.
type QueryData struct {
	ResultType string   `json:"resultType"` // 结果类型：vector, matrix, scalar, string
	Result     []Sample `json:"result"`     // 结果样本列表
}

// IsVector returns true if the result type is "vector" (instant vector).
func (d *QueryData) IsVector() bool {
	return d.ResultType == "vector"
}

// Sample represents a single instant-vector sample.
type Sample struct {
	Metric Metric      `json:"metric"` // 指标标签
	Value  SampleValue `json:"value"`  // 即时查询值 [timestamp, value]
}

// GetIdent returns the host identifier from metric labels.
// It tries "ident" first, then "host", then "instance".
func (s *Sample) GetIdent() string {
	for _, label := range []string{"ident", "host", "instance"} {
		if v, ok := s.Metric[label]; ok {
			return v
		}
	}
	return ""
}

// Metric represents a set of label-value pairs for a time series.
type Metric map[string]string

// SampleValue represents a single [timestamp, value] pair.
type SampleValue [2]any

// Value returns the sample value as float64.
func (v SampleValue) Value() (float64, error) {
	switch val := v[1].(type) {
	case string:
		// Prometheus API 返回的值是字符串格式
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse value %q: %w", val, err)
		}
		return f, nil
	case float64:
		return val, nil
	default:
		return 0, fmt.Errorf("unexpected value type: %T", v[1])
	}
}

// QueryResult is one parsed sample.
// Non-finite values are kept: a NaN size marks a filesystem without data.
type QueryResult struct {
	Ident  string            // 主机标识符
	Value  float64           // 指标值
	Labels map[string]string // 所有标签
}

// Label returns the value of a label, or empty string.
func (r *QueryResult) Label(name string) string {
	return r.Labels[name]
}

// ParseQueryResults converts a vector QueryResponse to a slice of QueryResult.
// Samples whose value cannot be parsed are skipped.
func ParseQueryResults(resp *QueryResponse) ([]QueryResult, error) {
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("query failed: %s - %s", resp.ErrorType, resp.Error)
	}

	if !resp.Data.IsVector() {
		return nil, fmt.Errorf("unexpected result type: %s (expected vector)", resp.Data.ResultType)
	}

	results := make([]QueryResult, 0, len(resp.Data.Result))
	for _, sample := range resp.Data.Result {
		value, err := sample.Value.Value()
		if err != nil {
			continue // 跳过无法解析的值
		}

		results = append(results, QueryResult{
			Ident:  sample.GetIdent(),
			Value:  value,
			Labels: sample.Metric,
		})
	}

	return results, nil
}

// HostFilter defines filters for querying specific hosts.
type HostFilter struct {
	Idents         []string          // 主机标识（OR 关系）
	BusinessGroups []string          // 业务组（OR 关系）
	Tags           map[string]string // 标签（AND 关系）
}

// IsEmpty returns true if no filters are set.
func (f *HostFilter) IsEmpty() bool {
	return f == nil || (len(f.Idents) == 0 && len(f.BusinessGroups) == 0 && len(f.Tags) == 0)
}

// Matchers renders the filter as PromQL label matchers in a stable order.
func (f *HostFilter) Matchers() []string {
	if f.IsEmpty() {
		return nil
	}

	var matchers []string
	if len(f.Idents) == 1 {
		matchers = append(matchers, fmt.Sprintf(`ident="%s"`, quoteValue(f.Idents[0])))
	} else if len(f.Idents) > 1 {
		matchers = append(matchers, fmt.Sprintf(`ident=~"%s"`, alternation(f.Idents)))
	}
	if len(f.BusinessGroups) > 0 {
		matchers = append(matchers, fmt.Sprintf(`busigroup=~"%s"`, alternation(f.BusinessGroups)))
	}

	keys := make([]string, 0, len(f.Tags))
	for k := range f.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		matchers = append(matchers, fmt.Sprintf(`%s="%s"`, k, quoteValue(f.Tags[k])))
	}
	return matchers
}

// alternation builds an escaped regex alternation for a quoted PromQL string.
func alternation(values []string) string {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		escaped = append(escaped, escapeRegex(v))
	}
	return quoteValue(strings.Join(escaped, "|"))
}

// quoteValue escapes a value for use inside a double-quoted PromQL string.
func quoteValue(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
