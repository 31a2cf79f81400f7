package importer

import (
	"encoding/json"
	"strings"

	"github.com/tweetdna/tweetdna/internal/storage"
)

// Field-name variants seen across extension export formats. Resolution is
// first-match in declaration order.
var (
	idAliases        = []string{"tweet_id", "id", "id_str", "tweetId"}
	timestampAliases = []string{"created_at", "createdAt", "timestamp", "date"}
	textAliases      = []string{"text", "full_text", "content"}
	urlAliases       = []string{"url", "tweet_url", "link", "permalink"}
)

// Canonical metric name to the export keys that may carry it.
var metricAliases = []struct {
	canonical string
	keys      []string
}{
	{"like", []string{"like", "likes", "like_count", "favorite_count"}},
	{"retweet", []string{"retweet", "retweets", "retweet_count"}},
	{"reply", []string{"reply", "replies", "reply_count"}},
	{"view", []string{"view", "views", "impression_count", "impressions"}},
	{"quote", []string{"quote", "quotes", "quote_count"}},
}

// Normalize maps an export object onto the internal tweet shape, resolving
// field-name variants. Missing required fields yield zero values; validity
// is judged at insert time, not here.
func Normalize(obj map[string]any) storage.Tweet {
	t := storage.Tweet{
		TweetID:   stringify(firstPresent(obj, idAliases)),
		CreatedAt: stringify(firstPresent(obj, timestampAliases)),
		Text:      strings.TrimSpace(stringify(firstPresent(obj, textAliases))),
		URL:       stringify(firstPresent(obj, urlAliases)),
		Source:    stringify(obj["source"]),
		Metrics:   normalizeMetrics(obj),
		Raw:       obj,
	}
	if t.Source == "" {
		t.Source = "extension_network"
	}
	t.Lang = stringify(obj["lang"])
	if t.Lang == "" {
		t.Lang = stringify(obj["language"])
	}
	return t
}

// normalizeMetrics prefers a whole metrics object, then public_metrics, then
// assembles one from individual per-metric fields under canonical names.
func normalizeMetrics(obj map[string]any) map[string]any {
	if m, ok := obj["metrics"].(map[string]any); ok && len(m) > 0 {
		return m
	}
	if m, ok := obj["public_metrics"].(map[string]any); ok {
		return m
	}

	metrics := map[string]any{}
	for _, alias := range metricAliases {
		for _, key := range alias.keys {
			if v, ok := obj[key]; ok {
				metrics[alias.canonical] = v
				break
			}
		}
	}
	if len(metrics) == 0 {
		return nil
	}
	return metrics
}

func firstPresent(obj map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}

// stringify renders identifier-ish values as strings. Numeric ids are kept
// exact by decoding with json.Number upstream.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		b, _ := json.Marshal(val)
		return string(b)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
