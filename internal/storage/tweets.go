package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
)

// ImportResult holds the outcome counts of a batch import.
type ImportResult struct {
	Inserted       int
	SkippedInvalid int
	Duplicates     int
}

// InsertTweet inserts a single tweet. Returns false (and no error) when a
// tweet with the same id already exists; duplicates are skips, not errors.
func (s *Store) InsertTweet(t Tweet) (bool, error) {
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tweets WHERE tweet_id = ?", t.TweetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking tweet %s: %w", t.TweetID, err)
	}
	if exists > 0 {
		return false, nil
	}

	source := t.Source
	if source == "" {
		source = "extension_network"
	}

	metricsJSON, err := marshalOrNull(t.Metrics)
	if err != nil {
		return false, fmt.Errorf("marshalling metrics for %s: %w", t.TweetID, err)
	}
	rawJSON, err := marshalOrNull(t.Raw)
	if err != nil {
		return false, fmt.Errorf("marshalling raw payload for %s: %w", t.TweetID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO tweets (tweet_id, created_at, text, url, source, lang, metrics_json, raw_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TweetID, t.CreatedAt, t.Text, nullIfEmpty(t.URL), source, nullIfEmpty(t.Lang), metricsJSON, rawJSON,
	)
	if err != nil {
		return false, fmt.Errorf("inserting tweet %s: %w", t.TweetID, err)
	}
	return true, nil
}

// InsertTweetsBatch inserts tweets sequentially in input order. Tweets with
// a missing id, timestamp, or text count as invalid; identifier collisions
// count as duplicates. Neither aborts the batch.
func (s *Store) InsertTweetsBatch(tweets []Tweet) (ImportResult, error) {
	var res ImportResult
	for _, t := range tweets {
		if t.TweetID == "" || t.CreatedAt == "" || t.Text == "" {
			res.SkippedInvalid++
			continue
		}
		inserted, err := s.InsertTweet(t)
		if err != nil {
			return res, err
		}
		if inserted {
			res.Inserted++
		} else {
			res.Duplicates++
		}
	}
	return res, nil
}

// TweetCount returns the total number of stored tweets.
func (s *Store) TweetCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM tweets").Scan(&n)
	return n, err
}

// RecentTweets returns up to limit tweets, newest first.
func (s *Store) RecentTweets(limit int) ([]Tweet, error) {
	rows, err := s.db.Query(`
		SELECT tweet_id, created_at, text, url, source, lang, metrics_json, raw_json
		FROM tweets ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTweets(rows)
}

// SampleForProfiling returns a temporally diverse sample of stored tweets
// for persona construction. When the corpus holds at most sampleSize tweets
// they are all returned in chronological order. Otherwise the chronological
// sequence is split into three contiguous chunks (early/middle/late) and
// roughly a third of the sample is drawn uniformly without replacement from
// each, the last chunk supplying the remainder. A chunk smaller than its
// share yields fewer tweets rather than re-balancing, so the total may fall
// below sampleSize in that case. A non-positive sampleSize yields an empty
// sample.
//
// This is the only path that exposes raw historical text for LLM
// consumption; it feeds exactly one profiling call per persona build.
func (s *Store) SampleForProfiling(sampleSize int) ([]Tweet, error) {
	if sampleSize <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT tweet_id, created_at, text, url, source, lang, metrics_json, raw_json
		FROM tweets ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all, err := scanTweets(rows)
	if err != nil {
		return nil, err
	}

	if len(all) <= sampleSize {
		return all, nil
	}

	chunkSize := len(all) / 3
	samples := make([]Tweet, 0, sampleSize)
	for i := 0; i < 3; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == 2 {
			end = len(all)
		}
		chunk := all[start:end]

		want := sampleSize / 3
		if i == 2 {
			want = sampleSize - len(samples)
		}
		if want > len(chunk) {
			want = len(chunk)
		}

		for _, idx := range rand.Perm(len(chunk))[:want] {
			samples = append(samples, chunk[idx])
		}
	}

	return samples, nil
}

func scanTweets(rows *sql.Rows) ([]Tweet, error) {
	var tweets []Tweet
	for rows.Next() {
		var t Tweet
		var url, lang, metricsJSON, rawJSON sql.NullString
		if err := rows.Scan(&t.TweetID, &t.CreatedAt, &t.Text, &url, &t.Source, &lang, &metricsJSON, &rawJSON); err != nil {
			return nil, err
		}
		t.URL = url.String
		t.Lang = lang.String
		if metricsJSON.Valid {
			if err := json.Unmarshal([]byte(metricsJSON.String), &t.Metrics); err != nil {
				return nil, fmt.Errorf("parsing metrics for %s: %w", t.TweetID, err)
			}
		}
		if rawJSON.Valid {
			if err := json.Unmarshal([]byte(rawJSON.String), &t.Raw); err != nil {
				return nil, fmt.Errorf("parsing raw payload for %s: %w", t.TweetID, err)
			}
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

func marshalOrNull(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
