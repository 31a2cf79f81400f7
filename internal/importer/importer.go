// Package importer reads browser-extension tweet exports (JSONL or JSON),
// normalizes field-name variants, and loads them into storage with
// duplicate and validity accounting.
package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tweetdna/tweetdna/internal/storage"
)

// Importer loads extension export files into a store.
type Importer struct {
	store *storage.Store
}

func New(store *storage.Store) *Importer {
	return &Importer{store: store}
}

// Import reads the export file at path and inserts its tweets. The file
// shape is picked by extension: .jsonl is line-delimited, .json is a whole
// document (array, single object, or an object with a "tweets" key), and
// anything else is tried as JSONL first with a JSON fallback.
func (im *Importer) Import(path string) (storage.ImportResult, error) {
	tweets, err := im.readFile(path)
	if err != nil {
		return storage.ImportResult{}, err
	}
	if len(tweets) == 0 {
		return storage.ImportResult{}, nil
	}
	return im.store.InsertTweetsBatch(tweets)
}

// ValidateFile checks an export file without importing. It returns whether
// the file is usable and a human-readable summary.
func (im *Importer) ValidateFile(path string) (bool, string) {
	tweets, err := im.readFile(path)
	if err != nil {
		return false, err.Error()
	}
	if len(tweets) == 0 {
		return false, "file contains no tweets"
	}

	valid := 0
	for _, t := range tweets {
		if t.TweetID != "" && t.CreatedAt != "" && t.Text != "" {
			valid++
		}
	}
	if valid == 0 {
		return false, fmt.Sprintf("found %d records but none have required fields", len(tweets))
	}
	return true, fmt.Sprintf("valid: %d/%d tweets have required fields", valid, len(tweets))
}

func (im *Importer) readFile(path string) ([]storage.Tweet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		return readJSONL(data)
	case ".json":
		return readJSON(data)
	default:
		tweets, err := readJSONL(data)
		if err != nil {
			return readJSON(data)
		}
		return tweets, nil
	}
}

// readJSONL parses one JSON object per line, skipping blank lines. A broken
// line fails the whole file with its line number.
func readJSONL(data []byte) ([]storage.Tweet, error) {
	var tweets []storage.Tweet
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		obj, err := decodeObject([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNum, err)
		}
		if obj != nil {
			tweets = append(tweets, Normalize(obj))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return tweets, nil
}

// readJSON parses a whole-document export: a top-level array, an object
// wrapping a "tweets" array, or a single tweet object.
func readJSON(data []byte) ([]storage.Tweet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON file: %w", err)
	}

	switch v := doc.(type) {
	case []any:
		return objectsToTweets(v), nil
	case map[string]any:
		if wrapped, ok := v["tweets"].([]any); ok {
			return objectsToTweets(wrapped), nil
		}
		return []storage.Tweet{Normalize(v)}, nil
	default:
		return nil, fmt.Errorf("JSON must be an array or object")
	}
}

func objectsToTweets(items []any) []storage.Tweet {
	tweets := make([]storage.Tweet, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			tweets = append(tweets, Normalize(obj))
		}
	}
	return tweets
}

// decodeObject parses a single JSON value, returning nil for non-objects.
// Numbers decode as json.Number so large tweet ids survive intact.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	obj, _ := v.(map[string]any)
	return obj, nil
}
