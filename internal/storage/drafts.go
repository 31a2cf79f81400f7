package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SaveDraft persists a generated draft. Text is stored as a JSON array even
// for single-text drafts so thread-vs-tweet rendering stays lossless.
func (s *Store) SaveDraft(d Draft) error {
	if len(d.Text) == 0 {
		return fmt.Errorf("draft %s has no text", d.ID)
	}

	textJSON, err := json.Marshal(d.Text)
	if err != nil {
		return fmt.Errorf("marshalling draft text: %w", err)
	}
	tagsJSON, err := json.Marshal(d.Tags)
	if err != nil {
		return fmt.Errorf("marshalling draft tags: %w", err)
	}

	var algoJSON any
	if d.Algo != nil {
		b, err := json.Marshal(d.Algo)
		if err != nil {
			return fmt.Errorf("marshalling algorithm metadata: %w", err)
		}
		algoJSON = string(b)
	}

	_, err = s.db.Exec(`
		INSERT INTO drafts
		(id, kind, topic, spice, persona_version, text_json, tags_json, rationale, confidence,
		 reply_to_text, reply_tone, algo_json, provider, model, prompt_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Kind, d.Topic, d.Spice, d.PersonaVersion, string(textJSON), string(tagsJSON),
		d.Rationale, d.Confidence, nullIfEmpty(d.ReplyToText), nullIfEmpty(d.ReplyTone),
		algoJSON, nullIfEmpty(d.Provider), nullIfEmpty(d.Model), nullIfEmpty(d.PromptHash),
	)
	if err != nil {
		return fmt.Errorf("inserting draft %s: %w", d.ID, err)
	}
	return nil
}

const draftColumns = `id, created_at, kind, topic, spice, persona_version, text_json, tags_json,
	rationale, confidence, reply_to_text, reply_tone, algo_json, provider, model, prompt_hash`

// RecentDrafts returns up to limit drafts, newest first.
func (s *Store) RecentDrafts(limit int) ([]Draft, error) {
	rows, err := s.db.Query(
		"SELECT "+draftColumns+" FROM drafts ORDER BY created_at DESC, id LIMIT ?", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// DraftByID returns a single draft, or ErrNotFound.
func (s *Store) DraftByID(id string) (Draft, error) {
	rows, err := s.db.Query("SELECT "+draftColumns+" FROM drafts WHERE id = ?", id)
	if err != nil {
		return Draft{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Draft{}, err
		}
		return Draft{}, ErrNotFound
	}
	return scanDraft(rows)
}

func scanDraft(rows *sql.Rows) (Draft, error) {
	var d Draft
	var createdAt, textJSON string
	var tagsJSON, rationale, replyTo, replyTone, algoJSON, provider, model, promptHash sql.NullString
	var confidence sql.NullFloat64

	err := rows.Scan(&d.ID, &createdAt, &d.Kind, &d.Topic, &d.Spice, &d.PersonaVersion,
		&textJSON, &tagsJSON, &rationale, &confidence, &replyTo, &replyTone,
		&algoJSON, &provider, &model, &promptHash)
	if err != nil {
		return Draft{}, err
	}

	if err := json.Unmarshal([]byte(textJSON), &d.Text); err != nil {
		return Draft{}, fmt.Errorf("parsing text for draft %s: %w", d.ID, err)
	}
	if tagsJSON.Valid {
		if err := json.Unmarshal([]byte(tagsJSON.String), &d.Tags); err != nil {
			return Draft{}, fmt.Errorf("parsing tags for draft %s: %w", d.ID, err)
		}
	}
	if algoJSON.Valid {
		var algo AlgoMetadata
		if err := json.Unmarshal([]byte(algoJSON.String), &algo); err != nil {
			return Draft{}, fmt.Errorf("parsing algorithm metadata for draft %s: %w", d.ID, err)
		}
		d.Algo = &algo
	}

	d.Rationale = rationale.String
	d.Confidence = confidence.Float64
	d.ReplyToText = replyTo.String
	d.ReplyTone = replyTone.String
	d.Provider = provider.String
	d.Model = model.String
	d.PromptHash = promptHash.String

	if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
		d.CreatedAt = t
	}
	return d, nil
}
