package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SaveReview appends a review. Reviews are never deduplicated or merged;
// the full review history per draft is retained.
func (s *Store) SaveReview(r Review) error {
	violationsJSON, err := json.Marshal(r.Violations)
	if err != nil {
		return fmt.Errorf("marshalling violations: %w", err)
	}
	suggestionsJSON, err := json.Marshal(r.Suggestions)
	if err != nil {
		return fmt.Errorf("marshalling suggestions: %w", err)
	}

	var algoJSON any
	if r.Algo != nil {
		b, err := json.Marshal(r.Algo)
		if err != nil {
			return fmt.Errorf("marshalling review algorithm metadata: %w", err)
		}
		algoJSON = string(b)
	}

	_, err = s.db.Exec(`
		INSERT INTO reviews (id, draft_id, alignment_score, violations_json, suggestions_json, revised_text, algo_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.DraftID, r.AlignmentScore, string(violationsJSON), string(suggestionsJSON),
		nullIfEmpty(r.RevisedText), algoJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting review %s: %w", r.ID, err)
	}
	return nil
}

// ReviewsForDraft returns all reviews for a draft, newest first.
func (s *Store) ReviewsForDraft(draftID string) ([]Review, error) {
	rows, err := s.db.Query(`
		SELECT id, draft_id, created_at, alignment_score, violations_json, suggestions_json, revised_text, algo_json
		FROM reviews WHERE draft_id = ? ORDER BY created_at DESC, id`, draftID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		var createdAt string
		var violationsJSON, suggestionsJSON, revised, algoJSON sql.NullString
		if err := rows.Scan(&r.ID, &r.DraftID, &createdAt, &r.AlignmentScore,
			&violationsJSON, &suggestionsJSON, &revised, &algoJSON); err != nil {
			return nil, err
		}
		if violationsJSON.Valid {
			if err := json.Unmarshal([]byte(violationsJSON.String), &r.Violations); err != nil {
				return nil, fmt.Errorf("parsing violations for review %s: %w", r.ID, err)
			}
		}
		if suggestionsJSON.Valid {
			if err := json.Unmarshal([]byte(suggestionsJSON.String), &r.Suggestions); err != nil {
				return nil, fmt.Errorf("parsing suggestions for review %s: %w", r.ID, err)
			}
		}
		if algoJSON.Valid {
			var algo ReviewAlgo
			if err := json.Unmarshal([]byte(algoJSON.String), &algo); err != nil {
				return nil, fmt.Errorf("parsing algorithm metadata for review %s: %w", r.ID, err)
			}
			r.Algo = &algo
		}
		r.RevisedText = revised.String
		if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
			r.CreatedAt = t
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
