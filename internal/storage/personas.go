package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tweetdna/tweetdna/internal/persona"
)

// SavePersona stores a new persona version and returns the store-assigned
// version number. Versions are monotonically increasing and never reused;
// earlier versions are retained.
func (s *Store) SavePersona(p persona.Persona) (int, error) {
	blob, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("marshalling persona: %w", err)
	}

	res, err := s.db.Exec("INSERT INTO persona_versions (persona_json) VALUES (?)", string(blob))
	if err != nil {
		return 0, fmt.Errorf("inserting persona version: %w", err)
	}
	version, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading assigned version: %w", err)
	}
	return int(version), nil
}

// LatestPersona returns the persona with the highest version, or ErrNotFound
// when none has been built yet.
func (s *Store) LatestPersona() (persona.Persona, error) {
	row := s.db.QueryRow("SELECT version, persona_json FROM persona_versions ORDER BY version DESC LIMIT 1")
	return scanPersona(row)
}

// PersonaByVersion returns a specific persona version.
func (s *Store) PersonaByVersion(version int) (persona.Persona, error) {
	row := s.db.QueryRow("SELECT version, persona_json FROM persona_versions WHERE version = ?", version)
	return scanPersona(row)
}

func scanPersona(row *sql.Row) (persona.Persona, error) {
	var version int
	var blob string
	err := row.Scan(&version, &blob)
	if err == sql.ErrNoRows {
		return persona.Persona{}, ErrNotFound
	}
	if err != nil {
		return persona.Persona{}, err
	}

	var p persona.Persona
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		return persona.Persona{}, fmt.Errorf("parsing persona v%d: %w", version, err)
	}
	// The stored row is authoritative for the version number.
	p.Version = version
	return p, nil
}
