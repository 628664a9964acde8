package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	supabase "github.com/supabase-community/supabase-go"

	"podcast-pipeline/pkg/domain"
)

// SupabaseConfig holds configuration required to connect to Supabase.
type SupabaseConfig struct {
	// ConnectionString is the Supabase Postgres connection string. If not
	// provided, it is constructed from SupabaseURL and Password.
	ConnectionString string

	// SupabaseURL is the project URL, e.g. "https://[project-ref].supabase.co".
	SupabaseURL string

	// SupabaseKey is the API key, required for REST API mode.
	SupabaseKey string

	// Password is the database password, required if ConnectionString is not
	// provided and direct DB access is wanted.
	Password string

	// Table is the episodes table name. Defaults to "episodes".
	Table string
}

// SupabaseStore persists transcript records in a Supabase project. With a
// database password it uses a direct Postgres connection (same table layout as
// PostgresStore); with only URL + API key it falls back to the PostgREST API.
type SupabaseStore struct {
	cfg      SupabaseConfig
	sdk      *supabase.Client
	db       *sql.DB
	delegate *PostgresStore
}

// NewSupabaseStore constructs a Supabase-backed record store. Call Connect
// before use.
func NewSupabaseStore(cfg SupabaseConfig) *SupabaseStore {
	if cfg.Table == "" {
		cfg.Table = "episodes"
	}
	return &SupabaseStore{cfg: cfg}
}

// Connect initializes the SDK client and, when credentials allow, a direct
// database connection.
func (s *SupabaseStore) Connect(ctx context.Context) error {
	if s.cfg.SupabaseURL != "" && s.cfg.SupabaseKey != "" {
		sdkClient, err := supabase.NewClient(s.cfg.SupabaseURL, s.cfg.SupabaseKey, nil)
		if err != nil {
			return fmt.Errorf("initialize supabase SDK: %w", err)
		}
		s.sdk = sdkClient
	}

	connStr := s.cfg.ConnectionString
	if connStr == "" && s.cfg.Password != "" {
		built, err := s.buildConnectionString()
		if err != nil {
			if s.sdk != nil {
				return nil // REST API mode only
			}
			return fmt.Errorf("build connection string: %w", err)
		}
		connStr = built
	}

	if connStr != "" {
		db, err := sql.Open("pgx", connStr)
		if err == nil {
			err = db.PingContext(ctx)
		}
		if err != nil {
			if s.sdk != nil {
				return nil // REST API mode only
			}
			return fmt.Errorf("connect supabase postgres: %w", err)
		}

		delegate, err := NewPostgresStoreFromDB(ctx, db)
		if err != nil {
			_ = db.Close()
			return err
		}
		s.db = db
		s.delegate = delegate
	}

	if s.db == nil && s.sdk == nil {
		return fmt.Errorf("either connection string/password or Supabase URL+key must be provided")
	}
	return nil
}

// Close closes the direct database connection if one was opened.
func (s *SupabaseStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// HasDirectDB returns true if a direct database connection is available.
func (s *SupabaseStore) HasDirectDB() bool {
	return s.db != nil
}

// SaveRecord upserts the record, preferring the direct database connection.
func (s *SupabaseStore) SaveRecord(ctx context.Context, record *domain.EpisodeRecord) error {
	if s.delegate != nil {
		return s.delegate.SaveRecord(ctx, record)
	}
	if err := record.Validate(); err != nil {
		return err
	}

	_, _, err := s.sdk.From(s.cfg.Table).
		Insert(record, true, "episode_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upsert episode %s via REST: %w", record.EpisodeID, err)
	}
	return nil
}

// ExistingIDs returns the set of stored episode IDs.
func (s *SupabaseStore) ExistingIDs(ctx context.Context) (map[string]bool, error) {
	if s.delegate != nil {
		return s.delegate.ExistingIDs(ctx)
	}

	data, _, err := s.sdk.From(s.cfg.Table).Select("episode_id", "", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("query episode IDs via REST: %w", err)
	}

	var rows []struct {
		EpisodeID string `json:"episode_id"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode episode IDs: %w", err)
	}

	ids := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.EpisodeID != "" {
			ids[row.EpisodeID] = true
		}
	}
	return ids, nil
}

// LoadRecords returns all records sorted by episode ID.
func (s *SupabaseStore) LoadRecords(ctx context.Context) ([]domain.EpisodeRecord, error) {
	if s.delegate != nil {
		return s.delegate.LoadRecords(ctx)
	}

	data, _, err := s.sdk.From(s.cfg.Table).Select("*", "", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("query records via REST: %w", err)
	}

	var records []domain.EpisodeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].EpisodeID < records[j].EpisodeID
	})
	return records, nil
}

// buildConnectionString constructs a Supabase Postgres connection string from
// the project URL and database password.
func (s *SupabaseStore) buildConnectionString() (string, error) {
	if s.cfg.SupabaseURL == "" {
		return "", fmt.Errorf("supabase URL is required when connection string is not provided")
	}
	if s.cfg.Password == "" {
		return "", fmt.Errorf("supabase password is required when connection string is not provided")
	}

	parsed, err := url.Parse(s.cfg.SupabaseURL)
	if err != nil {
		return "", fmt.Errorf("parse supabase URL: %w", err)
	}

	// Project ref is the first label of the host: [project-ref].supabase.co
	host := parsed.Hostname()
	projectRef := strings.SplitN(host, ".", 2)[0]
	if projectRef == "" {
		return "", fmt.Errorf("cannot derive project ref from URL %q", s.cfg.SupabaseURL)
	}

	return fmt.Sprintf("postgresql://postgres:%s@db.%s.supabase.co:5432/postgres",
		url.QueryEscape(s.cfg.Password), projectRef), nil
}
