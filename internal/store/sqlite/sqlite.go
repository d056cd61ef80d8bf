// Package sqlite implements store.Store on a local SQLite database using
// the modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Open opens (or creates) the SQLite database at path, enables WAL journal
// mode, and applies the schema.
func Open(path string) (store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wraps an existing connection (used by tests and the factory)
// and ensures the schema exists.
func NewWithDB(db *sql.DB) (store.Store, error) {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &sqliteStore{db: db}, nil
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users                     { return &users{db: s.db} }
func (s *sqliteStore) Activities() store.Activities           { return &activities{db: s.db} }
func (s *sqliteStore) Insights() store.Insights               { return &insights{db: s.db} }
func (s *sqliteStore) Recommendations() store.Recommendations { return &recommendations{db: s.db} }

func (s *sqliteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *sqliteStore) Close() error                         { return s.db.Close() }

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	profile, err := json.Marshal(m.Profile)
	if err != nil {
		return nil, err
	}
	settings, err := json.Marshal(m.Settings)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = u.db.ExecContext(ctx,
		`INSERT INTO users (user_id, email, name, profile, settings, creation_time, update_time)
		 VALUES (?,?,?,?,?,?,?)`,
		m.UserID, m.Email, m.Name, string(profile), string(settings), now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, model.ErrConflict
		}
		return nil, err
	}

	out := *m
	out.CreationTime = now
	out.UpdateTime = now
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx,
		`SELECT user_id, email, name, profile, settings, creation_time, update_time
		 FROM users WHERE user_id = ?`, userID)

	var m model.User
	var profile, settings string
	err := row.Scan(&m.UserID, &m.Email, &m.Name, &profile, &settings, &m.CreationTime, &m.UpdateTime)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(profile), &m.Profile); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(settings), &m.Settings); err != nil {
		return nil, err
	}
	return &m, nil
}

// --- Activities ---

type activities struct{ db *sql.DB }

func (a *activities) Append(ctx context.Context, m *model.Activity) (*model.Activity, error) {
	var metadata *string
	if m.Metadata != nil {
		b, err := json.Marshal(m.Metadata)
		if err != nil {
			return nil, err
		}
		s := string(b)
		metadata = &s
	}

	_, err := a.db.ExecContext(ctx,
		`INSERT INTO activities (activity_id, user_id, category, type, amount, unit, emission, date, location, metadata, source)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		m.ActivityID, m.UserID, string(m.Category), m.Type, m.Amount, m.Unit,
		m.Emission, m.Date.UTC(), m.Location, metadata, m.Source)
	if err != nil {
		return nil, err
	}
	out := *m
	return &out, nil
}

func (a *activities) List(ctx context.Context, req model.ListActivitiesRequest) ([]*model.Activity, error) {
	q := `SELECT activity_id, user_id, category, type, amount, unit, emission, date, location, metadata, source
	      FROM activities WHERE user_id = ?`
	args := []interface{}{req.UserID}
	if req.Category != nil {
		q += ` AND category = ?`
		args = append(args, string(*req.Category))
	}
	q += ` ORDER BY date DESC, activity_id DESC`
	if req.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, req.Limit)
	}

	rows, err := a.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Activity
	for rows.Next() {
		var m model.Activity
		var category string
		var metadata *string
		if err := rows.Scan(&m.ActivityID, &m.UserID, &category, &m.Type, &m.Amount,
			&m.Unit, &m.Emission, &m.Date, &m.Location, &metadata, &m.Source); err != nil {
			return nil, err
		}
		m.Category = model.ActivityCategory(category)
		if metadata != nil {
			if err := json.Unmarshal([]byte(*metadata), &m.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// --- Insights ---

type insights struct{ db *sql.DB }

func (i *insights) Append(ctx context.Context, m *model.Insight) (*model.Insight, error) {
	return m, insertInsight(ctx, i.db, m)
}

func (i *insights) Replace(ctx context.Context, userID string, items []model.Insight) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM insights WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for idx := range items {
		if err := insertInsight(ctx, tx, &items[idx]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (i *insights) List(ctx context.Context, userID string, limit int) ([]*model.Insight, error) {
	q := `SELECT insight_id, user_id, type, title, message, data, severity, creation_time, read
	      FROM insights WHERE user_id = ? ORDER BY creation_time DESC, insight_id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := i.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Insight
	for rows.Next() {
		var m model.Insight
		var typ, severity string
		var data *string
		if err := rows.Scan(&m.InsightID, &m.UserID, &typ, &m.Title, &m.Message,
			&data, &severity, &m.CreationTime, &m.Read); err != nil {
			return nil, err
		}
		m.Type = model.InsightType(typ)
		m.Severity = model.Severity(severity)
		if data != nil {
			if err := json.Unmarshal([]byte(*data), &m.Data); err != nil {
				return nil, err
			}
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertInsight(ctx context.Context, db execer, m *model.Insight) error {
	var data *string
	if m.Data != nil {
		b, err := json.Marshal(m.Data)
		if err != nil {
			return err
		}
		s := string(b)
		data = &s
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO insights (insight_id, user_id, type, title, message, data, severity, creation_time, read)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		m.InsightID, m.UserID, string(m.Type), m.Title, m.Message, data,
		string(m.Severity), m.CreationTime.UTC(), m.Read)
	return err
}

// --- Recommendations ---

type recommendations struct{ db *sql.DB }

func (r *recommendations) Append(ctx context.Context, m *model.Recommendation) (*model.Recommendation, error) {
	return m, insertRecommendation(ctx, r.db, m)
}

func (r *recommendations) Replace(ctx context.Context, userID string, items []model.Recommendation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for idx := range items {
		if err := insertRecommendation(ctx, tx, &items[idx]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *recommendations) List(ctx context.Context, userID string, limit int) ([]*model.Recommendation, error) {
	q := `SELECT recommendation_id, user_id, type, title, description, category, impact, confidence, reasoning, creation_time, status
	      FROM recommendations WHERE user_id = ? ORDER BY creation_time DESC, recommendation_id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Recommendation
	for rows.Next() {
		var m model.Recommendation
		var typ, category, impact, status string
		if err := rows.Scan(&m.RecommendationID, &m.UserID, &typ, &m.Title, &m.Description,
			&category, &impact, &m.Confidence, &m.Reasoning, &m.CreationTime, &status); err != nil {
			return nil, err
		}
		m.Type = model.RecommendationType(typ)
		m.Category = model.ActivityCategory(category)
		m.Status = model.RecommendationStatus(status)
		if err := json.Unmarshal([]byte(impact), &m.Impact); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func insertRecommendation(ctx context.Context, db execer, m *model.Recommendation) error {
	impact, err := json.Marshal(m.Impact)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO recommendations (recommendation_id, user_id, type, title, description, category, impact, confidence, reasoning, creation_time, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		m.RecommendationID, m.UserID, string(m.Type), m.Title, m.Description,
		string(m.Category), string(impact), m.Confidence, m.Reasoning,
		m.CreationTime.UTC(), string(m.Status))
	return err
}
