package matchstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/sqlutil"
)

// ErrDocumentNotStored is wrapped by NoMatchError.
var ErrDocumentNotStored = errors.New("no stored match for document")

// NameScore is a document name with its best stored score.
type NameScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// NoMatchError is returned by BestFor when the named document has no match.
// Available lists the documents that do.
type NoMatchError struct {
	Name      string
	Available []NameScore
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no stored match for %q (%d other documents matched)", e.Name, len(e.Available))
}

func (e *NoMatchError) Unwrap() error {
	return ErrDocumentNotStored
}

// Save replaces the stored pass with pass.
func (s *Store) Save(pass *model.SearchPass) error {
	if pass == nil {
		return errors.New("cannot save nil pass")
	}

	lock, err := acquireStoreLock(s.path)
	if err != nil {
		return err
	}
	defer lock.Release()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"matches", "outcomes", "pass"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	_, err = tx.Exec(`INSERT INTO pass (id, root, created_at, strategies, similarity_threshold, best_match_threshold, query_length)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pass.ID, pass.Root, pass.CreatedAt.UTC().Format(time.RFC3339Nano), encodeStrategies(pass.Strategies),
		pass.Thresholds.Similarity, pass.Thresholds.BestMatch, pass.QueryLength)
	if err != nil {
		return fmt.Errorf("failed to save pass: %w", err)
	}

	for _, o := range pass.Outcomes {
		_, err := tx.Exec(`INSERT INTO outcomes (strategy, matched, rejected, stopped) VALUES (?, ?, ?, ?)`,
			int(o.Strategy), o.Matched, o.Rejected, o.Stopped)
		if err != nil {
			return fmt.Errorf("failed to save outcome: %w", err)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO matches (
			rank, name, path, rel_path, strategy, bom_length, score, similarity,
			start_offset, end_offset, length, query, excerpt,
			context_start, context_end, context_text
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range pass.Matches {
		var sim sql.NullFloat64
		if m.Similarity != nil {
			sim = sql.NullFloat64{Float64: *m.Similarity, Valid: true}
		}
		var excerpt sql.NullString
		if m.Excerpt != "" {
			excerpt = sql.NullString{String: m.Excerpt, Valid: true}
		}
		_, err := stmt.Exec(i+1, m.Name, m.Path, m.RelPath, int(m.Strategy), m.BOMLength, m.Score, sim,
			m.Start, m.End, m.Length, m.Query, excerpt,
			m.Context.Start, m.Context.End, m.Context.Text)
		if err != nil {
			return fmt.Errorf("failed to save match %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pass: %w", err)
	}
	return nil
}

// Load returns the stored pass with its matches in rank order.
func (s *Store) Load() (*model.SearchPass, error) {
	var (
		pass       model.SearchPass
		createdAt  string
		strategies string
	)
	err := s.db.QueryRow(`SELECT id, root, created_at, strategies, similarity_threshold, best_match_threshold, query_length FROM pass LIMIT 1`).
		Scan(&pass.ID, &pass.Root, &createdAt, &strategies, &pass.Thresholds.Similarity, &pass.Thresholds.BestMatch, &pass.QueryLength)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmptyStore
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pass: %w", err)
	}

	if pass.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse pass timestamp: %w", err)
	}
	if pass.Strategies, err = decodeStrategies(strategies); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT strategy, matched, rejected, stopped FROM outcomes ORDER BY strategy`)
	if err != nil {
		return nil, fmt.Errorf("failed to load outcomes: %w", err)
	}
	pass.Outcomes, err = sqlutil.ScanRows(rows, func(rows *sql.Rows) (model.Outcome, error) {
		var o model.Outcome
		err := rows.Scan(&o.Strategy, &o.Matched, &o.Rejected, &o.Stopped)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan outcomes: %w", err)
	}

	pass.Matches, err = s.queryMatches(`ORDER BY rank`)
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

// Best returns the top-ranked stored match.
func (s *Store) Best() (model.RankedMatch, error) {
	matches, err := s.queryMatches(`ORDER BY rank LIMIT 1`)
	if err != nil {
		return model.RankedMatch{}, err
	}
	if len(matches) == 0 {
		return model.RankedMatch{}, ErrEmptyStore
	}
	return matches[0], nil
}

// BestFor returns the best stored match for the document named name.
// When that document has no match it returns a *NoMatchError.
func (s *Store) BestFor(name string) (model.RankedMatch, error) {
	matches, err := s.ForDocuments(name)
	if err != nil {
		return model.RankedMatch{}, err
	}
	if len(matches) > 0 {
		return matches[0], nil
	}

	available, err := s.Names()
	if err != nil {
		return model.RankedMatch{}, err
	}
	if len(available) == 0 {
		return model.RankedMatch{}, ErrEmptyStore
	}
	return model.RankedMatch{}, &NoMatchError{Name: name, Available: available}
}

// ForDocuments returns the stored matches for the named documents, ranked
// among themselves.
func (s *Store) ForDocuments(names ...string) ([]model.RankedMatch, error) {
	placeholders, args := sqlutil.InClauseArgs(names)
	matches, err := s.queryMatches(`WHERE name IN (`+placeholders+`) ORDER BY rank`, args...)
	if err != nil {
		return nil, err
	}
	model.SortRanked(matches)
	return matches, nil
}

// Names lists stored document names with their best score, best first.
func (s *Store) Names() ([]NameScore, error) {
	rows, err := s.db.Query(`SELECT name, MAX(score) AS best FROM matches GROUP BY name ORDER BY best DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored names: %w", err)
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (NameScore, error) {
		var ns NameScore
		err := rows.Scan(&ns.Name, &ns.Score)
		return ns, err
	})
}

func (s *Store) queryMatches(clause string, args ...any) ([]model.RankedMatch, error) {
	rows, err := s.db.Query(`SELECT name, path, rel_path, strategy, bom_length, score, similarity,
			start_offset, end_offset, length, query, excerpt,
			context_start, context_end, context_text
		FROM matches `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	matches, err := sqlutil.ScanRows(rows, scanMatch)
	if err != nil {
		return nil, fmt.Errorf("failed to scan matches: %w", err)
	}
	return matches, nil
}

func scanMatch(rows *sql.Rows) (model.RankedMatch, error) {
	var (
		m       model.RankedMatch
		relPath sql.NullString
		sim     sql.NullFloat64
		excerpt sql.NullString
	)
	err := rows.Scan(&m.Name, &m.Path, &relPath, &m.Strategy, &m.BOMLength, &m.Score, &sim,
		&m.Start, &m.End, &m.Length, &m.Query, &excerpt,
		&m.Context.Start, &m.Context.End, &m.Context.Text)
	if err != nil {
		return m, err
	}
	m.RelPath = relPath.String
	m.Excerpt = excerpt.String
	if sim.Valid {
		v := sim.Float64
		m.Similarity = &v
	}
	return m, nil
}

func encodeStrategies(ids []model.StrategyID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ",")
}

func decodeStrategies(v string) ([]model.StrategyID, error) {
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	ids := make([]model.StrategyID, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid stored strategy %q: %w", p, err)
		}
		ids[i] = model.StrategyID(n)
	}
	return ids, nil
}
