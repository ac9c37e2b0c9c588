// internal/store/sqlite.go
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"vcfdump/internal/region"
	"vcfdump/internal/variant"
)

const schema = `
CREATE TABLE IF NOT EXISTS variants (
	chromosome TEXT NOT NULL,
	position   INTEGER NOT NULL,
	reference  TEXT NOT NULL,
	alternate  TEXT NOT NULL,
	study      TEXT NOT NULL,
	file       TEXT NOT NULL DEFAULT '',
	info       TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_variants_region ON variants (chromosome, position);
CREATE TABLE IF NOT EXISTS sources (
	study   TEXT NOT NULL,
	file    TEXT NOT NULL DEFAULT '',
	name    TEXT NOT NULL DEFAULT '',
	header  TEXT NOT NULL DEFAULT '',
	samples TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (study, file)
);`

// SQLite is an Adaptor over a local SQLite variant database.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens (and if needed initializes) a variant database at path.
// ":memory:" gives a throwaway in-memory store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open variant db %q: %w", path, err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init variant db %q: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// AddVariant inserts one record. Intended for loaders and tests.
func (s *SQLite) AddVariant(ctx context.Context, v variant.Variant) error {
	info, err := json.Marshal(v.Info)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO variants (chromosome, position, reference, alternate, study, file, info)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.Chromosome, v.Position, v.Reference, v.Alternate, v.StudyID, v.FileID, string(info))
	return err
}

// AddSource inserts one study/file metadata row.
func (s *SQLite) AddSource(ctx context.Context, src variant.Source) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sources (study, file, name, header, samples) VALUES (?, ?, ?, ?, ?)`,
		src.StudyID, src.FileID, src.FileName,
		strings.Join(src.Header, "\n"), strings.Join(src.Samples, ","))
	return err
}

type variantRow struct {
	Chromosome string `db:"chromosome"`
	Position   int64  `db:"position"`
	Reference  string `db:"reference"`
	Alternate  string `db:"alternate"`
	Study      string `db:"study"`
	File       string `db:"file"`
	Info       string `db:"info"`
}

func (s *SQLite) Iterator(ctx context.Context, q Query) (Iterator, error) {
	sql := `SELECT chromosome, position, reference, alternate, study, file, info
	        FROM variants WHERE study IN (?)`
	args := []interface{}{q.Studies}
	if len(q.Files) > 0 {
		sql += ` AND file IN (?)`
		args = append(args, q.Files)
	}
	if ref := q.Filters["reference"]; ref != "" {
		sql += ` AND reference = ?`
		args = append(args, ref)
	}
	if alt := q.Filters["alternate"]; alt != "" {
		sql += ` AND alternate = ?`
		args = append(args, alt)
	}
	regionSQL, regionArgs, err := regionClause(q.Regions())
	if err != nil {
		return nil, err
	}
	sql += regionSQL
	args = append(args, regionArgs...)

	sql, flat, err := sqlx.In(sql, args...)
	if err != nil {
		return nil, fmt.Errorf("build variant query: %w", err)
	}
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(sql), flat...)
	if err != nil {
		return nil, fmt.Errorf("variant query: %w", err)
	}
	return &sqliteIterator{rows: rows, filters: q.Filters}, nil
}

func regionClause(regions []string) (string, []interface{}, error) {
	if len(regions) == 0 {
		return "", nil, nil
	}
	var clauses []string
	var args []interface{}
	for _, raw := range regions {
		r, err := region.Parse(raw)
		if err != nil {
			return "", nil, err
		}
		if r.Bounded() {
			clauses = append(clauses, `(chromosome = ? AND position BETWEEN ? AND ?)`)
			args = append(args, r.Chromosome, r.Start, r.End)
		} else {
			clauses = append(clauses, `chromosome = ?`)
			args = append(args, r.Chromosome)
		}
	}
	return ` AND (` + strings.Join(clauses, " OR ") + `)`, args, nil
}

type sqliteIterator struct {
	rows    *sqlx.Rows
	filters map[string]string
	cur     variant.Variant
	err     error
}

func (it *sqliteIterator) Next() bool {
	for it.rows.Next() {
		var row variantRow
		if err := it.rows.StructScan(&row); err != nil {
			it.err = err
			return false
		}
		v := variant.Variant{
			Chromosome: row.Chromosome,
			Position:   row.Position,
			Reference:  row.Reference,
			Alternate:  row.Alternate,
			StudyID:    row.Study,
			FileID:     row.File,
		}
		if row.Info != "" && row.Info != "{}" {
			// A malformed info column loses its annotations but the record
			// itself still exports.
			_ = json.Unmarshal([]byte(row.Info), &v.Info)
		}
		if !matchesInfoFilters(v, it.filters) {
			continue
		}
		it.cur = v
		return true
	}
	if err := it.rows.Err(); err != nil && it.err == nil {
		it.err = err
	}
	return false
}

// matchesInfoFilters applies the accepted filters that have no dedicated
// column: the variant passes when its info value is among the filter's
// comma-separated values.
func matchesInfoFilters(v variant.Variant, filters map[string]string) bool {
	for name, raw := range filters {
		switch name {
		case ParamRegion, "reference", "alternate":
			continue // applied in SQL
		}
		got, ok := v.Info[name]
		if !ok {
			return false
		}
		match := false
		for _, want := range strings.Split(raw, ",") {
			if got == strings.TrimSpace(want) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

func (it *sqliteIterator) Variant() variant.Variant { return it.cur }
func (it *sqliteIterator) Err() error               { return it.err }
func (it *sqliteIterator) Close() error             { return it.rows.Close() }

// SourceAdaptor returns the source metadata view of the same database.
func (s *SQLite) SourceAdaptor() SourceAdaptor { return sqliteSources{db: s.db} }

type sourceRow struct {
	Study   string `db:"study"`
	File    string `db:"file"`
	Name    string `db:"name"`
	Header  string `db:"header"`
	Samples string `db:"samples"`
}

func (a sqliteSources) Sources(ctx context.Context, studyIDs []string) (map[string]variant.Source, error) {
	sql, args, err := sqlx.In(`SELECT study, file, name, header, samples FROM sources WHERE study IN (?)`, studyIDs)
	if err != nil {
		return nil, err
	}
	var rows []sourceRow
	if err := a.db.SelectContext(ctx, &rows, a.db.Rebind(sql), args...); err != nil {
		return nil, fmt.Errorf("source query: %w", err)
	}
	out := make(map[string]variant.Source, len(rows))
	for _, r := range rows {
		src := variant.Source{StudyID: r.Study, FileID: r.File, FileName: r.Name}
		if r.Header != "" {
			src.Header = strings.Split(r.Header, "\n")
		}
		if r.Samples != "" {
			src.Samples = strings.Split(r.Samples, ",")
		}
		out[r.Study] = src
	}
	return out, nil
}

type sqliteSources struct {
	db *sqlx.DB
}
