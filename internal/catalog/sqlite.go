//go:build !(js && wasm)

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const snapshotSchema = `
CREATE TABLE projects (
	position     INTEGER NOT NULL,
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	category     TEXT NOT NULL,
	summary      TEXT,
	description  TEXT,
	organization TEXT,
	completed    TEXT,
	duration     TEXT,
	technologies TEXT,  -- JSON array
	features     TEXT,  -- JSON array
	challenges   TEXT,  -- JSON array
	results      TEXT,  -- JSON array
	live_link    TEXT,
	source_link  TEXT,
	document     TEXT,
	video        TEXT
);
CREATE TABLE articles (
	position  INTEGER NOT NULL,
	id        TEXT PRIMARY KEY,
	title     TEXT NOT NULL,
	category  TEXT NOT NULL,
	published TEXT,
	read_time TEXT,
	abstract  TEXT,
	content   TEXT,
	author    TEXT
);`

// WriteSQLite exports store into a fresh SQLite file at path, replacing any existing file.
func WriteSQLite(ctx context.Context, path string, store *Store) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing snapshot %s: %w", path, err)
	}
	dsn, err := snapshotDSN(path, "rwc")
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}

	for i, p := range All(store.Projects) {
		lists, err := encodeLists(p.Technologies, p.Features, p.Challenges, p.Results)
		if err != nil {
			return fmt.Errorf("encode project %q: %w", p.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO projects (position, id, title, category, summary, description, organization,
				completed, duration, technologies, features, challenges, results,
				live_link, source_link, document, video)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, i, p.ID, p.Title, string(p.Category), p.Summary, string(p.Description), p.Organization,
			p.Completed, p.Duration, lists[0], lists[1], lists[2], lists[3],
			p.Links.Live, p.Links.Source, p.Links.Document, p.Links.Video)
		if err != nil {
			return fmt.Errorf("insert project %q: %w", p.ID, err)
		}
	}

	for i, a := range All(store.Articles) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO articles (position, id, title, category, published, read_time, abstract, content, author)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, i, a.ID, a.Title, string(a.Category), a.Published, a.ReadTime, a.Abstract, string(a.Content), a.Author)
		if err != nil {
			return fmt.Errorf("insert article %q: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadSQLite opens a snapshot read-only and materializes it into memory.
func LoadSQLite(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat snapshot %s: %w", path, err)
	}
	dsn, err := snapshotDSN(path, "ro")
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer db.Close()

	projects, err := queryProjects(ctx, db)
	if err != nil {
		return nil, err
	}
	articles, err := queryArticles(ctx, db)
	if err != nil {
		return nil, err
	}
	return NewStore(projects, articles)
}

// snapshotDSN builds a file URI opening path with the given SQLite mode. '?'
// and '#' in path stay part of the file name.
func snapshotDSN(path, mode string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve snapshot path %s: %w", path, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=" + mode}
	return u.String(), nil
}

func queryProjects(ctx context.Context, db *sql.DB) ([]Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, category, summary, description, organization, completed, duration,
			technologies, features, challenges, results, live_link, source_link, document, video
		FROM projects
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var (
			p                                      Project
			category, description                  string
			technologies, features, challenges, rs string
		)
		err := rows.Scan(&p.ID, &p.Title, &category, &p.Summary, &description, &p.Organization,
			&p.Completed, &p.Duration, &technologies, &features, &challenges, &rs,
			&p.Links.Live, &p.Links.Source, &p.Links.Document, &p.Links.Video)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if p.Category, err = parseCategory(category, ProjectCategories); err != nil {
			return nil, fmt.Errorf("project %q: %w", p.ID, err)
		}
		p.Description = template.HTML(description)
		if err := decodeLists(
			[]string{technologies, features, challenges, rs},
			[]*[]string{&p.Technologies, &p.Features, &p.Challenges, &p.Results},
		); err != nil {
			return nil, fmt.Errorf("project %q: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

func queryArticles(ctx context.Context, db *sql.DB) ([]Article, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, category, published, read_time, abstract, content, author
		FROM articles
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var (
			a                 Article
			category, content string
		)
		if err := rows.Scan(&a.ID, &a.Title, &category, &a.Published, &a.ReadTime, &a.Abstract, &content, &a.Author); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		var err error
		if a.Category, err = parseCategory(category, ArticleCategories); err != nil {
			return nil, fmt.Errorf("article %q: %w", a.ID, err)
		}
		a.Content = template.HTML(content)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return out, nil
}

func encodeLists(lists ...[]string) ([]string, error) {
	out := make([]string, len(lists))
	for i, l := range lists {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		out[i] = string(b)
	}
	return out, nil
}

func decodeLists(raw []string, dst []*[]string) error {
	for i, s := range raw {
		if s == "" {
			continue
		}
		if err := json.Unmarshal([]byte(s), dst[i]); err != nil {
			return fmt.Errorf("decode list column: %w", err)
		}
	}
	return nil
}
