package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/procureai/engine/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			document_id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			file_path TEXT,
			doc_type TEXT NOT NULL DEFAULT 'unclassified',
			vendor TEXT,
			uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			risk_level TEXT NOT NULL DEFAULT 'unassessed',
			tags TEXT,
			summary TEXT,
			extracted TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(doc_type)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_uploaded ON documents(uploaded_at)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			metadata TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			seq INTEGER,
			operation TEXT NOT NULL,
			instruction TEXT NOT NULL,
			reply TEXT,
			status TEXT NOT NULL,
			started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			error TEXT,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_session ON runs(session_id, seq)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateDocument inserts or overwrites a document record. The write is
// committed before the call returns.
func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *domain.Document) error {
	tags, err := marshalTags(doc.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (document_id, filename, file_path, doc_type, vendor, uploaded_at, risk_level, tags, summary, extracted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.DocumentID, doc.Filename, nullString(doc.FilePath), string(doc.Type), nullString(doc.Vendor),
		doc.UploadedAt, string(doc.RiskLevel), tags, nullString(doc.Summary), nullStringBytes(doc.Extracted))
	return err
}

// GetDocument retrieves a document by ID.
func (s *SQLiteStore) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT document_id, filename, file_path, doc_type, vendor, uploaded_at, risk_level, tags, summary, extracted
		 FROM documents WHERE document_id = ?`, documentID)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateDocument applies a partial metadata update as a single UPDATE
// statement. It reports whether a row matched; it never creates one.
func (s *SQLiteStore) UpdateDocument(ctx context.Context, documentID string, patch domain.DocumentPatch) (bool, error) {
	if patch.IsZero() {
		// Still distinguish unknown identifiers for the caller.
		doc, err := s.GetDocument(ctx, documentID)
		if err != nil {
			return false, err
		}
		return doc != nil, nil
	}

	var sets []string
	var args []interface{}
	if patch.Type != nil {
		sets = append(sets, "doc_type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Vendor != nil {
		sets = append(sets, "vendor = ?")
		args = append(args, nullString(*patch.Vendor))
	}
	if patch.RiskLevel != nil {
		sets = append(sets, "risk_level = ?")
		args = append(args, string(*patch.RiskLevel))
	}
	if patch.Tags != nil {
		tags, err := marshalTags(*patch.Tags)
		if err != nil {
			return false, err
		}
		sets = append(sets, "tags = ?")
		args = append(args, tags)
	}
	if patch.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, nullString(*patch.Summary))
	}
	if patch.Extracted != nil {
		sets = append(sets, "extracted = ?")
		args = append(args, nullStringBytes(patch.Extracted))
	}
	args = append(args, documentID)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE documents SET %s WHERE document_id = ?", strings.Join(sets, ", ")), args...)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListDocuments returns all documents, oldest upload first.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, filename, file_path, doc_type, vendor, uploaded_at, risk_level, tags, summary, extracted
		 FROM documents ORDER BY uploaded_at, document_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// SearchDocuments performs a substring match over filename, vendor, tags and
// type, AND-combined with the optional type and date filters. An empty
// result is a valid outcome.
func (s *SQLiteStore) SearchDocuments(ctx context.Context, query string, docType domain.DocumentType, dateRange *domain.DateRange) ([]domain.Document, error) {
	sqlQuery := `SELECT document_id, filename, file_path, doc_type, vendor, uploaded_at, risk_level, tags, summary, extracted
		 FROM documents
		 WHERE (filename LIKE ? ESCAPE '\' OR vendor LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\' OR doc_type LIKE ? ESCAPE '\')`
	like := "%" + escapeLike(query) + "%"
	args := []interface{}{like, like, like, like}

	if docType != "" {
		sqlQuery += ` AND doc_type = ?`
		args = append(args, string(docType))
	}
	if dateRange != nil {
		if !dateRange.From.IsZero() {
			sqlQuery += ` AND uploaded_at >= ?`
			args = append(args, dateRange.From)
		}
		if !dateRange.To.IsZero() {
			sqlQuery += ` AND uploaded_at <= ?`
			args = append(args, dateRange.To)
		}
	}
	sqlQuery += ` ORDER BY uploaded_at, document_id`

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, created_at, metadata) VALUES (?, ?, ?)`,
		session.SessionID, session.CreatedAt, nullStringBytes(session.Metadata))
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var metadata sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, created_at, metadata FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.CreatedAt, &metadata)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if metadata.Valid {
		session.Metadata = json.RawMessage(metadata.String)
	}
	return &session, nil
}

// CreateRun appends a completed run to its session's history. The sequence
// number preserves submission order even when start timestamps collide.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *domain.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, session_id, seq, operation, instruction, reply, status, started_at, ended_at, error)
		 VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs WHERE session_id = ?), ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SessionID, run.SessionID, string(run.Operation), run.Instruction,
		nullString(run.Reply), string(run.Status), run.StartedAt, run.EndedAt, nullString(run.Error))
	return err
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, session_id, operation, instruction, reply, status, started_at, ended_at, error
		 FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the runs of a session in submission order.
func (s *SQLiteStore) ListRuns(ctx context.Context, sessionID string) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, session_id, operation, instruction, reply, status, started_at, ended_at, error
		 FROM runs WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var docType, riskLevel string
	var filePath, vendor, tags, summary, extracted sql.NullString
	if err := row.Scan(&doc.DocumentID, &doc.Filename, &filePath, &docType, &vendor,
		&doc.UploadedAt, &riskLevel, &tags, &summary, &extracted); err != nil {
		return nil, err
	}
	doc.Type = domain.DocumentType(docType)
	doc.RiskLevel = domain.RiskLevel(riskLevel)
	if filePath.Valid {
		doc.FilePath = filePath.String
	}
	if vendor.Valid {
		doc.Vendor = vendor.String
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &doc.Tags); err != nil {
			return nil, fmt.Errorf("corrupt tags for document %s: %w", doc.DocumentID, err)
		}
	}
	if summary.Valid {
		doc.Summary = summary.String
	}
	if extracted.Valid {
		doc.Extracted = json.RawMessage(extracted.String)
	}
	return &doc, nil
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var operation, status string
	var reply, errText sql.NullString
	var endedAt sql.NullTime
	if err := row.Scan(&run.RunID, &run.SessionID, &operation, &run.Instruction,
		&reply, &status, &run.StartedAt, &endedAt, &errText); err != nil {
		return nil, err
	}
	run.Operation = domain.OperationKind(operation)
	run.Status = domain.RunStatus(status)
	if reply.Valid {
		run.Reply = reply.String
	}
	if endedAt.Valid {
		run.EndedAt = &endedAt.Time
	}
	if errText.Valid {
		run.Error = errText.String
	}
	return &run, nil
}

func collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal tags: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// escapeLike neutralizes LIKE metacharacters so the query matches as a
// literal substring.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringBytes(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
