package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// HistorySchema 生成记录表结构
const HistorySchema = `
CREATE TABLE IF NOT EXISTS generations (
	id             TEXT PRIMARY KEY,
	schema_id      TEXT NOT NULL,
	project_name   TEXT NOT NULL,
	entity_count   INTEGER NOT NULL,
	relation_count INTEGER NOT NULL,
	status         TEXT NOT NULL,
	error          TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
	finished_at    TEXT
);

CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at);

CREATE TABLE IF NOT EXISTS generation_warnings (
	generation_id TEXT NOT NULL REFERENCES generations(id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	message       TEXT NOT NULL,
	PRIMARY KEY (generation_id, position)
);
`

// 生成状态
const (
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ErrGenerationNotFound 生成记录不存在
var ErrGenerationNotFound = errors.New("generation not found")

// Generation 一次生成请求的记录
type Generation struct {
	ID            string   `json:"id"`
	SchemaID      string   `json:"schemaId"`
	ProjectName   string   `json:"projectName"`
	EntityCount   int      `json:"entityCount"`
	RelationCount int      `json:"relationCount"`
	Status        string   `json:"status"`
	Error         string   `json:"error,omitempty"`
	Warnings      []string `json:"warnings"`
	CreatedAt     string   `json:"createdAt"`
	FinishedAt    string   `json:"finishedAt,omitempty"`
}

// HistoryStore 生成记录存储
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory 打开（或创建）生成记录数据库
func OpenHistory(dbPath string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(HistorySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// Close 关闭数据库连接
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Start 记录一次待执行的生成及其编译警告
func (h *HistoryStore) Start(ctx context.Context, g Generation) (*Generation, error) {
	g.ID = uuid.New().String()
	g.Status = StatusPending

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO generations (id, schema_id, project_name, entity_count, relation_count, status) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.SchemaID, g.ProjectName, g.EntityCount, g.RelationCount, g.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert generation: %w", err)
	}

	for i, msg := range g.Warnings {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO generation_warnings (generation_id, position, message) VALUES (?, ?, ?)`,
			g.ID, i, msg,
		)
		if err != nil {
			return nil, fmt.Errorf("insert warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return h.Get(ctx, g.ID)
}

// Finish 标记生成结束
func (h *HistoryStore) Finish(ctx context.Context, id, status, message string) error {
	result, err := h.db.ExecContext(ctx,
		`UPDATE generations SET status = ?, error = ?, finished_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now') WHERE id = ?`,
		status, message, id,
	)
	if err != nil {
		return fmt.Errorf("update generation: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrGenerationNotFound, id)
	}
	return nil
}

// Get 按 ID 查询
func (h *HistoryStore) Get(ctx context.Context, id string) (*Generation, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT id, schema_id, project_name, entity_count, relation_count, status, error, created_at, COALESCE(finished_at, '')
		 FROM generations WHERE id = ?`, id,
	)
	g, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrGenerationNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	g.Warnings, err = h.warnings(ctx, id)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// List 按时间倒序列出最近的记录，limit <= 0 时不限制
func (h *HistoryStore) List(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, schema_id, project_name, entity_count, relation_count, status, error, created_at, COALESCE(finished_at, '')
		 FROM generations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}

	result := []Generation{}
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range result {
		if result[i].Warnings, err = h.warnings(ctx, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (h *HistoryStore) warnings(ctx context.Context, id string) ([]string, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT message FROM generation_warnings WHERE generation_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("list warnings: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(s scanner) (*Generation, error) {
	var g Generation
	err := s.Scan(&g.ID, &g.SchemaID, &g.ProjectName, &g.EntityCount, &g.RelationCount,
		&g.Status, &g.Error, &g.CreatedAt, &g.FinishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan generation: %w", err)
	}
	return &g, nil
}
