package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"productdesc/internal/domain"
)

// SQLRepository implements domain.DocumentRepository and
// domain.TemplateRepository on top of DB.
type SQLRepository struct {
	db *DB
}

func NewSQLRepository(db *DB) *SQLRepository {
	return &SQLRepository{db: db}
}

var (
	documentCols = []string{"id", "name", "blocks_json", "created_at", "updated_at"}
	templateCols = []string{"id", "name", "category", "description", "blocks_json"}
)

// ── Documents ──────────────────────────────────────────────

func (r *SQLRepository) SaveDocument(ctx context.Context, d *domain.ProductDescription) error {
	blocks, err := encodeBlocks(d.Blocks)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	_, err = r.db.conn.ExecContext(ctx, r.db.upsert("documents", documentCols),
		d.ID, d.Name, blocks, d.CreatedAt.UTC(), d.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetDocument(ctx context.Context, id string) (*domain.ProductDescription, error) {
	d := &domain.ProductDescription{}
	var blocks string
	err := r.db.conn.QueryRowContext(ctx,
		r.db.rebind(`SELECT id, name, blocks_json, created_at, updated_at FROM documents WHERE id = ?`), id,
	).Scan(&d.ID, &d.Name, &blocks, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if d.Blocks, err = decodeBlocks(blocks); err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return d, nil
}

func (r *SQLRepository) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, name, blocks_json, updated_at FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DocumentSummary
	for rows.Next() {
		var s domain.DocumentSummary
		var blocks string
		if err := rows.Scan(&s.ID, &s.Name, &blocks, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.BlockCount = countBlocks(blocks)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLRepository) DeleteDocument(ctx context.Context, id string) error {
	_, err := r.db.conn.ExecContext(ctx, r.db.rebind(`DELETE FROM documents WHERE id = ?`), id)
	return err
}

func (r *SQLRepository) DocumentUpdatedAt(ctx context.Context, id string) (time.Time, error) {
	var at time.Time
	err := r.db.conn.QueryRowContext(ctx,
		r.db.rebind(`SELECT updated_at FROM documents WHERE id = ?`), id,
	).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return at, err
}

// ── Templates ──────────────────────────────────────────────

func (r *SQLRepository) SaveTemplate(ctx context.Context, t *domain.Template) error {
	blocks, err := encodeBlocks(t.Blocks)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	_, err = r.db.conn.ExecContext(ctx, r.db.upsert("templates", templateCols),
		t.ID, t.Name, t.Category, t.Description, blocks,
	)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, name, category, description, blocks_json FROM templates ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Template
	for rows.Next() {
		var t domain.Template
		var blocks string
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &blocks); err != nil {
			return nil, err
		}
		if t.Blocks, err = decodeBlocks(blocks); err != nil {
			return nil, fmt.Errorf("template %s: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLRepository) DeleteTemplate(ctx context.Context, id string) error {
	_, err := r.db.conn.ExecContext(ctx, r.db.rebind(`DELETE FROM templates WHERE id = ?`), id)
	return err
}

// ── codec ──────────────────────────────────────────────────

func encodeBlocks(blocks []domain.Block) (string, error) {
	if blocks == nil {
		blocks = []domain.Block{}
	}
	data, err := json.Marshal(blocks)
	if err != nil {
		return "", fmt.Errorf("encode blocks: %w", err)
	}
	return string(data), nil
}

func decodeBlocks(s string) ([]domain.Block, error) {
	blocks := []domain.Block{}
	if s == "" {
		return blocks, nil
	}
	if err := json.Unmarshal([]byte(s), &blocks); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	return blocks, nil
}

// countBlocks counts entries without decoding payloads.
func countBlocks(s string) int {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return 0
	}
	return len(raw)
}
