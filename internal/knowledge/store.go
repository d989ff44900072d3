// Package knowledge stores and searches the sales context the engine grounds
// its replies on: products, objection answers, script fragments and ingested
// pages, all scoped per workspace.
package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vendabot/vendabot/internal/schema"
	"github.com/vendabot/vendabot/internal/store"
)

// Store implements schema.KnowledgeSearcher on SQLite. Search is a LIKE scan
// over title and content; workspaces small enough to fit one salesperson's
// head do not need a vector index.
type Store struct {
	db *sql.DB
}

func NewStore(db *store.DB) *Store {
	return &Store{db: db.SQL()}
}

// Add inserts an item, assigning an ID when the caller left it empty.
func (s *Store) Add(ctx context.Context, workspaceID string, item schema.KnowledgeItem) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	metadata := []byte("{}")
	if item.Metadata != nil {
		raw, err := json.Marshal(item.Metadata)
		if err != nil {
			return "", fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = raw
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_items (id, workspace_id, title, content, category, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, workspaceID, item.Title, item.Content, item.Category, string(metadata),
	)
	if err != nil {
		return "", fmt.Errorf("add knowledge item: %w", err)
	}
	return item.ID, nil
}

// Search matches query terms against title and content. An empty query lists
// the newest items in the category. Empty results are a valid outcome, not an
// error.
func (s *Store) Search(ctx context.Context, workspaceID, query string, limit int, category string) (schema.SearchResult, error) {
	started := time.Now()
	if limit <= 0 {
		limit = 10
	}

	where := []string{"workspace_id = ?"}
	args := []any{workspaceID}
	if category != "" {
		where = append(where, "category = ?")
		args = append(args, category)
	}
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + q + "%"
		where = append(where, "(title LIKE ? OR content LIKE ?)")
		args = append(args, pattern, pattern)
	}
	clause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM knowledge_items WHERE " + clause
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return schema.SearchResult{}, fmt.Errorf("count knowledge items: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, content, category, metadata FROM knowledge_items WHERE "+clause+
			" ORDER BY created_at DESC LIMIT ?",
		append(args, limit)...,
	)
	if err != nil {
		return schema.SearchResult{}, fmt.Errorf("search knowledge items: %w", err)
	}
	defer rows.Close()

	result := schema.SearchResult{Items: []schema.KnowledgeItem{}, TotalFound: total}
	for rows.Next() {
		var item schema.KnowledgeItem
		var metadata string
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.Category, &metadata); err != nil {
			return schema.SearchResult{}, fmt.Errorf("scan knowledge item: %w", err)
		}
		if metadata != "" && metadata != "{}" {
			_ = json.Unmarshal([]byte(metadata), &item.Metadata)
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return schema.SearchResult{}, err
	}

	result.SearchTime = time.Since(started)
	return result, nil
}
