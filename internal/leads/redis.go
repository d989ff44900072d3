// Package leads persists lead/CRM data keyed by customer phone. Two backends
// exist: Redis for the default single-box deployment and Postgres for
// workspaces with an existing database.
package leads

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vendabot/vendabot/internal/schema"
)

const maxInteractions = 200

// RedisStore keeps lead fields in a hash and the interaction history in a
// list, newest first.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Ping verifies connectivity at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }

func leadKey(workspaceID, phone string) string {
	return fmt.Sprintf("lead:%s:%s", workspaceID, phone)
}

func interactionsKey(workspaceID, phone string) string {
	return leadKey(workspaceID, phone) + ":interactions"
}

func (s *RedisStore) Upsert(ctx context.Context, workspaceID, phone string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	flat := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		flat = append(flat, k, v)
	}
	if err := s.client.HSet(ctx, leadKey(workspaceID, phone), flat...).Err(); err != nil {
		return fmt.Errorf("upsert lead: %w", err)
	}
	return nil
}

// Fields reads the lead's stored fields; a missing lead yields an empty map.
func (s *RedisStore) Fields(ctx context.Context, workspaceID, phone string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, leadKey(workspaceID, phone)).Result()
	if err != nil {
		return nil, fmt.Errorf("read lead: %w", err)
	}
	return fields, nil
}

func (s *RedisStore) AddInteraction(ctx context.Context, workspaceID, phone string, interaction schema.Interaction) error {
	raw, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("encode interaction: %w", err)
	}
	key := interactionsKey(workspaceID, phone)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, maxInteractions-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add interaction: %w", err)
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, workspaceID, phone string) ([]schema.Interaction, error) {
	entries, err := s.client.LRange(ctx, interactionsKey(workspaceID, phone), 0, maxInteractions-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read interactions: %w", err)
	}

	out := make([]schema.Interaction, 0, len(entries))
	for _, entry := range entries {
		var interaction schema.Interaction
		if err := json.Unmarshal([]byte(entry), &interaction); err != nil {
			// Skip corrupt entries rather than losing the whole history.
			continue
		}
		out = append(out, interaction)
	}
	return out, nil
}
