package skills

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vendabot/vendabot/internal/schema"
)

// Product lookups are read-only queries against the knowledge store.
// They always succeed with possibly-empty results: "nothing found" is an
// answer, not an error.

const productCategory = "product"

// ProductSearchSkill finds products matching a free-text query.
type ProductSearchSkill struct {
	knowledge schema.KnowledgeSearcher
}

func NewProductSearchSkill(k schema.KnowledgeSearcher) *ProductSearchSkill {
	return &ProductSearchSkill{knowledge: k}
}

func (s *ProductSearchSkill) Name() string { return string(SkillSearchProducts) }
func (s *ProductSearchSkill) Description() string {
	return "Search the product catalog by name or description. Use when the customer asks about a specific product, plan, or price."
}

func (s *ProductSearchSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Product name or keywords, e.g. 'Plano Pro'"
			},
			"limit": {
				"type": "integer",
				"description": "Max results (default 5)"
			}
		},
		"required": ["query"]
	}`)
}

func (s *ProductSearchSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	query, err := requireString(args, "query")
	if err != nil {
		return schema.SkillResult{}, err
	}
	limit := intArg(args, "limit", 5)

	tc := TurnCtx(ctx)
	res, err := s.knowledge.Search(ctx, tc.WorkspaceID, query, limit, productCategory)
	if err != nil {
		return schema.SkillResult{}, fmt.Errorf("product search: %w", err)
	}

	if len(res.Items) == 0 {
		return schema.SkillResult{
			Success: true,
			Data:    map[string]any{"products": []any{}},
			Message: fmt.Sprintf("no products matched %q", query),
		}, nil
	}

	return schema.SkillResult{
		Success: true,
		Data:    map[string]any{"products": itemsToData(res.Items), "total_found": res.TotalFound},
		Message: fmt.Sprintf("found %d product(s) for %q", len(res.Items), query),
	}, nil
}

// ProductDetailsSkill returns the full entry for one product.
type ProductDetailsSkill struct {
	knowledge schema.KnowledgeSearcher
}

func NewProductDetailsSkill(k schema.KnowledgeSearcher) *ProductDetailsSkill {
	return &ProductDetailsSkill{knowledge: k}
}

func (s *ProductDetailsSkill) Name() string { return string(SkillProductDetails) }
func (s *ProductDetailsSkill) Description() string {
	return "Get the full details of a single product by its exact name."
}

func (s *ProductDetailsSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"product_name": {
				"type": "string",
				"description": "Exact product name"
			}
		},
		"required": ["product_name"]
	}`)
}

func (s *ProductDetailsSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	name, err := requireString(args, "product_name")
	if err != nil {
		return schema.SkillResult{}, err
	}

	tc := TurnCtx(ctx)
	res, err := s.knowledge.Search(ctx, tc.WorkspaceID, name, 1, productCategory)
	if err != nil {
		return schema.SkillResult{}, fmt.Errorf("product details: %w", err)
	}
	if len(res.Items) == 0 {
		return schema.SkillResult{
			Success: true,
			Message: fmt.Sprintf("product %q not found", name),
		}, nil
	}

	item := res.Items[0]
	return schema.SkillResult{
		Success: true,
		Data:    itemToData(item),
		Message: "product found: " + item.Title,
	}, nil
}

// ProductListSkill lists the whole catalog (bounded).
type ProductListSkill struct {
	knowledge schema.KnowledgeSearcher
}

func NewProductListSkill(k schema.KnowledgeSearcher) *ProductListSkill {
	return &ProductListSkill{knowledge: k}
}

func (s *ProductListSkill) Name() string { return string(SkillListProducts) }
func (s *ProductListSkill) Description() string {
	return "List all available products and plans. Use when the customer asks what you sell."
}

func (s *ProductListSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {}
	}`)
}

func (s *ProductListSkill) Execute(ctx context.Context, _ map[string]any) (schema.SkillResult, error) {
	tc := TurnCtx(ctx)
	res, err := s.knowledge.Search(ctx, tc.WorkspaceID, "", 50, productCategory)
	if err != nil {
		return schema.SkillResult{}, fmt.Errorf("list products: %w", err)
	}

	return schema.SkillResult{
		Success: true,
		Data:    map[string]any{"products": itemsToData(res.Items), "total_found": res.TotalFound},
		Message: fmt.Sprintf("%d product(s) in catalog", res.TotalFound),
	}, nil
}

func itemToData(item schema.KnowledgeItem) map[string]any {
	data := map[string]any{
		"name":        item.Title,
		"description": item.Content,
	}
	for k, v := range item.Metadata {
		data[k] = v
	}
	return data
}

func itemsToData(items []schema.KnowledgeItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, itemToData(item))
	}
	return out
}
