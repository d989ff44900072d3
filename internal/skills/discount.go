package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/vendabot/vendabot/internal/schema"
)

// MaxDiscountPercent is the hard ceiling on any discount the agent may grant.
// The requested percent is clamped before computing the final price; the
// model cannot talk its way past this.
const MaxDiscountPercent = 30.0

// DiscountSkill is pure computation: no I/O, cannot fail except on invalid
// numeric input.
type DiscountSkill struct{}

func NewDiscountSkill() *DiscountSkill { return &DiscountSkill{} }

func (s *DiscountSkill) Name() string { return string(SkillApplyDiscount) }
func (s *DiscountSkill) Description() string {
	return fmt.Sprintf("Compute a discounted price. The discount is capped at %.0f%% no matter what the customer asks for.", MaxDiscountPercent)
}

func (s *DiscountSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"original_price": {
				"type": "number",
				"description": "Price before discount"
			},
			"discount_percent": {
				"type": "number",
				"description": "Requested discount percentage"
			}
		},
		"required": ["original_price", "discount_percent"]
	}`)
}

func (s *DiscountSkill) Execute(_ context.Context, args map[string]any) (schema.SkillResult, error) {
	price, err := requireFloat(args, "original_price")
	if err != nil {
		return schema.SkillResult{}, err
	}
	requested, err := requireFloat(args, "discount_percent")
	if err != nil {
		return schema.SkillResult{}, err
	}
	if price < 0 {
		return schema.SkillResult{}, fmt.Errorf("original_price must not be negative")
	}

	applied := math.Min(math.Max(requested, 0), MaxDiscountPercent)
	discountValue := round2(price * applied / 100)
	finalPrice := round2(price - discountValue)

	msg := fmt.Sprintf("applied %.0f%% discount: %.2f -> %.2f", applied, price, finalPrice)
	if requested > MaxDiscountPercent {
		msg = fmt.Sprintf("requested %.0f%% exceeds the %.0f%% ceiling; %s", requested, MaxDiscountPercent, msg)
	}

	return schema.SkillResult{
		Success: true,
		Data: map[string]any{
			"original_price":    price,
			"requested_percent": requested,
			"discount_percent":  applied,
			"discount_value":    discountValue,
			"final_price":       finalPrice,
		},
		Message: msg,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
