package skills

import (
	"context"
	"testing"
)

func TestDiscountClampsAtCeiling(t *testing.T) {
	s := NewDiscountSkill()

	cases := []struct {
		name      string
		price     float64
		requested float64
		applied   float64
		final     float64
	}{
		{"within limit", 200, 10, 10, 180},
		{"at limit", 100, 30, 30, 70},
		{"above limit", 100, 50, 30, 70},
		{"absurd request", 100, 1000, 30, 70},
		{"negative request", 100, -5, 0, 100},
		{"zero price", 0, 20, 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := s.Execute(context.Background(), map[string]any{
				"original_price":   tc.price,
				"discount_percent": tc.requested,
			})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if !result.Success {
				t.Fatal("discount computation must succeed")
			}
			if got := result.Data["discount_percent"].(float64); got != tc.applied {
				t.Errorf("applied percent = %v, want %v", got, tc.applied)
			}
			if got := result.Data["final_price"].(float64); got != tc.final {
				t.Errorf("final price = %v, want %v", got, tc.final)
			}
		})
	}
}

func TestDiscountRejectsBadInput(t *testing.T) {
	s := NewDiscountSkill()

	if _, err := s.Execute(context.Background(), map[string]any{"discount_percent": 10.0}); err == nil {
		t.Fatal("missing original_price must error")
	}
	if _, err := s.Execute(context.Background(), map[string]any{
		"original_price":   -10.0,
		"discount_percent": 10.0,
	}); err == nil {
		t.Fatal("negative price must error")
	}
}

func TestDiscountAcceptsNumericString(t *testing.T) {
	s := NewDiscountSkill()

	// Models sometimes send numbers as strings.
	result, err := s.Execute(context.Background(), map[string]any{
		"original_price":   "100",
		"discount_percent": "15",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := result.Data["final_price"].(float64); got != 85 {
		t.Fatalf("final price = %v, want 85", got)
	}
}
