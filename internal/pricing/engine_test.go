package pricing

import "testing"

func TestComposeClampsNegativeShipping(t *testing.T) {
	s := Compose(4500, -10)
	if s.Shipping != 0 {
		t.Fatalf("expected shipping clamped to 0, got %d", s.Shipping)
	}
	if s.Total != 4500 {
		t.Fatalf("unexpected total: %d", s.Total)
	}
}

func TestMatchesTolerance(t *testing.T) {
	s := Compose(4500, 500)

	cases := []struct {
		submitted Money
		want      bool
	}{
		{5000, true},
		{4999, true},
		{5001, true},
		{4998, false},
		{5002, false},
		{0, false},
	}
	for _, tc := range cases {
		if got := s.Matches(tc.submitted); got != tc.want {
			t.Fatalf("Matches(%d) = %v, want %v", tc.submitted, got, tc.want)
		}
	}
}
