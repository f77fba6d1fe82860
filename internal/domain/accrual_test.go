package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGrowthFactor(t *testing.T) {
	rate := decimal.New(5, 10) // 5e10 scaled, i.e. 5e-8 fractional growth per second

	tests := []struct {
		name    string
		rate    decimal.Decimal
		elapsed time.Duration
		want    decimal.Decimal
		wantErr error
	}{
		{
			name:    "zero elapsed returns identity",
			rate:    rate,
			elapsed: 0,
			want:    RatePrecision,
		},
		{
			name:    "zero rate returns identity",
			rate:    decimal.Zero,
			elapsed: 24 * time.Hour,
			want:    RatePrecision,
		},
		{
			name:    "one hour linear growth",
			rate:    rate,
			elapsed: time.Hour,
			want:    RatePrecision.Add(rate.Mul(decimal.NewFromInt(3600))),
		},
		{
			name:    "sub-second elapsed is exact",
			rate:    decimal.New(1, 9),
			elapsed: 500 * time.Millisecond,
			want:    RatePrecision.Add(decimal.New(5, 8)),
		},
		{
			name:    "negative elapsed is fatal",
			rate:    rate,
			elapsed: -time.Second,
			wantErr: ErrArithmeticOverflow,
		},
		{
			name:    "negative rate rejected",
			rate:    decimal.New(-1, 0),
			elapsed: time.Second,
			wantErr: ErrNegativeRate,
		},
		{
			name:    "absurd growth is fatal",
			rate:    RatePrecision.Mul(RatePrecision),
			elapsed: 1000 * time.Hour,
			wantErr: ErrArithmeticOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GrowthFactor(tt.rate, tt.elapsed)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestGrowthFactor_Deterministic(t *testing.T) {
	rate := decimal.New(7, 12)

	a, err := GrowthFactor(rate, 90*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := GrowthFactor(rate, 90*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.Equal(b) {
		t.Errorf("same inputs produced %s and %s", a, b)
	}
}
