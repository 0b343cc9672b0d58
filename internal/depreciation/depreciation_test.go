package depreciation

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmsmind/backend/internal/model"
)

func TestAnnual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cost     float64
		residual float64
		life     int
		want     float64
	}{
		{name: "pump", cost: 45000, residual: 5000, life: 10, want: 4000},
		{name: "zero life", cost: 45000, residual: 5000, life: 0, want: 0},
		{name: "negative life", cost: 45000, residual: 5000, life: -3, want: 0},
		{name: "no residual", cost: 1200, residual: 0, life: 12, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Annual(tt.cost, tt.residual, tt.life), 1e-9)
		})
	}
}

func TestAccumulated(t *testing.T) {
	t.Parallel()

	purchase := model.MustDate("2020-03-15")

	t.Run("five years in", func(t *testing.T) {
		t.Parallel()
		asOf := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
		assert.InDelta(t, 20000, Accumulated(purchase, 45000, 5000, 10, asOf), 1e-9)
		assert.InDelta(t, 25000, BookValue(purchase, 45000, 5000, 10, asOf), 1e-9)
	})

	t.Run("end of life reaches the depreciable base exactly", func(t *testing.T) {
		t.Parallel()
		asOf := purchase.AddDate(10, 0, 0)
		assert.Equal(t, 40000.0, Accumulated(purchase, 45000, 5000, 10, asOf))
	})

	t.Run("past end of life is clamped", func(t *testing.T) {
		t.Parallel()
		asOf := purchase.AddDate(30, 0, 0)
		assert.Equal(t, 40000.0, Accumulated(purchase, 45000, 5000, 10, asOf))
		assert.Equal(t, 5000.0, BookValue(purchase, 45000, 5000, 10, asOf))
	})

	t.Run("before purchase", func(t *testing.T) {
		t.Parallel()
		asOf := purchase.AddDate(-1, 0, 0)
		assert.Zero(t, Accumulated(purchase, 45000, 5000, 10, asOf))
		assert.Equal(t, 45000.0, BookValue(purchase, 45000, 5000, 10, asOf))
	})

	t.Run("partial year uses average month length", func(t *testing.T) {
		t.Parallel()
		asOf := purchase.AddDate(0, 0, 183)
		want := 4000 * 183 / (DaysPerMonth * 12)
		assert.InDelta(t, want, Accumulated(purchase, 45000, 5000, 10, asOf), 1e-6)
	})

	t.Run("zero life keeps cost as book value", func(t *testing.T) {
		t.Parallel()
		asOf := purchase.AddDate(3, 0, 0)
		assert.Zero(t, Accumulated(purchase, 45000, 5000, 0, asOf))
		assert.Equal(t, 45000.0, BookValue(purchase, 45000, 5000, 0, asOf))
	})
}

func TestBookValueNeverBelowResidual(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		cost := gofakeit.Float64Range(1000, 500000)
		residual := gofakeit.Float64Range(0, cost)
		life := gofakeit.IntRange(1, 40)
		purchase := model.DateOf(gofakeit.DateRange(
			time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		))
		asOf := gofakeit.DateRange(purchase.Time, time.Date(2070, 1, 1, 0, 0, 0, 0, time.UTC))

		acc := Accumulated(purchase, cost, residual, life, asOf)
		book := BookValue(purchase, cost, residual, life, asOf)

		require.GreaterOrEqual(t, book, residual)
		require.GreaterOrEqual(t, acc, 0.0)
		require.LessOrEqual(t, acc, cost-residual+1e-9)
	}
}

func TestSchedule(t *testing.T) {
	t.Parallel()

	t.Run("shape", func(t *testing.T) {
		t.Parallel()
		s := Schedule(model.MustDate("2019-06-20"), 75000, 10000, 15)

		require.Len(t, s, 16)
		assert.Equal(t, 2019, s[0].Year)
		assert.Zero(t, s[0].Depreciation)
		assert.Equal(t, 75000.0, s[0].StartingValue)
		assert.Equal(t, 75000.0, s[0].EndingValue)
		assert.Equal(t, 2034, s[15].Year)
		assert.Equal(t, 10000.0, s[15].EndingValue)

		for i := 1; i < len(s); i++ {
			assert.Equal(t, s[i-1].EndingValue, s[i].StartingValue)
			assert.InDelta(t, 65000.0/15, s[i].Depreciation, 1e-6)
		}
	})

	t.Run("randomised invariants", func(t *testing.T) {
		t.Parallel()
		for i := 0; i < 100; i++ {
			cost := gofakeit.Float64Range(100, 100000)
			residual := gofakeit.Float64Range(0, cost)
			life := gofakeit.IntRange(1, 30)

			s := Schedule(model.NewDate(2020, time.January, 1), cost, residual, life)
			require.Len(t, s, life+1)
			assert.Zero(t, s[0].Depreciation)
			assert.Equal(t, cost, s[0].StartingValue)
			assert.Equal(t, residual, s[life].EndingValue)
		}
	})

	t.Run("zero life", func(t *testing.T) {
		t.Parallel()
		s := Schedule(model.MustDate("2020-01-01"), 500, 50, 0)
		require.Len(t, s, 1)
		assert.Equal(t, 500.0, s[0].EndingValue)
	})
}

func TestFinancials(t *testing.T) {
	t.Parallel()

	asset := model.Asset{
		PurchaseDate:    model.MustDate("2020-03-15"),
		PurchaseCost:    45000,
		ResidualValue:   5000,
		UsefulLifeYears: 10,
	}
	asOf := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	f := Financials(asset, 1200, 300, asOf)

	assert.Equal(t, 4000.0, f.AnnualDepreciation)
	assert.InDelta(t, 20000, f.AccumulatedDepreciation, 1e-9)
	assert.InDelta(t, 25000, f.BookValue, 1e-9)
	assert.InDelta(t, 5, f.RemainingLifeYears, 1e-9)
	assert.Equal(t, 1200.0, f.MaintenanceCostTotal)
	assert.Equal(t, 300.0, f.MaintenanceCostYTD)
	assert.Len(t, f.Schedule, 11)
}
