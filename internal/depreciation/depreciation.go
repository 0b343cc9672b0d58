// Package depreciation implements straight-line depreciation arithmetic.
package depreciation

import (
	"math"
	"time"

	"github.com/cmmsmind/backend/internal/model"
)

// DaysPerMonth approximates a calendar month when converting partial years.
const DaysPerMonth = 30.44

// ScheduleEntry is one year of a depreciation schedule.
type ScheduleEntry struct {
	Year          int     `json:"year"`
	StartingValue float64 `json:"startingValue"`
	Depreciation  float64 `json:"depreciation"`
	EndingValue   float64 `json:"endingValue"`
}

// AssetFinancials summarises an asset's value and upkeep.
type AssetFinancials struct {
	PurchaseCost            float64         `json:"purchaseCost"`
	AnnualDepreciation      float64         `json:"annualDepreciation"`
	AccumulatedDepreciation float64         `json:"accumulatedDepreciation"`
	BookValue               float64         `json:"bookValue"`
	RemainingLifeYears      float64         `json:"remainingLifeYears"`
	MaintenanceCostTotal    float64         `json:"maintenanceCostTotal"`
	MaintenanceCostYTD      float64         `json:"maintenanceCostYTD"`
	Schedule                []ScheduleEntry `json:"depreciationSchedule"`
}

// Annual returns the yearly depreciation charge, or 0 when lifeYears <= 0.
func Annual(cost, residual float64, lifeYears int) float64 {
	if lifeYears <= 0 {
		return 0
	}
	return (cost - residual) / float64(lifeYears)
}

// ElapsedYears is the time between purchase and asOf in fractional years.
// Whole years follow the calendar; the remainder is converted with
// DaysPerMonth. Dates before purchase yield 0.
func ElapsedYears(purchase, asOf time.Time) float64 {
	if !asOf.After(purchase) {
		return 0
	}
	years := asOf.Year() - purchase.Year()
	anniversary := purchase.AddDate(years, 0, 0)
	if anniversary.After(asOf) {
		years--
		anniversary = purchase.AddDate(years, 0, 0)
	}
	remainderDays := asOf.Sub(anniversary).Hours() / 24
	return float64(years) + remainderDays/(DaysPerMonth*12)
}

// Accumulated returns depreciation charged from purchase to asOf, capped at
// the depreciable base of cost minus residual.
func Accumulated(purchase model.Date, cost, residual float64, lifeYears int, asOf time.Time) float64 {
	if lifeYears <= 0 {
		return 0
	}
	base := math.Max(cost-residual, 0)
	years := math.Min(ElapsedYears(purchase.Time, asOf), float64(lifeYears))
	return math.Min(math.Max(Annual(cost, residual, lifeYears)*years, 0), base)
}

// BookValue returns cost less accumulated depreciation, never below residual.
func BookValue(purchase model.Date, cost, residual float64, lifeYears int, asOf time.Time) float64 {
	if lifeYears <= 0 {
		return cost
	}
	return math.Max(cost-Accumulated(purchase, cost, residual, lifeYears, asOf), residual)
}

// Schedule returns lifeYears+1 entries starting with the purchase year as a
// zero-depreciation baseline. The final entry ends at residual.
func Schedule(purchase model.Date, cost, residual float64, lifeYears int) []ScheduleEntry {
	startYear := purchase.Year()
	if lifeYears <= 0 {
		return []ScheduleEntry{{Year: startYear, StartingValue: cost, EndingValue: cost}}
	}

	annual := Annual(cost, residual, lifeYears)
	entries := make([]ScheduleEntry, 0, lifeYears+1)
	current := cost
	for i := 0; i <= lifeYears; i++ {
		var dep float64
		if i > 0 {
			dep = math.Max(math.Min(annual, current-residual), 0)
		}
		ending := math.Max(current-dep, residual)
		if i == lifeYears && cost >= residual {
			dep = current - residual
			ending = residual
		}
		if ending > current {
			// cost below residual: nothing to depreciate
			ending = current
		}
		entries = append(entries, ScheduleEntry{
			Year:          startYear + i,
			StartingValue: current,
			Depreciation:  dep,
			EndingValue:   ending,
		})
		current = ending
	}
	return entries
}

// RemainingLife returns the useful life left at asOf in fractional years.
func RemainingLife(purchase model.Date, lifeYears int, asOf time.Time) float64 {
	if lifeYears <= 0 {
		return 0
	}
	return math.Max(float64(lifeYears)-ElapsedYears(purchase.Time, asOf), 0)
}

// Financials computes the full financial picture for an asset.
func Financials(a model.Asset, maintenanceTotal, maintenanceYTD float64, asOf time.Time) AssetFinancials {
	return AssetFinancials{
		PurchaseCost:            a.PurchaseCost,
		AnnualDepreciation:      Annual(a.PurchaseCost, a.ResidualValue, a.UsefulLifeYears),
		AccumulatedDepreciation: Accumulated(a.PurchaseDate, a.PurchaseCost, a.ResidualValue, a.UsefulLifeYears, asOf),
		BookValue:               BookValue(a.PurchaseDate, a.PurchaseCost, a.ResidualValue, a.UsefulLifeYears, asOf),
		RemainingLifeYears:      RemainingLife(a.PurchaseDate, a.UsefulLifeYears, asOf),
		MaintenanceCostTotal:    maintenanceTotal,
		MaintenanceCostYTD:      maintenanceYTD,
		Schedule:                Schedule(a.PurchaseDate, a.PurchaseCost, a.ResidualValue, a.UsefulLifeYears),
	}
}
