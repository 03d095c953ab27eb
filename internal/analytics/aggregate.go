package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthBucket holds the spending of one calendar month, across all years.
type MonthBucket struct {
	Month  int     `json:"month"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// MonthlyTrend returns twelve buckets, January first. Months without
// expenses stay at zero.
func (s Snapshot) MonthlyTrend() [12]MonthBucket {
	var sums [12]decimal.Decimal
	var out [12]MonthBucket
	for i := range out {
		out[i] = MonthBucket{Month: i + 1, Name: time.Month(i + 1).String()}
		sums[i] = decimal.Zero
	}
	for _, e := range s.items {
		i := int(s.local(e.Date).Month()) - 1
		sums[i] = sums[i].Add(decimal.NewFromFloat(e.Amount))
		out[i].Count++
	}
	for i := range out {
		out[i].Amount = sums[i].InexactFloat64()
	}
	return out
}

// CategoryTotal is the spending of one category.
type CategoryTotal struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoryDistribution groups by exact category string. Groups appear in
// the order their first expense appears in the snapshot.
func (s Snapshot) CategoryDistribution() []CategoryTotal {
	idx := make(map[string]int)
	sums := make([]decimal.Decimal, 0, 8)
	out := make([]CategoryTotal, 0, 8)

	for _, e := range s.items {
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category})
			sums = append(sums, decimal.Zero)
		}
		sums[i] = sums[i].Add(decimal.NewFromFloat(e.Amount))
		out[i].Count++
	}

	total := decimal.Zero
	for _, v := range sums {
		total = total.Add(v)
	}
	hundred := decimal.NewFromInt(100)
	for i := range out {
		out[i].Amount = sums[i].InexactFloat64()
		if total.IsPositive() {
			out[i].Percentage = sums[i].Mul(hundred).Div(total).Round(2).InexactFloat64()
		}
	}
	return out
}

// Stats summarises a set of amounts. Max and Min are 0 for an empty set.
type Stats struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

// Summary computes total, count, average rounded to cents, max and min.
func (s Snapshot) Summary() Stats {
	st := Stats{Count: len(s.items)}
	if st.Count == 0 {
		return st
	}

	total := s.sum()
	st.Total = total.InexactFloat64()
	st.Average = total.Div(decimal.NewFromInt(int64(st.Count))).Round(2).InexactFloat64()

	st.Max = s.items[0].Amount
	st.Min = s.items[0].Amount
	for _, e := range s.items[1:] {
		if e.Amount > st.Max {
			st.Max = e.Amount
		}
		if e.Amount < st.Min {
			st.Min = e.Amount
		}
	}
	return st
}
