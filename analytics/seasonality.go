package analytics

import (
	"sort"

	"bakery/models"
)

type tally struct {
	sum int
	n   int
}

func (t tally) mean() float64 {
	return float64(t.sum) / float64(t.n)
}

// Seasonality computes weekday demand factors for every product, ordered by
// product. A factor is the weekday mean over the overall mean, rounded to two
// places; weekdays without records get 1.0. Products whose overall mean is
// exactly zero are left out.
func Seasonality(records []models.SalesRecord) []models.ProductSeasonality {
	totals := make(map[string]*tally)
	daily := make(map[string]*[7]tally)

	for _, r := range records {
		t, ok := totals[r.Product]
		if !ok {
			t = &tally{}
			totals[r.Product] = t
			daily[r.Product] = &[7]tally{}
		}
		t.sum += r.Quantity
		t.n++

		d := &daily[r.Product][models.WeekdayIndex(r.Date)]
		d.sum += r.Quantity
		d.n++
	}

	products := make([]string, 0, len(totals))
	for p := range totals {
		products = append(products, p)
	}
	sort.Strings(products)

	out := make([]models.ProductSeasonality, 0, len(products))
	for _, p := range products {
		base := totals[p].mean()
		if base == 0 {
			continue
		}

		factors := make(map[string]float64, len(models.Weekdays))
		for i, day := range models.Weekdays {
			cell := daily[p][i]
			if cell.n == 0 {
				factors[day] = 1.0
				continue
			}
			factors[day] = round(cell.mean()/base, 2)
		}

		out = append(out, models.ProductSeasonality{
			Product:     p,
			BaseAverage: base,
			Factors:     factors,
		})
	}
	return out
}

// SeasonalityDocs keys the results by product for persistence. base_avg is
// rounded to one place; the factors were computed from the unrounded mean.
func SeasonalityDocs(items []models.ProductSeasonality) map[string]models.SeasonalityDoc {
	docs := make(map[string]models.SeasonalityDoc, len(items))
	for _, s := range items {
		docs[s.Product] = models.SeasonalityDoc{
			BaseAvg: round(s.BaseAverage, 1),
			Factors: s.Factors,
		}
	}
	return docs
}
