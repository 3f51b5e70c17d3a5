package service

import (
	"math"
	"sort"
	"strings"

	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/repository"
)

// Sort keys accepted by the store listing.
const (
	SortByName      = "name"
	SortByRating    = "rating"
	SortByCreatedAt = "createdAt"
)

// round1 rounds x to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// averageOf is round1(sum/count), or 0 when count is 0.
func averageOf(sum, count int) float64 {
	if count <= 0 {
		return 0
	}
	return round1(float64(sum) / float64(count))
}

// Average returns the mean of values rounded to one decimal, 0 for none.
func Average(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return averageOf(sum, len(values))
}

// Distribution counts values exactly equal to 1 through 5. Values outside
// that range are ignored; every bucket is present even when zero.
func Distribution(values []int) model.Distribution {
	d := model.Distribution{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, v := range values {
		if _, ok := d[v]; ok {
			d[v]++
		}
	}
	return d
}

// Summarize computes the listing view of one store. When userID is not
// empty, that user's own rating is surfaced separately.
func Summarize(s repository.StoreWithRatings, userID string) model.StoreSummary {
	values := make([]int, len(s.Ratings))
	out := model.StoreSummary{
		ID:        s.Store.ID,
		Name:      s.Store.Name,
		Email:     s.Store.Email,
		Address:   s.Store.Address,
		CreatedAt: s.Store.CreatedAt,
	}
	for i, r := range s.Ratings {
		values[i] = r.Value
		if userID != "" && r.UserID == userID && out.UserRating == nil {
			v, id := r.Value, r.ID
			out.UserRating, out.UserRatingID = &v, &id
		}
	}
	out.AverageRating = Average(values)
	out.TotalRatings = len(values)
	return out
}

// SortStores orders list in place by key and order. Unknown keys fall
// back to createdAt; anything but "asc" sorts descending. Ties keep their
// incoming order.
func SortStores(list []model.StoreSummary, key, order string) {
	asc := strings.EqualFold(order, "asc")
	var less func(a, b model.StoreSummary) bool
	switch key {
	case SortByName:
		less = func(a, b model.StoreSummary) bool { return a.Name < b.Name }
	case SortByRating:
		less = func(a, b model.StoreSummary) bool { return a.AverageRating < b.AverageRating }
	default:
		less = func(a, b model.StoreSummary) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	sort.SliceStable(list, func(i, j int) bool {
		if asc {
			return less(list[i], list[j])
		}
		return less(list[j], list[i])
	})
}
