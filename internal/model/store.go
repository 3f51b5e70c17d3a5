package model

import "time"

// Store represents a row in the `stores` table. The owning user is
// reached through users.store_id rather than a column here.
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoreRef is the short store identity embedded in rating responses.
type StoreRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// StoreSummary is a store as listed to admins and users, with its
// aggregate statistics computed at read time.
type StoreSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
	UserRating    *int      `json:"userRating"`
	UserRatingID  *string   `json:"userRatingId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Distribution counts ratings by value. Keys are always 1 through 5.
type Distribution map[int]int

// Statistics groups the derived figures shown on the owner dashboard.
type Statistics struct {
	AverageRating      float64      `json:"averageRating"`
	TotalRatings       int          `json:"totalRatings"`
	RatingDistribution Distribution `json:"ratingDistribution"`
}

// Dashboard is the store owner's view of their store.
type Dashboard struct {
	Store         Store        `json:"store"`
	Statistics    Statistics   `json:"statistics"`
	RecentRatings []RatingView `json:"recentRatings"`
	AllRatings    []RatingView `json:"allRatings"`
}
