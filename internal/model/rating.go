package model

import "time"

// Rating mirrors the `ratings` table. At most one row exists per
// (UserID, StoreID); Value is always within [1,5].
type Rating struct {
	ID        string    `json:"id"`
	Value     int       `json:"rating"`
	UserID    string    `json:"userId"`
	StoreID   string    `json:"storeId"`
	CreatedAt time.Time `json:"createdAt"`
	Store     *StoreRef `json:"store,omitempty"`
}

// RatingView is a rating joined with the identity of the user who
// submitted it.
type RatingView struct {
	ID        string    `json:"id"`
	Value     int       `json:"rating"`
	UserID    string    `json:"userId"`
	StoreID   string    `json:"storeId"`
	CreatedAt time.Time `json:"createdAt"`
	User      UserRef   `json:"user"`
}
