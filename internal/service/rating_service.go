package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/queue"
	"github.com/iliyamo/store-rating-platform/internal/repository"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// MsgAlreadyRated is the conflict message for a second rating of a store.
const MsgAlreadyRated = "You have already rated this store. Use update to change your rating."

// RatingService submits and updates ratings. Events is optional.
type RatingService struct {
	ratings RatingRepository
	stores  StoreRepository
	events  EventPublisher
}

func NewRatingService(ratings RatingRepository, stores StoreRepository, events EventPublisher) *RatingService {
	return &RatingService{ratings: ratings, stores: stores, events: events}
}

func checkValue(v int) error {
	if v < MinRating || v > MaxRating {
		return apperr.Validation("Rating must be an integer between 1 and 5")
	}
	return nil
}

// Submit records userID's rating of storeID.
func (s *RatingService) Submit(ctx context.Context, userID, storeID string, value int) (*model.Rating, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Store not found")
		}
		return nil, err
	}

	_, err = s.ratings.GetByUserAndStore(ctx, userID, storeID)
	switch {
	case err == nil:
		return nil, apperr.Conflict(MsgAlreadyRated)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	if err := checkValue(value); err != nil {
		return nil, err
	}

	r := &model.Rating{Value: value, UserID: userID, StoreID: storeID}
	if err := s.ratings.Create(ctx, r); err != nil {
		// the unique (user_id, store_id) key settles concurrent submits
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict(MsgAlreadyRated)
		}
		return nil, err
	}
	r.Store = &model.StoreRef{ID: store.ID, Name: store.Name}

	s.publish(ctx, queue.RatingEvent{
		Type:       queue.RatingSubmitted,
		RatingID:   r.ID,
		UserID:     userID,
		StoreID:    store.ID,
		StoreName:  store.Name,
		Rating:     value,
		OccurredAt: r.CreatedAt,
	})
	return r, nil
}

// Update changes the value of ratingID, which must belong to userID.
func (s *RatingService) Update(ctx context.Context, ratingID, userID string, value int) (*model.Rating, error) {
	r, err := s.ratings.GetByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Rating not found")
		}
		return nil, err
	}
	if r.UserID != userID {
		return nil, apperr.Forbidden("You can only update your own ratings")
	}
	if err := checkValue(value); err != nil {
		return nil, err
	}

	if err := s.ratings.UpdateValue(ctx, ratingID, value); err != nil {
		return nil, err
	}
	prev := r.Value
	r.Value = value

	storeName := ""
	if r.Store != nil {
		storeName = r.Store.Name
	}
	s.publish(ctx, queue.RatingEvent{
		Type:           queue.RatingUpdated,
		RatingID:       r.ID,
		UserID:         userID,
		StoreID:        r.StoreID,
		StoreName:      storeName,
		Rating:         value,
		PreviousRating: &prev,
		OccurredAt:     time.Now().UTC(),
	})
	return r, nil
}

// ListMine returns userID's ratings, newest first.
func (s *RatingService) ListMine(ctx context.Context, userID string) ([]model.Rating, error) {
	return s.ratings.ListByUser(ctx, userID)
}

// publish never fails the caller; the rating is already committed.
func (s *RatingService) publish(ctx context.Context, ev queue.RatingEvent) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.PublishRatingEvent(ctx, ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"type":      ev.Type,
			"rating_id": ev.RatingID,
		}).Warn("rating event not published")
	}
}
