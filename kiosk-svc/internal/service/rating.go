package service

import (
	"context"
	"log/slog"
	"math"

	"tableside-ordering/kiosk-svc/internal/domain"
	"tableside-ordering/kiosk-svc/internal/logger"

	"golang.org/x/sync/errgroup"
)

const ratingFetchConcurrency = 8

// CalculateAverageRating averages visible feedback to one decimal place.
func CalculateAverageRating(feedback []domain.Feedback) domain.Rating {
	sum, count := 0, 0
	for _, f := range feedback {
		if !f.IsVisible {
			continue
		}
		sum += f.Rating
		count++
	}
	if count == 0 {
		return domain.Rating{}
	}
	avg := float64(sum) / float64(count)
	return domain.Rating{Average: math.Round(avg*10) / 10, Count: count}
}

type RatingService struct {
	fetcher FeedbackFetcher
	cache   RatingCache
	log     *logger.Logger
}

// NewRatingService accepts a nil cache.
func NewRatingService(fetcher FeedbackFetcher, cache RatingCache, log *logger.Logger) *RatingService {
	if log == nil {
		log = logger.Discard()
	}
	return &RatingService{fetcher: fetcher, cache: cache, log: log}
}

// Annotate attaches ratings to a copy of items. A dish whose feedback cannot
// be loaded is left unrated; annotation never fails the menu.
func (s *RatingService) Annotate(ctx context.Context, sessionID string, items []domain.MenuItem) []domain.MenuItem {
	out := make([]domain.MenuItem, len(items))
	copy(out, items)

	var g errgroup.Group
	g.SetLimit(ratingFetchConcurrency)
	for i := range out {
		i := i
		g.Go(func() error {
			if rating, ok := s.rating(ctx, sessionID, out[i].ID); ok {
				out[i].Rating = &rating
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (s *RatingService) rating(ctx context.Context, sessionID, dishID string) (domain.Rating, bool) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, dishID)
		if err != nil {
			s.log.Warn("rating_cache_get", sessionID, "Rating cache read failed", slog.String("dish_id", dishID), slog.String("error", err.Error()))
		} else if cached != nil {
			return *cached, true
		}
	}

	feedback, err := s.fetcher.DishFeedback(ctx, dishID)
	if err != nil {
		s.log.Warn("rating_fetch", sessionID, "Dish feedback unavailable", slog.String("dish_id", dishID), slog.String("error", err.Error()))
		return domain.Rating{}, false
	}
	rating := CalculateAverageRating(feedback)

	if s.cache != nil {
		if err := s.cache.Set(ctx, dishID, rating); err != nil {
			s.log.Warn("rating_cache_set", sessionID, "Rating cache write failed", slog.String("dish_id", dishID), slog.String("error", err.Error()))
		}
	}
	return rating, true
}
