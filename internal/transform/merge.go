package transform

import (
	"math"
	"sort"

	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

// SentimentAggregate is the listing-level review summary: mean polarity
// (four decimals) and the number of scored reviews behind it.
type SentimentAggregate struct {
	ListingID int64
	Mean      float64
	Count     int
}

// AggregateSentiment groups scored reviews by listing id. Output is sorted
// by listing id.
func AggregateSentiment(reviews []domain.ScoredReview) []SentimentAggregate {
	type acc struct {
		sum   float64
		count int
	}
	byListing := make(map[int64]*acc)
	for _, r := range reviews {
		a := byListing[r.ListingID]
		if a == nil {
			a = &acc{}
			byListing[r.ListingID] = a
		}
		a.sum += r.Score
		a.count++
	}

	aggs := make([]SentimentAggregate, 0, len(byListing))
	for id, a := range byListing {
		aggs = append(aggs, SentimentAggregate{
			ListingID: id,
			Mean:      round4(a.sum / float64(a.count)),
			Count:     a.count,
		})
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].ListingID < aggs[j].ListingID })
	return aggs
}

// Enrich left-joins the cleaned listings with their sentiment and calendar
// aggregates. Every cleaned listing yields exactly one enriched row;
// listings without reviews or calendar entries keep zero-valued aggregates.
// Aggregates for listing ids absent from the listing set (orphans) are
// silently unmatched.
func Enrich(listings []domain.CleanListing, sentiments []SentimentAggregate, calendar []domain.CalendarAggregate) []domain.EnrichedListing {
	sentimentByID := make(map[int64]SentimentAggregate, len(sentiments))
	for _, s := range sentiments {
		sentimentByID[s.ListingID] = s
	}
	calendarByID := make(map[int64]domain.CalendarAggregate, len(calendar))
	for _, c := range calendar {
		calendarByID[c.ListingID] = c
	}

	enriched := make([]domain.EnrichedListing, 0, len(listings))
	for _, l := range listings {
		e := domain.EnrichedListing{CleanListing: l}
		if s, ok := sentimentByID[l.ID]; ok {
			e.MeanSentiment = s.Mean
			e.SentimentReviews = s.Count
		}
		if c, ok := calendarByID[l.ID]; ok {
			e.AvailabilityRate = c.Rate
			e.AvailableDays = c.Days
		}
		enriched = append(enriched, e)
	}
	return enriched
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
