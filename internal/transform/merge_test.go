package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

func TestAggregateSentiment(t *testing.T) {
	reviews := []domain.ScoredReview{
		{ListingID: 2, Score: 0.5},
		{ListingID: 1, Score: 0.8},
		{ListingID: 1, Score: -0.2},
		{ListingID: 1, Score: 0.33333},
	}

	aggs := AggregateSentiment(reviews)

	require.Len(t, aggs, 2)
	assert.Equal(t, int64(1), aggs[0].ListingID)
	assert.Equal(t, 3, aggs[0].Count)
	assert.InDelta(t, 0.3111, aggs[0].Mean, 1e-9) // rounded to four decimals
	assert.Equal(t, int64(2), aggs[1].ListingID)
	assert.Equal(t, 1, aggs[1].Count)
}

func TestEnrichLeftJoin(t *testing.T) {
	listings := []domain.CleanListing{{ID: 1}, {ID: 2}, {ID: 3}}
	sentiments := []SentimentAggregate{
		{ListingID: 1, Mean: 0.42, Count: 5},
		{ListingID: 99, Mean: -1, Count: 3}, // orphan, must not surface
	}
	calendar := []domain.CalendarAggregate{
		{ListingID: 2, Rate: 75.5, Days: 276},
	}

	enriched := Enrich(listings, sentiments, calendar)

	require.Len(t, enriched, 3)

	assert.Equal(t, 0.42, enriched[0].MeanSentiment)
	assert.Equal(t, 5, enriched[0].SentimentReviews)
	assert.Zero(t, enriched[0].AvailabilityRate)

	assert.Zero(t, enriched[1].MeanSentiment)
	assert.Equal(t, 75.5, enriched[1].AvailabilityRate)
	assert.Equal(t, 276, enriched[1].AvailableDays)

	assert.Zero(t, enriched[2].MeanSentiment)
	assert.Zero(t, enriched[2].SentimentReviews)
	assert.Zero(t, enriched[2].AvailabilityRate)
	assert.Zero(t, enriched[2].AvailableDays)
}

func TestEnrichEmptyListings(t *testing.T) {
	enriched := Enrich(nil, []SentimentAggregate{{ListingID: 1}}, nil)
	assert.Empty(t, enriched)
}
