package transform

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

func TestScoreReviewsSkipsEmptyAndUnidentified(t *testing.T) {
	raw := []domain.Review{
		{ID: int64(10), ListingID: int64(1), Date: "2024-01-05", ReviewerName: "Ana", Comments: "Wonderful stay, great host!"},
		{ID: int64(11), ListingID: int64(1), Comments: "   "},
		{ID: int64(12), ListingID: int64(1), Comments: nil},
		{ID: int64(13), Comments: "No listing id on this one"},
	}

	out := ScoreReviews(raw, 0, NewSentimentAnalyzer(), discardLogger())

	require.Len(t, out.Rows, 1)
	assert.Equal(t, 4, out.Sampled)
	assert.Equal(t, 2, out.DroppedEmpty)
	assert.Equal(t, 1, out.DroppedNoID)

	r := out.Rows[0]
	assert.Equal(t, int64(10), r.ID)
	assert.Equal(t, int64(1), r.ListingID)
	assert.Equal(t, "Ana", r.Reviewer)
	assert.Equal(t, domain.SentimentPositive, r.Sentiment)
	assert.Equal(t, "2024-01-05", r.Date.Format("2006-01-02"))
	assert.NotEmpty(t, r.Language)
}

func TestScoreReviewsSampleCapPrecedesFiltering(t *testing.T) {
	// The cap is applied to the raw slice before any filtering, so an empty
	// comment inside the sample still shrinks the output.
	raw := []domain.Review{
		{ID: int64(1), ListingID: int64(1), Comments: "Nice and clean place"},
		{ID: int64(2), ListingID: int64(1), Comments: ""},
		{ID: int64(3), ListingID: int64(1), Comments: "Would book again, excellent"},
		{ID: int64(4), ListingID: int64(1), Comments: "Never reached by the cap"},
	}

	out := ScoreReviews(raw, 3, NewSentimentAnalyzer(), discardLogger())

	assert.Equal(t, 3, out.Sampled)
	assert.Equal(t, 1, out.DroppedEmpty)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, int64(1), out.Rows[0].ID)
	assert.Equal(t, int64(3), out.Rows[1].ID)
}

func TestScoreReviewsPreservesInputOrder(t *testing.T) {
	var raw []domain.Review
	for i := 1; i <= 6; i++ {
		raw = append(raw, domain.Review{
			ID:        int64(i),
			ListingID: int64(100 + i%2),
			Comments:  fmt.Sprintf("Stay number %d was fine", i),
		})
	}

	out := ScoreReviews(raw, 0, NewSentimentAnalyzer(), discardLogger())

	require.Len(t, out.Rows, 6)
	for i, r := range out.Rows {
		assert.Equal(t, int64(i+1), r.ID)
	}
}
