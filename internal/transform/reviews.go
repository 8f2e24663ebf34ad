package transform

import (
	"log/slog"
	"strings"

	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

// ReviewsOutput is the sentiment-scored review set plus skip counters.
type ReviewsOutput struct {
	Rows         []domain.ScoredReview
	Sampled      int // reviews considered after the sample cap
	DroppedEmpty int // empty or non-text comments
	DroppedNoID  int // no usable listing identifier
}

// ScoreReviews scores review comments with the analyzer. At most sample
// reviews are considered (zero or negative means all); reviews with empty
// comments or without a usable listing id are skipped and counted.
func ScoreReviews(raw []domain.Review, sample int, analyzer *SentimentAnalyzer, logger *slog.Logger) *ReviewsOutput {
	out := &ReviewsOutput{}

	if sample > 0 && len(raw) > sample {
		raw = raw[:sample]
	}
	out.Sampled = len(raw)

	out.Rows = make([]domain.ScoredReview, 0, len(raw))
	for _, r := range raw {
		comments := strings.TrimSpace(toText(r.Comments))
		if comments == "" {
			out.DroppedEmpty++
			continue
		}

		listingID, ok := toInt64(r.ListingID)
		if !ok {
			out.DroppedNoID++
			continue
		}

		label, score := analyzer.Score(comments)
		rec := domain.ScoredReview{
			ListingID: listingID,
			Reviewer:  toText(r.ReviewerName),
			Comments:  comments,
			Language:  analyzer.Language(comments),
			Sentiment: label,
			Score:     score,
		}
		if id, ok := toInt64(r.ID); ok {
			rec.ID = id
		}
		if date, ok := toDate(r.Date); ok {
			rec.Date = date
		}
		out.Rows = append(out.Rows, rec)
	}

	logger.Info("reviews scored",
		slog.Int("rows", len(out.Rows)),
		slog.Int("sampled", out.Sampled),
		slog.Int("dropped_empty", out.DroppedEmpty),
		slog.Int("dropped_no_id", out.DroppedNoID))
	return out
}
