package domain

import "time"

// Review is a raw guest review document.
type Review struct {
	ID           interface{} `bson:"id"`
	ListingID    interface{} `bson:"listing_id"`
	Date         interface{} `bson:"date"`
	ReviewerName string      `bson:"reviewer_name"`
	Comments     interface{} `bson:"comments"`
}

// ScoredReview is a review after sentiment analysis. Score is always within
// [-1, 1]; empty or non-text comments score 0 and are labelled neutral.
type ScoredReview struct {
	ID        int64
	ListingID int64
	Date      time.Time
	Reviewer  string
	Comments  string
	Language  string
	Sentiment string
	Score     float64
}

// Sentiment labels attached to scored reviews.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)
