package transform

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/jonreiter/govader"

	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

// Label thresholds follow the VADER convention: compound scores within
// (-0.05, 0.05) are neutral.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// SentimentAnalyzer scores free-text review comments with the VADER lexicon
// and tags the detected language. Scores are always within [-1, 1]; empty or
// non-text comments score 0.
type SentimentAnalyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewSentimentAnalyzer builds an analyzer with the default VADER lexicon.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the sentiment label and polarity score for text.
func (a *SentimentAnalyzer) Score(text string) (string, float64) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.SentimentNeutral, 0
	}

	score := a.vader.PolarityScores(trimmed).Compound
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}

	switch {
	case score >= positiveThreshold:
		return domain.SentimentPositive, score
	case score <= negativeThreshold:
		return domain.SentimentNegative, score
	default:
		return domain.SentimentNeutral, score
	}
}

// Language returns the ISO 639-3 code of the detected comment language, or
// an empty string for empty text.
func (a *SentimentAnalyzer) Language(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	info := whatlanggo.Detect(trimmed)
	return whatlanggo.LangToString(info.Lang)
}
