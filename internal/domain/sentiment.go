package domain

import "strings"

// Sentiment es la clasificación derivada de un titular.
type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentBearish Sentiment = "Bearish"
	SentimentNeutral Sentiment = "Neutral"
)

// Headline es un titular del feed narrativo con su sentiment derivado.
type Headline struct {
	Title     string
	Category  string
	Sentiment Sentiment
}

var (
	bullishWords = []string{"up", "rise", "gain", "bull", "strong", "surge", "higher"}
	bearishWords = []string{"down", "fall", "drop", "sell", "bear", "weaker", "lower"}
)

// ClassifyHeadline deriva el sentiment de un titular por matching de
// keywords, case-insensitive. Bullish tiene precedencia sobre bearish
// cuando el titular matchea ambos sets.
func ClassifyHeadline(title string) Sentiment {
	t := strings.ToLower(title)
	for _, w := range bullishWords {
		if strings.Contains(t, w) {
			return SentimentBullish
		}
	}
	for _, w := range bearishWords {
		if strings.Contains(t, w) {
			return SentimentBearish
		}
	}
	return SentimentNeutral
}
