package services

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/candorhq/candor/models"
)

// Scorer derives an analysis from a transcript. Implementations must be pure
// with respect to the store: transcript in, analysis out.
type Scorer interface {
	Score(transcript models.Transcript) *models.InterviewAnalysis
}

// highlightContext is the fixed context label attached to key highlights.
const highlightContext = "Candidate response"

// maxQuoteLen is the rune budget for a highlight quote before truncation.
const maxQuoteLen = 100

// Recommendation thresholds. The tiers and the red-flag cutoff share one
// canonical table: >=85 strongly-recommend, >=70 recommend, >=60 maybe,
// below 60 not-recommend with red flags raised.
const (
	strongRecommendThreshold = 85
	recommendThreshold       = 70
	maybeThreshold           = 60
)

var strengthPool = []string{
	"Clear and structured communication throughout the interview",
	"Strong technical depth on core topics",
	"Concrete examples drawn from relevant experience",
	"Methodical approach to breaking down problems",
	"Good awareness of trade-offs and alternatives",
}

var concernPool = []string{
	"Some answers lacked supporting detail",
	"Limited exposure to the tooling used by the team",
	"Hesitation on system-level design questions",
	"Experience may not transfer directly to this role",
}

var redFlagPool = []string{
	"Fundamental gaps in required technical knowledge",
	"Struggled to engage with interviewer follow-up questions",
}

// ReferenceScorer is the deterministic stand-in scoring strategy. Category
// scores carry bounded jitter from an injected seed so runs are reproducible;
// everything derived from them (overall score, tier, red flags, strengths,
// concerns, highlights) follows fixed rules.
type ReferenceScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewReferenceScorer(seed int64) *ReferenceScorer {
	return &ReferenceScorer{rng: rand.New(rand.NewSource(seed))}
}

func (s *ReferenceScorer) Score(transcript models.Transcript) *models.InterviewAnalysis {
	s.mu.Lock()
	categories := models.CategoryScores{
		Technical:      s.drawScore(),
		Communication:  s.drawScore(),
		CulturalFit:    s.drawScore(),
		Experience:     s.drawScore(),
		ProblemSolving: s.drawScore(),
	}
	jitter := s.rng.Intn(21) - 10
	s.mu.Unlock()

	overall := OverallScore(categories)
	recommendation := RecommendationForScore(overall)

	return &models.InterviewAnalysis{
		OverallScore:    overall,
		CategoryScores:  categories,
		Strengths:       StrengthsForScore(overall),
		Concerns:        ConcernsForScore(overall),
		RedFlags:        RedFlagsForScore(overall),
		KeyHighlights:   KeyHighlights(transcript),
		Recommendation:  recommendation,
		ConfidenceScore: clampScore(overall + jitter),
		Summary:         scoreSummary(overall, recommendation, len(transcript)),
	}
}

// drawScore draws one category score in [40,100]. Callers hold s.mu.
func (s *ReferenceScorer) drawScore() int {
	return 40 + s.rng.Intn(61)
}

// OverallScore is the round-half-up integer mean of the five category scores.
// Category order does not affect the result.
func OverallScore(c models.CategoryScores) int {
	sum := c.Technical + c.Communication + c.CulturalFit + c.Experience + c.ProblemSolving
	return (2*sum + 5) / 10
}

// RecommendationForScore maps an overall score to its recommendation tier.
func RecommendationForScore(overall int) models.Recommendation {
	switch {
	case overall >= strongRecommendThreshold:
		return models.StronglyRecommend
	case overall >= recommendThreshold:
		return models.Recommend
	case overall >= maybeThreshold:
		return models.Maybe
	default:
		return models.NotRecommend
	}
}

// StrengthsForScore enumerates strengths for the score tier: higher scores
// enumerate more of the pool.
func StrengthsForScore(overall int) []string {
	switch {
	case overall >= strongRecommendThreshold:
		return appendCopy(strengthPool[:5])
	case overall >= recommendThreshold:
		return appendCopy(strengthPool[:4])
	case overall >= maybeThreshold:
		return appendCopy(strengthPool[:3])
	default:
		return appendCopy(strengthPool[:2])
	}
}

// ConcernsForScore enumerates concerns for the score tier: lower scores
// enumerate more of the pool.
func ConcernsForScore(overall int) []string {
	switch {
	case overall >= strongRecommendThreshold:
		return appendCopy(concernPool[:1])
	case overall >= recommendThreshold:
		return appendCopy(concernPool[:2])
	case overall >= maybeThreshold:
		return appendCopy(concernPool[:3])
	default:
		return appendCopy(concernPool[:4])
	}
}

// RedFlagsForScore is non-empty only below the low-score cutoff.
func RedFlagsForScore(overall int) []string {
	if overall >= maybeThreshold {
		return []string{}
	}
	return appendCopy(redFlagPool)
}

// KeyHighlights takes the first three candidate utterances; quotes longer
// than the budget are truncated with a trailing ellipsis.
func KeyHighlights(transcript models.Transcript) []models.KeyHighlight {
	highlights := make([]models.KeyHighlight, 0, 3)
	for _, entry := range transcript {
		if entry.Speaker != models.SpeakerCandidate {
			continue
		}
		highlights = append(highlights, models.KeyHighlight{
			Quote:     truncateQuote(entry.Content),
			Context:   highlightContext,
			Sentiment: models.SentimentPositive,
		})
		if len(highlights) == 3 {
			break
		}
	}
	return highlights
}

func truncateQuote(content string) string {
	runes := []rune(content)
	if len(runes) <= maxQuoteLen {
		return content
	}
	return string(runes[:maxQuoteLen]) + "..."
}

func scoreSummary(overall int, recommendation models.Recommendation, turns int) string {
	return fmt.Sprintf(
		"The candidate scored %d overall across a %d-turn interview. Assessment outcome: %s.",
		overall, turns, recommendation)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func appendCopy(items []string) []string {
	return append([]string(nil), items...)
}
