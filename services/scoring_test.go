package services

import (
	"strings"
	"testing"
	"time"

	"github.com/candorhq/candor/models"
)

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name     string
		scores   models.CategoryScores
		expected int
	}{
		{
			name:     "All equal",
			scores:   models.CategoryScores{Technical: 80, Communication: 80, CulturalFit: 80, Experience: 80, ProblemSolving: 80},
			expected: 80,
		},
		{
			name:     "Fraction below half rounds down",
			scores:   models.CategoryScores{Technical: 81, Communication: 81, CulturalFit: 80, Experience: 80, ProblemSolving: 80}, // 402/5 = 80.4
			expected: 80,
		},
		{
			name:     "Fraction above half rounds up",
			scores:   models.CategoryScores{Technical: 81, Communication: 81, CulturalFit: 81, Experience: 80, ProblemSolving: 80}, // 403/5 = 80.6
			expected: 81,
		},
		{
			name:     "Zero scores",
			scores:   models.CategoryScores{},
			expected: 0,
		},
		{
			name:     "Perfect scores",
			scores:   models.CategoryScores{Technical: 100, Communication: 100, CulturalFit: 100, Experience: 100, ProblemSolving: 100},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallScore(tt.scores); got != tt.expected {
				t.Errorf("OverallScore() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestOverallScorePermutationStable(t *testing.T) {
	base := models.CategoryScores{Technical: 91, Communication: 67, CulturalFit: 74, Experience: 88, ProblemSolving: 59}
	permuted := models.CategoryScores{Technical: 59, Communication: 91, CulturalFit: 88, Experience: 67, ProblemSolving: 74}

	if OverallScore(base) != OverallScore(permuted) {
		t.Errorf("category order affected the mean: %d vs %d", OverallScore(base), OverallScore(permuted))
	}
}

func TestRecommendationForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected models.Recommendation
	}{
		{100, models.StronglyRecommend},
		{85, models.StronglyRecommend},
		{84, models.Recommend},
		{70, models.Recommend},
		{69, models.Maybe},
		{60, models.Maybe},
		{59, models.NotRecommend},
		{0, models.NotRecommend},
	}

	for _, tt := range tests {
		if got := RecommendationForScore(tt.score); got != tt.expected {
			t.Errorf("RecommendationForScore(%d) = %s, expected %s", tt.score, got, tt.expected)
		}
	}
}

func TestRedFlagsForScore(t *testing.T) {
	tests := []struct {
		score     int
		wantFlags bool
	}{
		{100, false},
		{60, false},
		{59, true},
		{0, true},
	}

	for _, tt := range tests {
		flags := RedFlagsForScore(tt.score)
		if (len(flags) > 0) != tt.wantFlags {
			t.Errorf("RedFlagsForScore(%d) returned %d flags, wantFlags=%v", tt.score, len(flags), tt.wantFlags)
		}
	}
}

func TestStrengthsAndConcernsScaleWithTier(t *testing.T) {
	tests := []struct {
		score     int
		strengths int
		concerns  int
	}{
		{92, 5, 1},
		{85, 5, 1},
		{84, 4, 2},
		{70, 4, 2},
		{69, 3, 3},
		{60, 3, 3},
		{59, 2, 4},
		{10, 2, 4},
	}

	for _, tt := range tests {
		if got := len(StrengthsForScore(tt.score)); got != tt.strengths {
			t.Errorf("StrengthsForScore(%d) length = %d, expected %d", tt.score, got, tt.strengths)
		}
		if got := len(ConcernsForScore(tt.score)); got != tt.concerns {
			t.Errorf("ConcernsForScore(%d) length = %d, expected %d", tt.score, got, tt.concerns)
		}
	}
}

func TestKeyHighlights(t *testing.T) {
	long := strings.Repeat("a", 150)
	transcript := models.Transcript{
		{ID: "t1", Speaker: models.SpeakerAI, Content: "Question one", Timestamp: time.Now()},
		{ID: "t2", Speaker: models.SpeakerCandidate, Content: "Answer one", Timestamp: time.Now()},
		{ID: "t3", Speaker: models.SpeakerCandidate, Content: long, Timestamp: time.Now()},
		{ID: "t4", Speaker: models.SpeakerAI, Content: "Question two", Timestamp: time.Now()},
		{ID: "t5", Speaker: models.SpeakerCandidate, Content: "Answer three", Timestamp: time.Now()},
		{ID: "t6", Speaker: models.SpeakerCandidate, Content: "Answer four, never highlighted", Timestamp: time.Now()},
	}

	highlights := KeyHighlights(transcript)

	if len(highlights) != 3 {
		t.Fatalf("expected 3 highlights, got %d", len(highlights))
	}
	if highlights[0].Quote != "Answer one" {
		t.Errorf("first quote = %q, expected %q", highlights[0].Quote, "Answer one")
	}
	if expected := strings.Repeat("a", 100) + "..."; highlights[1].Quote != expected {
		t.Errorf("long quote not truncated to 100 runes with ellipsis: got %d chars", len(highlights[1].Quote))
	}
	if highlights[2].Quote != "Answer three" {
		t.Errorf("third quote = %q, expected %q", highlights[2].Quote, "Answer three")
	}
	for i, h := range highlights {
		if h.Context != highlightContext {
			t.Errorf("highlight %d context = %q, expected %q", i, h.Context, highlightContext)
		}
		if h.Sentiment != models.SentimentPositive {
			t.Errorf("highlight %d sentiment = %q, expected positive", i, h.Sentiment)
		}
	}
}

func TestKeyHighlightsShortTranscript(t *testing.T) {
	transcript := models.Transcript{
		{ID: "t1", Speaker: models.SpeakerAI, Content: "Only the interviewer spoke"},
	}
	if got := KeyHighlights(transcript); len(got) != 0 {
		t.Errorf("expected no highlights, got %d", len(got))
	}
	if got := KeyHighlights(nil); len(got) != 0 {
		t.Errorf("expected no highlights for empty transcript, got %d", len(got))
	}
}

func TestReferenceScorer(t *testing.T) {
	transcript := models.Transcript{
		{ID: "t1", Speaker: models.SpeakerAI, Content: "Tell me about yourself"},
		{ID: "t2", Speaker: models.SpeakerCandidate, Content: "I build backend systems"},
	}

	t.Run("analysis is internally consistent", func(t *testing.T) {
		scorer := NewReferenceScorer(42)
		analysis := scorer.Score(transcript)

		if got := OverallScore(analysis.CategoryScores); got != analysis.OverallScore {
			t.Errorf("overall score %d does not match category mean %d", analysis.OverallScore, got)
		}
		if got := RecommendationForScore(analysis.OverallScore); got != analysis.Recommendation {
			t.Errorf("recommendation %s does not match score %d", analysis.Recommendation, analysis.OverallScore)
		}
		if analysis.OverallScore < 0 || analysis.OverallScore > 100 {
			t.Errorf("overall score %d out of range", analysis.OverallScore)
		}
		for _, score := range []int{
			analysis.CategoryScores.Technical, analysis.CategoryScores.Communication,
			analysis.CategoryScores.CulturalFit, analysis.CategoryScores.Experience,
			analysis.CategoryScores.ProblemSolving,
		} {
			if score < 0 || score > 100 {
				t.Errorf("category score %d out of range", score)
			}
		}
		if analysis.Summary == "" {
			t.Error("expected non-empty summary")
		}
	})

	t.Run("confidence is bounded and tier correlated", func(t *testing.T) {
		scorer := NewReferenceScorer(7)
		for i := 0; i < 50; i++ {
			analysis := scorer.Score(transcript)
			if analysis.ConfidenceScore < 0 || analysis.ConfidenceScore > 100 {
				t.Fatalf("confidence %d out of range", analysis.ConfidenceScore)
			}
			diff := analysis.ConfidenceScore - analysis.OverallScore
			if diff < -10 || diff > 10 {
				t.Fatalf("confidence %d drifted %d from overall %d", analysis.ConfidenceScore, diff, analysis.OverallScore)
			}
		}
	})

	t.Run("same seed reproduces the run", func(t *testing.T) {
		first := NewReferenceScorer(99).Score(transcript)
		second := NewReferenceScorer(99).Score(transcript)

		if first.CategoryScores != second.CategoryScores {
			t.Errorf("seeded runs diverged: %+v vs %+v", first.CategoryScores, second.CategoryScores)
		}
		if first.ConfidenceScore != second.ConfidenceScore {
			t.Errorf("seeded confidence diverged: %d vs %d", first.ConfidenceScore, second.ConfidenceScore)
		}
	})
}
