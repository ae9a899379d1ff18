package models

// Recommendation is the hiring recommendation tier derived from the overall score.
type Recommendation string

const (
	StronglyRecommend Recommendation = "strongly-recommend"
	Recommend         Recommendation = "recommend"
	Maybe             Recommendation = "maybe"
	NotRecommend      Recommendation = "not-recommend"
)

// Valid reports whether r is a known recommendation tier.
func (r Recommendation) Valid() bool {
	switch r {
	case StronglyRecommend, Recommend, Maybe, NotRecommend:
		return true
	}
	return false
}

// Sentiment classifies a key highlight.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// CategoryScores holds the five per-category scores, each 0-100.
type CategoryScores struct {
	Technical      int `json:"technical"`
	Communication  int `json:"communication"`
	CulturalFit    int `json:"cultural_fit"`
	Experience     int `json:"experience"`
	ProblemSolving int `json:"problem_solving"`
}

// KeyHighlight is a notable candidate quote pulled from the transcript.
type KeyHighlight struct {
	Quote     string    `json:"quote"`
	Context   string    `json:"context"`
	Sentiment Sentiment `json:"sentiment"`
}

// InterviewAnalysis is the scoring output for a completed session. It is
// embedded in the session as a value and never stored independently;
// recomputation replaces it wholesale.
type InterviewAnalysis struct {
	OverallScore    int            `json:"overall_score"` // 0 to 100
	CategoryScores  CategoryScores `json:"category_scores"`
	Strengths       []string       `json:"strengths"`
	Concerns        []string       `json:"concerns"`
	RedFlags        []string       `json:"red_flags"`
	KeyHighlights   []KeyHighlight `json:"key_highlights"`
	Recommendation  Recommendation `json:"recommendation"`
	ConfidenceScore int            `json:"confidence_score"` // 0 to 100
	Summary         string         `json:"summary"`
}
