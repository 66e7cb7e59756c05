package titlematch

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

var numbers = regexp.MustCompile(`\b\d+\b`)

// Confidence grades a match score.
type Confidence int

const (
	None   Confidence = iota // score < 0.70
	Low                      // score >= 0.70
	Medium                   // score >= 0.85
	High                     // score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "none"
	}
}

// Match is the best candidate for a query.
type Match struct {
	Index      int        `json:"index"` // position in candidates, -1 if none
	Title      string     `json:"title"`
	Score      float64    `json:"score"`
	Confidence Confidence `json:"confidence"`
}

// Best scores every candidate against query with Jaro-Winkler similarity
// and returns the highest. Titles that disagree on a sequel number are
// penalised. Ties keep the earlier candidate, so upstream ranking wins.
func Best(query string, candidates []string) Match {
	best := Match{Index: -1}
	q := Clean(query)
	if q == "" {
		return best
	}
	qNums := numbers.FindAllString(q, -1)

	for i, c := range candidates {
		cc := Clean(c)
		score := float64(edlib.JaroWinklerSimilarity(q, cc))
		score = adjustForNumbers(score, qNums, numbers.FindAllString(cc, -1))
		if score > best.Score {
			best = Match{Index: i, Title: c, Score: score}
		}
	}

	best.Confidence = grade(best.Score)
	if best.Confidence == None {
		return Match{Index: -1, Score: best.Score}
	}
	return best
}

func grade(score float64) Confidence {
	switch {
	case score >= 0.95:
		return High
	case score >= 0.85:
		return Medium
	case score >= 0.70:
		return Low
	default:
		return None
	}
}

func adjustForNumbers(score float64, query, candidate []string) float64 {
	if len(query) == 0 {
		return score
	}
	if len(candidate) == 0 {
		return score * 0.85
	}
	for _, q := range query {
		for _, c := range candidate {
			if q == c {
				return min(score*1.05, 1.0)
			}
		}
	}
	return score * 0.90
}
