package qualification

import "leadboard/internal/domain"

const (
	ReasonUnknownQuestion = "unknown_question"
	ReasonUnknownOption   = "unknown_option"
)

// Answer is one submitted choice.
type Answer struct {
	QuestionID string `json:"question_id" validate:"required"`
	OptionID   string `json:"option_id"`
}

// Outcome is the contribution of one submitted answer. Skipped answers do
// not appear in the stored breakdown.
type Outcome struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
	Score      int    `json:"score"`
	Skipped    bool   `json:"skipped,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Score sums the option scores of answers against the active catalog.
// Unknown questions are skipped and unknown options score 0.
func Score(answers []Answer, catalog []domain.QualificationQuestion) (int, []Outcome) {
	byID := make(map[string]*domain.QualificationQuestion, len(catalog))
	for i := range catalog {
		byID[catalog[i].QuestionID] = &catalog[i]
	}

	total := 0
	outcomes := make([]Outcome, 0, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			outcomes = append(outcomes, Outcome{
				QuestionID: a.QuestionID,
				OptionID:   a.OptionID,
				Skipped:    true,
				Reason:     ReasonUnknownQuestion,
			})
			continue
		}

		o := Outcome{QuestionID: a.QuestionID, OptionID: a.OptionID, Reason: ReasonUnknownOption}
		for _, opt := range q.Options {
			if opt.OptionID == a.OptionID {
				o.Score = opt.Score
				o.Reason = ""
				break
			}
		}
		total += o.Score
		outcomes = append(outcomes, o)
	}
	return total, outcomes
}

// Classify compares a total against the threshold; reaching it qualifies.
func Classify(total, threshold int) domain.QualificationStatus {
	if total >= threshold {
		return domain.StatusQualified
	}
	return domain.StatusFaulty
}
