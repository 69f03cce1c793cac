package qualification

import (
	"testing"

	"leadboard/internal/domain"

	"github.com/stretchr/testify/assert"
)

func yesNo(id string, yes int) domain.QualificationQuestion {
	return domain.QualificationQuestion{
		QuestionID: id,
		IsActive:   true,
		Options: []domain.AnswerOption{
			{OptionID: id + "_yes", Text: "Yes", Score: yes},
			{OptionID: id + "_no", Text: "No", Score: 0},
		},
	}
}

func TestScore(t *testing.T) {
	catalog := []domain.QualificationQuestion{yesNo("q1", 10), yesNo("q2", 5)}

	tests := []struct {
		name      string
		answers   []Answer
		total     int
		threshold int
		status    domain.QualificationStatus
	}{
		{"empty answers", nil, 0, 0, domain.StatusQualified},
		{"boundary qualifies", []Answer{{"q1", "q1_yes"}, {"q2", "q2_no"}}, 10, 10, domain.StatusQualified},
		{"below threshold", []Answer{{"q1", "q1_no"}, {"q2", "q2_yes"}}, 5, 10, domain.StatusFaulty},
		{"all yes", []Answer{{"q1", "q1_yes"}, {"q2", "q2_yes"}}, 15, 10, domain.StatusQualified},
		{"unknown question", []Answer{{"ghost", "x"}, {"q2", "q2_yes"}}, 5, 5, domain.StatusQualified},
		{"unknown option", []Answer{{"q1", "maybe"}}, 0, 1, domain.StatusFaulty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, _ := Score(tt.answers, catalog)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.status, Classify(total, tt.threshold))
		})
	}
}

func TestScore_Reasons(t *testing.T) {
	catalog := []domain.QualificationQuestion{yesNo("q1", 10)}
	_, outcomes := Score([]Answer{{"ghost", "x"}, {"q1", "maybe"}, {"q1", "q1_yes"}}, catalog)

	assert.Equal(t, []Outcome{
		{QuestionID: "ghost", OptionID: "x", Skipped: true, Reason: ReasonUnknownQuestion},
		{QuestionID: "q1", OptionID: "maybe", Score: 0, Reason: ReasonUnknownOption},
		{QuestionID: "q1", OptionID: "q1_yes", Score: 10},
	}, outcomes)
}

func TestScore_Idempotent(t *testing.T) {
	catalog := []domain.QualificationQuestion{yesNo("q1", 10), yesNo("q2", 5)}
	answers := []Answer{{"q1", "q1_yes"}, {"q2", "q2_yes"}}

	a, oa := Score(answers, catalog)
	b, ob := Score(answers, catalog)
	assert.Equal(t, a, b)
	assert.Equal(t, oa, ob)
}
