package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_OptionalCountsOmittedWhenAbsent(t *testing.T) {
	q := Question{FrontendQuestionID: "1", TitleSlug: "two-sum", TopicTags: []TopicTag{}}

	data, err := json.Marshal(q)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "totalAcceptedRaw")
	assert.NotContains(t, fields, "totalSubmissionRaw")
	assert.Contains(t, fields, "frontendQuestionId")
}

func TestQuestion_OptionalCountsWrittenWhenPresent(t *testing.T) {
	q := Question{
		FrontendQuestionID: "1",
		TotalAcceptedRaw:   SomeInt(0),
		TotalSubmissionRaw: SomeInt(12345678901),
	}

	data, err := json.Marshal(q)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "0", string(fields["totalAcceptedRaw"]))
	assert.Equal(t, "12345678901", string(fields["totalSubmissionRaw"]))
}

func TestOptionalInt_Unmarshal(t *testing.T) {
	var q Question
	require.NoError(t, json.Unmarshal([]byte(`{"totalAcceptedRaw":7,"totalSubmissionRaw":null}`), &q))

	assert.Equal(t, SomeInt(7), q.TotalAcceptedRaw)
	assert.False(t, q.TotalSubmissionRaw.Valid)

	assert.Error(t, json.Unmarshal([]byte(`{"totalAcceptedRaw":"7"}`), &q))
}

func TestProblemRow_ToQuestion(t *testing.T) {
	r := ProblemRow{
		AcRate:             49.5,
		Difficulty:         DifficultyHard,
		FrontendQuestionID: "4",
		Title:              "Median of Two Sorted Arrays",
		TitleSlug:          "median-of-two-sorted-arrays",
		PaidOnly:           true,
		Stats:              `{"totalAcceptedRaw":1}`,
	}

	q := r.ToQuestion(QuestionStats{TotalAcceptedRaw: SomeInt(1)})

	assert.Equal(t, "4", q.FrontendQuestionID)
	assert.Equal(t, DifficultyHard, q.Difficulty)
	assert.True(t, q.PaidOnly)
	assert.NotNil(t, q.TopicTags)
	assert.Equal(t, SomeInt(1), q.TotalAcceptedRaw)
	assert.False(t, q.TotalSubmissionRaw.Valid)
}

func TestServerError_JSON(t *testing.T) {
	data, err := json.Marshal(&ServerError{Code: 404, Message: "Cannot find problem 99."})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":404,"message":"Cannot find problem 99."}`, string(data))
}
