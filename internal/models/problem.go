package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type TopicTag struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// Question is one catalog entry as served by the info routes.
type Question struct {
	AcRate             float64     `json:"acRate"`
	Difficulty         Difficulty  `json:"difficulty"`
	Likes              int         `json:"likes"`
	Dislikes           int         `json:"dislikes"`
	CategoryTitle      string      `json:"categoryTitle"`
	FrontendQuestionID string      `json:"frontendQuestionId"`
	PaidOnly           bool        `json:"paidOnly"`
	Title              string      `json:"title"`
	TitleSlug          string      `json:"titleSlug"`
	TopicTags          []TopicTag  `json:"topicTags"`
	HasSolution        bool        `json:"hasSolution"`
	HasVideoSolution   bool        `json:"hasVideoSolution"`
	TotalAcceptedRaw   OptionalInt `json:"totalAcceptedRaw,omitzero"`
	TotalSubmissionRaw OptionalInt `json:"totalSubmissionRaw,omitzero"`
}

// Catalog maps frontend question id to its question. It is stored and
// replaced as a single value.
type Catalog map[string]Question

// OptionalInt is an integer that may be absent. An absent value is omitted
// from JSON output and decodes from a missing field or null.
type OptionalInt struct {
	Value int64
	Valid bool
}

func SomeInt(v int64) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

func (o OptionalInt) IsZero() bool {
	return !o.Valid
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, o.Value, 10), nil
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = OptionalInt{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = SomeInt(v)
	return nil
}
