package models

// ProblemRow is a question as returned by the upstream problemset query. Stats
// carries a JSON encoded string with raw submission counts.
type ProblemRow struct {
	AcRate             float64    `json:"acRate"`
	Difficulty         Difficulty `json:"difficulty"`
	Likes              int        `json:"likes"`
	Dislikes           int        `json:"dislikes"`
	CategoryTitle      string     `json:"categoryTitle"`
	FrontendQuestionID string     `json:"frontendQuestionId" validate:"required"`
	PaidOnly           bool       `json:"paidOnly"`
	Title              string     `json:"title"`
	TitleSlug          string     `json:"titleSlug" validate:"required"`
	TopicTags          []TopicTag `json:"topicTags"`
	HasSolution        bool       `json:"hasSolution"`
	HasVideoSolution   bool       `json:"hasVideoSolution"`
	Stats              string     `json:"stats"`
}

// ProblemPage is one page of the problemset query.
type ProblemPage struct {
	Total     int          `json:"total"`
	Questions []ProblemRow `json:"questions"`
}

// QuestionStats is the subset of the stats payload kept in the catalog.
type QuestionStats struct {
	TotalAcceptedRaw   OptionalInt `json:"totalAcceptedRaw"`
	TotalSubmissionRaw OptionalInt `json:"totalSubmissionRaw"`
}

// ToQuestion copies the row into a catalog entry with the given stats.
func (r ProblemRow) ToQuestion(stats QuestionStats) Question {
	tags := r.TopicTags
	if tags == nil {
		tags = []TopicTag{}
	}
	return Question{
		AcRate:             r.AcRate,
		Difficulty:         r.Difficulty,
		Likes:              r.Likes,
		Dislikes:           r.Dislikes,
		CategoryTitle:      r.CategoryTitle,
		FrontendQuestionID: r.FrontendQuestionID,
		PaidOnly:           r.PaidOnly,
		Title:              r.Title,
		TitleSlug:          r.TitleSlug,
		TopicTags:          tags,
		HasSolution:        r.HasSolution,
		HasVideoSolution:   r.HasVideoSolution,
		TotalAcceptedRaw:   stats.TotalAcceptedRaw,
		TotalSubmissionRaw: stats.TotalSubmissionRaw,
	}
}
