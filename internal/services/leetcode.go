package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"LCID/internal/models"

	"go.uber.org/zap"
)

// ErrInvalidResponse is returned when the upstream answer lacks the expected
// data envelope.
var ErrInvalidResponse = errors.New("invalid problemset response")

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"

const problemsetQuery = `
query problemsetQuestionList(
	$categorySlug: String,
	$limit: Int,
	$skip: Int,
	$filters: QuestionListFilterInput
) {
	problemsetQuestionList: questionList(
		categorySlug: $categorySlug
		limit: $limit
		skip: $skip
		filters: $filters
	) {
		total: totalNum
		questions: data {
			acRate
			difficulty
			likes
			dislikes
			categoryTitle
			frontendQuestionId: questionFrontendId
			paidOnly: isPaidOnly
			title
			titleSlug
			topicTags {
				name
				id
				slug
			}
			hasSolution
			hasVideoSolution
			stats
		}
	}
}`

// Credentials are the session cookies the problemset endpoint expects.
type Credentials struct {
	CFClearance string
	CSRFToken   string
}

func (c Credentials) Complete() bool {
	return c.CFClearance != "" && c.CSRFToken != ""
}

func (c Credentials) cookie() string {
	return fmt.Sprintf("cf_clearance=%s; csrftoken=%s", c.CFClearance, c.CSRFToken)
}

// ProblemFetcher retrieves one page of the upstream problemset.
type ProblemFetcher interface {
	FetchProblems(ctx context.Context, creds Credentials, limit, skip int) (*models.ProblemPage, error)
}

type LeetCodeClient struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

func NewLeetCodeClient(endpoint string, timeout time.Duration, log *zap.Logger) *LeetCodeClient {
	return &LeetCodeClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("leetcode"),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type problemsetResponse struct {
	Data *struct {
		ProblemsetQuestionList *models.ProblemPage `json:"problemsetQuestionList"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// FetchProblems sends one problemset query. The limit is always sent; the
// upstream default page size is far smaller than the catalog.
func (c *LeetCodeClient) FetchProblems(ctx context.Context, creds Credentials, limit, skip int) (*models.ProblemPage, error) {
	body, err := json.Marshal(graphQLRequest{
		Query: problemsetQuery,
		Variables: map[string]any{
			"categorySlug": "",
			"skip":         skip,
			"limit":        limit,
			"filters":      map[string]any{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", creds.cookie())
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Csrftoken", creds.CSRFToken)
	req.Header.Set("Referer", "https://leetcode.com")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Error("Problemset request rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", data))
		return nil, fmt.Errorf("%w: unexpected status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var payload problemsetResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrInvalidResponse, err)
	}

	if len(payload.Errors) > 0 {
		c.log.Error("Problemset query returned errors",
			zap.String("first_error", payload.Errors[0].Message),
			zap.Int("error_count", len(payload.Errors)))
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, payload.Errors[0].Message)
	}

	if payload.Data == nil || payload.Data.ProblemsetQuestionList == nil {
		return nil, fmt.Errorf("%w: missing data.problemsetQuestionList", ErrInvalidResponse)
	}

	page := payload.Data.ProblemsetQuestionList
	c.log.Debug("Fetched problemset page",
		zap.Int("limit", limit),
		zap.Int("skip", skip),
		zap.Int("total", page.Total),
		zap.Int("returned", len(page.Questions)))

	return page, nil
}
