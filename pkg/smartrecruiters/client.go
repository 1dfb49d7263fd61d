// Package smartrecruiters is a read-only client for the SmartRecruiters
// candidate and job API.
package smartrecruiters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikogura/cvanon/pkg/candidate"
	"github.com/nikogura/cvanon/pkg/profile"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL is the SmartRecruiters API endpoint.
	DefaultBaseURL = "https://api.smartrecruiters.com"
	// TokenHeader carries the API key.
	TokenHeader = "X-SmartToken"
)

// Error reasons, matching the service's error envelope.
const (
	ReasonStatus      = "proxy/status"
	ReasonContentType = "proxy/content-type"
	ReasonOther       = "proxy/other"
)

// APIError describes a failed API call.
type APIError struct {
	Path    string `json:"path"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

func (e *APIError) Error() (msg string) {
	msg = fmt.Sprintf("%s %s: %d %s", e.Reason, e.Path, e.Status, e.Message)
	return msg
}

// Client represents a SmartRecruiters API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client. An empty baseURL means DefaultBaseURL.
func NewClient(apiKey, baseURL string) (client *Client) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client = &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	return client
}

// WithLogger returns a copy of c that logs requests to logger.
func (c *Client) WithLogger(logger *slog.Logger) (out *Client) {
	copied := *c
	copied.logger = logger
	out = &copied
	return out
}

// Candidate fetches a candidate record.
func (c *Client) Candidate(ctx context.Context, candidateID string) (record candidate.Candidate, err error) {
	err = c.get(ctx, "/candidates/"+url.PathEscape(candidateID), &record)
	return record, err
}

// ScreeningAnswers fetches a candidate's answers to a job's screening
// questions.
func (c *Client) ScreeningAnswers(ctx context.Context, candidateID, jobID string) (answers candidate.ScreeningAnswers, err error) {
	err = c.get(ctx, "/candidates/"+url.PathEscape(candidateID)+"/jobs/"+url.PathEscape(jobID)+"/screening-answers", &answers)
	return answers, err
}

// Job fetches a job posting.
func (c *Client) Job(ctx context.Context, jobID string) (job candidate.Job, err error) {
	err = c.get(ctx, "/jobs/"+url.PathEscape(jobID), &job)
	return job, err
}

// Source fetches everything needed to build a profile. An empty jobID means
// the candidate's primary assignment.
func (c *Client) Source(ctx context.Context, candidateID, jobID string) (src profile.Source, err error) {
	src.Candidate, err = c.Candidate(ctx, candidateID)
	if err != nil {
		return src, err
	}

	if jobID == "" {
		jobID = src.Candidate.PrimaryAssignment.Job.ID
	}
	if jobID == "" {
		err = errors.Errorf("candidate %s has no primary job assignment", candidateID)
		return src, err
	}

	var answers candidate.ScreeningAnswers
	var job candidate.Job

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		answers, err = c.ScreeningAnswers(gCtx, candidateID, jobID)
		return err
	})
	g.Go(func() (err error) {
		job, err = c.Job(gCtx, jobID)
		return err
	})

	err = g.Wait()
	if err != nil {
		return src, err
	}

	src.Answers = &answers
	src.Job = &job
	return src, err
}

func (c *Client) get(ctx context.Context, path string, v any) (err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return err
	}

	req.Header.Set(TokenHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Info("PROXY >>", "path", path)
	start := time.Now()

	var resp *http.Response
	resp, err = c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("PROXY <<", "path", path, "error", err)
		err = &APIError{Path: path, Status: http.StatusInternalServerError, Message: err.Error(), Reason: ReasonOther}
		return err
	}
	defer resp.Body.Close()

	c.logger.Info("PROXY <<", "path", path, "status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())

	var body []byte
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		err = &APIError{Path: path, Status: http.StatusInternalServerError, Message: err.Error(), Reason: ReasonOther}
		return err
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = &APIError{Path: path, Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, isJSON, body), Reason: ReasonStatus}
		return err
	}

	if !isJSON {
		err = &APIError{
			Path:    path,
			Status:  resp.StatusCode,
			Message: "Unexpected content type: " + resp.Header.Get("Content-Type"),
			Reason:  ReasonContentType,
		}
		return err
	}

	err = json.Unmarshal(body, v)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse response from %s", path)
		return err
	}

	return err
}

func errorMessage(status int, isJSON bool, body []byte) (msg string) {
	if isJSON {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
			msg = payload.Message
			return msg
		}
	}
	msg = fmt.Sprintf("Unexpected status code: %d (html)", status)
	return msg
}
