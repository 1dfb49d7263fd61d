package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nikogura/cvanon/pkg/candidate"
	"github.com/nikogura/cvanon/pkg/profile"
	"github.com/nikogura/cvanon/pkg/renderer"
	"github.com/nikogura/cvanon/pkg/smartrecruiters"
	"github.com/pkg/errors"
)

// Response formats.
const (
	FormatWord     = "word"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

const (
	notPermitted  = "Not permitted to see this candidate"
	reasonServer  = "server"
	dateLayout    = time.RFC1123Z
	docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrorResponse is the JSON body of every failed candidate request.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Date    string `json:"date"`
	URL     string `json:"url"`
	Error   any    `json:"error,omitempty"`
}

// ErrorDetail describes a failure inside this service.
type ErrorDetail struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// badRequest is raised for malformed request parameters.
type badRequest struct {
	message string
}

func (e *badRequest) Error() (msg string) {
	msg = e.message
	return msg
}

func (s *Server) handleCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("candidateId")
	query := r.URL.Query()

	format, positions, err := s.requestOptions(candidateID, query.Get("jobId"), query.Get("f"), query.Get("n"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var src profile.Source
	src, err = s.fetcher.Source(r.Context(), candidateID, query.Get("jobId"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var p profile.Profile
	p, err = s.builder.WithPositions(positions).Build(r.Context(), src)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	switch format {
	case FormatJSON:
		s.jsonResponse(w, http.StatusOK, p)
	case FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(renderer.Markdown(p)))
	default:
		err = s.wordResponse(w, r, p)
		if err != nil {
			s.errorResponse(w, r, err)
		}
	}
}

// requestOptions validates the request parameters, returning the response
// format and the number of positions to include.
func (s *Server) requestOptions(candidateID, jobID, format, n string) (f string, positions int, err error) {
	if !candidate.ValidID(candidateID) {
		err = &badRequest{message: fmt.Sprintf("Bad request: %s is not a valid id", candidateID)}
		return f, positions, err
	}
	if jobID != "" && !candidate.ValidID(jobID) {
		err = &badRequest{message: fmt.Sprintf("Bad request: %s is not a valid id", jobID)}
		return f, positions, err
	}

	f = format
	if f == "" {
		f = s.cfg.Defaults.Format
	}
	if f == "" {
		f = FormatWord
	}
	switch f {
	case FormatWord, FormatJSON, FormatMarkdown:
	default:
		err = &badRequest{message: fmt.Sprintf("Bad request: %s is not a supported format", format)}
		return f, positions, err
	}

	positions = s.cfg.Defaults.NumberOfPositions
	if n != "" {
		positions, err = strconv.Atoi(n)
		if err != nil || positions <= 0 {
			err = &badRequest{message: fmt.Sprintf("Bad request: %s is not a valid number of positions", n)}
			return f, positions, err
		}
	}

	return f, positions, err
}

// wordResponse renders p to a Word document and streams it as an attachment.
func (s *Server) wordResponse(w http.ResponseWriter, r *http.Request, p profile.Profile) (err error) {
	var dir string
	dir, err = os.MkdirTemp("", "cvanon-*")
	if err != nil {
		err = errors.Wrap(err, "failed to create render directory")
		return err
	}
	defer os.RemoveAll(dir)

	markdownPath := filepath.Join(dir, "profile.md")
	outputPath := filepath.Join(dir, "profile.docx")

	err = renderer.WriteMarkdown(renderer.Markdown(p), markdownPath)
	if err != nil {
		return err
	}

	err = s.renderDocx(r.Context(), markdownPath, outputPath, s.cfg.Pandoc.ReferenceDoc)
	if err != nil {
		return err
	}

	var doc []byte
	doc, err = os.ReadFile(outputPath)
	if err != nil {
		err = errors.Wrap(err, "failed to read rendered document")
		return err
	}

	w.Header().Set("Content-Type", docxMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", profile.FileName(p)))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
	return err
}

// errorResponse maps err onto the error envelope and writes it.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := s.envelope(err, r.URL.RequestURI(), time.Now())
	s.logger.Warn("request failed", "url", resp.URL, "status", resp.Status, "error", err)
	s.jsonResponse(w, resp.Status, resp)
}

// envelope builds the error body for err. Upstream 401s for unknown ids
// become 404s; rate limiting and unavailability pass through. Details are
// omitted from 400 and 404 responses.
func (s *Server) envelope(err error, url string, now time.Time) (resp ErrorResponse) {
	resp = ErrorResponse{
		Type: "error",
		Message: fmt.Sprintf("Sorry, an error occurred! Please report it to %s and include the full output of this page",
			s.cfg.SupportEmailAddress),
		Status: http.StatusInternalServerError,
		Date:   now.Format(dateLayout),
		URL:    url,
	}

	var bad *badRequest
	if errors.As(err, &bad) {
		resp.Message = bad.message
		resp.Status = http.StatusBadRequest
		return resp
	}

	var apiErr *smartrecruiters.APIError
	if !errors.As(err, &apiErr) {
		resp.Error = ErrorDetail{Message: err.Error(), Reason: reasonServer}
		return resp
	}

	switch {
	case apiErr.Status == http.StatusUnauthorized && apiErr.Message == notPermitted:
		resp.Message = "The Smart Recruiters candidate or job was not found."
		resp.Status = http.StatusNotFound
	case apiErr.Status == http.StatusTooManyRequests:
		resp.Type = "warning"
		resp.Message = "The Smart Recruiters API rate limit has been exceeded. Please try again in a few seconds."
		resp.Status = apiErr.Status
	case apiErr.Status == http.StatusServiceUnavailable:
		resp.Message = "Smart Recruiters API is currently unavailable. Please try again later"
		resp.Status = apiErr.Status
	}

	if resp.Status != http.StatusBadRequest && resp.Status != http.StatusNotFound {
		resp.Error = apiErr
	}
	return resp
}
