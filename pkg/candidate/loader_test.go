package candidate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func testCandidate() (c Candidate) {
	c = Candidate{
		ID:        "def-456",
		FirstName: "Mary",
		LastName:  "Smith",
		PrimaryAssignment: Assignment{
			Job: JobSummary{Title: "Account Manager"},
		},
		Tags: []string{"google-cloud", "social-media"},
		Experience: []Experience{
			{
				Title:       "Data Scientist",
				Company:     "Sterling Cooper",
				StartDate:   "2015-01",
				EndDate:     "2020-01",
				Description: "Mary worked on a top secret project. She wrote a data harvester.",
			},
		},
	}
	return c
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test data: %v", err)
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
}

func TestLoad(t *testing.T) {
	// Create a test candidate file.
	tmpDir := t.TempDir()
	candidatePath := filepath.Join(tmpDir, "candidate.json")
	writeJSON(t, candidatePath, testCandidate())

	c, err := Load(candidatePath)
	if err != nil {
		t.Fatalf("Failed to load candidate: %v", err)
	}

	if c.FirstName != "Mary" {
		t.Errorf("Expected first name Mary, got %s", c.FirstName)
	}

	if c.PrimaryAssignment.Job.Title != "Account Manager" {
		t.Errorf("Expected job title Account Manager, got %s", c.PrimaryAssignment.Job.Title)
	}

	if len(c.Experience) != 1 {
		t.Fatalf("Expected 1 experience, got %d", len(c.Experience))
	}

	if c.Experience[0].Company != "Sterling Cooper" {
		t.Errorf("Expected company Sterling Cooper, got %s", c.Experience[0].Company)
	}
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/candidate.json")
	if err == nil {
		t.Error("Expected error loading nonexistent file, got nil")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	candidatePath := filepath.Join(tmpDir, "invalid.json")

	err := os.WriteFile(candidatePath, []byte("{invalid json"), 0600)
	if err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err = Load(candidatePath)
	if err == nil {
		t.Error("Expected error parsing invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	missingFirst := testCandidate()
	missingFirst.FirstName = ""

	missingID := testCandidate()
	missingID.ID = ""

	badDate := testCandidate()
	badDate.Experience[0].StartDate = "January 2015"

	dayDate := testCandidate()
	dayDate.Experience[0].EndDate = "2020-01-31"

	current := testCandidate()
	current.Experience[0].EndDate = ""
	current.Experience[0].Current = true

	tests := []struct {
		name      string
		candidate Candidate
		wantError bool
	}{
		{name: "valid candidate", candidate: testCandidate(), wantError: false},
		{name: "missing first name", candidate: missingFirst, wantError: true},
		{name: "missing id", candidate: missingID, wantError: true},
		{name: "unparseable start date", candidate: badDate, wantError: true},
		{name: "day precision date", candidate: dayDate, wantError: false},
		{name: "current position without end date", candidate: current, wantError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.candidate.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestLoadScreeningAnswers(t *testing.T) {
	tmpDir := t.TempDir()
	answersPath := filepath.Join(tmpDir, "answers.json")

	raw := `{
  "totalFound": 1,
  "content": [
    {
      "id": "939f5a59-2c4e-41ef-b1f9-e401fa5a58bd",
      "type": "radio",
      "name": "Employment Visa Status",
      "label": "Will you now or in the future require sponsorship for employment visa status?",
      "records": [{"fields": [{"id": "value", "label": "Value", "values": [{"id": "0", "label": "No"}]}]}]
    }
  ]
}`
	err := os.WriteFile(answersPath, []byte(raw), 0600)
	if err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	answers, err := LoadScreeningAnswers(answersPath)
	if err != nil {
		t.Fatalf("Failed to load screening answers: %v", err)
	}

	answer, ok := answers.Find("Employment Visa Status")
	if !ok {
		t.Fatal("Expected to find visa status answer")
	}

	if answer.RadioValue() != "No" {
		t.Errorf("Expected radio value No, got %q", answer.RadioValue())
	}

	_, ok = answers.Find("Salary Expectation")
	if ok {
		t.Error("Expected no answer for unknown question")
	}
}

func TestRadioValueWithoutRecords(t *testing.T) {
	answer := Answer{Name: "Employment Visa Status", Records: []Record{{}}}
	if answer.RadioValue() != "" {
		t.Errorf("Expected empty radio value, got %q", answer.RadioValue())
	}
}

func TestLoadJob(t *testing.T) {
	tmpDir := t.TempDir()
	jobPath := filepath.Join(tmpDir, "job.json")
	writeJSON(t, jobPath, Job{ID: "j-1", RefNumber: "REF123", Title: "Account Manager"})

	job, err := LoadJob(jobPath)
	if err != nil {
		t.Fatalf("Failed to load job: %v", err)
	}

	if job.RefNumber != "REF123" {
		t.Errorf("Expected ref number REF123, got %s", job.RefNumber)
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"206cd39b-98f1-44c2-a229-91c1f0758e4d", true},
		{"206CD39B-98F1-44C2-A229-91C1F0758E4D", true},
		{"abc-123", false},
		{"", false},
		{"206cd39b98f144c2a22991c1f0758e4d", false},
		{"{206cd39b-98f1-44c2-a229-91c1f0758e4d}", false},
		{"206cd39b-98f1-44c2-a229-91c1f0758e4z", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidID(tt.id); got != tt.want {
				t.Errorf("ValidID(%q) = %v, expected %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2015-03")
	if err != nil {
		t.Fatalf("Failed to parse month date: %v", err)
	}
	if got.Year() != 2015 || got.Month() != 3 {
		t.Errorf("Expected 2015-03, got %s", got)
	}

	got, err = ParseDate("2015-03-20")
	if err != nil {
		t.Fatalf("Failed to parse day date: %v", err)
	}
	if got.Day() != 20 {
		t.Errorf("Expected day 20, got %d", got.Day())
	}

	_, err = ParseDate("03/2015")
	if err == nil {
		t.Error("Expected error for unsupported layout, got nil")
	}
}
