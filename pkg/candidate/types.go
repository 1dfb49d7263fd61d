package candidate

// Candidate is a person record as returned by the HR system.
type Candidate struct {
	ID                string       `json:"id" validate:"required"`
	FirstName         string       `json:"firstName" validate:"required"`
	LastName          string       `json:"lastName" validate:"required"`
	PrimaryAssignment Assignment   `json:"primaryAssignment"`
	Tags              []string     `json:"tags,omitempty"`
	Experience        []Experience `json:"experience,omitempty" validate:"dive"`
}

// Assignment links a candidate to the job they applied for.
type Assignment struct {
	Job JobSummary `json:"job"`
}

// JobSummary is the job reference embedded in an assignment.
type JobSummary struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
}

// Experience is one work-experience entry. Dates are "YYYY-MM" or
// "YYYY-MM-DD".
type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"startDate,omitempty" validate:"omitempty,datemonth"`
	EndDate     string `json:"endDate,omitempty" validate:"omitempty,datemonth"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

// Job is a job posting.
type Job struct {
	ID        string `json:"id"`
	RefNumber string `json:"refNumber"`
	Title     string `json:"title"`
}

// ScreeningAnswers holds a candidate's answers to a job's screening
// questions.
type ScreeningAnswers struct {
	TotalFound int      `json:"totalFound"`
	Content    []Answer `json:"content"`
}

// Answer is the response to one screening question.
type Answer struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Category string   `json:"category,omitempty"`
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Records  []Record `json:"records"`
}

// Record is one set of answer fields.
type Record struct {
	Fields []Field `json:"fields"`
}

// Field is one answer field with its chosen values.
type Field struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Values []Value `json:"values"`
}

// Value is a chosen option.
type Value struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Find returns the answer to the named question.
func (s *ScreeningAnswers) Find(name string) (answer Answer, ok bool) {
	for _, a := range s.Content {
		if a.Name == name {
			answer = a
			ok = true
			return answer, ok
		}
	}
	return answer, ok
}

// RadioValue returns the label of the first chosen value, or "".
func (a Answer) RadioValue() (label string) {
	for _, r := range a.Records {
		if len(r.Fields) == 0 || len(r.Fields[0].Values) == 0 {
			continue
		}
		label = r.Fields[0].Values[0].Label
		return label
	}
	return label
}
