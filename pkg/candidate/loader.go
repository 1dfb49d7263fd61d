// Package candidate holds the HR system's candidate, job and screening answer
// records, and loads them from disk.
package candidate

import (
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Date layouts accepted for experience start and end dates.
const (
	MonthLayout = "2006-01"
	DayLayout   = "2006-01-02"
)

// Load reads a candidate record from a JSON file.
func Load(path string) (c Candidate, err error) {
	err = readJSON(path, "candidate", &c)
	if err != nil {
		return c, err
	}

	err = c.Validate()
	if err != nil {
		err = errors.Wrap(err, "candidate validation failed")
		return c, err
	}

	return c, err
}

// LoadScreeningAnswers reads screening answers from a JSON file.
func LoadScreeningAnswers(path string) (answers ScreeningAnswers, err error) {
	err = readJSON(path, "screening answers", &answers)
	return answers, err
}

// LoadJob reads a job record from a JSON file.
func LoadJob(path string) (job Job, err error) {
	err = readJSON(path, "job", &job)
	return job, err
}

func readJSON(path, kind string, v any) (err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s file: %s", kind, path)
		return err
	}

	err = json.Unmarshal(data, v)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse %s JSON: %s", kind, path)
		return err
	}

	return err
}

// Validate checks that the record has the fields a profile needs.
func (c *Candidate) Validate() (err error) {
	validate := validator.New()
	err = validate.RegisterValidation("datemonth", validateDate)
	if err != nil {
		err = errors.Wrap(err, "failed to register date validation")
		return err
	}

	err = validate.Struct(c)
	if err != nil {
		err = errors.Wrapf(err, "candidate %s", c.ID)
		return err
	}

	return err
}

func validateDate(fl validator.FieldLevel) (ok bool) {
	_, err := ParseDate(fl.Field().String())
	ok = err == nil
	return ok
}

// ParseDate parses an experience date in either accepted layout.
func ParseDate(s string) (t time.Time, err error) {
	t, err = time.Parse(MonthLayout, s)
	if err == nil {
		return t, err
	}

	t, err = time.Parse(DayLayout, s)
	if err != nil {
		err = errors.Errorf("invalid date %q: expected YYYY-MM or YYYY-MM-DD", s)
		return t, err
	}

	return t, err
}

// ValidID reports whether id is a UUID, the only identifier format the HR
// system issues.
func ValidID(id string) (ok bool) {
	if len(id) != 36 {
		return ok
	}
	_, err := uuid.Parse(id)
	ok = err == nil
	return ok
}
