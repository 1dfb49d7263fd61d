package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/nikogura/cvanon/pkg/candidate"
	"github.com/nikogura/cvanon/pkg/content"
	"github.com/nikogura/cvanon/pkg/jobtitle"
	"github.com/nikogura/cvanon/pkg/redact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2022, time.January, 19, 0, 0, 0, 0, time.UTC)
}

func testBuilder(t *testing.T, positions int) (b *Builder) {
	t.Helper()

	titles, err := jobtitle.NewNeutralizer(jobtitle.DefaultDictionary())
	require.NoError(t, err)

	b = NewBuilder(titles, redact.NewRedactor(nil), positions).WithClock(fixedNow)
	return b
}

func testCandidate(id, firstName string, tags []string, experience []candidate.Experience) (c candidate.Candidate) {
	c = candidate.Candidate{
		ID:        id,
		FirstName: firstName,
		LastName:  "Smith",
		PrimaryAssignment: candidate.Assignment{
			Job: candidate.JobSummary{Title: "Account Manager"},
		},
		Tags:       tags,
		Experience: experience,
	}
	return c
}

func TestBuildMinimal(t *testing.T) {
	p, err := testBuilder(t, 5).Build(context.Background(), Source{
		Candidate: testCandidate("abc-123", "John", nil, nil),
	})
	require.NoError(t, err)

	assert.Equal(t, "abc-123", p.CandidateID)
	assert.Equal(t, "JS", p.Initials)
	assert.Equal(t, "Account Manager", p.JobTitle)
	assert.Equal(t, "https://smartrecruiters.com/app/people/candidates/abc-123", p.Ref)
	assert.Empty(t, p.Positions)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)
	assert.False(t, p.HasTags)
	assert.False(t, p.NeedsReview)
}

func TestBuildNeutralisesPosition(t *testing.T) {
	c := testCandidate("def-456", "Mary", []string{"google-cloud", "social-media"}, []candidate.Experience{
		{
			Title:       "Data Scientist",
			Company:     "Sterling Cooper",
			StartDate:   "2015-01",
			EndDate:     "2020-01",
			Description: "Mary worked on a top secret project. She wrote a data harvester.",
		},
	})

	p, err := testBuilder(t, 5).Build(context.Background(), Source{Candidate: c})
	require.NoError(t, err)

	assert.Equal(t, "MS", p.Initials)
	assert.True(t, p.HasTags)
	assert.Equal(t, []string{"google-cloud", "social-media"}, p.Tags)
	require.Len(t, p.Positions, 1)

	pos := p.Positions[0]
	assert.Equal(t, "Data Scientist, Sterling Cooper", pos.Title)
	assert.Equal(t, "5 years, 1 month", pos.Duration)
	assert.Equal(t, "The candidate worked on a top secret project. They wrote a data harvester.", pos.Text)
	assert.Equal(t, []content.Block{content.Paragraph(pos.Text)}, pos.Content)
	assert.Empty(t, pos.Cues)
}

func TestBuildOrdersAndLimitsPositions(t *testing.T) {
	c := testCandidate("abc-123", "John", nil, []candidate.Experience{
		{Company: "Fourth Job", StartDate: "2006-01", EndDate: "2009-12"},
		{Company: "Fifth Job", StartDate: "2010-01", EndDate: "2014-12"},
		{Company: "First Job", StartDate: "2000-01", EndDate: "2000-12"},
		{Company: "Third Job", StartDate: "2003-01", EndDate: "2005-12"},
		{Company: "Sixth Job", StartDate: "2015-01", EndDate: "2020-12"},
		{Company: "Second Job", StartDate: "2001-01", EndDate: "2002-12"},
	})

	p, err := testBuilder(t, 5).Build(context.Background(), Source{Candidate: c})
	require.NoError(t, err)

	titles := make([]string, 0, len(p.Positions))
	for _, pos := range p.Positions {
		titles = append(titles, pos.Title)
	}
	assert.Equal(t, []string{"Sixth Job", "Fifth Job", "Fourth Job", "Third Job", "Second Job"}, titles)

	b := testBuilder(t, 5).WithPositions(2)
	assert.Equal(t, 2, b.Positions())
	assert.Equal(t, 2, b.WithPositions(0).Positions())

	p, err = b.Build(context.Background(), Source{Candidate: c})
	require.NoError(t, err)
	require.Len(t, p.Positions, 2)
	assert.Equal(t, "Fifth Job", p.Positions[1].Title)
}

func TestBuildSegmentsBulletsAndFlagsCues(t *testing.T) {
	c := testCandidate("abc-123", "Jane", nil, []candidate.Experience{
		{
			Title:       "Chairwoman",
			Company:     "Hooli",
			StartDate:   "2021-02",
			Current:     true,
			Description: "<p>Jane ran the board.</p><ul><li>Cut costs</li><li>Covered maternity leave</li></ul>",
		},
	})

	p, err := testBuilder(t, 5).Build(context.Background(), Source{Candidate: c})
	require.NoError(t, err)
	require.Len(t, p.Positions, 1)

	pos := p.Positions[0]
	assert.Equal(t, "Chairperson, Hooli", pos.Title)
	assert.Equal(t, "1 year", pos.Duration)
	assert.Equal(t, []content.Block{
		content.Paragraph("The candidate ran the board."),
		content.BulletList("Cut costs", "Covered maternity leave"),
	}, pos.Content)
	require.Len(t, pos.Cues, 1)
	assert.Equal(t, "PARENTAL_LEAVE", pos.Cues[0].Rule)
	assert.True(t, p.NeedsReview)
}

func TestBuildWithJobAndAnswers(t *testing.T) {
	answers := &candidate.ScreeningAnswers{
		TotalFound: 1,
		Content: []candidate.Answer{
			{
				Name:  "Employment Visa Status",
				Label: "Will you now or in the future require sponsorship for employment visa status?",
				Records: []candidate.Record{
					{Fields: []candidate.Field{{ID: "value", Values: []candidate.Value{{ID: "0", Label: "No"}}}}},
				},
			},
		},
	}

	p, err := testBuilder(t, 5).Build(context.Background(), Source{
		Candidate: testCandidate("abc-123", "John", nil, nil),
		Answers:   answers,
		Job:       &candidate.Job{RefNumber: "REF42"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Will you now or in the future require sponsorship for employment visa status? No", p.Notes)
	assert.Equal(t, "REF42", p.JobRef)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testCandidate("abc-123", "John", nil, []candidate.Experience{{Company: "Hooli"}})

	_, err := testBuilder(t, 5).Build(ctx, Source{Candidate: c})
	assert.Error(t, err)
}

func TestBuildLogsJobTitleChange(t *testing.T) {
	var buf bytes.Buffer
	b := testBuilder(t, 5).WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	c := testCandidate("abc-123", "John", nil, []candidate.Experience{{Title: "Foreman"}})

	p, err := b.Build(context.Background(), Source{Candidate: c})
	require.NoError(t, err)

	assert.Equal(t, "Supervisor", p.Positions[0].Title)
	assert.Contains(t, buf.String(), "candidate_id=abc-123")
	assert.Contains(t, buf.String(), "kind=job_title")
}

func TestProfileJSON(t *testing.T) {
	p, err := testBuilder(t, 5).Build(context.Background(), Source{
		Candidate: testCandidate("abc-123", "John", nil, nil),
	})
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"candidateId":"abc-123"`)
	assert.Contains(t, string(data), `"tags":[]`)
	assert.Contains(t, string(data), `"positions":[]`)
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		exp  candidate.Experience
		want string
	}{
		{name: "one month", exp: candidate.Experience{StartDate: "2000-01", EndDate: "2000-01"}, want: "1 month"},
		{name: "two months", exp: candidate.Experience{StartDate: "2000-01", EndDate: "2000-02"}, want: "2 months"},
		{name: "one year", exp: candidate.Experience{StartDate: "2000-01", EndDate: "2000-12"}, want: "1 year"},
		{name: "one year one month", exp: candidate.Experience{StartDate: "2000-01", EndDate: "2001-01"}, want: "1 year, 1 month"},
		{name: "one year two months", exp: candidate.Experience{StartDate: "2000-01", EndDate: "2001-02"}, want: "1 year, 2 months"},
		{name: "two years", exp: candidate.Experience{StartDate: "2000-01", EndDate: "2001-12"}, want: "2 years"},
		{name: "current one month", exp: candidate.Experience{StartDate: "2022-01", Current: true}, want: "1 month"},
		{name: "current one year", exp: candidate.Experience{StartDate: "2021-02", Current: true}, want: "1 year"},
		{name: "day precision", exp: candidate.Experience{StartDate: "2019-03-15", EndDate: "2019-05-01"}, want: "3 months"},
		{name: "no start", exp: candidate.Experience{EndDate: "2019-05"}, want: ""},
		{name: "no end and not current", exp: candidate.Experience{StartDate: "2019-05"}, want: ""},
		{name: "end before start", exp: candidate.Experience{StartDate: "2019-05", EndDate: "2018-01"}, want: ""},
		{name: "bad date", exp: candidate.Experience{StartDate: "May 2019", EndDate: "2020-01"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.exp, fixedNow()))
		})
	}
}

func TestTitle(t *testing.T) {
	titles, err := jobtitle.NewNeutralizer(jobtitle.DefaultDictionary())
	require.NoError(t, err)

	tests := []struct {
		exp  candidate.Experience
		want string
	}{
		{candidate.Experience{Title: "Technical Architect", Company: "Hooli"}, "Technical Architect, Hooli"},
		{candidate.Experience{Title: "Technical Architect"}, "Technical Architect"},
		{candidate.Experience{Company: "Hooli"}, "Hooli"},
		{candidate.Experience{Title: "Chairman"}, "Chairperson"},
		{candidate.Experience{Title: "Head Stewardess"}, "Head Flight Attendant"},
		{candidate.Experience{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.exp, titles))
		})
	}
}

func TestRecent(t *testing.T) {
	experience := []candidate.Experience{
		{Company: "Old", StartDate: "2001-01", EndDate: "2002-01"},
		{Company: "Now", StartDate: "2019-01", Current: true},
		{Company: "Recent", StartDate: "2015-01", EndDate: "2018-12"},
		{Company: "Undated"},
	}

	recent := Recent(experience, 3)
	require.Len(t, recent, 3)
	assert.Equal(t, "Now", recent[0].Company)
	assert.Equal(t, "Recent", recent[1].Company)
	assert.Equal(t, "Old", recent[2].Company)

	// Input order is untouched.
	assert.Equal(t, "Old", experience[0].Company)
}

func TestNotes(t *testing.T) {
	assert.Equal(t, "", Notes(nil))
	assert.Equal(t, "", Notes(&candidate.ScreeningAnswers{}))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JS", Initials("John", "Smith"))
	assert.Equal(t, "ÉØ", Initials("Élodie", "Øster"))
	assert.Equal(t, "S", Initials("", "Smith"))
}

func TestFileName(t *testing.T) {
	p := Profile{Initials: "JS", JobTitle: "Senior C#/.NET Developer (Remote)", JobRef: "REF42"}
	assert.Equal(t, "Anonymised Candidate Profile - JS - Senior C NET Developer Remote - REF42.docx", FileName(p))
}
