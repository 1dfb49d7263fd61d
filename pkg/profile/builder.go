package profile

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/nikogura/cvanon/pkg/audit"
	"github.com/nikogura/cvanon/pkg/candidate"
	"github.com/nikogura/cvanon/pkg/content"
	"github.com/nikogura/cvanon/pkg/jobtitle"
	"github.com/nikogura/cvanon/pkg/redact"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Source is everything known about one candidate application.
type Source struct {
	Candidate candidate.Candidate
	Answers   *candidate.ScreeningAnswers
	Job       *candidate.Job
}

// Builder turns candidate records into profiles.
type Builder struct {
	titles    *jobtitle.Neutralizer
	redactor  *redact.Redactor
	positions int
	now       func() time.Time
	logger    *slog.Logger
}

// NewBuilder creates a Builder that keeps the given number of most recent
// positions. A non-positive count means DefaultPositions. A nil neutralizer
// leaves job titles as they are.
func NewBuilder(titles *jobtitle.Neutralizer, redactor *redact.Redactor, positions int) (b *Builder) {
	if positions <= 0 {
		positions = DefaultPositions
	}
	if titles == nil {
		titles, _ = jobtitle.NewNeutralizer(nil)
	}
	if redactor == nil {
		redactor = redact.NewRedactor(nil)
	}
	b = &Builder{
		titles:    titles,
		redactor:  redactor,
		positions: positions,
		now:       time.Now,
		logger:    slog.Default(),
	}
	return b
}

// WithClock sets the time used for current positions.
func (b *Builder) WithClock(now func() time.Time) (out *Builder) {
	copied := *b
	copied.now = now
	out = &copied
	return out
}

// WithLogger sets the logger used for job title audit records.
func (b *Builder) WithLogger(logger *slog.Logger) (out *Builder) {
	copied := *b
	copied.logger = logger
	out = &copied
	return out
}

// WithPositions returns a copy of b keeping n positions. A non-positive n
// leaves the count unchanged.
func (b *Builder) WithPositions(n int) (out *Builder) {
	copied := *b
	if n > 0 {
		copied.positions = n
	}
	out = &copied
	return out
}

// Positions returns how many positions profiles keep.
func (b *Builder) Positions() (n int) {
	n = b.positions
	return n
}

// Build assembles the profile for src. Positions are processed concurrently
// and returned most recent first.
func (b *Builder) Build(ctx context.Context, src Source) (p Profile, err error) {
	c := src.Candidate

	p = Profile{
		CandidateID: c.ID,
		JobTitle:    c.PrimaryAssignment.Job.Title,
		Initials:    Initials(c.FirstName, c.LastName),
		Ref:         RefBase + c.ID,
		Tags:        []string{},
		Notes:       Notes(src.Answers),
	}
	if len(c.Tags) > 0 {
		p.Tags = append(p.Tags, c.Tags...)
		p.HasTags = true
	}
	if src.Job != nil {
		p.JobRef = src.Job.RefNumber
		if p.JobTitle == "" {
			p.JobTitle = src.Job.Title
		}
	}

	experience := Recent(c.Experience, b.positions)
	titles := b.titles.WithLogger(b.logger.With("candidate_id", c.ID))
	now := b.now()

	p.Positions = make([]Position, len(experience))

	g, gCtx := errgroup.WithContext(ctx)
	for i, exp := range experience {
		g.Go(func() (err error) {
			err = gCtx.Err()
			if err != nil {
				return err
			}

			var pos Position
			pos, err = b.position(c, exp, titles, now)
			if err != nil {
				err = errors.Wrapf(err, "position %d", i)
				return err
			}

			p.Positions[i] = pos
			return err
		})
	}

	err = g.Wait()
	if err != nil {
		err = errors.Wrapf(err, "failed to build profile for candidate %s", c.ID)
		return p, err
	}

	for _, pos := range p.Positions {
		if audit.NeedsReview(pos.Cues) {
			p.NeedsReview = true
		}
	}

	return p, err
}

func (b *Builder) position(c candidate.Candidate, exp candidate.Experience, titles *jobtitle.Neutralizer, now time.Time) (pos Position, err error) {
	var plain string
	plain, err = candidate.PlainText(exp.Description)
	if err != nil {
		return pos, err
	}

	text := b.redactor.Redact(c.ID, plain, c.FirstName)

	pos = Position{
		Title:    Title(exp, titles),
		Duration: Duration(exp, now),
		Text:     text,
		Content:  content.Segment(text),
		Cues:     audit.Scan(text),
	}
	return pos, err
}

// Title joins the neutralised job title and the company with ", ", omitting
// whichever is empty.
func Title(exp candidate.Experience, titles *jobtitle.Neutralizer) (title string) {
	if exp.Title != "" {
		title = titles.Neutralize(exp.Title)
	}
	if exp.Title != "" && exp.Company != "" {
		title += ", "
	}
	title += exp.Company
	return title
}

// Recent returns at most n entries of experience, most recent first. The
// input is not modified.
func Recent(experience []candidate.Experience, n int) (recent []candidate.Experience) {
	recent = make([]candidate.Experience, len(experience))
	copy(recent, experience)

	sort.SliceStable(recent, func(i, j int) bool {
		return moreRecent(recent[i], recent[j])
	})

	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}

// moreRecent orders by end date, then current positions, then start date.
// Dates share a layout, so string order is date order.
func moreRecent(a, b candidate.Experience) (less bool) {
	switch {
	case a.EndDate != "" && b.EndDate != "":
		less = a.EndDate > b.EndDate
	case a.Current && !b.Current:
		less = true
	case !a.Current && b.Current:
		less = false
	case a.StartDate != "" && b.StartDate != "":
		less = a.StartDate > b.StartDate
	}
	return less
}
