package allocator

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BuildCandidatesInput contains the raw student snapshots of one package
type BuildCandidatesInput struct {
	Students []StudentInput
	Index    *CourseIndex

	// Workers bounds the number of students prepared concurrently (GOMAXPROCS if <= 0)
	Workers int
}

// BuildCandidatesOutput contains prepared candidates and the preference warnings found
type BuildCandidatesOutput struct {
	// Candidates in the same order as the input students
	Candidates []Candidate

	// Warnings has one entry per student whose preferences were altered, in input order
	Warnings []DataQualityWarning
}

// BuildCandidates resolves priority scores and normalizes preferences for every student.
//
// Students are prepared concurrently since each depends only on its own snapshot
// and the course index. Output order matches input order so that ties in priority
// still resolve to the first-seen student.
//
// Returns a ConfigurationError for empty or duplicate student ids.
func BuildCandidates(ctx context.Context, input BuildCandidatesInput) (*BuildCandidatesOutput, error) {
	seen := make(map[string]bool, len(input.Students))
	for _, student := range input.Students {
		if student.ID == "" {
			return nil, configErr("student", ErrEmptyID)
		}
		if seen[student.ID] {
			return nil, configErr(student.ID, ErrDuplicateCandidate)
		}
		seen[student.ID] = true
	}

	workers := input.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	candidates := make([]Candidate, len(input.Students))
	normalized := make([]NormalizedPreferences, len(input.Students))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, student := range input.Students {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			prefs := NormalizePreferences(student.RawPreferences, input.Index)
			normalized[i] = prefs
			candidates[i] = Candidate{
				ID:            student.ID,
				PriorityScore: ResolvePriority(student.YearOfStudy, student.Record),
				Preferences:   prefs.Courses,
				rawPositions:  prefs.RawPositions,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	output := &BuildCandidatesOutput{Candidates: candidates}
	for i, prefs := range normalized {
		if !prefs.HasWarnings() {
			continue
		}
		output.Warnings = append(output.Warnings, DataQualityWarning{
			CandidateID: candidates[i].ID,
			Dropped:     prefs.Dropped,
			Duplicates:  prefs.Duplicates,
		})
	}

	return output, nil
}
