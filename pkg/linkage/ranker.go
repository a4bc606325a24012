package linkage

import (
	"context"
	"sort"
	"sync"

	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/tracing"
)

// Ranker scores a query record against every reference record and orders the
// results. Scoring is split across a bounded worker pool: each pair touches
// only its own inputs, so the only synchronization is the final merge.
type Ranker struct {
	scorer      *CompositeScorer
	workerCount int
}

// NewRanker creates a ranker over the given composite scorer.
func NewRanker(scorer *CompositeScorer, workerCount int) *Ranker {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Ranker{
		scorer:      scorer,
		workerCount: workerCount,
	}
}

// Rank scores the query against all reference records and returns candidates
// sorted by descending composite score, ties broken by reference identifier
// so repeated runs produce identical output. The caller must provide a
// stable snapshot of the reference collection for the duration of the call.
//
// An empty collection yields an empty result; all-zero scores still report a
// best match so the classifier can route it to NO_MATCH.
func (r *Ranker) Rank(ctx context.Context, query models.Record, refs []models.ReferenceRecord) []models.CandidateMatch {
	_, span := tracing.StartSpan(ctx, "linkage.Ranker.Rank")
	defer span.End()

	if len(refs) == 0 {
		return []models.CandidateMatch{}
	}

	matches := make([]models.CandidateMatch, len(refs))

	workers := r.workerCount
	if workers > len(refs) {
		workers = len(refs)
	}

	// Each worker writes only its own indices; no locking needed
	var wg sync.WaitGroup
	indexes := make(chan int)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				matches[i] = models.CandidateMatch{
					ReferenceID: refs[i].ID,
					Composite:   r.scorer.Score(query, refs[i].Record),
				}
			}
		}()
	}

	for i := range refs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Composite.Score != matches[j].Composite.Score {
			return matches[i].Composite.Score > matches[j].Composite.Score
		}
		return matches[i].ReferenceID < matches[j].ReferenceID
	})

	for i := range matches {
		matches[i].Rank = i + 1
	}

	return matches
}

// Ambiguous reports whether more than limit candidates score strictly above
// threshold. Several near-indistinguishable strong candidates (common names)
// undermine confidence in picking any one of them, regardless of which ranks
// first.
func Ambiguous(matches []models.CandidateMatch, threshold float64, limit int) bool {
	strong := 0
	for _, m := range matches {
		if m.Composite.Score > threshold {
			strong++
		}
	}
	return strong > limit
}
