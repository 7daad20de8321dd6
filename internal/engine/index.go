package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arkandaru/simdoc/internal/metrics"
	"github.com/arkandaru/simdoc/internal/models"
	"github.com/arkandaru/simdoc/internal/repository"
	"github.com/rs/zerolog/log"
)

// MaxCandidatesHard is the server-side cap on candidates per check,
// regardless of what the client requests.
const MaxCandidatesHard = 50

type posting struct {
	corpusID int64
	pos      int
}

// IndexSnapshot is an immutable inverted index over the fingerprints of all
// active corpus items under one params version. Concurrent checks read a
// snapshot; rebuilds publish a fresh one by pointer swap.
type IndexSnapshot struct {
	Params     *models.Params
	Generation uint64

	postings     map[uint64][]posting
	fingerprints map[int64]*Fingerprint
	texts        map[int64]string
	titles       map[int64]string
}

// BuildIndex fingerprints every active corpus item under the given params and
// assembles the inverted index.
func BuildIndex(params *models.Params, items []*models.CorpusItem, generation uint64) *IndexSnapshot {
	snap := &IndexSnapshot{
		Params:       params,
		Generation:   generation,
		postings:     make(map[uint64][]posting),
		fingerprints: make(map[int64]*Fingerprint),
		texts:        make(map[int64]string),
		titles:       make(map[int64]string),
	}

	for _, item := range items {
		if item.IsActive != 1 {
			continue
		}

		text := NormalizeText(item.Text)
		fp := &Fingerprint{
			ParamsID: params.ID,
			K:        params.K,
			Shingles: Winnow(ShingleText(text, params.K, params.Base), params.W),
		}

		snap.fingerprints[item.ID] = fp
		snap.texts[item.ID] = text
		snap.titles[item.ID] = item.Title

		for _, s := range fp.Shingles {
			snap.postings[s.Hash] = append(snap.postings[s.Hash], posting{corpusID: item.ID, pos: s.Pos})
		}
	}

	return snap
}

// Size returns the number of distinct hashes in the index.
func (s *IndexSnapshot) Size() int {
	return len(s.postings)
}

// CorpusFingerprint returns the fingerprint and normalized text of one
// indexed corpus item.
func (s *IndexSnapshot) CorpusFingerprint(corpusID int64) (*Fingerprint, string, bool) {
	fp, ok := s.fingerprints[corpusID]
	if !ok {
		return nil, "", false
	}
	return fp, s.texts[corpusID], true
}

// CorpusTitle returns the title of one indexed corpus item.
func (s *IndexSnapshot) CorpusTitle(corpusID int64) string {
	return s.titles[corpusID]
}

// Candidate is one corpus item ranked by approximate similarity.
type Candidate struct {
	CorpusID int64
	Title    string
	Shared   int
	Approx   float64
}

// SelectCandidates looks up every query hash in the index, tallies shared
// distinct hashes per corpus item and returns the top candidates ranked by
// approx similarity descending, corpus id ascending on ties. The result is
// capped at min(maxCandidates, MaxCandidatesHard). Empty index yields an
// empty list.
func (s *IndexSnapshot) SelectCandidates(fp *Fingerprint, maxCandidates int) ([]Candidate, error) {
	if fp.ParamsID != s.Params.ID {
		return nil, fmt.Errorf("fingerprint params %d does not match index params %d", fp.ParamsID, s.Params.ID)
	}

	limit := maxCandidates
	if limit <= 0 || limit > MaxCandidatesHard {
		limit = MaxCandidatesHard
	}

	queryHashes := fp.HashSet()
	if len(queryHashes) == 0 || len(s.postings) == 0 {
		return nil, nil
	}

	shared := make(map[int64]int)
	for hash := range queryHashes {
		seen := make(map[int64]bool)
		for _, p := range s.postings[hash] {
			if !seen[p.corpusID] {
				seen[p.corpusID] = true
				shared[p.corpusID]++
			}
		}
	}

	candidates := make([]Candidate, 0, len(shared))
	for corpusID, count := range shared {
		candidates = append(candidates, Candidate{
			CorpusID: corpusID,
			Title:    s.titles[corpusID],
			Shared:   count,
			Approx:   float64(count) / float64(len(queryHashes)),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Approx != candidates[j].Approx {
			return candidates[i].Approx > candidates[j].Approx
		}
		return candidates[i].CorpusID < candidates[j].CorpusID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// IndexManager owns the published index snapshot. Rebuilds are
// single-flighted; readers never lock.
type IndexManager struct {
	corpusRepo *repository.CorpusRepository
	paramsRepo *repository.ParamsRepository

	rebuildMu  sync.Mutex
	generation atomic.Uint64
	current    atomic.Pointer[IndexSnapshot]
}

func NewIndexManager(corpusRepo *repository.CorpusRepository, paramsRepo *repository.ParamsRepository) *IndexManager {
	return &IndexManager{
		corpusRepo: corpusRepo,
		paramsRepo: paramsRepo,
	}
}

// Current returns the published snapshot, or nil before the first rebuild.
func (m *IndexManager) Current() *IndexSnapshot {
	return m.current.Load()
}

// Rebuild loads the active params and corpus, builds a fresh snapshot off to
// the side and publishes it atomically. Returns nil when no params row is
// active yet.
func (m *IndexManager) Rebuild(ctx context.Context) (*IndexSnapshot, error) {
	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()

	start := time.Now()

	params, err := m.paramsRepo.GetActiveParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active params: %w", err)
	}
	if params == nil {
		m.current.Store(nil)
		return nil, nil
	}

	items, err := m.corpusRepo.ListActiveCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active corpus: %w", err)
	}

	snap := BuildIndex(params, items, m.generation.Add(1))
	m.current.Store(snap)

	metrics.IndexRebuildDuration.Observe(time.Since(start).Seconds())
	metrics.IndexSize.Set(float64(snap.Size()))

	log.Info().
		Int64("params_id", params.ID).
		Uint64("generation", snap.Generation).
		Int("corpus_items", len(snap.fingerprints)).
		Int("hashes", snap.Size()).
		Dur("took", time.Since(start)).
		Msg("Corpus index rebuilt")

	return snap, nil
}

// RebuildAsync fires a rebuild on a fresh goroutine, used after corpus or
// params mutations on the request path.
func (m *IndexManager) RebuildAsync(ctx context.Context) {
	// Detach from the request lifetime so the rebuild survives the response.
	ctx = context.WithoutCancel(ctx)
	go func() {
		if _, err := m.Rebuild(ctx); err != nil {
			log.Error().Err(err).Msg("Async corpus index rebuild failed")
		}
	}()
}
