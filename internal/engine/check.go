package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/arkandaru/simdoc/internal/config"
	"github.com/arkandaru/simdoc/internal/infra/redis"
	"github.com/arkandaru/simdoc/internal/metrics"
	"github.com/arkandaru/simdoc/internal/models"
	"github.com/arkandaru/simdoc/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrCheckNotQueued is returned when a job dequeues a check that is no
// longer queued (cancelled, or picked up twice).
var ErrCheckNotQueued = fmt.Errorf("check is not queued")

// Deps bundles everything a check run needs.
type Deps struct {
	DocsRepo    *repository.DocumentsRepository
	ChecksRepo  *repository.ChecksRepository
	ResultsRepo *repository.ResultsRepository
	Index       *IndexManager
	Redis       *redis.Client
	Aggregator  Aggregator
	Gate        config.ThresholdGate
	Timeout     time.Duration
}

// Outcome summarizes a completed check for the synchronous create-check
// response.
type Outcome struct {
	CheckID         int64
	ResultID        int64
	Similarity      float64
	Threshold       float64
	CandidatesCount int
	MatchesInserted int
}

// CheckJob runs one check on the worker pool and reports the outcome back to
// the waiting request handler.
type CheckJob struct {
	CheckID    int64
	Deps       *Deps
	ResultChan chan<- JobResult
}

// JobResult is what a CheckJob delivers when it finishes.
type JobResult struct {
	Outcome *Outcome
	Err     error
}

func (j *CheckJob) Execute(ctx context.Context) error {
	if j.Deps.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Deps.Timeout)
		defer cancel()
	}

	outcome, err := RunCheck(ctx, j.CheckID, j.Deps)

	if j.ResultChan != nil {
		select {
		case j.ResultChan <- JobResult{Outcome: outcome, Err: err}:
		default:
		}
	}

	if err == ErrCheckNotQueued {
		// Cancelled before the worker got to it; not a failure.
		return nil
	}
	return err
}

// RunCheck executes the full pipeline for one queued check: fingerprint the
// document, select candidates from the index snapshot, align matches, apply
// the threshold gate, aggregate and persist. The check transitions
// queued -> processing -> done|failed; a failed check leaves no result row.
func RunCheck(ctx context.Context, checkID int64, deps *Deps) (*Outcome, error) {
	start := time.Now()

	picked, err := deps.ChecksRepo.MarkProcessing(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if !picked {
		return nil, ErrCheckNotQueued
	}

	if err := UpdateStatus(ctx, deps.Redis, checkID, models.StepProcessing); err != nil {
		log.Warn().Err(err).Int64("checkID", checkID).Msg("Failed to update processing status")
	}

	outcome, runErr := runPipeline(ctx, checkID, deps)

	if runErr != nil {
		if err := deps.ChecksRepo.MarkFinished(ctx, checkID, models.CheckStatusFailed); err != nil {
			log.Error().Err(err).Int64("checkID", checkID).Msg("Failed to mark check failed")
		}
		if err := UpdateStatus(ctx, deps.Redis, checkID, models.StepFailed); err != nil {
			log.Warn().Err(err).Int64("checkID", checkID).Msg("Failed to update failed status")
		}
		metrics.CheckCount.WithLabelValues(models.CheckStatusFailed).Inc()
		log.Error().Err(runErr).Int64("checkID", checkID).Msg("Check failed")
		return nil, runErr
	}

	if err := deps.ChecksRepo.MarkFinished(ctx, checkID, models.CheckStatusDone); err != nil {
		return nil, err
	}
	if err := UpdateStatus(ctx, deps.Redis, checkID, models.StepDone); err != nil {
		log.Warn().Err(err).Int64("checkID", checkID).Msg("Failed to update done status")
	}

	metrics.CheckCount.WithLabelValues(models.CheckStatusDone).Inc()
	metrics.CheckDuration.Observe(time.Since(start).Seconds())

	log.Info().
		Int64("checkID", checkID).
		Float64("similarity", outcome.Similarity).
		Int("candidates", outcome.CandidatesCount).
		Int("matches", outcome.MatchesInserted).
		Dur("took", time.Since(start)).
		Msg("Check completed")

	return outcome, nil
}

// snapshotSource is the slice of IndexManager the pipeline needs.
type snapshotSource interface {
	Current() *IndexSnapshot
	Rebuild(context.Context) (*IndexSnapshot, error)
}

// resolveSnapshot returns the index snapshot matching the check's frozen
// params. Params activation publishes its snapshot asynchronously, so a
// check created right after an activation can outrun the rebuild; rebuild
// here once and re-compare before giving up. Fingerprints are only
// comparable under identical params, so a check whose params are genuinely
// no longer active must fail rather than silently compare across versions.
func resolveSnapshot(ctx context.Context, index snapshotSource, paramsID int64) (*IndexSnapshot, error) {
	snap := index.Current()
	if snap == nil || snap.Params.ID != paramsID {
		var err error
		snap, err = index.Rebuild(ctx)
		if err != nil {
			return nil, err
		}
	}
	if snap == nil {
		return nil, fmt.Errorf("no active params configured")
	}
	if snap.Params.ID != paramsID {
		return nil, fmt.Errorf("params %d are no longer active (current params %d), re-submit the check", paramsID, snap.Params.ID)
	}
	return snap, nil
}

func runPipeline(ctx context.Context, checkID int64, deps *Deps) (*Outcome, error) {
	check, err := deps.ChecksRepo.GetCheckByID(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if check == nil {
		return nil, fmt.Errorf("check %d not found", checkID)
	}

	doc, err := deps.DocsRepo.GetDocumentByID(ctx, check.DocID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d not found", check.DocID)
	}
	if doc.Status != models.DocStatusDone {
		return nil, fmt.Errorf("document %d has no extracted text (status %s)", doc.ID, doc.Status)
	}

	docText := NormalizeText(doc.Text)
	if docText == "" {
		return nil, fmt.Errorf("document %d is empty", doc.ID)
	}

	snap, err := resolveSnapshot(ctx, deps.Index, check.ParamsID)
	if err != nil {
		return nil, err
	}

	params := snap.Params
	docFP := &Fingerprint{
		ParamsID: params.ID,
		K:        params.K,
		Shingles: Winnow(ShingleText(docText, params.K, params.Base), params.W),
	}

	candidates, err := snap.SelectCandidates(docFP, check.MaxCand)
	if err != nil {
		return nil, err
	}

	var (
		aligned []Candidate
		matched []CandidateMatch
	)
	for _, cand := range candidates {
		srcFP, srcText, ok := snap.CorpusFingerprint(cand.CorpusID)
		if !ok {
			continue
		}
		aligned = append(aligned, cand)
		matched = append(matched, MatchCandidate(docFP, docText, cand.CorpusID, cand.Title, srcFP, srcText))
	}

	retained, matchResults := applyCandidateGate(deps.Gate, params.Threshold, aligned, matched)

	similarity := deps.Aggregator.Aggregate(len([]rune(docText)), matchResults)
	bestSimilarity := BestAggregator{}.Aggregate(len([]rune(docText)), matchResults)

	summary := models.CheckSummary{
		Params: models.SummaryParams{
			IDParams:  params.ID,
			K:         params.K,
			W:         params.W,
			Base:      params.Base,
			Threshold: params.Threshold,
		},
		Candidates:     make([]models.SummaryCandidate, 0, len(retained)),
		BestSimilarity: bestSimilarity,
	}
	for _, cand := range retained {
		summary.Candidates = append(summary.Candidates, models.SummaryCandidate{
			IDCorpus: cand.CorpusID,
			Title:    cand.Title,
			Approx:   cand.Approx,
		})
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}

	result := &models.CheckResult{
		CheckID:     check.ID,
		Similarity:  math.Round(similarity * 100),
		SummaryJSON: string(summaryJSON),
	}
	if err := deps.ResultsRepo.InsertResult(ctx, result); err != nil {
		return nil, err
	}

	var matches []*models.CheckMatch
	for _, m := range matchResults {
		for _, span := range m.Spans {
			if !spanPassesGate(deps.Gate, params.Threshold, span) {
				continue
			}
			matches = append(matches, &models.CheckMatch{
				ResultID:     result.ID,
				SourceType:   "corpus",
				SourceID:     m.CorpusID,
				DocSpanStart: span.DocStart,
				DocSpanEnd:   span.DocEnd,
				SrcSpanStart: span.SrcStart,
				SrcSpanEnd:   span.SrcEnd,
				MatchScore:   span.Score,
				SnippetHash:  SnippetHash(docText, span.DocStart, span.DocEnd),
				CorpusTitle:  m.Title,
			})
		}
	}
	if err := deps.ResultsRepo.InsertMatches(ctx, matches); err != nil {
		return nil, err
	}

	return &Outcome{
		CheckID:         check.ID,
		ResultID:        result.ID,
		Similarity:      result.Similarity,
		Threshold:       params.Threshold,
		CandidatesCount: len(retained),
		MatchesInserted: len(matches),
	}, nil
}
