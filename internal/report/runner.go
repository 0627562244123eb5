//-------------------------------------------------------------------------
//
// Catalog Reporter
//
// Copyright (c) 2025 - 2026, RetailScope Labs
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report executes the analytical query set and renders results.
package report

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/retailscope/catalog-reporter/internal/catalog"
	"github.com/retailscope/catalog-reporter/internal/db"
	"github.com/retailscope/catalog-reporter/internal/logging"
)

// Config holds runner configuration.
type Config struct {
	// Parallel is the number of concurrent query workers. The query set
	// is read-only, so workers need no coordination beyond the pool.
	Parallel int

	// MaxRows caps rows collected per result set (0 = unlimited). The
	// full row count is still reported.
	MaxRows int
}

// Result holds one executed query's result set.
type Result struct {
	Query     catalog.Query
	Columns   []string
	Rows      [][]string
	RowCount  int64
	Truncated bool
	Duration  time.Duration
	Err       error
}

// Runner executes a fixed set of queries, optionally in parallel, and
// tracks aggregate metrics for the run summary.
type Runner struct {
	db       db.DB
	queries  []catalog.Query
	parallel int
	maxRows  int
	runID    uuid.UUID

	startTime       time.Time
	successQueries  atomic.Int64
	failedQueries   atomic.Int64
	totalDurationNs atomic.Int64
}

// NewRunner creates a runner for the given queries.
func NewRunner(dbc db.DB, queries []catalog.Query, cfg Config) *Runner {
	parallel := cfg.Parallel
	if parallel < 1 {
		parallel = 1
	}
	if parallel > len(queries) && len(queries) > 0 {
		parallel = len(queries)
	}

	return &Runner{
		db:       dbc,
		queries:  queries,
		parallel: parallel,
		maxRows:  cfg.MaxRows,
		runID:    uuid.New(),
	}
}

// RunID returns the unique identifier of this report run.
func (r *Runner) RunID() uuid.UUID {
	return r.runID
}

// Run executes all queries and returns their results in query order.
// A failed query is recorded in its Result and does not abort the run.
func (r *Runner) Run(ctx context.Context) []Result {
	r.startTime = time.Now()

	logging.Info().
		Str("run_id", r.runID.String()).
		Int("queries", len(r.queries)).
		Int("parallel", r.parallel).
		Msg("Starting report run")

	results := make([]Result, len(r.queries))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.parallel; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.executeQuery(ctx, r.queries[idx])
			}
		}()
	}

	for idx := range r.queries {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}

func (r *Runner) executeQuery(ctx context.Context, q catalog.Query) Result {
	start := time.Now()
	res := Result{Query: q}

	rows, err := r.db.Query(ctx, q.SQL)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		r.recordResult(res)
		return res
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	res.Columns = make([]string, len(fields))
	for i, f := range fields {
		res.Columns[i] = f.Name
	}

	for rows.Next() {
		res.RowCount++
		if r.maxRows > 0 && res.RowCount > int64(r.maxRows) {
			res.Truncated = true
			continue
		}

		values, err := rows.Values()
		if err != nil {
			res.Err = err
			break
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if res.Err == nil {
		res.Err = rows.Err()
	}

	res.Duration = time.Since(start)
	r.recordResult(res)
	return res
}

func (r *Runner) recordResult(res Result) {
	r.totalDurationNs.Add(res.Duration.Nanoseconds())
	if res.Err != nil {
		r.failedQueries.Add(1)
		logging.Error().
			Err(res.Err).
			Str("query", res.Query.Name).
			Msg("Query failed")
		return
	}
	r.successQueries.Add(1)
	logging.Debug().
		Str("query", res.Query.Name).
		Int64("rows", res.RowCount).
		Dur("duration", res.Duration).
		Msg("Query complete")
}

// PrintSummary logs aggregate metrics for the run.
func (r *Runner) PrintSummary() {
	elapsed := time.Since(r.startTime)
	success := r.successQueries.Load()
	failed := r.failedQueries.Load()

	avgMs := float64(0)
	if success+failed > 0 {
		avgMs = float64(r.totalDurationNs.Load()) / float64(success+failed) / 1e6
	}

	logging.Info().
		Str("run_id", r.runID.String()).
		Int64("succeeded", success).
		Int64("failed", failed).
		Float64("avg_query_ms", avgMs).
		Dur("elapsed", elapsed).
		Msg("Report run complete")
}
