package indexer

import (
	"runtime"
	"sync"
)

// searchJob is one query handed to a pool worker.
type searchJob struct {
	query  Box
	result []int
	wg     *sync.WaitGroup
}

// SearchPool runs queries against one Index on a fixed set of resident
// workers, bounding query concurrency.
type SearchPool struct {
	idx  *Index
	jobs chan *searchJob
	wg   sync.WaitGroup
	once sync.Once
}

// NewSearchPool starts nWorkers workers (NumCPU when <= 0) reading from a
// job queue of bufSize.
func NewSearchPool(idx *Index, nWorkers, bufSize int) *SearchPool {
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	if bufSize < 0 {
		bufSize = 0
	}
	p := &SearchPool{
		idx:  idx,
		jobs: make(chan *searchJob, bufSize),
	}
	for i := 0; i < nWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *SearchPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		// SearchFast never enters the pool, so workers cannot deadlock on it
		job.result = p.idx.SearchFast(job.query, nil)
		job.wg.Done()
	}
}

// Search runs a single query on the pool.
func (p *SearchPool) Search(q Box) []int {
	return p.SearchBatch([]Box{q})[0]
}

// SearchBatch runs all queries on the pool; results[i] belongs to queries[i].
func (p *SearchPool) SearchBatch(queries []Box) [][]int {
	var wg sync.WaitGroup
	jobs := make([]searchJob, len(queries))
	wg.Add(len(queries))
	for i, q := range queries {
		jobs[i] = searchJob{query: q, wg: &wg}
		p.jobs <- &jobs[i]
	}
	wg.Wait()
	results := make([][]int, len(queries))
	for i := range jobs {
		results[i] = jobs[i].result
	}
	return results
}

// Close stops the workers. The pool must not be used afterwards.
func (p *SearchPool) Close() {
	p.once.Do(func() {
		close(p.jobs)
		p.wg.Wait()
	})
}
