package bureau

import "sync"

// ProcessBatch runs ProcessDocument over every document. Results keep input
// order regardless of Options.Workers.
func ProcessBatch(docs []Document, opts Options) Batch {
	results := make([]DocumentResult, len(docs))

	if opts.Workers <= 1 || len(docs) <= 1 {
		for i, d := range docs {
			results[i] = ProcessDocument(d, opts)
		}
		return Batch{Documents: results}
	}

	sem := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup
	for i, d := range docs {
		i, d := i, d
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = ProcessDocument(d, opts)
		}()
	}
	wg.Wait()

	return Batch{Documents: results}
}
