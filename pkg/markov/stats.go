package markov

// Stats holds aggregated statistics for a chain.
type Stats struct {
	VocabSize      int // The number of nodes, excluding the barrier
	TotalLinks     int // The number of distinct prev->next links
	TotalFrequency int // The sum of all link counts; the total number of trained transitions
	StartingTokens int // The number of distinct tokens that can start a sentence
	DeadEnds       int // The number of nodes without successors, excluding the barrier
}

// Stats returns a snapshot of statistics for the chain.
func (c *Chain) Stats() Stats {
	stats := Stats{
		VocabSize:      len(c.nodes) - 1,
		StartingTokens: len(c.Barrier().links),
	}
	for _, n := range c.nodes {
		stats.TotalLinks += len(n.links)
		stats.TotalFrequency += n.Total()
		if n.id != BarrierTokenID && len(n.links) == 0 {
			stats.DeadEnds++
		}
	}
	return stats
}
