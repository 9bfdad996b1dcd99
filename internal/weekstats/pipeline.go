package weekstats

// Pipeline runs one full pass over a snapshot: aggregation first,
// then band encoding and label merging in the assembler.
type Pipeline struct {
	aggregator *Aggregator
	assembler  *Assembler
}

func NewPipeline(aggregator *Aggregator, assembler *Assembler) *Pipeline {
	return &Pipeline{
		aggregator: aggregator,
		assembler:  assembler,
	}
}

func (p *Pipeline) Build(snapshot Snapshot) (Week, []DailyAggregate, AggregateDiagnostics) {
	days, diag := p.aggregator.Aggregate(snapshot.Buckets)
	return p.assembler.Assemble(days), days, diag
}
