package hypar

// Result carries the summary metrics of one Partition call, plus its
// correlation ID for matching against the run's log lines (spec §4.O).
type Result struct {
	RunID        string
	K            int
	Objective    int64
	Cut          int64
	Connectivity int64
	Imbalance    float64
}
