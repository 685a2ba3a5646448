package cpm

// Timing holds the critical-path-method bounds for a single task.
type Timing struct {
	TaskID string
	ES, EF int // earliest start / finish
	LS, LF int // latest start / finish
	Slack  int // LS - ES; zero for critical tasks
	Wave   int // index of the parallel wave this task belongs to

	Critical bool
}

// Wave is a group of tasks sharing the same earliest start time. Tasks
// within a wave have no mutual dependency and could run concurrently
// given unlimited resources.
type Wave struct {
	Index    int
	Start    int // common earliest start time
	TaskIDs  []string
	Critical bool // true if the wave contains a critical task
}

// Result is the complete critical-path analysis of a task graph.
type Result struct {
	Timing        map[string]*Timing
	Order         []string // topological order the passes ran in
	ProjectFinish int      // minimum completion time with unlimited resources
	CriticalTasks []string // zero-slack task IDs in topological order
	// CriticalPaths lists every maximal zero-slack chain from a source
	// to a sink, sorted lexicographically. Ties are reported, not
	// collapsed: a project can have several equally long paths.
	CriticalPaths [][]string
	Waves         []Wave
}
