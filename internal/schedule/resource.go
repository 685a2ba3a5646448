package schedule

import "sort"

// Resource is a schedulable processor. Capacity is the number of
// concurrent demand units it can run; the common multiprocessor case is
// capacity 1.
type Resource struct {
	ID       string
	Capacity int
}

// interval is a committed booking on a resource timeline.
type interval struct {
	taskID string
	start  int
	finish int
	demand int
}

// timeline tracks the committed intervals of one resource, kept sorted
// by start time so insertion and overlap queries can binary-search.
type timeline struct {
	res       Resource
	intervals []interval
	maxFinish int
}

// insert commits an interval, keeping the slice sorted by start time
// (ties by finish). Position is found by binary search.
func (tl *timeline) insert(iv interval) {
	i := sort.Search(len(tl.intervals), func(i int) bool {
		other := tl.intervals[i]
		if other.start != iv.start {
			return other.start > iv.start
		}
		return other.finish > iv.finish
	})
	tl.intervals = append(tl.intervals, interval{})
	copy(tl.intervals[i+1:], tl.intervals[i:])
	tl.intervals[i] = iv
	if iv.finish > tl.maxFinish {
		tl.maxFinish = iv.finish
	}
}

// end returns the time the last committed interval finishes, or 0 for
// an empty timeline.
func (tl *timeline) end() int {
	return tl.maxFinish
}

// busy returns the total committed demand-time on this timeline.
func (tl *timeline) busy() int {
	total := 0
	for _, iv := range tl.intervals {
		total += (iv.finish - iv.start) * iv.demand
	}
	return total
}

// earliestStart returns the earliest time >= est at which an interval of
// the given duration and demand fits without the concurrent load ever
// exceeding the resource capacity. With the committed set fixed, load
// only drops at interval finish times, so est and the finish times after
// est are the only candidate starts worth probing.
func (tl *timeline) earliestStart(est, duration, demand int) int {
	if tl.fits(est, duration, demand) {
		return est
	}

	finishes := make([]int, 0, len(tl.intervals))
	for _, iv := range tl.intervals {
		if iv.finish > est {
			finishes = append(finishes, iv.finish)
		}
	}
	sort.Ints(finishes)

	for _, t := range finishes {
		if tl.fits(t, duration, demand) {
			return t
		}
	}
	// Unreachable when demand <= capacity: after the last committed
	// interval the timeline is empty.
	return tl.maxFinish
}

// fits reports whether an interval [start, start+duration) of the given
// demand respects the capacity limit at every instant. The concurrent
// load only changes at interval boundaries, so it suffices to probe the
// window start and every committed start inside the window.
func (tl *timeline) fits(start, duration, demand int) bool {
	if demand > tl.res.Capacity {
		return false
	}
	end := start + duration
	if !tl.fitsAt(start, demand) {
		return false
	}
	for _, iv := range tl.intervals {
		if iv.start > start && iv.start < end {
			if !tl.fitsAt(iv.start, demand) {
				return false
			}
		}
	}
	return true
}

// fitsAt checks the load at a single instant t.
func (tl *timeline) fitsAt(t, demand int) bool {
	load := demand
	for _, iv := range tl.intervals {
		if iv.start <= t && t < iv.finish {
			load += iv.demand
		}
	}
	return load <= tl.res.Capacity
}
