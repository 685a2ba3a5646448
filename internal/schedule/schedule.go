package schedule

import "sort"

// Assignment records where and when a single task runs.
type Assignment struct {
	TaskID     string
	ResourceID string
	Start      int
	Finish     int
	Demand     int
}

// Schedule is the realized assignment of every task to a resource and a
// time interval. It is read-only once built. Makespan is always at
// least CriticalLength; equality indicates the packing matched the
// unlimited-resource lower bound.
type Schedule struct {
	Assignments    map[string]Assignment
	Resources      []Resource // sorted by ID
	Makespan       int
	CriticalLength int

	busy map[string]int // resource ID -> committed demand-time
}

func newSchedule(assignments map[string]Assignment, timelines []*timeline, criticalLength int) *Schedule {
	s := &Schedule{
		Assignments:    assignments,
		Resources:      make([]Resource, 0, len(timelines)),
		CriticalLength: criticalLength,
		busy:           make(map[string]int, len(timelines)),
	}
	for _, tl := range timelines {
		s.Resources = append(s.Resources, tl.res)
		s.busy[tl.res.ID] = tl.busy()
		if tl.end() > s.Makespan {
			s.Makespan = tl.end()
		}
	}
	return s
}

// Slack is the gap between the realized makespan and the critical path
// length; zero means the schedule is as tight as dependencies allow.
func (s *Schedule) Slack() int {
	return s.Makespan - s.CriticalLength
}

// Utilization returns, per resource, the fraction of total capacity-time
// spent running tasks over the makespan. An empty schedule reports zero
// for every resource.
func (s *Schedule) Utilization() map[string]float64 {
	util := make(map[string]float64, len(s.Resources))
	for _, res := range s.Resources {
		if s.Makespan == 0 {
			util[res.ID] = 0
			continue
		}
		util[res.ID] = float64(s.busy[res.ID]) / float64(s.Makespan*res.Capacity)
	}
	return util
}

// ByResource groups assignments per resource, sorted by start time.
// Resources with no assignments map to an empty slice so reports can
// render idle resources too.
func (s *Schedule) ByResource() map[string][]Assignment {
	grouped := make(map[string][]Assignment, len(s.Resources))
	for _, res := range s.Resources {
		grouped[res.ID] = []Assignment{}
	}
	for _, a := range s.Assignments {
		grouped[a.ResourceID] = append(grouped[a.ResourceID], a)
	}
	for id := range grouped {
		sort.Slice(grouped[id], func(i, j int) bool {
			if grouped[id][i].Start != grouped[id][j].Start {
				return grouped[id][i].Start < grouped[id][j].Start
			}
			return grouped[id][i].TaskID < grouped[id][j].TaskID
		})
	}
	return grouped
}

// TaskOrder returns task IDs sorted by start time, then ID, giving a
// stable narrative order for reports.
func (s *Schedule) TaskOrder() []string {
	ids := make([]string, 0, len(s.Assignments))
	for id := range s.Assignments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ai, aj := s.Assignments[ids[i]], s.Assignments[ids[j]]
		if ai.Start != aj.Start {
			return ai.Start < aj.Start
		}
		return ids[i] < ids[j]
	})
	return ids
}
