// Package project reads and writes gantry project files: TOML documents
// describing the task graph and the resource pool. Loading only parses;
// structural validation (cycles, dangling dependencies) happens when the
// project is bridged into a dag.Graph.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/gantry/internal/dag"
	"github.com/papapumpkin/gantry/internal/schedule"
)

// DefaultPath is the conventional project file name.
const DefaultPath = "gantry.toml"

// ErrNoTasks is returned when a project file declares no tasks.
var ErrNoTasks = errors.New("project has no tasks")

// TaskEntry is one task row in the project file.
type TaskEntry struct {
	ID        string   `toml:"id"`
	Name      string   `toml:"name,omitempty"`
	Duration  int      `toml:"duration"`
	DependsOn []string `toml:"depends_on,omitempty"`
	Demand    int      `toml:"demand,omitempty"`
}

// ResourceEntry is one resource row in the project file.
type ResourceEntry struct {
	ID       string `toml:"id"`
	Capacity int    `toml:"capacity,omitempty"`
}

// Project is the parsed form of a project file.
type Project struct {
	Name      string          `toml:"name,omitempty"`
	Tasks     []TaskEntry     `toml:"tasks"`
	Resources []ResourceEntry `toml:"resources,omitempty"`
}

// Load reads a project file from the given path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var p Project
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		base := filepath.Base(path)
		p.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return &p, nil
}

// Save writes the project to the given path, creating parent directories
// as needed.
func Save(path string, p *Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Graph validates the task entries and builds the dependency graph.
// Errors from dag.Build (cycles, unknown or duplicate IDs, bad
// durations) pass through wrapped with the project name.
func (p *Project) Graph() (*dag.Graph, error) {
	if len(p.Tasks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTasks, p.Name)
	}

	tasks := make([]dag.Task, 0, len(p.Tasks))
	for _, e := range p.Tasks {
		tasks = append(tasks, dag.Task{
			ID:        e.ID,
			Name:      e.Name,
			Duration:  e.Duration,
			DependsOn: e.DependsOn,
			Demand:    e.Demand,
		})
	}

	g, err := dag.Build(tasks)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.Name, err)
	}
	return g, nil
}

// Pool returns the declared resource pool. Resources without an explicit
// capacity get capacity 1. When the file declares no resources at all, a
// default pool of fallbackCount unit-capacity resources named R1..Rn is
// generated.
func (p *Project) Pool(fallbackCount int) []schedule.Resource {
	if len(p.Resources) == 0 {
		pool := make([]schedule.Resource, 0, fallbackCount)
		for i := 1; i <= fallbackCount; i++ {
			pool = append(pool, schedule.Resource{ID: fmt.Sprintf("R%d", i), Capacity: 1})
		}
		return pool
	}

	pool := make([]schedule.Resource, 0, len(p.Resources))
	for _, e := range p.Resources {
		capacity := e.Capacity
		if capacity == 0 {
			capacity = 1
		}
		pool = append(pool, schedule.Resource{ID: e.ID, Capacity: capacity})
	}
	return pool
}
