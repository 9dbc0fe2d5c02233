// Package seed reads bulk plan documents. Tasks are keyed by a caller chosen
// string and refer to each other by that key; ids are assigned on import.
//
// Documents are YAML; JSON documents parse as well since JSON is valid YAML.
package seed

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"taskplanner/internal/errs"
	"taskplanner/internal/model"
)

// Plan is a whole seed document.
type Plan struct {
	Tasks []Item `yaml:"tasks" json:"tasks"`
}

// Item is one task definition.
type Item struct {
	Key         string         `yaml:"key" json:"key"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Status      model.Status   `yaml:"status" json:"status"`
	Priority    model.Priority `yaml:"priority" json:"priority"`
	Week        int            `yaml:"week" json:"week"`
	Subtasks    []string       `yaml:"subtasks" json:"subtasks"`
	DependsOn   []string       `yaml:"depends_on" json:"depends_on"`
}

// Load reads and validates the plan at path.
func Load(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a plan.
func Parse(r io.Reader) (*Plan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var plan Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if err == io.EOF {
			return &plan, nil
		}
		return nil, errs.Invalid("seed", "decode: %v", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks keys are unique and resolvable and fills defaults.
// Prerequisite lists may not name the item itself or repeat a key.
func (p *Plan) Validate() error {
	seen := make(map[string]bool, len(p.Tasks))
	for i := range p.Tasks {
		it := &p.Tasks[i]
		it.Key = strings.TrimSpace(it.Key)
		it.Title = strings.TrimSpace(it.Title)
		path := fmt.Sprintf("tasks[%d]", i)
		if it.Key == "" {
			return errs.Invalid(path+".key", "key is required")
		}
		if seen[it.Key] {
			return errs.Invalid(path+".key", "duplicate key %q", it.Key)
		}
		seen[it.Key] = true
		if it.Title == "" {
			return errs.Invalid(path+".title", "title is required")
		}
		if it.Status == "" {
			it.Status = model.StatusTodo
		}
		if !it.Status.Settable() {
			return errs.Invalid(path+".status", "invalid status %q", it.Status)
		}
		if it.Priority == 0 {
			it.Priority = model.PriorityNormal
		}
		if !it.Priority.Valid() {
			return errs.Invalid(path+".priority", "priority must be 1, 2 or 3")
		}
		if it.Week < 0 {
			return errs.Invalid(path+".week", "week must not be negative")
		}
		for j := range it.Subtasks {
			it.Subtasks[j] = strings.TrimSpace(it.Subtasks[j])
			if it.Subtasks[j] == "" {
				return errs.Invalid(fmt.Sprintf("%s.subtasks[%d]", path, j), "title is required")
			}
		}
	}
	for i, it := range p.Tasks {
		path := fmt.Sprintf("tasks[%d].depends_on", i)
		listed := make(map[string]bool, len(it.DependsOn))
		for _, dep := range it.DependsOn {
			switch {
			case !seen[dep]:
				return errs.Invalid(path, "unknown key %q", dep)
			case dep == it.Key:
				return errs.Invalid(path, "task %q cannot depend on itself", dep)
			case listed[dep]:
				return errs.Invalid(path, "key %q listed twice", dep)
			}
			listed[dep] = true
		}
	}
	return nil
}
