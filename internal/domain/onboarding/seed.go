package onboarding

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedData struct {
	TaskTemplate []Task                           `yaml:"taskTemplate"`
	TaskStates   map[string]map[string]TaskStatus `yaml:"taskStates"`
	Employees    []Employee                       `yaml:"employees"`
	Questions    []FeedbackQuestion               `yaml:"questions"`
}

var defaultSeed = mustParseSeed(seedYAML)

func parseSeed(raw []byte) (seedData, error) {
	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return seedData{}, fmt.Errorf("parse seed: %w", err)
	}
	if len(data.TaskTemplate) == 0 || len(data.Employees) == 0 || len(data.Questions) == 0 {
		return seedData{}, fmt.Errorf("parse seed: missing collections")
	}
	return data, nil
}

func mustParseSeed(raw []byte) seedData {
	data, err := parseSeed(raw)
	if err != nil {
		panic(err)
	}
	return data
}

// tasks builds each seeded employee's list from the template. Unlisted tasks start as todo.
func (d seedData) tasks(now time.Time) map[string][]Task {
	out := make(map[string][]Task, len(d.TaskStates))
	for employeeID, states := range d.TaskStates {
		list := make([]Task, 0, len(d.TaskTemplate))
		for _, tmpl := range d.TaskTemplate {
			task := tmpl
			task.EmployeeID = employeeID
			task.Status = TaskTodo
			if status, ok := states[tmpl.ID]; ok {
				task.Status = status
			}
			task.LastUpdated = now
			list = append(list, task)
		}
		out[employeeID] = list
	}
	return out
}

func (d seedData) employees(now time.Time) []Employee {
	out := make([]Employee, len(d.Employees))
	for i, e := range d.Employees {
		e.LastUpdated = now
		out[i] = e
	}
	return out
}

func (d seedData) questions() []FeedbackQuestion {
	out := make([]FeedbackQuestion, len(d.Questions))
	copy(out, d.Questions)
	return out
}

func (d seedData) seededEmployeeIDs() []string {
	ids := make([]string, 0, len(d.TaskStates))
	for id := range d.TaskStates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
