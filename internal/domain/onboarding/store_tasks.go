package onboarding

import "context"

// GetEmployeeTasks returns a copy of the employee's tasks, empty for unknown ids.
func (s *Store) GetEmployeeTasks(employeeID string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Task{}, s.tasks[employeeID]...)
}

// UpdateTaskStatus writes status over whatever the task held before. Any
// status may follow any other. It returns false when the employee list or
// task is unknown.
func (s *Store) UpdateTaskStatus(ctx context.Context, employeeID, taskID string, status TaskStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.tasks[employeeID]
	if !ok {
		return false
	}
	idx := taskIndex(list, taskID)
	if idx < 0 {
		return false
	}

	list[idx].Status = status
	list[idx].LastUpdated = s.now()
	s.recomputeLocked(employeeID)
	s.saveLocked(ctx)
	return true
}

// AddTask upserts by task id within the owning employee's list. Fields left
// empty keep their stored values; a new task without a status starts as todo.
// A task without an employee id is returned unchanged and not stored.
func (s *Store) AddTask(ctx context.Context, task Task) Task {
	if task.EmployeeID == "" {
		return task
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tasks == nil {
		s.tasks = map[string][]Task{}
	}
	task.LastUpdated = s.now()

	list := s.tasks[task.EmployeeID]
	result := task
	if idx := taskIndex(list, task.ID); idx >= 0 {
		list[idx] = mergeTask(list[idx], task)
		result = list[idx]
	} else {
		if task.Status == "" {
			task.Status = TaskTodo
		}
		result = task
		list = append(list, task)
	}
	s.tasks[task.EmployeeID] = list

	s.recomputeLocked(task.EmployeeID)
	s.saveLocked(ctx)
	return result
}

// recomputeLocked refreshes the derived fields of one employee, if known.
func (s *Store) recomputeLocked(employeeID string) {
	idx := employeeIndex(s.employees, employeeID)
	if idx < 0 {
		return
	}
	progress, status := DeriveEmployeeStatus(s.tasks[employeeID])
	s.employees[idx].Progress = progress
	s.employees[idx].Status = status
	s.employees[idx].LastUpdated = s.now()
}

func taskIndex(list []Task, taskID string) int {
	for i := range list {
		if list[i].ID == taskID {
			return i
		}
	}
	return -1
}

func mergeTask(dst, src Task) Task {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Status != "" {
		dst.Status = src.Status
	}
	if src.Category != "" {
		dst.Category = src.Category
	}
	if src.EstimatedTime != "" {
		dst.EstimatedTime = src.EstimatedTime
	}
	dst.LastUpdated = src.LastUpdated
	return dst
}
