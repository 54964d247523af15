package onboarding

import "context"

func (s *Store) GetEmployees() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Employee{}, s.employees...)
}

func (s *Store) GetEmployee(employeeID string) (Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := employeeIndex(s.employees, employeeID)
	if idx < 0 {
		return Employee{}, false
	}
	return s.employees[idx], true
}

// AddEmployee upserts by id, merging the non-empty fields of e into an
// existing record. Progress and status follow the employee's tasks when a
// task list exists.
func (s *Store) AddEmployee(ctx context.Context, e Employee) Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.LastUpdated = s.now()
	idx := employeeIndex(s.employees, e.ID)
	if idx >= 0 {
		s.employees[idx] = mergeEmployee(s.employees[idx], e)
	} else {
		if e.Status == "" {
			e.Status = statusForProgress(e.Progress)
		}
		s.employees = append(s.employees, e)
		idx = len(s.employees) - 1
	}
	if _, ok := s.tasks[e.ID]; ok {
		s.recomputeLocked(e.ID)
	}
	s.saveLocked(ctx)
	return s.employees[idx]
}

func employeeIndex(list []Employee, employeeID string) int {
	for i := range list {
		if list[i].ID == employeeID {
			return i
		}
	}
	return -1
}

func mergeEmployee(dst, src Employee) Employee {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Role != "" {
		dst.Role = src.Role
	}
	if src.Manager != "" {
		dst.Manager = src.Manager
	}
	if src.StartDate != "" {
		dst.StartDate = src.StartDate
	}
	if src.Department != "" {
		dst.Department = src.Department
	}
	if src.Status != "" {
		dst.Status = src.Status
	}
	if src.Progress != 0 {
		dst.Progress = src.Progress
	}
	dst.LastUpdated = src.LastUpdated
	return dst
}
