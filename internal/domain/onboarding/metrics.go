package onboarding

// GetMetrics summarises onboarding progress for the HR dashboard.
// averageCompletionTime is a heuristic in days, not a measurement.
func (s *Store) GetMetrics() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeMetrics(s.employees)
}

func computeMetrics(employees []Employee) Metrics {
	if len(employees) == 0 {
		return Metrics{}
	}
	totalProgress, onTrack := 0, 0
	for _, e := range employees {
		totalProgress += e.Progress
		if e.Status == StatusOnTrack || e.Status == StatusCompleted {
			onTrack++
		}
	}
	avgProgress := float64(totalProgress) / float64(len(employees))
	return Metrics{
		AverageCompletionTime: round1((100-avgProgress)/10 + 2),
		OnTrackPercentage:     percent(onTrack, len(employees)),
		SatisfactionScore:     placeholderSatisfaction,
		TotalEmployees:        len(employees),
	}
}
