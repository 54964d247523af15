package onboarding

import (
	"math"
	"time"
)

// DeriveEmployeeStatus computes progress and status from an employee's tasks.
// An empty task list yields (0, at-risk).
func DeriveEmployeeStatus(tasks []Task) (int, EmployeeStatus) {
	if len(tasks) == 0 {
		return 0, StatusAtRisk
	}
	done := 0
	for _, task := range tasks {
		if task.Status == TaskDone {
			done++
		}
	}
	progress := int(math.Round(100 * float64(done) / float64(len(tasks))))
	return progress, statusForProgress(progress)
}

func statusForProgress(progress int) EmployeeStatus {
	switch {
	case progress >= completedThreshold:
		return StatusCompleted
	case progress >= onTrackThreshold:
		return StatusOnTrack
	default:
		return StatusAtRisk
	}
}

// ScoreResponses is the mean of all non-overall answers, one decimal. Zero when none qualify.
func ScoreResponses(responses []FeedbackResponse) float64 {
	sum, n := 0, 0
	for _, r := range responses {
		if r.Category == CategoryOverall {
			continue
		}
		sum += r.Answer
		n++
	}
	if n == 0 {
		return 0
	}
	return round1(float64(sum) / float64(n))
}

// DaysSinceStart returns whole days elapsed between startDate (YYYY-MM-DD, UTC midnight) and now.
func DaysSinceStart(startDate string, now time.Time) (int, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, ErrInvalidStartDate
	}
	return int(math.Floor(now.Sub(start).Hours() / 24)), nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
