package onboarding

import "sort"

// GetFeedbackAnalytics aggregates completed surveys.
func (s *Store) GetFeedbackAnalytics() FeedbackAnalytics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeAnalytics(s.surveys)
}

func computeAnalytics(surveys []FeedbackSurvey) FeedbackAnalytics {
	completed := make([]FeedbackSurvey, 0, len(surveys))
	for _, survey := range surveys {
		if survey.Status == SurveyCompleted {
			completed = append(completed, survey)
		}
	}
	if len(completed) == 0 {
		return FeedbackAnalytics{Trends: []TrendPoint{}}
	}

	return FeedbackAnalytics{
		AverageSatisfaction: round1(meanScore(completed)),
		CompletionRate:      percent(len(completed), len(surveys)),
		TotalSurveys:        len(surveys),
		CompletedSurveys:    len(completed),
		CategoryAverages:    categoryAverages(completed),
		Trends:              monthlyTrends(completed),
	}
}

func categoryAverages(surveys []FeedbackSurvey) CategoryAverages {
	sums := map[FeedbackCategory]int{}
	counts := map[FeedbackCategory]int{}
	for _, survey := range surveys {
		for _, r := range survey.Responses {
			sums[r.Category] += r.Answer
			counts[r.Category]++
		}
	}
	avg := func(c FeedbackCategory) float64 {
		if counts[c] == 0 {
			return 0
		}
		return round1(float64(sums[c]) / float64(counts[c]))
	}
	return CategoryAverages{
		Onboarding: avg(CategoryOnboarding),
		Manager:    avg(CategoryManager),
		Workplace:  avg(CategoryWorkplace),
		Resources:  avg(CategoryResources),
		Overall:    avg(CategoryOverall),
	}
}

// monthlyTrends buckets by completion month, falling back to the sent month.
func monthlyTrends(surveys []FeedbackSurvey) []TrendPoint {
	buckets := map[string][]FeedbackSurvey{}
	for _, survey := range surveys {
		at := survey.SentDate
		if survey.CompletedDate != nil {
			at = *survey.CompletedDate
		}
		month := at.UTC().Format(monthLayout)
		buckets[month] = append(buckets[month], survey)
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)

	out := make([]TrendPoint, 0, len(months))
	for _, month := range months {
		out = append(out, TrendPoint{
			Month:         month,
			AverageScore:  round1(meanScore(buckets[month])),
			ResponseCount: len(buckets[month]),
		})
	}
	return out
}

func meanScore(surveys []FeedbackSurvey) float64 {
	if len(surveys) == 0 {
		return 0
	}
	total := 0.0
	for _, survey := range surveys {
		if survey.OverallScore != nil {
			total += *survey.OverallScore
		}
	}
	return total / float64(len(surveys))
}
