package resources

import "github.com/ahmetcoskunkizilkaya/journey/internal/models"

// MockResources is the community catalogue served by resources.list.
func MockResources() []models.Resource {
	return []models.Resource{
		{
			ID:          "1",
			Title:       "Personal Statement Masterclass",
			Description: "Write a compelling statement that shows who you are and why the program fits.",
			Author:      "Dr. Sarah Chen",
			Category:    "Applications",
			Type:        "video",
			Tags:        []string{"writing", "essays", "admissions"},
			Duration:    "45 min",
			Rating:      4.9,
			AccessTier:  models.TierPremium,
		},
		{
			ID:          "2",
			Title:       "University Research Strategy",
			Description: "Shortlist universities by ranking, cost, location and course structure.",
			Author:      "Mark Williams",
			Category:    "Research",
			Type:        "guide",
			Tags:        []string{"universities", "shortlisting"},
			Duration:    "15 min read",
			Rating:      4.7,
			AccessTier:  models.TierFree,
		},
		{
			ID:          "3",
			Title:       "IELTS Band 8 Preparation Plan",
			Description: "A six-week plan covering listening, reading, writing and speaking.",
			Author:      "Emma Thompson",
			Category:    "Test Prep",
			Type:        "course",
			Tags:        []string{"ielts", "english", "exams"},
			Duration:    "6 weeks",
			Rating:      4.8,
			AccessTier:  models.TierStandard,
		},
		{
			ID:          "4",
			Title:       "Student Visa Checklist",
			Description: "Every document you need for a student visa appointment, in order.",
			Author:      "Global Student Office",
			Category:    "Visa",
			Type:        "template",
			Tags:        []string{"visa", "documents", "checklist"},
			Duration:    "10 min read",
			Rating:      4.6,
			AccessTier:  models.TierFree,
		},
		{
			ID:          "5",
			Title:       "Scholarship Essay Workshop",
			Description: "Turn your story into funding: structure, tone and common mistakes.",
			Author:      "James Okafor",
			Category:    "Funding",
			Type:        "video",
			Tags:        []string{"scholarships", "essays", "statement"},
			Duration:    "30 min",
			Rating:      4.8,
			AccessTier:  models.TierPremium,
		},
		{
			ID:          "6",
			Title:       "Mock Interview Practice",
			Description: "Practice common admission interview questions with model answers.",
			Author:      "Dr. Sarah Chen",
			Category:    "Interviews",
			Type:        "course",
			Tags:        []string{"interviews", "speaking"},
			Duration:    "1 hour",
			Rating:      4.5,
			AccessTier:  models.TierStandard,
		},
	}
}
