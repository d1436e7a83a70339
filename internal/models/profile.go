package models

import "time"

type TestScore struct {
	ID       string `json:"id"`
	TestName string `json:"testName"`
	Score    string `json:"score"`
	Date     string `json:"date,omitempty"`
}

type University struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	Program     string `json:"program"`
	Status      string `json:"status"`
	Deadline    string `json:"deadline,omitempty"`
	IsFavourite bool   `json:"isFavourite,omitempty"`
}

type JourneyStep struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completedAt,omitempty"`
}

type Memory struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserProfile is the device owner's identity plus everything collected
// during the journey.
type UserProfile struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Email               string        `json:"email,omitempty"`
	Country             string        `json:"country,omitempty"`
	TargetDegree        string        `json:"targetDegree,omitempty"`
	FieldOfStudy        string        `json:"fieldOfStudy,omitempty"`
	OnboardingCompleted bool          `json:"onboardingCompleted"`
	TestScores          []TestScore   `json:"testScores"`
	Universities        []University  `json:"universities"`
	Documents           []Document    `json:"documents"`
	JourneyProgress     []JourneyStep `json:"journeyProgress"`
	Memories            []Memory      `json:"memories"`
	CreatedAt           time.Time     `json:"createdAt"`
}

// Clone returns a copy that shares no list storage with p. Nil lists
// become empty so they encode as [].
func (p UserProfile) Clone() UserProfile {
	p.TestScores = cloneList(p.TestScores)
	p.Universities = cloneList(p.Universities)
	p.Documents = cloneList(p.Documents)
	p.JourneyProgress = cloneList(p.JourneyProgress)
	p.Memories = cloneList(p.Memories)
	return p
}

func cloneList[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
