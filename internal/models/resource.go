package models

type AccessTier string

const (
	TierFree     AccessTier = "free"
	TierStandard AccessTier = "standard"
	TierPremium  AccessTier = "premium"
)

// Resource is a community learning resource (guide, video, template).
type Resource struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Author      string     `json:"author"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Tags        []string   `json:"tags"`
	URL         string     `json:"url,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	Rating      float64    `json:"rating"`
	AccessTier  AccessTier `json:"accessTier"`
}
