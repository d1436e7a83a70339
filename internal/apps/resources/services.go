package resources

import (
	"errors"
	"slices"
	"strings"

	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
)

// FilterAll disables a category or type filter.
const FilterAll = "All"

var ErrNotFound = errors.New("resource not found")

type Filter struct {
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Search   string `json:"search,omitempty"`
}

// Service serves a fixed resource catalogue.
type Service struct {
	resources []models.Resource
}

func NewService(resources []models.Resource) *Service {
	return &Service{resources: resources}
}

// List filters by category and type (exact match, skipped when empty or
// "All") and by a case-insensitive search across title, description,
// author, category and tags.
func (s *Service) List(f Filter) []models.Resource {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []models.Resource{}
	for _, r := range s.resources {
		if active(f.Category) && r.Category != f.Category {
			continue
		}
		if active(f.Type) && r.Type != f.Type {
			continue
		}
		if search != "" && !matches(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Service) Get(id string) (*models.Resource, error) {
	i := slices.IndexFunc(s.resources, func(r models.Resource) bool { return r.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	r := s.resources[i]
	return &r, nil
}

func active(filter string) bool {
	return filter != "" && filter != FilterAll
}

func matches(r models.Resource, needle string) bool {
	fields := append([]string{r.Title, r.Description, r.Author, r.Category}, r.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
