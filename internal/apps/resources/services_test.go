package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(t *testing.T, s *Service, f Filter) []string {
	t.Helper()
	var out []string
	for _, r := range s.List(f) {
		out = append(out, r.Title)
	}
	return out
}

func TestResourceListSearch(t *testing.T) {
	s := NewService(MockResources())

	got := titles(t, s, Filter{Search: "STATEMENT"})
	assert.Contains(t, got, "Personal Statement Masterclass")
	assert.Contains(t, got, "Scholarship Essay Workshop", "matched through tags")
	assert.NotContains(t, got, "University Research Strategy")
	assert.Len(t, got, 2)
}

func TestResourceListSearchMatchesAuthorAndCategory(t *testing.T) {
	s := NewService(MockResources())
	assert.Len(t, titles(t, s, Filter{Search: "sarah chen"}), 2)
	assert.Equal(t, []string{"Student Visa Checklist"}, titles(t, s, Filter{Search: "visa"}))
}

func TestResourceListCategoryAndType(t *testing.T) {
	s := NewService(MockResources())

	assert.Len(t, s.List(Filter{}), len(MockResources()))
	assert.Len(t, s.List(Filter{Category: FilterAll, Type: FilterAll}), len(MockResources()))
	assert.Equal(t, []string{"University Research Strategy"}, titles(t, s, Filter{Category: "Research"}))
	assert.Equal(t,
		[]string{"Personal Statement Masterclass", "Scholarship Essay Workshop"},
		titles(t, s, Filter{Type: "video"}))
	assert.Empty(t, titles(t, s, Filter{Type: "video", Category: "Visa"}))

	empty := s.List(Filter{Search: "quantum"})
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestResourceGet(t *testing.T) {
	s := NewService(MockResources())
	r, err := s.Get("3")
	require.NoError(t, err)
	assert.Equal(t, "IELTS Band 8 Preparation Plan", r.Title)

	_, err = s.Get("99")
	assert.ErrorIs(t, err, ErrNotFound)
}
