package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStatusValid(t *testing.T) {
	assert.True(t, DocumentExpiringSoon.Valid())
	assert.True(t, DocumentPending.Valid())
	assert.False(t, DocumentStatus("archived").Valid())
}

func TestDocumentPatchApply(t *testing.T) {
	doc := Document{ID: "d1", Name: "passport", Title: "Passport", Type: "identity", Status: DocumentNeeded}
	status := DocumentValid
	expiry := "2030-01-01"

	got := DocumentPatch{Status: &status, ExpiryDate: &expiry}.Apply(doc)

	assert.Equal(t, Document{
		ID: "d1", Name: "passport", Title: "Passport", Type: "identity",
		Status: DocumentValid, ExpiryDate: "2030-01-01",
	}, got)
	assert.Equal(t, DocumentNeeded, doc.Status, "original untouched")
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2026-03-01")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDate("2026-03-01T10:00:00Z")
	assert.True(t, ok)

	_, ok = ParseDate("next tuesday")
	assert.False(t, ok)

	_, ok = ParseDate("")
	assert.False(t, ok)
}

func TestUserProfileClone(t *testing.T) {
	orig := UserProfile{Name: "Ada", Universities: []University{{ID: "u1", Name: "ETH Zurich"}}}

	cp := orig.Clone()
	cp.Universities[0].Name = "EPFL"

	assert.Equal(t, "ETH Zurich", orig.Universities[0].Name)
	assert.NotNil(t, cp.TestScores)
	assert.Empty(t, cp.Memories)
}
