package store

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
)

// ExpiryWindow is how far ahead a document counts as expiring.
const ExpiryWindow = 30 * 24 * time.Hour

// ExpiringDocuments returns the documents whose expiry date parses and lies
// within [now, now+ExpiryWindow], both ends inclusive.
func ExpiringDocuments(docs []models.Document, now time.Time) []models.Document {
	limit := now.Add(ExpiryWindow)
	return filter(docs, func(d models.Document) bool {
		expiry, ok := d.ExpiryTime()
		if !ok {
			return false
		}
		return !expiry.Before(now) && !expiry.After(limit)
	})
}

func DocumentsByType(docs []models.Document, docType string) []models.Document {
	return filter(docs, func(d models.Document) bool { return d.Type == docType })
}

func DocumentsByStatus(docs []models.Document, status models.DocumentStatus) []models.Document {
	return filter(docs, func(d models.Document) bool { return d.Status == status })
}

func filter(docs []models.Document, keep func(models.Document) bool) []models.Document {
	out := []models.Document{}
	for _, d := range docs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
