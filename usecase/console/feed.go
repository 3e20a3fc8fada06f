package console

import (
	"context"
	"sort"

	"github.com/fastygo/aiops/domain"
)

const feedTimeLayout = "2006-01-02 15:04:05"

// Feed renders the mock incident queue in the incidents-service wire shape.
func (uc *UseCase) Feed(ctx context.Context) (*domain.IncidentFeed, error) {
	incidents, err := uc.ops.Incidents(ctx)
	if err != nil {
		return nil, err
	}

	feed := &domain.IncidentFeed{
		TotalIncidents: len(incidents),
		Incidents:      make([]domain.FeedIncident, 0, len(incidents)),
	}
	counts := make(map[string]int)
	for i := range incidents {
		inc := &incidents[i]
		if inc.IsOpen() {
			feed.ActiveCount++
		}
		category := inc.Category
		if category == "" {
			category = "uncategorized"
		}
		counts[category]++

		item := domain.FeedIncident{
			SysID:            inc.ID,
			Number:           inc.ID,
			ShortDescription: inc.Title,
			Category:         category,
		}
		if !inc.IsOpen() {
			item.ClosedAt = inc.DetectedAt.UTC().Format(feedTimeLayout)
			item.CloseNotes = inc.RootCause
		}
		feed.Incidents = append(feed.Incidents, item)
	}

	for category, count := range counts {
		feed.IncidentTypes = append(feed.IncidentTypes, domain.IncidentTypeCount{Type: category, Count: count})
	}
	sort.Slice(feed.IncidentTypes, func(i, j int) bool {
		a, b := feed.IncidentTypes[i], feed.IncidentTypes[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Type < b.Type
	})
	return feed, nil
}
