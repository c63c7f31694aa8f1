package types

// PublishStatus tracks where a published-trades record sits in its
// lifecycle. The only path back to NotPublished is an explicit clear.
type PublishStatus string

const (
	StatusNotPublished       PublishStatus = "NOT_PUBLISHED"
	StatusPublishedPending   PublishStatus = "PUBLISHED_PENDING"
	StatusPublishedConfirmed PublishStatus = "PUBLISHED_CONFIRMED"
)

// PublishedTradesRecord is the one persisted entity of the planning
// pipeline. It is read and written as a whole on every mutation so the
// in-memory copy and the persisted copy can never diverge mid-update.
type PublishedTradesRecord struct {
	PlannedTrades       []PlannedTrade   `json:"plannedTrades"`
	ConfirmedTrades     []ConfirmedTrade `json:"confirmedTrades"`
	PublishedAt         string           `json:"publishedAt"` // ISO-8601, empty until published
	IsPublished         bool             `json:"isPublished"`
	ShowConfirmedTrades bool             `json:"showConfirmedTrades"`
}

// DefaultRecord returns the all-empty, unpublished record used on first run
// and after a clear.
func DefaultRecord() PublishedTradesRecord {
	return PublishedTradesRecord{
		PlannedTrades:   []PlannedTrade{},
		ConfirmedTrades: []ConfirmedTrade{},
	}
}

// Status derives the publish status from the record's flags.
func (r *PublishedTradesRecord) Status() PublishStatus {
	if !r.IsPublished {
		return StatusNotPublished
	}
	if r.ShowConfirmedTrades && len(r.ConfirmedTrades) > 0 {
		return StatusPublishedConfirmed
	}
	return StatusPublishedPending
}
