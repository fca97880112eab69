package sse

import (
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
)

const EventSummaryUpdated = "summary.updated"

// SummaryPublisher implements summary.Publisher on top of a Hub
type SummaryPublisher struct {
	hub *Hub
}

func NewSummaryPublisher(hub *Hub) *SummaryPublisher {
	return &SummaryPublisher{hub: hub}
}

func (p *SummaryPublisher) PublishSummary(s summary.DailySummary) {
	p.hub.Publish(Event{
		Topic: TopicSummaries,
		Event: EventSummaryUpdated,
		Data:  summary.NewDailySummaryResponse(s),
	})
}
