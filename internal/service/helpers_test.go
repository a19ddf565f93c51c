package service

import (
	"context"
	"sync"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model/event"
	"github.com/RoyceAzure/lab/eventro/internal/infra/producer"
	"github.com/stretchr/testify/mock"
)

const testSession = "session-1"

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

var _ producer.EventPublisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(ctx context.Context, evts ...event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return p.err
}

func (p *recordingPublisher) types() []event.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]event.EventType, len(p.events))
	for i, evt := range p.events {
		types[i] = evt.Type()
	}
	return types
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordOrder(ctx context.Context, sessionID string, order *model.Order) error {
	return m.Called(ctx, sessionID, order).Error(0)
}

func soundSystemInput(packageID int64, price int64, quantity int) AddItemInput {
	return AddItemInput{
		ListingID:    1,
		PackageID:    packageID,
		Title:        "Professional Sound System for Events",
		PackageName:  "Basic Package (4 hrs)",
		VendorName:   "SoundWave Productions",
		VendorAvatar: "../assets/img/placeholders/avatar-01.jpg",
		PricePerUnit: price,
		Unit:         model.PricingUnitHourly,
		Quantity:     quantity,
	}
}
