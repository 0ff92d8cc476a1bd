package testutil

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"

	"devcamper/internal/events"
	"devcamper/internal/models"
)

// TinyPNG returns an in-memory PNG byte slice with the requested dimensions.
func TinyPNG(t interface {
	Helper()
	Fatalf(string, ...any)
}, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// PhotoStoreStub keeps photos in memory.
type PhotoStoreStub struct {
	mu      sync.Mutex
	Files   map[string][]byte
	Deleted []string
	PutErr  error
}

// NewPhotoStoreStub creates an empty in-memory photo store.
func NewPhotoStoreStub() *PhotoStoreStub {
	return &PhotoStoreStub{Files: make(map[string][]byte)}
}

func (s *PhotoStoreStub) Put(_ context.Context, name string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	s.Files[name] = append([]byte(nil), data...)
	return nil
}

func (s *PhotoStoreStub) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Files, name)
	s.Deleted = append(s.Deleted, name)
	return nil
}

func (s *PhotoStoreStub) Driver() string { return "memory" }

// RecordingPublisher remembers every published event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *RecordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Types returns the published event types in order.
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// EnqueuedRecompute is one recorded retry request.
type EnqueuedRecompute struct {
	BootcampID uint
	Kind       string
}

// EnqueuerStub records recompute retries instead of sending them to Redis.
type EnqueuerStub struct {
	mu    sync.Mutex
	Tasks []EnqueuedRecompute
	Err   error
}

func (e *EnqueuerStub) EnqueueRecompute(_ context.Context, bootcampID uint, kind string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Tasks = append(e.Tasks, EnqueuedRecompute{BootcampID: bootcampID, Kind: kind})
	return nil
}

// Recorded returns a copy of the recorded retries.
func (e *EnqueuerStub) Recorded() []EnqueuedRecompute {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]EnqueuedRecompute(nil), e.Tasks...)
}

// StaticLocations maps zipcodes and addresses to fixed locations for geocoder stubs.
var StaticLocations = map[string]models.Location{
	"02118": {Lat: 42.3443, Lng: -71.0707, City: "Boston", State: "MA", Zipcode: "02118", Country: "US"},
	"10001": {Lat: 40.7, Lng: -73.0, City: "New York", State: "NY", Zipcode: "10001", Country: "US"},
}
