package nightscout_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dribbe/glucomon/pkg/ebus"
	"github.com/dribbe/glucomon/pkg/nightscout"
)

func TestPollerPublishesReading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleEntries))
	}))
	defer srv.Close()

	sub := ebus.Subscribe(ebus.TopicReading)
	defer ebus.Unsubscribe(sub)

	p := nightscout.NewPoller(nightscout.PollerConfig{
		Client:   nightscout.New(srv.URL, ""),
		Interval: time.Hour, // first poll fires immediately
	})
	p.Start(context.Background())
	defer func() {
		if err := p.Stop(); err != nil {
			t.Errorf("Stop() failed: %v", err)
		}
	}()

	select {
	case u := <-sub:
		if u.Reading.Value == nil || *u.Reading.Value != 112 {
			t.Errorf("reading = %v, want 112", u.Reading.Value)
		}
		if u.Delta == nil || *u.Delta != -6 {
			t.Errorf("delta = %v, want -6", u.Delta)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no update published")
	}
}
