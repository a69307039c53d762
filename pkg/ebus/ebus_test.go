package ebus_test

import (
	"testing"
	"time"

	"github.com/dribbe/glucomon/pkg/ebus"
	"github.com/dribbe/glucomon/pkg/glucose"
)

func update(value int) glucose.Update {
	return glucose.Update{
		Reading: glucose.Reading{
			Value:     &value,
			Timestamp: time.Now(),
			Trend:     glucose.TrendFlat,
		},
	}
}

func TestPublish(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		// Named input parameters for target function.
		topic   string
		value   int
		wantErr bool
	}{
		{
			name:  "test",
			topic: "test",
			value: 123,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr := ebus.Publish(tt.topic, update(tt.value))
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("Publish() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("Publish() succeeded unexpectedly")
			}
		})
	}
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		// Named input parameters for target function.
		topic   string
		wantNil bool
	}{
		{
			name:  "test",
			topic: "test.subscribe",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotChan := ebus.Subscribe(tt.topic)
			if gotChan == nil {
				if !tt.wantNil {
					t.Errorf("Subscribe() failed: got nil channel")
				}
				return
			}
			if tt.wantNil {
				t.Fatal("Subscribe() succeeded unexpectedly")
			}
			ebus.Publish(tt.topic, update(314))
			u := <-gotChan
			if u.Reading.Value == nil || *u.Reading.Value != 314 {
				t.Errorf("Subscribe() got %v, want 314", u.Reading.Value)
			}
			ebus.Unsubscribe(gotChan)
		})
	}
}

func TestSubscribeFunc(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		// Named input parameters for target function.
		topic   string
		wantNil bool
	}{
		{
			name:  "test",
			topic: "test.subscribefunc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan struct{})
			cleanup := ebus.SubscribeFunc(tt.topic, func(u glucose.Update) {
				if u.Reading.Value == nil || *u.Reading.Value != 271 {
					t.Errorf("SubscribeFunc() got %v, want 271", u.Reading.Value)
				}
				select {
				case <-done:
				default:
					close(done)
				}
			})
			if cleanup == nil {
				if !tt.wantNil {
					t.Errorf("SubscribeFunc() failed: got nil cleanup function")
				}
				return
			}
			if tt.wantNil {
				t.Fatal("SubscribeFunc() succeeded unexpectedly")
			}
			ebus.Publish(tt.topic, update(271))
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("SubscribeFunc() callback never fired")
			}
			cleanup()
		})
	}
}

func TestSubscribeReplaysLastUpdate(t *testing.T) {
	if err := ebus.Publish("test.replay", update(99)); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	// give the bus loop a moment to cache it
	time.Sleep(50 * time.Millisecond)
	gotChan := ebus.Subscribe("test.replay")
	select {
	case u := <-gotChan:
		if u.Reading.Value == nil || *u.Reading.Value != 99 {
			t.Errorf("replay got %v, want 99", u.Reading.Value)
		}
	case <-time.After(time.Second):
		t.Fatal("no replayed update")
	}
	ebus.Unsubscribe(gotChan)
}
