package notify

import (
	"testing"
	"time"
)

func TestNotifyExpiresAfterTTL(t *testing.T) {
	c := NewCenter(WithTTL(30 * time.Millisecond))
	defer c.Close()

	n := c.Notify("hello", KindInfo)
	if n.ID == "" {
		t.Fatal("notification id empty")
	}
	if got := len(c.Active()); got != 1 {
		t.Fatalf("active = %d, want 1", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(c.Active()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("notification did not expire")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestExpiryIsPerNotification(t *testing.T) {
	c := NewCenter(WithTTL(40 * time.Millisecond))
	defer c.Close()

	c.Notify("first", KindSuccess)
	time.Sleep(25 * time.Millisecond)
	second := c.Notify("second", KindSuccess)

	deadline := time.Now().Add(2 * time.Second)
	for {
		active := c.Active()
		if len(active) == 1 {
			if active[0].ID != second.ID {
				t.Fatalf("wrong survivor: %q", active[0].Message)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected first to expire before second, active = %d", len(active))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDismissUnknownIDIsNoop(t *testing.T) {
	c := NewCenter(WithTTL(time.Minute))
	defer c.Close()

	c.Notify("keep", KindError)
	c.Dismiss("nope")
	if got := len(c.Active()); got != 1 {
		t.Fatalf("active = %d, want 1", got)
	}
}

func TestDismissRemovesEarly(t *testing.T) {
	c := NewCenter(WithTTL(time.Minute))
	defer c.Close()

	n := c.Notify("bye", KindInfo)
	c.Dismiss(n.ID)
	if got := len(c.Active()); got != 0 {
		t.Fatalf("active = %d, want 0", got)
	}
}

type captureSink struct{ got []Notification }

func (c *captureSink) BroadcastNotification(n Notification) { c.got = append(c.got, n) }

func TestBroadcasterReceivesNotifications(t *testing.T) {
	sink := &captureSink{}
	c := NewCenter(WithTTL(time.Minute), WithBroadcaster(sink))
	defer c.Close()

	c.Notify("fanout", KindDonation)
	if len(sink.got) != 1 || sink.got[0].Message != "fanout" {
		t.Fatalf("broadcaster not invoked: %+v", sink.got)
	}
}
