package channel_test

import (
	"context"
	"testing"
	"time"

	"github.com/tailored-agentic-units/relay/address"
	"github.com/tailored-agentic-units/relay/channel"
	"github.com/tailored-agentic-units/relay/messaging"
)

func TestPipe_Delivery(t *testing.T) {
	a, b := channel.Pipe(4)
	defer a.Close()

	received := make(chan *messaging.Message, 1)
	if err := b.Subscribe(func(msg *messaging.Message) {
		received <- msg
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	sent := messaging.NewMessage("ping", address.New("a"), "hello").Build()
	if err := a.Send(context.Background(), sent); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case msg := <-received:
		if msg.Name != "ping" {
			t.Errorf("Name = %q, want %q", msg.Name, "ping")
		}
		if data, ok := msg.Data.(string); !ok || data != "hello" {
			t.Errorf("Data = %v, want %q", msg.Data, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for delivery")
	}
}

func TestPipe_BothDirections(t *testing.T) {
	a, b := channel.Pipe(4)
	defer a.Close()

	fromA := make(chan string, 1)
	fromB := make(chan string, 1)

	a.Subscribe(func(msg *messaging.Message) { fromB <- msg.Name })
	b.Subscribe(func(msg *messaging.Message) { fromA <- msg.Name })

	ctx := context.Background()
	a.Send(ctx, messaging.NewMessage("a-to-b", address.New(), nil).Build())
	b.Send(ctx, messaging.NewMessage("b-to-a", address.New(), nil).Build())

	for want, ch := range map[string]chan string{"a-to-b": fromA, "b-to-a": fromB} {
		select {
		case got := <-ch:
			if got != want {
				t.Errorf("received %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %q", want)
		}
	}
}

func TestPipe_ReceiverGetsIndependentCopy(t *testing.T) {
	a, b := channel.Pipe(4)
	defer a.Close()

	received := make(chan *messaging.Message, 1)
	b.Subscribe(func(msg *messaging.Message) { received <- msg })

	sent := messaging.NewMessage("ping", address.New("a", "b"), nil).Build()
	a.Send(context.Background(), sent)

	select {
	case msg := <-received:
		msg.Destination[0] = "mutated"
		if sent.Destination[0] != "a" {
			t.Errorf("receiver mutation leaked to sender: %v", sent.Destination)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for delivery")
	}
}

func TestPipe_UnsubscribeStopsDelivery(t *testing.T) {
	a, b := channel.Pipe(4)
	defer a.Close()

	received := make(chan *messaging.Message, 1)
	b.Subscribe(func(msg *messaging.Message) { received <- msg })
	b.Unsubscribe()

	a.Send(context.Background(), messaging.NewMessage("ping", address.New(), nil).Build())

	select {
	case <-received:
		t.Error("message delivered after Unsubscribe()")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPipe_SendAfterClose(t *testing.T) {
	a, b := channel.Pipe(1)
	a.Close()

	err := b.Send(context.Background(), messaging.NewMessage("ping", address.New(), nil).Build())
	if err != channel.ErrClosed {
		t.Errorf("Send() after Close() error = %v, want %v", err, channel.ErrClosed)
	}
}

func TestPipe_SendRespectsCancelledContext(t *testing.T) {
	a, _ := channel.Pipe(1)
	defer a.Close()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Send(cancelled, messaging.NewMessage("x", address.New(), nil).Build())
	if err != context.Canceled {
		t.Errorf("Send() with cancelled context error = %v, want %v", err, context.Canceled)
	}
}
