package cli

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brensch/snekpath/monitor"
	"github.com/brensch/snekpath/selfplay"
)

func TestForwardGamesDeliversEveryGame(t *testing.T) {
	updates := make(chan monitor.GameUpdate, 1)
	forward := forwardGames(context.Background(), updates)

	const games = 50
	go func() {
		for i := 0; i < games; i++ {
			forward(selfplay.GameOutcome{GameID: fmt.Sprint(i), Result: selfplay.ResultCollision})
		}
		close(updates)
	}()

	got := 0
	for u := range updates {
		if u.GameID != fmt.Sprint(got) {
			t.Fatalf("update %d has id %s", got, u.GameID)
		}
		got++
	}
	if got != games {
		t.Fatalf("received %d updates, want %d", got, games)
	}
}

func TestForwardGamesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan monitor.GameUpdate)
	forward := forwardGames(ctx, updates)
	cancel()

	done := make(chan struct{})
	go func() {
		forward(selfplay.GameOutcome{GameID: "a"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward blocked after cancel")
	}
}
