package inspect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/narjillos/config"
	"github.com/pthm-cable/narjillos/creature"
	"github.com/pthm-cable/narjillos/genomics"
	"github.com/pthm-cable/narjillos/physics"
)

type received struct {
	Type    string          `json:"type"`
	Tick    uint64          `json:"tick"`
	Payload json.RawMessage `json:"payload"`
}

func startHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg received
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg
}

func TestPublishReachesClient(t *testing.T) {
	hub, conn := startHub(t)

	if err := hub.Publish(Message{Type: "hello", Tick: 7, Payload: map[string]int{"n": 1}}); err != nil {
		t.Fatal(err)
	}
	msg := readMessage(t, conn)
	if msg.Type != "hello" || msg.Tick != 7 || string(msg.Payload) != `{"n":1}` {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestPublishAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	if err := hub.Publish(Message{Type: "late"}); err == nil {
		t.Error("publishing to a stopped hub should fail")
	}
}

func TestFeedStreamsCreatureStates(t *testing.T) {
	config.MustInit("")
	ids := genomics.NewIDCounter()
	var population []*creature.Creature
	for i := 0; i < 2; i++ {
		g, err := genomics.Parse("{080_060_001_028_128_255_128_128_010_128}{120_040_001_224_160_004_200_100_000_001}", ids)
		if err != nil {
			t.Fatal(err)
		}
		population = append(population, creature.New(g, physics.Vector{X: float64(i)}, 0, 1000))
	}

	hub, conn := startHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Feed(ctx, hub, func() (uint64, []*creature.Creature) { return 3, population }, 5*time.Millisecond)

	msg := readMessage(t, conn)
	if msg.Type != "creatures" || msg.Tick != 3 {
		t.Fatalf("unexpected message %s at %d", msg.Type, msg.Tick)
	}
	var states []creature.State
	if err := json.Unmarshal(msg.Payload, &states); err != nil {
		t.Fatal(err)
	}
	if len(states) != 2 || states[1].ID != population[1].ID() || states[0].Body == nil {
		t.Errorf("unexpected states %+v", states)
	}
}
