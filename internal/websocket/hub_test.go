package websocket

import (
	"encoding/json"
	"testing"

	"github.com/believerchat/backend/pkg/logger"
)

func init() {
	logger.Init()
}

func TestDirectRoomKey(t *testing.T) {
	tests := []struct {
		name string
		a, b uint
		want string
	}{
		{name: "ascending pair", a: 3, b: 9, want: "3_9"},
		{name: "descending pair normalizes", a: 9, b: 3, want: "3_9"},
		{name: "numeric not lexicographic", a: 10, b: 2, want: "2_10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirectRoomKey(tt.a, tt.b); got != tt.want {
				t.Errorf("DirectRoomKey(%d, %d) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestGroupRoomKey_DisjointFromDirect(t *testing.T) {
	if GroupRoomKey(7) == DirectRoomKey(7, 7) {
		t.Error("group and direct room keys must not collide")
	}
	if got := GroupRoomKey(7); got != "group_7" {
		t.Errorf("GroupRoomKey(7) = %q, want %q", got, "group_7")
	}
}

func TestHub_JoinRoomIdempotent(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, 1)
	hub.registerClient(client)

	hub.JoinRoom(client, "1_2")
	hub.JoinRoom(client, "1_2")

	if got := hub.RoomSize("1_2"); got != 1 {
		t.Errorf("RoomSize() = %d, want 1 after duplicate joins", got)
	}
	if !client.IsInRoom("1_2") {
		t.Error("IsInRoom() = false after join")
	}
}

func TestHub_UnregisterLeavesRooms(t *testing.T) {
	hub := NewHub()
	stayer := NewClient(hub, nil, 1)
	leaver := NewClient(hub, nil, 2)
	hub.registerClient(stayer)
	hub.registerClient(leaver)

	hub.JoinRoom(stayer, "1_2")
	hub.JoinRoom(leaver, "1_2")
	if got := hub.RoomSize("1_2"); got != 2 {
		t.Fatalf("RoomSize() = %d, want 2", got)
	}

	hub.unregisterClient(leaver)

	if got := hub.RoomSize("1_2"); got != 1 {
		t.Errorf("RoomSize() = %d, want 1 after unregister", got)
	}
	if _, ok := <-leaver.Send; ok {
		t.Error("unregistered client's send channel should be closed")
	}
}

func TestHub_SendToRoomReachesAllMembers(t *testing.T) {
	hub := NewHub()
	a := NewClient(hub, nil, 1)
	b := NewClient(hub, nil, 2)
	outsider := NewClient(hub, nil, 3)
	for _, c := range []*Client{a, b, outsider} {
		hub.registerClient(c)
	}

	hub.JoinRoom(a, "1_2")
	hub.JoinRoom(b, "1_2")
	hub.JoinRoom(outsider, "group_9")

	payload, _ := json.Marshal(Event{Event: EventReceiveMessage, Data: json.RawMessage(`{}`)})
	hub.SendToRoom("1_2", payload)

	for _, c := range []*Client{a, b} {
		select {
		case got := <-c.Send:
			if string(got) != string(payload) {
				t.Errorf("user %d received %s, want %s", c.UserID, got, payload)
			}
		default:
			t.Errorf("user %d received nothing", c.UserID)
		}
	}

	select {
	case <-outsider.Send:
		t.Error("client outside the room received the broadcast")
	default:
	}
}
