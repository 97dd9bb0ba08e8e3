package websocket

import "fmt"

// DirectRoomKey derives the shared key both participants of a direct chat
// join: the numerically sorted pair, underscore-joined.
func DirectRoomKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// GroupRoomKey prefixes group ids so the two room namespaces never collide.
func GroupRoomKey(groupID uint) string {
	return fmt.Sprintf("group_%d", groupID)
}
