package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidEvent    = errors.New("invalid event payload")
	ErrNotGroupMember  = errors.New("not a member of this group")
)
