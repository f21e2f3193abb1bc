// Package realtime provides a resilient websocket client for realtime
// bidirectional streaming sessions.
//
// It maintains one logical connection, recovers from transport failures
// with bounded exponential backoff, and exposes ordered send/receive
// primitives that retry at most once around a reconnect.
package realtime
