// Package events defines the realtime protocol's wire message schemas.
//
// All client and server messages share the Event envelope; Parse converts
// an inbound text frame into its typed form.
package events
