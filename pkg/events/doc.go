// Package events fans out push notifications to connected clients.
//
// A Hub keeps one buffered channel per subscriber. Publish never blocks: a
// subscriber whose buffer is full is dropped and its channel closed. Sinks
// receive every envelope as well; the MQTT sink forwards them to
// "<prefix>/<event type>" topics.
//
// # Event types
//
//   - test_session_update
//   - detection_event
//   - annotation_update
//   - video_processing_progress
package events
