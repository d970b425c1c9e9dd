// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package invocation

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

const (
	// ScheduledEventDetailType is the detail-type of EventBridge scheduled events.
	ScheduledEventDetailType = "Scheduled Event"
	// ScheduledEventSource is the source of EventBridge scheduled events.
	ScheduledEventSource = "aws.events"
)

// Event is the trigger event as delivered by the host platform. The raw
// payload is kept untouched; fields this function does not know about are
// preserved.
type Event struct {
	raw       json.RawMessage
	scheduled *events.CloudWatchEvent
}

// ParseEvent wraps raw. Payloads that look like EventBridge events also
// expose their header through Scheduled.
func ParseEvent(raw []byte) Event {
	e := Event{raw: append(json.RawMessage(nil), raw...)}

	var header events.CloudWatchEvent
	if err := json.Unmarshal(raw, &header); err == nil && header.DetailType != "" && header.Source != "" {
		e.scheduled = &header
	}
	return e
}

// Raw returns a copy of the payload.
func (e Event) Raw() json.RawMessage {
	return append(json.RawMessage(nil), e.raw...)
}

// Scheduled returns the EventBridge header of the event, if it has one.
func (e Event) Scheduled() (events.CloudWatchEvent, bool) {
	if e.scheduled == nil {
		return events.CloudWatchEvent{}, false
	}
	return *e.scheduled, true
}

// MarshalJSON renders the payload on a single line.
func (e Event) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(e.raw)) == 0 {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, e.raw); err != nil {
		return json.Marshal(string(e.raw))
	}
	return buf.Bytes(), nil
}

// NewScheduledEvent builds the payload EventBridge sends when ruleArn fires at now.
func NewScheduledEvent(account, region, ruleArn string, now time.Time) (json.RawMessage, error) {
	event := events.CloudWatchEvent{
		Version:    "0",
		ID:         uuid.New().String(),
		DetailType: ScheduledEventDetailType,
		Source:     ScheduledEventSource,
		AccountID:  account,
		Time:       now.UTC().Truncate(time.Second),
		Region:     region,
		Resources:  []string{ruleArn},
		Detail:     json.RawMessage(`{}`),
	}
	return json.Marshal(event)
}
