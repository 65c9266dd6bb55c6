package wweb

import (
	"strings"
	"time"

	apperrors "whatsweb/internal/errors"
)

// Call types accepted by a scheduled event.
const (
	CallTypeVoice = "voice"
	CallTypeVideo = "video"
)

// ScheduledEventOptions carries the optional parts of a ScheduledEvent.
type ScheduledEventOptions struct {
	Description     string
	EndTime         time.Time
	Location        string
	CallType        string
	IsEventCanceled bool
	MessageSecret   []int
}

// EventSendOptions is the wire form of the optional event fields.
type EventSendOptions struct {
	Description     string `json:"description,omitempty"`
	EndTimeTs       *int64 `json:"endTimeTs"`
	Location        string `json:"location,omitempty"`
	CallType        string `json:"callType,omitempty"`
	IsEventCanceled bool   `json:"isEventCanceled"`
	MessageSecret   []int  `json:"messageSecret,omitempty"`
}

// ScheduledEvent is an event invitation to be sent or used to edit one.
type ScheduledEvent struct {
	Name             string           `json:"name"`
	StartTimeTs      int64            `json:"startTimeTs"`
	EventSendOptions EventSendOptions `json:"eventSendOptions"`
}

// NewScheduledEvent validates name and call type. Times are truncated to
// unix seconds. opts may be nil.
func NewScheduledEvent(name string, start time.Time, opts *ScheduledEventOptions) (*ScheduledEvent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewScheduledEventError("Empty 'name' parameter value is provided.")
	}
	if opts == nil {
		opts = &ScheduledEventOptions{}
	}
	switch opts.CallType {
	case "", CallTypeVoice, CallTypeVideo:
	default:
		return nil, apperrors.NewScheduledEventError(
			"Invalid 'callType' parameter value is provided. Valid values are: 'voice' | 'video'.").
			WithContext("call_type", opts.CallType)
	}

	ev := &ScheduledEvent{
		Name:        name,
		StartTimeTs: unixSeconds(start),
		EventSendOptions: EventSendOptions{
			Description:     strings.TrimSpace(opts.Description),
			Location:        strings.TrimSpace(opts.Location),
			CallType:        opts.CallType,
			IsEventCanceled: opts.IsEventCanceled,
			MessageSecret:   opts.MessageSecret,
		},
	}
	if !opts.EndTime.IsZero() {
		end := unixSeconds(opts.EndTime)
		ev.EventSendOptions.EndTimeTs = &end
	}
	return ev, nil
}

// unixSeconds floors to whole seconds, also for instants before the epoch.
func unixSeconds(t time.Time) int64 {
	ms := t.UnixMilli()
	s := ms / 1000
	if ms%1000 < 0 {
		s--
	}
	return s
}
