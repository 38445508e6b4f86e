package domain

import (
	"encoding/json"
	"time"
)

// EventKind is the explicit discriminant of a timeline event variant.
type EventKind string

const (
	EventCommented       EventKind = "commented"
	EventReviewed        EventKind = "reviewed"
	EventMerged          EventKind = "merged"
	EventClosed          EventKind = "closed"
	EventReadyForReview  EventKind = "ready_for_review"
	EventReviewRequested EventKind = "review_requested"
	EventOther           EventKind = "other"
)

// ReviewState is the state of a submitted review.
type ReviewState string

const (
	ReviewApproved         ReviewState = "approved"
	ReviewChangesRequested ReviewState = "changes_requested"
	ReviewCommented        ReviewState = "commented"
	ReviewDismissed        ReviewState = "dismissed"
	ReviewPending          ReviewState = "pending"
)

// TimelineEvent is one entry of a pull request timeline. The GitHub API
// returns heterogeneous objects discriminated by the "event" field; they
// are normalized here into a single variant record so downstream code
// switches on Kind instead of inspecting payload shapes.
type TimelineEvent struct {
	Kind      EventKind
	Actor     User
	Timestamp time.Time

	// State is set for Kind == EventReviewed only.
	State ReviewState

	// RequestedReviewer is set for Kind == EventReviewRequested only.
	RequestedReviewer User

	// RawEvent keeps the source discriminant for events mapped to EventOther.
	RawEvent string
}

// rawTimelineEvent covers the union of fields across the timeline
// variants this tool cares about.
type rawTimelineEvent struct {
	Event             string      `json:"event"`
	Actor             *User       `json:"actor"`
	User              *User       `json:"user"`
	State             ReviewState `json:"state"`
	CreatedAt         *time.Time  `json:"created_at"`
	SubmittedAt       *time.Time  `json:"submitted_at"`
	RequestedReviewer *User       `json:"requested_reviewer"`
}

func (e *TimelineEvent) UnmarshalJSON(data []byte) error {
	var raw rawTimelineEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = TimelineEvent{RawEvent: raw.Event}

	// "commented" and "reviewed" carry the acting user in "user",
	// the state-change events carry it in "actor".
	switch {
	case raw.User != nil:
		e.Actor = *raw.User
	case raw.Actor != nil:
		e.Actor = *raw.Actor
	}

	switch {
	case raw.SubmittedAt != nil:
		e.Timestamp = *raw.SubmittedAt
	case raw.CreatedAt != nil:
		e.Timestamp = *raw.CreatedAt
	}

	switch raw.Event {
	case "commented":
		e.Kind = EventCommented
	case "reviewed":
		e.Kind = EventReviewed
		e.State = raw.State
	case "merged":
		e.Kind = EventMerged
	case "closed":
		e.Kind = EventClosed
	case "ready_for_review":
		e.Kind = EventReadyForReview
	case "review_requested":
		e.Kind = EventReviewRequested
		if raw.RequestedReviewer != nil {
			e.RequestedReviewer = *raw.RequestedReviewer
		}
	default:
		e.Kind = EventOther
	}

	return nil
}

// IsApproval reports whether the event is a review submission approving the PR.
func (e TimelineEvent) IsApproval() bool {
	return e.Kind == EventReviewed && e.State == ReviewApproved
}
