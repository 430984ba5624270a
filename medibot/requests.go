package medibot

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Doctor-chat message senders.
const (
	SenderPatient = "patient"
	SenderDoctor  = "doctor"
)

// PatientRequest is a triage escalation waiting for a doctor, carrying the
// case summary generated by the assistant.
type PatientRequest struct {
	ID          string `json:"id"`
	PatientName string `json:"patientName"`
	Summary     string `json:"summary"`
	PhotoURI    string `json:"photoUri,omitempty"`
}

// RequestInbox holds the patient requests shown to a doctor. A request can
// be accepted once; accepting opens a chat seeded with the patient summary.
type RequestInbox struct {
	requests []PatientRequest
	accepted map[string]bool
}

// NewRequestInbox creates an inbox over the given requests.
func NewRequestInbox(requests []PatientRequest) *RequestInbox {
	in := &RequestInbox{
		requests: make([]PatientRequest, len(requests)),
		accepted: make(map[string]bool),
	}
	copy(in.requests, requests)
	return in
}

// Requests returns a snapshot of the pending requests.
func (in *RequestInbox) Requests() []PatientRequest {
	out := make([]PatientRequest, len(in.requests))
	copy(out, in.requests)
	return out
}

// Accepted reports whether the request has already been accepted.
func (in *RequestInbox) Accepted(id string) bool {
	return in.accepted[id]
}

// Accept marks the request accepted and opens a doctor chat with the patient
// summary as its first message.
func (in *RequestInbox) Accept(id string) (*DoctorChat, error) {
	var req *PatientRequest
	for i := range in.requests {
		if in.requests[i].ID == id {
			req = &in.requests[i]
			break
		}
	}
	if req == nil {
		return nil, fmt.Errorf("accept request %q: %w", id, ErrNotFound)
	}
	if in.accepted[id] {
		return nil, ErrAlreadyAccepted
	}
	in.accepted[id] = true

	summary := req.Summary
	if summary == "" {
		summary = "No summary available"
	}

	return &DoctorChat{
		PatientName: req.PatientName,
		messages: []DoctorMessage{
			{ID: ulid.Make().String(), Sender: SenderPatient, Text: summary},
		},
	}, nil
}

// DoctorMessage is one message in a doctor-patient chat.
type DoctorMessage struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// DoctorChat is the doctor side of a consultation: a local, append-only
// message list opened from an accepted patient request.
type DoctorChat struct {
	PatientName string
	messages    []DoctorMessage
}

// Messages returns a snapshot of the chat, oldest first.
func (c *DoctorChat) Messages() []DoctorMessage {
	out := make([]DoctorMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Post appends a doctor message to the chat.
func (c *DoctorChat) Post(text string) (DoctorMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return DoctorMessage{}, ErrEmptyMessage
	}

	msg := DoctorMessage{ID: ulid.Make().String(), Sender: SenderDoctor, Text: text}
	next := make([]DoctorMessage, len(c.messages), len(c.messages)+1)
	copy(next, c.messages)
	c.messages = append(next, msg)
	return msg, nil
}
