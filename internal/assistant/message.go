package assistant

import (
	"time"

	"github.com/goccy/go-json"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// AttachmentType is what a model message carries besides text.
type AttachmentType string

const (
	AttachmentVideo    AttachmentType = "video"
	AttachmentImage    AttachmentType = "image"
	AttachmentCampaign AttachmentType = "campaign"
)

// CampaignAttachment describes a simulated campaign created from the chat.
type CampaignAttachment struct {
	Name   string  `json:"name"`
	Budget float64 `json:"budget"`
	Status string  `json:"status"`
}

type Attachment struct {
	Type AttachmentType `json:"type"`
	URL  string         `json:"url,omitempty"`
	Data any            `json:"data,omitempty"`
}

// Message is one entry of a conversation.
type Message struct {
	ID         string      `json:"id"`
	Role       Role        `json:"role"`
	Text       string      `json:"text"`
	Timestamp  time.Time   `json:"-"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

type messageAlias Message

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		messageAlias
		Timestamp int64 `json:"timestamp"`
	}{messageAlias(m), m.Timestamp.UnixMilli()})
}
