package report

import (
	"fmt"
	"strconv"
	"strings"
)

// LinkType tags reference payloads emitted by this package so the host can
// route activations back here and leave foreign links alone.
const LinkType = "report"

// Link is the clickable reference that replaces a report headline in the
// visible stream: an addressable payload plus the display text shown to the
// user.
type Link struct {
	Payload string
	Display string
}

// LinkRef is the decoded form of a payload. Sender and ID are extracted
// independently; either half may be usable when the other is malformed, so
// resolution can fall back from id to sender.
type LinkRef struct {
	Sender string
	ID     int
	HasID  bool
}

// EncodeLink builds the reference for a tracker. The payload format
// "report:<sender>:<id>" is stable; the activation hook parses it back.
func EncodeLink(t *Tracker) Link {
	return Link{
		Payload: fmt.Sprintf("%s:%s:%d", LinkType, t.Sender, t.ID),
		Display: t.Headline,
	}
}

// DecodeLink parses a payload. It returns false only when the payload does
// not carry this package's type tag; a malformed sender or id portion still
// yields whatever could be extracted.
func DecodeLink(payload string) (LinkRef, bool) {
	parts := strings.SplitN(payload, ":", 3)
	if parts[0] != LinkType {
		return LinkRef{}, false
	}
	var ref LinkRef
	if len(parts) > 1 {
		ref.Sender = parts[1]
	}
	if len(parts) > 2 {
		if id, err := strconv.Atoi(parts[2]); err == nil && id > 0 {
			ref.ID = id
			ref.HasID = true
		}
	}
	return ref, true
}
