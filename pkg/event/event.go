// Package event defines wire protocol events and their canonical
// serialization, hashing, signing, and verification.
package event

import (
	"encoding/json"
	"fmt"
)

// Tag is an ordered sequence of strings attached to an event. The first
// element conventionally names the tag.
type Tag []string

// Well-known event kinds.
const (
	KindProfileMetadata = 0
	KindTextNote        = 1
	KindRecommendRelay  = 2
	KindContactList     = 3
	KindDirectMessage   = 4
	KindDeletion        = 5
	KindRepost          = 6
	KindReaction        = 7
)

// Event is a protocol message. Before signing, ID and Sig are empty; Sign
// fills both. The wire shape is JSON:
//
//	{id, pubkey, created_at, kind, tags, content, sig}
//
// with id/pubkey as 64 hex characters and sig as 128.
type Event struct {
	ID        string `json:"id"`
	PubKey    string `json:"pubkey"`
	CreatedAt int64  `json:"created_at"`
	Kind      int    `json:"kind"`
	Tags      []Tag  `json:"tags"`
	Content   string `json:"content"`
	Sig       string `json:"sig"`
}

// Parse decodes an event from its JSON wire form and checks its
// structure. The signature is not verified; call Verify for that.
func Parse(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructural, err)
	}
	if err := e.ValidateStructure(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Marshal encodes the event in its JSON wire form.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
