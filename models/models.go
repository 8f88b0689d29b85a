package models

import (
	"encoding/json"
	"errors"
	"strconv"
)

// Record is a single fragment of a content item as sent by the upstream feeds
type Record struct {
	ID           int
	Position     int
	Text         string
	ThumbnailURL *string
}

// wireRecord mirrors the upstream field names. Required fields are pointers so
// that a missing key can be told apart from a zero value.
type wireRecord struct {
	ID           *string `json:"i_d"`
	Position     *int    `json:"po_si_tion"`
	Text         *string `json:"te_xt"`
	ThumbnailURL *string `json:"thumbnail_URL,omitempty"`
}

// UnmarshalJSON decodes a record, turning the string encoded id into an int.
// An id that is not a number becomes 0 instead of failing the decode.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch {
	case w.ID == nil:
		return errors.New("record: missing field i_d")
	case w.Position == nil:
		return errors.New("record: missing field po_si_tion")
	case w.Text == nil:
		return errors.New("record: missing field te_xt")
	}

	id, err := strconv.Atoi(*w.ID)
	if err != nil {
		id = 0
	}

	*r = Record{
		ID:           id,
		Position:     *w.Position,
		Text:         *w.Text,
		ThumbnailURL: w.ThumbnailURL,
	}
	return nil
}

// MarshalJSON writes the record back in the upstream shape, id as a string
func (r Record) MarshalJSON() ([]byte, error) {
	id := strconv.Itoa(r.ID)
	return json.Marshal(wireRecord{
		ID:           &id,
		Position:     &r.Position,
		Text:         &r.Text,
		ThumbnailURL: r.ThumbnailURL,
	})
}

// Feed is the envelope returned by the feed endpoints
type Feed struct {
	Models []Record `json:"models"`
}

func (f *Feed) UnmarshalJSON(data []byte) error {
	var w struct {
		Models *[]Record `json:"models"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Models == nil {
		return errors.New("feed: missing field models")
	}
	f.Models = *w.Models
	return nil
}

// MergedItem is the composite of all records sharing an id
type MergedItem struct {
	Text         string  `json:"text"`
	ThumbnailURL *string `json:"thumbnailURL,omitempty"`
}
