// Package contacts defines the contact record consumed by the contact list
// and decodes it from JSON and vCard sources.
package contacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/tartampluch/go-contacts/internal/config"
)

// Contact is one input record. It is owned by the caller and treated as read-only.
type Contact struct {
	// DisplayName is searched case-insensitively and sorted with collation.
	DisplayName string `json:"displayName"`

	// Phone is searched through its decimal string form and sorted numerically.
	Phone Phone `json:"phoneNumber"`

	// AvatarReference is an optional URL or path; see Avatar.
	AvatarReference string `json:"avatarReference,omitempty"`
}

// Avatar returns the avatar reference, or fallback when the record has none.
func (c Contact) Avatar(fallback string) string {
	if c.AvatarReference == "" {
		return fallback
	}
	return c.AvatarReference
}

// legacyContact carries the field names used by older exports of the list.
type legacyContact struct {
	DisplayName     string `json:"displayName"`
	Phone           *Phone `json:"phoneNumber"`
	AvatarReference string `json:"avatarReference"`

	Nom       string `json:"nom"`
	Tel       *Phone `json:"tel"`
	AvatarURL string `json:"avatarUrl"`
}

// UnmarshalJSON accepts both the current and the legacy (nom/tel/avatarUrl) field names.
func (c *Contact) UnmarshalJSON(data []byte) error {
	var raw legacyContact
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Contact{
		DisplayName:     firstNonEmpty(raw.DisplayName, raw.Nom),
		AvatarReference: firstNonEmpty(raw.AvatarReference, raw.AvatarURL),
	}
	switch {
	case raw.Phone != nil:
		c.Phone = *raw.Phone
	case raw.Tel != nil:
		c.Phone = *raw.Tel
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Phone is a phone number that arrived either as a JSON number or as a
// numeric string. It keeps the decimal text used for search and display.
type Phone struct {
	text    string
	numeric bool
}

// PhoneFromString wraps a numeric string such as "0612345678".
func PhoneFromString(s string) Phone {
	return Phone{text: s}
}

// PhoneFromNumber wraps a number, formatted the shortest way that round-trips.
func PhoneFromNumber(n float64) Phone {
	return Phone{text: strconv.FormatFloat(n, 'f', -1, 64), numeric: true}
}

// String returns the decimal string form of the phone number.
func (p Phone) String() string {
	return p.text
}

// IsNumber reports whether the phone arrived as a number.
func (p Phone) IsNumber() bool {
	return p.numeric
}

// Number parses the phone as a number. Strings such as "06 12" do not parse.
func (p Phone) Number() (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(p.text), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Value returns the phone in its original kind: float64 for numbers, string otherwise.
func (p Phone) Value() any {
	if p.numeric {
		if n, ok := p.Number(); ok {
			return n
		}
	}
	return p.text
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (p *Phone) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Phone{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PhoneFromString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New(config.ErrPhoneValue)
	}
	f, err := n.Float64()
	if err != nil {
		return errors.New(config.ErrPhoneValue)
	}
	*p = PhoneFromNumber(f)
	return nil
}

// MarshalJSON writes numbers as numbers and strings as strings.
func (p Phone) MarshalJSON() ([]byte, error) {
	if p.numeric {
		return []byte(p.text), nil
	}
	return json.Marshal(p.text)
}
