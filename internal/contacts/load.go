package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-contacts/internal/config"
)

// Format identifies the encoding of a contacts file.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatVCard
)

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case config.ExtJSON:
		return FormatJSON
	case config.ExtVCF, config.ExtVCard:
		return FormatVCard
	default:
		return FormatUnknown
	}
}

// LoadFile reads a contacts file. An empty path yields an empty list.
func LoadFile(ctx context.Context, path string) ([]Contact, error) {
	if path == "" {
		return nil, nil
	}

	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%s: %q", config.ErrFormatUnknown, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrOpenContacts, err)
	}
	// Read-only file; a Close error is not actionable.
	defer func() { _ = f.Close() }()

	start := time.Now()
	records, err := Decode(ctx, f, format)
	if err != nil {
		return nil, err
	}

	slog.Info(config.MsgContactsLoad,
		config.LogKeyComponent, config.CompContacts,
		config.LogKeyFile, path,
		config.LogKeyCount, len(records),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return records, nil
}

// Decode reads contacts from r in the given format.
func Decode(ctx context.Context, r io.Reader, format Format) ([]Contact, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatVCard:
		return DecodeVCard(ctx, r)
	default:
		return nil, errors.New(config.ErrFormatUnknown)
	}
}

// DecodeJSON reads a JSON array of contacts.
func DecodeJSON(r io.Reader) ([]Contact, error) {
	var records []Contact
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", config.ErrDecodeJSON, err)
	}
	return records, nil
}

// DecodeVCard reads a vCard stream. Malformed cards are skipped and logged.
//
// Name strategy: FN (Formatted) > N (Structured) > config.FallbackName.
// Phone: the preferred TEL value. Avatar: the PHOTO value when it is a URI.
func DecodeVCard(ctx context.Context, r io.Reader) ([]Contact, error) {
	decoder := vcard.NewDecoder(r)
	var records []Contact

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Reader failures repeat on every call; stop instead of looping.
			if isReadError(err) {
				return nil, fmt.Errorf("%s: %w", config.ErrDecodeVCard, err)
			}
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyError, err)
			continue
		}

		records = append(records, Contact{
			DisplayName:     cardName(card),
			Phone:           PhoneFromString(card.PreferredValue(vcard.FieldTelephone)),
			AvatarReference: cardPhoto(card),
		})
	}

	return records, nil
}

// isReadError reports errors that come from the underlying reader
// rather than from the content of one card.
func isReadError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

func cardName(card vcard.Card) string {
	if fn := card.PreferredValue(vcard.FieldFormattedName); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		full := strings.TrimSpace(strings.Join([]string{n.GivenName, n.FamilyName}, " "))
		if full != "" {
			return full
		}
	}
	return config.FallbackName
}

func cardPhoto(card vcard.Card) string {
	photo := card.PreferredValue(vcard.FieldPhoto)
	lower := strings.ToLower(photo)
	for _, prefix := range []string{config.SchemeHTTP + ":", config.SchemeHTTPS + ":", config.SchemeFile + ":"} {
		if strings.HasPrefix(lower, prefix) {
			return photo
		}
	}
	// Inline base64 photos are not references.
	return ""
}
