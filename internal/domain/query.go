package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidQuery marks a distance query that cannot be resolved at all
// (undecodable payload, missing endpoint).
var ErrInvalidQuery = errors.New("invalid distance query")

// Error kinds carried by a failed DistanceResult.
const (
	ErrorKindUnknownCode       = "unknown_code"
	ErrorKindInvalidCoordinate = "invalid_coordinate"
)

// RawMessage is an unprocessed distance query read from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// DistanceQuery asks for the distance between two location codes as typed
// by a user; codes are normalized before lookup.
type DistanceQuery struct {
	ID   string `json:"id,omitempty"`
	From string `json:"from"`
	To   string `json:"to"`
}

// DistanceResult is the answer to a DistanceQuery. When the query names an
// unknown code or a record holds an invalid coordinate, Error and ErrorKind
// are set and the endpoints and distance are left empty.
type DistanceResult struct {
	ID              string          `json:"id"`
	FromCode        Code            `json:"from_code"`
	ToCode          Code            `json:"to_code"`
	From            *LocationRecord `json:"from,omitempty"`
	To              *LocationRecord `json:"to,omitempty"`
	Distance        float64         `json:"distance"`
	AngularDistance float64         `json:"angular_distance"`
	Unit            string          `json:"unit"`
	ComputedAt      time.Time       `json:"computed_at"`
	Error           string          `json:"error,omitempty"`
	ErrorKind       string          `json:"error_kind,omitempty"`
}

// Failed reports whether the result carries an error instead of a distance.
func (r DistanceResult) Failed() bool { return r.Error != "" }

// MarshalJSON leaves distance and angular_distance out of a failed result so
// a consumer can never mistake it for a zero distance.
func (r DistanceResult) MarshalJSON() ([]byte, error) {
	type plain DistanceResult
	if !r.Failed() {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		plain
		Distance        *float64 `json:"distance,omitempty"`
		AngularDistance *float64 `json:"angular_distance,omitempty"`
	}{plain: plain(r)})
}

var summaryPrinter = message.NewPrinter(language.English)

// Summary renders the result as a sentence, e.g.
// "Distance from LAX to SFO: 293.3 nautical miles."
func (r DistanceResult) Summary(unit Unit) string {
	if r.Failed() {
		return fmt.Sprintf("No distance from %s to %s: %s.", r.FromCode, r.ToCode, r.Error)
	}
	return summaryPrinter.Sprintf("Distance from %s to %s: %.1f %s.", r.FromCode, r.ToCode, r.Distance, unit.Name)
}

// NormalizeCode turns user input into a lookup code: surrounding space is
// trimmed, letters are upper-cased and the result is cut to CodeLength
// runes, so "lax" and "LAX - Los Angeles" both yield "LAX".
func NormalizeCode(input string) Code {
	s := strings.ToUpper(strings.TrimSpace(input))
	if r := []rune(s); len(r) > CodeLength {
		s = string(r[:CodeLength])
	}
	return Code(s)
}

// ParseQuery decodes a raw message into a DistanceQuery. A query without an
// ID takes the message key, or a fresh UUID when the key is empty too.
func ParseQuery(raw RawMessage) (DistanceQuery, error) {
	var q DistanceQuery
	if err := json.Unmarshal(raw.Value, &q); err != nil {
		return DistanceQuery{}, fmt.Errorf("parse distance query: %w: %w", ErrInvalidQuery, err)
	}
	if q.ID == "" {
		q.ID = string(raw.Key)
	}
	if err := q.Validate(); err != nil {
		return DistanceQuery{}, err
	}
	return q, nil
}

// Validate checks that both endpoints are present and fills a missing ID.
func (q *DistanceQuery) Validate() error {
	if strings.TrimSpace(q.From) == "" || strings.TrimSpace(q.To) == "" {
		return fmt.Errorf("%w: both from and to are required", ErrInvalidQuery)
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
