package event

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Stream entry keys of an envelope. Any other key of an entry without a "payload" key is
// read as a flat payload field.
const (
	KeyEventID    = "event_id"
	KeyCategory   = "category"
	KeyEventType  = "event_type"
	KeyOccurredAt = "occurred_at"
	KeyPayload    = "payload"
	KeyMetadata   = "metadata"
	KeyDelivery   = "delivery_mode"
)

var envelopeKeys = map[string]struct{}{
	KeyEventID:    {},
	KeyCategory:   {},
	KeyEventType:  {},
	KeyOccurredAt: {},
	KeyPayload:    {},
	KeyMetadata:   {},
	KeyDelivery:   {},
}

// Envelope is the transmitted representation of one domain occurrence.
type Envelope struct {
	EventID    string
	Category   Category
	Kind       Kind
	OccurredAt time.Time
	Payload    Fields
	Metadata   map[string]string
}

// NewEnvelope wraps an event with a fresh event id and the current time.
func NewEnvelope(category Category, e Event) *Envelope {
	return &Envelope{
		EventID:    uuid.NewString(),
		Category:   category,
		Kind:       e.Kind(),
		OccurredAt: time.Now().UTC(),
		Payload:    Encode(e),
		Metadata:   map[string]string{},
	}
}

// Values flattens the envelope into stream entry fields.
func (e *Envelope) Values() (map[string]string, error) {
	payloadJSON, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	values := map[string]string{
		KeyEventID:    e.EventID,
		KeyCategory:   string(e.Category),
		KeyOccurredAt: e.OccurredAt.Format(time.RFC3339Nano),
		KeyPayload:    string(payloadJSON),
	}

	if e.Kind != KindUnknown {
		values[KeyEventType] = string(e.Kind)
	}

	if len(e.Metadata) > 0 {
		metadataJSON, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event metadata: %w", err)
		}

		values[KeyMetadata] = string(metadataJSON)
	}

	return values, nil
}

// ParseEnvelope reads an envelope from stream entry fields. JSON nulls in the payload are
// dropped so that a null field and an absent field are the same thing.
func ParseEnvelope(values map[string]string) (*Envelope, error) {
	env := &Envelope{
		EventID:  values[KeyEventID],
		Category: Category(values[KeyCategory]),
		Kind:     Kind(values[KeyEventType]),
		Metadata: map[string]string{},
	}

	if raw, ok := values[KeyOccurredAt]; ok && raw != "" {
		occurredAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: occurred_at %q", ErrMalformed, raw)
		}

		env.OccurredAt = occurredAt
	}

	if raw, ok := values[KeyMetadata]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &env.Metadata); err != nil {
			return nil, fmt.Errorf("%w: metadata: %v", ErrMalformed, err)
		}
	}

	raw, ok := values[KeyPayload]
	if !ok {
		env.Payload = Fields{}
		for k, v := range values {
			if _, reserved := envelopeKeys[k]; !reserved {
				env.Payload[k] = v
			}
		}

		return env, nil
	}

	payload, err := decodePayload([]byte(raw))
	if err != nil {
		return nil, err
	}

	env.Payload = payload

	return env, nil
}

func decodePayload(data []byte) (Fields, error) {
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}

	fields := make(Fields, len(generic))
	for k, v := range generic {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			fields[k] = val
		case bool:
			fields[k] = strconv.FormatBool(val)
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			nested, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("%w: payload field %s: %v", ErrMalformed, k, err)
			}

			fields[k] = string(nested)
		}
	}

	return fields, nil
}
