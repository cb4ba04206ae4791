package compose

import (
	"encoding/json"
	"strings"
)

// Payload is the structured content extracted from generated text.
// It is either Parsed or Unparsed.
type Payload interface {
	isPayload()
}

// Parsed is a well-formed payload carrying both fields.
type Parsed struct {
	Message string
	Price   float64
}

// Unparsed means the text held no usable payload.
type Unparsed struct {
	Reason string
}

func (Parsed) isPayload()   {}
func (Unparsed) isPayload() {}

// Parse searches text for the first well-formed JSON object and extracts its
// message and price fields. Anything else is Unparsed.
func Parse(text string) Payload {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		var fields map[string]any
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&fields); err == nil {
			return fromFields(fields)
		}
	}
	return Unparsed{Reason: "no JSON object in generated text"}
}

func fromFields(fields map[string]any) Payload {
	message, _ := fields["message"].(string)
	if strings.TrimSpace(message) == "" {
		return Unparsed{Reason: "payload has no message"}
	}
	price, ok := fields["price"].(float64)
	if !ok {
		return Unparsed{Reason: "payload has no numeric price"}
	}
	return Parsed{Message: strings.TrimSpace(message), Price: price}
}
