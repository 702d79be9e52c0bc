// Package skill adapts voice assistant requests to shuttle predictions and
// wraps the spoken answer in the platform response envelope.
package skill

// Request types sent by the voice platform.
const (
	LaunchRequest       = "LaunchRequest"
	IntentRequest       = "IntentRequest"
	SessionEndedRequest = "SessionEndedRequest"
)

// Request is the inbound voice platform request.
type Request struct {
	Version string      `json:"version"`
	Session Session     `json:"session"`
	Request RequestBody `json:"request"`
}

type Session struct {
	New        bool           `json:"new"`
	SessionID  string         `json:"sessionId"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type RequestBody struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Intent    Intent `json:"intent"`
	Reason    string `json:"reason,omitempty"`
}

type Intent struct {
	Name string `json:"name"`
}

// Response is the outbound envelope.
type Response struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes"`
	Response          Speechlet      `json:"response"`
}

type Speechlet struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Card struct {
	Type string `json:"type"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Speak builds an envelope with plain text speech and a simple card. An empty
// reprompt omits the reprompt block.
func Speak(text, reprompt string, endSession bool) Response {
	s := Speechlet{
		OutputSpeech:     plainText(text),
		Card:             &Card{Type: "Simple"},
		ShouldEndSession: endSession,
	}
	if reprompt != "" {
		s.Reprompt = &Reprompt{OutputSpeech: *plainText(reprompt)}
	}
	return Response{Version: "1.0", SessionAttributes: map[string]any{}, Response: s}
}

// Silent builds an envelope with no speech that ends the session.
func Silent() Response {
	return Response{
		Version:           "1.0",
		SessionAttributes: map[string]any{},
		Response:          Speechlet{ShouldEndSession: true},
	}
}

func plainText(text string) *OutputSpeech {
	return &OutputSpeech{Type: "PlainText", Text: text}
}
