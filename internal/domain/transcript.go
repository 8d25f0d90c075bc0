package domain

import "encoding/json"

// Transcript is the speech-to-text payload attached to a voice answer.
// Clients send it either as a bare string or as an object; both decode into
// the same struct. Decoding is tolerant and never fails the request: an
// unrecognized shape yields an empty transcript.
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Language   string  `json:"language,omitempty"`
}

type transcriptObject struct {
	Text       string  `json:"text"`
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	Duration   float64 `json:"duration"`
	Language   string  `json:"language"`
}

// UnmarshalJSON accepts a JSON string, or an object carrying the text under
// either "transcript" or "text" (the former wins when both are present).
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Transcript{Text: s}
		return nil
	}
	var obj transcriptObject
	if err := json.Unmarshal(data, &obj); err != nil {
		*t = Transcript{}
		return nil
	}
	text := obj.Transcript
	if text == "" {
		text = obj.Text
	}
	*t = Transcript{
		Text:       text,
		Confidence: obj.Confidence,
		Duration:   obj.Duration,
		Language:   obj.Language,
	}
	return nil
}
