package summarizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dtroode/videobite-server/internal/model"
)

// videoOutput accepts both the single-video (camelCase) and the channel
// (snake_case) key spellings.
type videoOutput struct {
	VideoID                string          `json:"videoId"`
	VideoIDSnake           string          `json:"video_id"`
	Title                  string          `json:"title"`
	ChannelTitle           string          `json:"channelTitle"`
	ChannelTitleSnake      string          `json:"channel_title"`
	Summary                *string         `json:"summary"`
	KeyPoints              []string        `json:"keyPoints"`
	ImportantTerms         json.RawMessage `json:"importantTerms"`
	TranscriptExcerpt      string          `json:"transcriptExcerpt"`
	TranscriptExcerptSnake string          `json:"transcript_excerpt"`
}

type channelOutput struct {
	Videos []json.RawMessage `json:"videos"`
}

// ParseVideo decodes a single-video summarizer document. Stdout must hold
// exactly one JSON document.
func ParseVideo(raw []byte) (model.SummarizeResult, error) {
	doc := bytes.TrimSpace(raw)

	var out videoOutput
	if err := json.Unmarshal(doc, &out); err != nil {
		return model.SummarizeResult{}, fmt.Errorf("malformed summarizer output: %w", err)
	}
	if out.Summary == nil {
		return model.SummarizeResult{}, errors.New("malformed summarizer output: missing summary")
	}

	terms, err := ParseTerms(out.ImportantTerms)
	if err != nil {
		return model.SummarizeResult{}, fmt.Errorf("malformed summarizer output: %w", err)
	}

	keyPoints := out.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	return model.SummarizeResult{
		VideoID:           firstNonEmpty(out.VideoID, out.VideoIDSnake),
		Title:             out.Title,
		ChannelTitle:      firstNonEmpty(out.ChannelTitle, out.ChannelTitleSnake),
		Summary:           *out.Summary,
		KeyPoints:         keyPoints,
		ImportantTerms:    terms,
		TranscriptExcerpt: firstNonEmpty(out.TranscriptExcerpt, out.TranscriptExcerptSnake),
		Raw:               doc,
	}, nil
}

// ParseChannel decodes a channel summarizer document.
func ParseChannel(raw []byte) ([]model.SummarizeResult, error) {
	var out channelOutput
	if err := json.Unmarshal(bytes.TrimSpace(raw), &out); err != nil {
		return nil, fmt.Errorf("malformed channel output: %w", err)
	}

	results := make([]model.SummarizeResult, 0, len(out.Videos))
	for i, v := range out.Videos {
		res, err := ParseVideo(v)
		if err != nil {
			return nil, fmt.Errorf("video %d: %w", i, err)
		}
		results = append(results, res)
	}

	return results, nil
}

// ParseTerms normalizes importantTerms, which is either a list of terms or an
// object mapping term to definition, into ordered pairs. Object order is kept.
func ParseTerms(raw json.RawMessage) ([]model.Term, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []model.Term{}, nil
	}

	switch raw[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("importantTerms list: %w", err)
		}
		terms := make([]model.Term, 0, len(list))
		for _, t := range list {
			terms = append(terms, model.Term{Term: t})
		}
		return terms, nil
	case '{':
		return parseTermObject(raw)
	default:
		return nil, fmt.Errorf("importantTerms: unexpected %q", raw[0])
	}
}

// parseTermObject walks the object token by token because a map would lose
// the summarizer's ordering.
func parseTermObject(raw json.RawMessage) ([]model.Term, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("importantTerms object: %w", err)
	}

	terms := []model.Term{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("importantTerms object: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("importantTerms object: unexpected key %v", tok)
		}

		var def string
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("importantTerms[%q]: %w", key, err)
		}
		terms = append(terms, model.Term{Term: key, Definition: def})
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("importantTerms object: %w", err)
	}

	return terms, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
