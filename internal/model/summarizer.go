package model

import "context"

// SummarizeRequest is the input of a single-video summarization.
// VideoID is used when URL is empty.
type SummarizeRequest struct {
	URL      string
	VideoID  string
	Language string
	Title    string
}

// SummarizeResult is the parsed output of a summarization.
type SummarizeResult struct {
	VideoID           string
	Title             string
	ChannelTitle      string
	Summary           string
	KeyPoints         []string
	ImportantTerms    []Term
	TranscriptExcerpt string
	// Raw is the unparsed summarizer output.
	Raw []byte
}

// ChannelRequest is the input of a channel summarization.
type ChannelRequest struct {
	ChannelID string
	MaxVideos int
	Language  string
}

// Summarizer produces summaries of videos.
type Summarizer interface {
	Summarize(ctx context.Context, req SummarizeRequest) (SummarizeResult, error)
	SummarizeChannel(ctx context.Context, req ChannelRequest) ([]SummarizeResult, error)
}
