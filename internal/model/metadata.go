package model

import "context"

// VideoMetadata is the subset of platform metadata captured with a summary.
type VideoMetadata struct {
	Title        string
	Description  string
	Duration     string
	PublishedAt  string
	ChannelTitle string
}

// MetadataFetcher looks up video metadata by platform id.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (VideoMetadata, error)
}
