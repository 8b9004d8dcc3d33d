package summarizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/videobite-server/internal/model"
)

func TestParseTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    []model.Term
		wantErr bool
	}{
		{
			name: "list",
			raw:  `["goroutine", "channel"]`,
			want: []model.Term{{Term: "goroutine"}, {Term: "channel"}},
		},
		{
			name: "object keeps document order",
			raw:  `{"zeta": "last letter", "alpha": "first letter", "mu": "middle"}`,
			want: []model.Term{
				{Term: "zeta", Definition: "last letter"},
				{Term: "alpha", Definition: "first letter"},
				{Term: "mu", Definition: "middle"},
			},
		},
		{name: "empty object", raw: `{}`, want: []model.Term{}},
		{name: "null", raw: `null`, want: []model.Term{}},
		{name: "absent", raw: ``, want: []model.Term{}},
		{name: "number", raw: `42`, wantErr: true},
		{name: "object with non-string definition", raw: `{"a": 1}`, wantErr: true},
		{name: "list of objects", raw: `[{"a": "b"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTerms(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVideo(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"videoId": "dQw4w9WgXcQ",
		"title": "Never Gonna Give You Up",
		"channelTitle": "Rick Astley",
		"summary": "A song about commitment.",
		"keyPoints": ["never give up", "never let down"],
		"importantTerms": {"commitment": "staying power"},
		"transcriptExcerpt": "We're no strangers to love"
	}`)

	got, err := ParseVideo(raw)
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", got.VideoID)
	assert.Equal(t, "Rick Astley", got.ChannelTitle)
	assert.Equal(t, "A song about commitment.", got.Summary)
	assert.Equal(t, []string{"never give up", "never let down"}, got.KeyPoints)
	assert.Equal(t, []model.Term{{Term: "commitment", Definition: "staying power"}}, got.ImportantTerms)
	assert.Equal(t, "We're no strangers to love", got.TranscriptExcerpt)
	assert.True(t, json.Valid(got.Raw))
}

func TestParseVideo_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ``},
		{name: "not json", raw: `Traceback (most recent call last):`},
		{name: "progress lines before document", raw: "Fetching transcript...\n{\"summary\": \"ok\"}\n"},
		{name: "missing summary", raw: `{"keyPoints": ["a"]}`},
		{name: "bad terms", raw: `{"summary": "s", "importantTerms": "nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseVideo([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestParseChannel(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"videos": [
		{"video_id": "aaaaaaaaaaa", "title": "One", "channel_title": "Chan", "summary": "s1",
		 "keyPoints": ["k"], "importantTerms": ["t"], "transcript_excerpt": "ex"},
		{"video_id": "bbbbbbbbbbb", "title": "Two", "channel_title": "Chan", "summary": "s2",
		 "keyPoints": [], "importantTerms": {}}
	]}`)

	got, err := ParseChannel(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "aaaaaaaaaaa", got[0].VideoID)
	assert.Equal(t, "Chan", got[0].ChannelTitle)
	assert.Equal(t, "ex", got[0].TranscriptExcerpt)
	assert.Equal(t, []model.Term{{Term: "t"}}, got[0].ImportantTerms)
	assert.Equal(t, "bbbbbbbbbbb", got[1].VideoID)
}

func TestParseChannel_Malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "  \n", "not json", `{"videos": [{"video_id": "aaaaaaaaaaa"}]}`} {
		_, err := ParseChannel([]byte(raw))
		assert.Error(t, err, "output %q", raw)
	}
}

func TestParseChannel_NoVideos(t *testing.T) {
	t.Parallel()

	got, err := ParseChannel([]byte(`{"videos": []}`))
	require.NoError(t, err)
	assert.Empty(t, got)
}
