// Package summarizer runs the external summarization script.
package summarizer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/metrics"
	"github.com/dtroode/videobite-server/internal/model"
)

const stderrLogLimit = 2048

var _ model.Summarizer = (*Process)(nil)

type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Process invokes the summarizer as a child process and parses its stdout.
// Any non-zero exit status is a failure.
type Process struct {
	interpreter string
	script      string
	timeout     time.Duration
	command     commandFunc
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// NewProcess creates a summarizer that runs "interpreter script [flags]".
// A zero timeout lets the process run until it exits.
func NewProcess(interpreter, script string, timeout time.Duration, m *metrics.Metrics, logger *logger.Logger) *Process {
	return &Process{
		interpreter: interpreter,
		script:      script,
		timeout:     timeout,
		command:     exec.CommandContext,
		metrics:     m,
		logger:      logger,
	}
}

func (p *Process) Summarize(ctx context.Context, req model.SummarizeRequest) (model.SummarizeResult, error) {
	args := []string{p.script}
	if req.URL != "" {
		args = append(args, "--url", req.URL)
	} else {
		args = append(args, "--video_id", req.VideoID)
	}
	args = append(args, "--language", req.Language)
	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}

	out, err := p.run(ctx, args)
	if err != nil {
		return model.SummarizeResult{}, err
	}

	res, err := ParseVideo(out)
	if err != nil {
		p.metrics.SummarizerErrors.Add(1)
		p.logger.Error("Summarizer: failed to parse output",
			"url", req.URL,
			"video_id", req.VideoID,
			"output_bytes", len(out),
			"error", err.Error())
		return model.SummarizeResult{}, fmt.Errorf("%w: %w", model.ErrSummarizationFailed, err)
	}

	return res, nil
}

func (p *Process) SummarizeChannel(ctx context.Context, req model.ChannelRequest) ([]model.SummarizeResult, error) {
	args := []string{
		p.script,
		"--channel_id", req.ChannelID,
		"--max_videos", strconv.Itoa(req.MaxVideos),
		"--language", req.Language,
	}

	out, err := p.run(ctx, args)
	if err != nil {
		return nil, err
	}

	results, err := ParseChannel(out)
	if err != nil {
		p.metrics.SummarizerErrors.Add(1)
		p.logger.Error("Summarizer: failed to parse channel output",
			"channel_id", req.ChannelID,
			"error", err.Error())
		return nil, fmt.Errorf("%w: %w", model.ErrSummarizationFailed, err)
	}

	return results, nil
}

func (p *Process) run(ctx context.Context, args []string) ([]byte, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	p.metrics.SummarizerCalls.Add(1)

	var stdout, stderr bytes.Buffer
	cmd := p.command(ctx, p.interpreter, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	p.logger.Debug("Summarizer: starting process",
		"interpreter", p.interpreter,
		"args", args)

	if err := cmd.Run(); err != nil {
		p.metrics.SummarizerErrors.Add(1)
		p.logger.Error("Summarizer: process failed",
			"args", args,
			"duration_ms", time.Since(start).Milliseconds(),
			"stderr", tail(stderr.Bytes(), stderrLogLimit),
			"error", err.Error())
		return nil, fmt.Errorf("%w: %w", model.ErrSummarizationFailed, err)
	}

	if stderr.Len() > 0 {
		p.logger.Warn("Summarizer: process wrote to stderr",
			"stderr", tail(stderr.Bytes(), stderrLogLimit))
	}

	p.logger.Info("Summarizer: process finished",
		"duration_ms", time.Since(start).Milliseconds(),
		"output_bytes", stdout.Len())

	return stdout.Bytes(), nil
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
