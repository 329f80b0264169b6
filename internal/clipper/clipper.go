// Package clipper wraps the external ffmpeg/ffprobe binaries behind typed
// operations: probe a file for duration, trim a time range, concatenate
// multiple files.
package clipper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Clipper invokes ffmpeg and ffprobe as supervised subprocesses
type Clipper struct {
	ffmpegPath  string
	ffprobePath string
	runner      CommandRunner
}

// Option is a functional option for configuring Clipper
type Option func(*Clipper)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) Option {
	return func(c *Clipper) {
		c.ffmpegPath = path
	}
}

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) Option {
	return func(c *Clipper) {
		c.ffprobePath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(c *Clipper) {
		c.runner = runner
	}
}

// New creates a new ffmpeg-based Clipper
func New(opts ...Option) *Clipper {
	c := &Clipper{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Probe inspects a media file's container metadata and returns its duration
// in seconds. A file that cannot be parsed or reports no duration is invalid.
func (c *Clipper) Probe(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := c.runner.Output(ctx, c.ffprobePath, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	raw := strings.TrimSpace(string(out))
	if raw == "" || raw == "N/A" {
		return 0, fmt.Errorf("file reports no duration")
	}

	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", raw, err)
	}

	return duration, nil
}

// Trim produces the subrange [start, end) of the input at outputPath using
// a stream copy. The caller deletes any partial output on failure.
func (c *Clipper) Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	args := []string{
		"-i", inputPath,
		"-ss", formatSeconds(start),
		"-t", formatSeconds(end - start),
		"-c", "copy",
		"-y", // Overwrite output file if it exists
		outputPath,
	}

	if err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg trim failed: %w", err)
	}

	return nil
}

// Merge concatenates the inputs, preserving order, into a single output
// file via the concat demuxer. The intermediate file list is removed on
// both success and failure.
func (c *Clipper) Merge(ctx context.Context, inputPaths []string, outputPath string) error {
	listFile, err := writeConcatList(inputPaths)
	if err != nil {
		return err
	}
	defer os.Remove(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		"-y",
		outputPath,
	}

	if err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg merge failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg and ffprobe are available
func (c *Clipper) VerifyInstalled(ctx context.Context) error {
	if _, err := c.runner.Output(ctx, c.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	if _, err := c.runner.Output(ctx, c.ffprobePath, "-version"); err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

// writeConcatList writes a temporary concat demuxer file list
func writeConcatList(inputPaths []string) (string, error) {
	f, err := os.CreateTemp("", "filelist-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create concat list: %w", err)
	}

	var sb strings.Builder
	for _, p := range inputPaths {
		fmt.Fprintf(&sb, "file '%s'\n", p)
	}

	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write concat list: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close concat list: %w", err)
	}

	return f.Name(), nil
}

// formatSeconds renders a duration value the way ffmpeg expects
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
