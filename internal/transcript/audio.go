package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var execCommandContext = exec.CommandContext

// Audio is the last-resort strategy: it extracts the video's audio track
// with yt-dlp and feeds it to a speech-to-text script. It is the only
// strategy with a side effect (disk usage) and the only one gated by
// tier. The temporary audio directory is removed on every exit path,
// including cancellation.
type Audio struct {
	// workDir is where scoped temp directories are created.
	workDir string
	// script is the path to the transcription script. It reads an audio
	// file and prints JSON with a "text" field to stdout.
	script string
}

func NewAudio(workDir, script string) *Audio {
	return &Audio{workDir: workDir, script: script}
}

func (s *Audio) Name() string { return "audio_transcribe" }

type transcribeOutput struct {
	Status  string `json:"status"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

func (s *Audio) Attempt(ctx context.Context, videoID, lang string) (string, error) {
	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio work dir: %w", err)
	}
	tmpDir, err := os.MkdirTemp(s.workDir, "transcribe-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Printf("failed to remove temp audio dir %s: %v", tmpDir, err)
		}
	}()

	audioPath, err := s.downloadAudio(ctx, tmpDir, videoID)
	if err != nil {
		return "", err
	}
	return s.transcribe(ctx, audioPath, lang)
}

func (s *Audio) downloadAudio(ctx context.Context, dir, videoID string) (string, error) {
	template := filepath.Join(dir, videoID+".%(ext)s")
	cmd := execCommandContext(ctx, "yt-dlp",
		"-x", // extract audio
		"--audio-format", "mp3",
		"--no-progress",
		"-o", template,
		fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Printf("failed to execute yt-dlp command: %v, output: %s", err, string(output))
		return "", fmt.Errorf("failed to execute yt-dlp command: %w", err)
	}

	audioPath := filepath.Join(dir, videoID+".mp3")
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("yt-dlp produced no audio file: %w", err)
	}
	return audioPath, nil
}

func (s *Audio) transcribe(ctx context.Context, audioPath, lang string) (string, error) {
	cmd := execCommandContext(ctx, "python3", s.script, audioPath)
	cmd.Env = append(cmd.Environ(), "TRANSCRIBE_LANG="+lang)

	output, err := cmd.Output()
	if err != nil {
		log.Printf("failed to execute transcribe script: %v", err)
		return "", fmt.Errorf("failed to execute transcribe script: %w", err)
	}

	// The script may print progress noise before the JSON document.
	jsonStart := strings.Index(string(output), "{")
	if jsonStart == -1 {
		return "", fmt.Errorf("no JSON found in transcribe output")
	}

	var result transcribeOutput
	if err := json.Unmarshal(output[jsonStart:], &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal transcribe output: %w", err)
	}
	if result.Status == "error" {
		return "", fmt.Errorf("transcribe script reported error: %s", result.Message)
	}

	return checkLength(normalize([]string{result.Text}))
}
