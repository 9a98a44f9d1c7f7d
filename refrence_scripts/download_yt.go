// Command download_yt is a small, opt-in dev tool that is not part of the
// core library or server: it pulls a reference recording down from YouTube
// and prints the metadata + local file path an operator then feeds to
// `constellation ingest`.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// TrackInfo is the subset of yt-dlp's metadata dump this tool cares about.
type TrackInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Track    string `json:"track"`
	Uploader string `json:"uploader"`
	Channel  string `json:"channel"`
}

// pickArtist falls back from the most to the least specific metadata field
// yt-dlp might populate.
func pickArtist(info TrackInfo) string {
	if strings.TrimSpace(info.Artist) != "" {
		return info.Artist
	}
	if strings.TrimSpace(info.Channel) != "" {
		return info.Channel
	}
	if strings.TrimSpace(info.Uploader) != "" {
		return info.Uploader
	}
	return "Unknown Artist"
}

// FetchReferenceAudio downloads url as an MP3 into outDir, named by its
// YouTube id, and returns the local path alongside the parsed metadata.
func FetchReferenceAudio(ctx context.Context, url, outDir string) (string, TrackInfo, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", TrackInfo{}, fmt.Errorf("creating output dir: %w", err)
	}

	ytdlp.MustInstall(ctx, nil)

	outputTemplate := filepath.Join(outDir, "%(id)s.%(ext)s")

	dl := ytdlp.New().
		NoPlaylist().
		ExtractAudio().
		AudioFormat("mp3").
		Output(outputTemplate).
		PrintJSON()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return "", TrackInfo{}, fmt.Errorf("yt-dlp run: %w", err)
	}

	var info TrackInfo
	if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
		return "", TrackInfo{}, fmt.Errorf("parsing yt-dlp JSON: %w", err)
	}
	if strings.TrimSpace(info.ID) == "" {
		return "", TrackInfo{}, fmt.Errorf("missing id in yt-dlp output")
	}

	path := filepath.Join(outDir, info.ID+".mp3")
	return path, info, nil
}

func main() {
	url := "https://www.youtube.com/watch?v=E3Vlhj21ep0"

	path, info, err := FetchReferenceAudio(context.Background(), url, "test/reference_downloads")
	if err != nil {
		panic(err)
	}

	fmt.Printf("downloaded %q by %s to %s\n", info.Title, pickArtist(info), path)
	fmt.Printf("next: constellation ingest %s\n", path)
}
