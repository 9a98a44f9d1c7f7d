package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/soundcheck-labs/constellation/pkg/acousticdna"
	"github.com/soundcheck-labs/constellation/pkg/logger"
)

func main() {
	log := logger.GetLogger()
	printBanner()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	log.Infof("Executing command: %s", command)

	switch command {
	case "ingest":
		handleIngest()
	case "compare":
		handleCompare()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
   _                      _   _      ____  _   _    _
  / \   ___ ___  _   _ ___| |_(_) ___|  _ \| \ | |  / \
 / _ \ / __/ _ \| | | / __| __| |/ __| | | |  \| | / _ \
/ ___ \ (_| (_) | |_| \__ \ |_| | (__| |_| | |\  |/ ___ \
\_/   \_/___\___/ \__,_|___/\__|_|\___|____/|_| \_/_/   \_/

           Audio Alignment CLI Tool
`
	fmt.Println(banner)
}

func handleIngest() {
	log := logger.GetLogger()

	if len(os.Args) < 3 {
		fmt.Println("Usage: constellation ingest <mp3_file>")
		os.Exit(1)
	}
	audioPath := os.Args[2]

	svc, err := newCLIService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	f, err := os.Open(audioPath)
	if err != nil {
		fmt.Printf("❌ Failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Println("🎵 Processing audio file...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var id string
	if isWAV(audioPath) {
		id, err = svc.IngestReferenceWAV(ctx, f)
	} else {
		id, err = svc.IngestReference(ctx, f)
	}
	if err != nil {
		fmt.Printf("\n❌ Failed to ingest reference: %v\n", err)
		log.Errorf("IngestReference failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ Successfully ingested reference recording!")
	fmt.Printf("   ID: %s\n", id)
	log.Infof("Successfully ingested reference ID=%s", id)
}

func handleCompare() {
	log := logger.GetLogger()

	if len(os.Args) < 4 {
		fmt.Println("Usage: constellation compare <reference_id> <sample_mp3_file>")
		os.Exit(1)
	}
	id := os.Args[2]
	audioPath := os.Args[3]

	svc, err := newCLIService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	fmt.Println("⚠️  Note: the in-memory reference store is per-process;")
	fmt.Println("    a reference ingested by a separate CLI invocation will not")
	fmt.Println("    be found here unless the service is backed by a durable store.")

	f, err := os.Open(audioPath)
	if err != nil {
		fmt.Printf("❌ Failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Println("🔍 Analyzing sample and aligning against reference...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var result acousticdna.CompareResult
	if isWAV(audioPath) {
		result, err = svc.CompareWAV(ctx, id, f)
	} else {
		result, err = svc.Compare(ctx, id, f)
	}
	if err != nil {
		fmt.Printf("\n❌ Failed to compare: %v\n", err)
		log.Errorf("Compare failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ Alignment complete!")
	fmt.Printf("   Offset:             %.2fs\n", result.OffsetSeconds)
	fmt.Printf("   First sample match: %.2fs\n", result.SampleFirstMatchSeconds)
	log.Infof("Compare complete: offset=%.2fs first_match=%.2fs", result.OffsetSeconds, result.SampleFirstMatchSeconds)
}

func newCLIService() (*acousticdna.Service, error) {
	return acousticdna.NewService()
}

// isWAV selects the PCM-WAV decode path for .wav fixtures; everything else
// is assumed to be MP3.
func isWAV(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".wav")
}

func printUsage() {
	fmt.Println("constellation - Audio Alignment CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  constellation ingest <mp3_file>")
	fmt.Println("  constellation compare <reference_id> <sample_mp3_file>")
}
