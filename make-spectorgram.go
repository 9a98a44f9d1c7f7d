package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/eligwz/spectrogram"

	"github.com/soundcheck-labs/constellation/internal/audio"
	"github.com/soundcheck-labs/constellation/internal/fingerprint"
	"github.com/soundcheck-labs/constellation/internal/model"
)

// Command make-spectrogram renders a WAV recording's energy spectrogram and
// its extracted constellation peaks as a pair of PNGs, for visually checking
// the spectrogram and peak-extraction stages against a real file. Mirrors
// original_source/plot.rs's plot_spectrogram/plot_peaks pairing: a colored
// energy view and a black-on-white peak map sharing the same footprint grid,
// so tile boundaries and the peaks picked from them can be checked by eye.
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <input.wav> [output-dir]", filepath.Base(os.Args[0]))
	}
	inputPath := os.Args[1]
	outputDir := "out"
	if len(os.Args) > 2 {
		outputDir = os.Args[2]
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatal(err)
	}

	samples, sampleRate, err := collectSamples(inputPath)
	if err != nil {
		log.Fatalf("decoding %s: %v", inputPath, err)
	}

	spec, err := fingerprint.ComputeSpectrogramFromSamples(samples, sampleRate)
	if err != nil {
		log.Fatalf("computing spectrogram: %v", err)
	}
	if spec.Height == 0 {
		log.Fatalf("%s is too short for a single FFT window", inputPath)
	}

	peaks := fingerprint.ExtractPeaks(spec)
	fmt.Printf("%s: %d frames x %d bins, %d peaks\n", inputPath, spec.Height, spec.Width, len(peaks))

	baseName := filepath.Base(inputPath)

	waveformImg := renderWaveformSpectrogram(samples, sampleRate, spec.Height)
	specPath := filepath.Join(outputDir, baseName+".spectrogram.png")
	if err := spectrogram.SavePng(waveformImg, specPath); err != nil {
		log.Fatalf("saving %s: %v", specPath, err)
	}
	fmt.Printf("wrote %s\n", specPath)

	peaksImg := renderPeaks(spec.Width, spec.Height, peaks)
	peaksPath := filepath.Join(outputDir, baseName+".peaks.png")
	if err := savePNG(peaksImg, peaksPath); err != nil {
		log.Fatalf("saving %s: %v", peaksPath, err)
	}
	fmt.Printf("wrote %s\n", peaksPath)
}

// collectSamples decodes a WAV file in full through the service's own
// streaming decoder, concatenating every frame's samples into one slice.
func collectSamples(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	frames, errs := audio.DecodeWAVStream(context.Background(), f)
	var samples []float64
	sampleRate := 0
	for frame := range frames {
		samples = append(samples, frame.Samples...)
		sampleRate = frame.SampleRate
	}
	if decErr := <-errs; decErr != nil {
		return nil, 0, decErr
	}
	return samples, sampleRate, nil
}

// renderWaveformSpectrogram draws eligwz/spectrogram's own FFT view directly
// from raw samples — a second, library-rendered look at the recording's
// energy, independent of the fingerprinting pipeline's own STFT in
// internal/fingerprint.
func renderWaveformSpectrogram(samples []float64, sampleRate, height int) image.Image {
	width := len(samples) / fingerprint.Overlap
	if width < 1 {
		width = 1
	}
	img := spectrogram.NewImage128(image.Rect(0, 0, width, height))
	black := spectrogram.ParseColor("000000")
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

	spectrogram.Drawfft(
		img,
		samples,
		uint32(sampleRate),
		uint32(height), // bins
		false,          // RECTANGLE: use Hamming window
		false,          // DFT: use FFT instead
		true,           // MAG: magnitude
		false,          // LOG10: linear scale
	)
	return img
}

// renderPeaks draws a black-on-white map of the peaks internal/fingerprint
// actually extracted, with a grid at fingerprint.FootprintSize boundaries —
// the same grid/peak-dot pairing original_source/plot.rs's plot_peaks draws
// against plot_spectrogram, so a tile's chosen peak can be checked against
// the tile boundaries it was selected within.
func renderPeaks(width, height int, peaks []model.Peak) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	set := make(map[[2]int]bool, len(peaks))
	for _, p := range peaks {
		set[[2]int{p.FreqIdx, p.TimeIdx}] = true
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gridColor := color.RGBA{B: 255, A: 255}
	black := color.RGBA{A: 255}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := white
			if y%fingerprint.FootprintSize == 0 || x%fingerprint.FootprintSize == 0 {
				c = gridColor
			}
			if set[[2]int{x, y}] {
				c = black
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
