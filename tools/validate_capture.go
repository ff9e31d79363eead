//go:build ignore

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lvalen91/pi-carplay-capture-sub001/internal/protocol"
)

// Statistics tracks decoding results across capture files
type Statistics struct {
	TotalFrames    int
	TotalBytes     int
	TotalFiles     int
	DecodeSuccess  int
	DecodeFailure  int
	MessageTypes   map[protocol.MessageType]int
	FailedFrames   []FailedFrame
	PayloadLengths map[int]int
}

// FailedFrame stores information about decode failures
type FailedFrame struct {
	File     string
	FrameNum int
	Offset   int
	Error    string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate_capture <directory-or-file>")
		fmt.Println("Example: validate_capture captures/")
		fmt.Println("         validate_capture session-20260830.bin")
		os.Exit(1)
	}

	path := os.Args[1]

	stats := Statistics{
		MessageTypes:   make(map[protocol.MessageType]int),
		PayloadLengths: make(map[int]int),
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Error accessing path: %v\n", err)
		os.Exit(1)
	}

	var files []string
	if info.IsDir() {
		pattern := filepath.Join(path, "*.bin")
		files, err = filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("Error finding capture files: %v\n", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Printf("No .bin capture files found in %s\n", path)
			os.Exit(1)
		}
	} else {
		files = []string{path}
	}

	fmt.Printf("=== Capture Validator ===\n")
	fmt.Printf("Files to process: %d\n\n", len(files))

	for _, file := range files {
		processFile(file, &stats)
	}

	printStatistics(&stats)
}

func processFile(filename string, stats *Statistics) {
	stats.TotalFiles++

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("Error reading file %s: %v\n", filename, err)
		return
	}
	stats.TotalBytes += len(data)

	dispatcher := protocol.NewDispatcher(nil)

	offset := 0
	frameNum := 0
	for offset < len(data) {
		if len(data)-offset < protocol.HeaderSize {
			stats.DecodeFailure++
			stats.FailedFrames = append(stats.FailedFrames, FailedFrame{
				File:     filename,
				FrameNum: frameNum,
				Offset:   offset,
				Error:    fmt.Sprintf("truncated header: %d bytes remain", len(data)-offset),
			})
			return
		}

		hdr, err := protocol.DecodeHeader(data[offset : offset+protocol.HeaderSize])
		if err != nil {
			stats.TotalFrames++
			stats.DecodeFailure++
			stats.FailedFrames = append(stats.FailedFrames, FailedFrame{
				File:     filename,
				FrameNum: frameNum,
				Offset:   offset,
				Error:    fmt.Sprintf("header decode error: %v", err),
			})
			// Header corruption leaves no frame boundary to resync on
			return
		}
		offset += protocol.HeaderSize

		if len(data)-offset < int(hdr.Length) {
			stats.TotalFrames++
			stats.DecodeFailure++
			stats.FailedFrames = append(stats.FailedFrames, FailedFrame{
				File:     filename,
				FrameNum: frameNum,
				Offset:   offset,
				Error:    fmt.Sprintf("truncated payload: want %d bytes, have %d", hdr.Length, len(data)-offset),
			})
			return
		}
		payload := data[offset : offset+int(hdr.Length)]
		offset += int(hdr.Length)

		stats.TotalFrames++
		stats.PayloadLengths[int(hdr.Length)]++

		_, err = dispatcher.Dispatch(hdr, payload)
		if err != nil {
			stats.DecodeFailure++
			stats.FailedFrames = append(stats.FailedFrames, FailedFrame{
				File:     filename,
				FrameNum: frameNum,
				Offset:   offset - int(hdr.Length),
				Error:    fmt.Sprintf("%s decode error: %v", hdr.Type, err),
			})
			frameNum++
			continue
		}

		stats.DecodeSuccess++
		stats.MessageTypes[hdr.Type]++
		frameNum++
	}
}

func printStatistics(stats *Statistics) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("VALIDATION RESULTS\n")
	fmt.Printf("========================================\n\n")

	fmt.Printf("Files Processed:    %d\n", stats.TotalFiles)
	fmt.Printf("Total Bytes:        %d\n", stats.TotalBytes)
	fmt.Printf("Total Frames:       %d\n", stats.TotalFrames)
	if stats.TotalFrames > 0 {
		fmt.Printf("Decode Success:     %d (%.2f%%)\n", stats.DecodeSuccess,
			float64(stats.DecodeSuccess)/float64(stats.TotalFrames)*100)
		fmt.Printf("Decode Failure:     %d (%.2f%%)\n", stats.DecodeFailure,
			float64(stats.DecodeFailure)/float64(stats.TotalFrames)*100)
	}

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("MESSAGE TYPE DISTRIBUTION\n")
	fmt.Printf("----------------------------------------\n")
	types := make([]protocol.MessageType, 0, len(stats.MessageTypes))
	for typ := range stats.MessageTypes {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, typ := range types {
		count := stats.MessageTypes[typ]
		percentage := float64(count) / float64(stats.DecodeSuccess) * 100
		fmt.Printf("Type 0x%02X (%s): %d (%.2f%%)\n", uint32(typ), typ, count, percentage)
	}

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("PAYLOAD LENGTH DISTRIBUTION\n")
	fmt.Printf("----------------------------------------\n")
	lengths := make([]int, 0, len(stats.PayloadLengths))
	for length := range stats.PayloadLengths {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)
	for _, length := range lengths {
		count := stats.PayloadLengths[length]
		percentage := float64(count) / float64(stats.TotalFrames) * 100
		fmt.Printf("%d bytes: %d frames (%.2f%%)\n", length, count, percentage)
	}

	if len(stats.FailedFrames) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("DECODE FAILURES (%d total)\n", len(stats.FailedFrames))
		fmt.Printf("----------------------------------------\n")

		maxShow := 10
		if len(stats.FailedFrames) > maxShow {
			fmt.Printf("(Showing first %d of %d failures)\n\n", maxShow, len(stats.FailedFrames))
		}

		for i, failed := range stats.FailedFrames {
			if i >= maxShow {
				break
			}
			fmt.Printf("\nFailure #%d:\n", i+1)
			fmt.Printf("  File: %s (frame #%d, offset %d)\n", failed.File, failed.FrameNum, failed.Offset)
			fmt.Printf("  Error: %s\n", failed.Error)
		}
	}

	fmt.Printf("\n========================================\n")
	if stats.DecodeFailure == 0 {
		fmt.Printf("✅ SUCCESS: All frames decoded successfully!\n")
	} else {
		fmt.Printf("⚠️  ISSUES FOUND: %d frames failed to decode\n", stats.DecodeFailure)
	}
	fmt.Printf("========================================\n")
}
