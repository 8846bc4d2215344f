// Command legacy_import pushes availability exported from the legacy
// scheduling app into a running LessonGrid API. The export file carries the
// day-name keyed schedule format for the owner and any number of
// participants.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/studioplan/lessongrid-api/internal/schedule"
)

type exportFile struct {
	Owner        schedule.DayMap            `json:"owner"`
	Participants map[string]schedule.DayMap `json:"participants"`
}

type importResult struct {
	Subject  string
	Status   int
	Removed  []string
	Duration time.Duration
	Error    error
}

func main() {
	var (
		base    string
		token   string
		file    string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "LessonGrid API base URL")
	flag.StringVar(&token, "token", "", "Bearer token for the owner account")
	flag.StringVar(&file, "file", filepath.Join("scripts", "legacy_import", "export.json"), "Path to the legacy export file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	if token == "" {
		log.Fatal("a -token is required")
	}

	export, err := loadExport(file)
	if err != nil {
		log.Fatalf("failed to load export: %v", err)
	}

	client := &http.Client{Timeout: timeout}

	var results []importResult
	if export.Owner != nil {
		results = append(results, putLegacyWeek(client, base, token, "owner", "/availability/owner", export.Owner))
	}
	for _, id := range sortedKeys(export.Participants) {
		subject := "participant " + id
		path := "/availability/participants/" + id
		results = append(results, putLegacyWeek(client, base, token, subject, path, export.Participants[id]))
	}

	failed := printReport(results)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadExport(path string) (*exportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, err
	}
	if export.Owner == nil && len(export.Participants) == 0 {
		return nil, fmt.Errorf("no schedules found in %s", path)
	}
	return &export, nil
}

func putLegacyWeek(client *http.Client, base, token, subject, path string, week schedule.DayMap) importResult {
	res := importResult{Subject: subject}

	body, err := json.Marshal(map[string]schedule.DayMap{"schedule": week})
	if err != nil {
		res.Error = fmt.Errorf("encode schedule: %w", err)
		return res
	}

	url := strings.TrimRight(base, "/") + path + "?format=legacy"
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		res.Error = err
		return res
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Error = fmt.Errorf("read response: %w", err)
		return res
	}
	if resp.StatusCode != http.StatusOK {
		res.Error = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
		return res
	}

	var envelope struct {
		Data struct {
			RemovedAssignments []string `json:"removed_assignments"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		res.Error = fmt.Errorf("decode response: %w", err)
		return res
	}
	res.Removed = envelope.Data.RemovedAssignments
	return res
}

func sortedKeys(m map[string]schedule.DayMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printReport(results []importResult) int {
	fmt.Println("Legacy Import Report")
	fmt.Println("====================")
	failed := 0
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
			failed++
		}
		fmt.Printf("[%s] %s\n", status, res.Subject)
		fmt.Printf("  Status: %d (%s)\n", res.Status, res.Duration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		if len(res.Removed) > 0 {
			fmt.Printf("  Removed assignments: %s\n", strings.Join(res.Removed, ", "))
		}
	}
	return failed
}
