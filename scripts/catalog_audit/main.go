package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-planner-api/internal/models"
	"github.com/noah-isme/course-planner-api/internal/repository"
	"github.com/noah-isme/course-planner-api/internal/service"
	"github.com/noah-isme/course-planner-api/pkg/term"
)

type finding struct {
	Kind     string
	CourseID string
	Section  string
	Detail   string
	Critical bool
}

type audit struct {
	Version  string
	Stats    service.NormalizeStats
	Findings []finding
}

func main() {
	var (
		source   string
		timeout  time.Duration
		verbose  bool
		maxPrint int
	)

	flag.StringVar(&source, "source", "./data/course-data-constructed.json", "Feed file path or http(s) URL")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Fetch timeout")
	flag.BoolVar(&verbose, "verbose", false, "Log normalisation details")
	flag.IntVar(&maxPrint, "max", 50, "Maximum findings to print per kind")
	flag.Parse()

	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("failed to init logger: %v", err)
		}
		logger = dev
	}
	defer logger.Sync() //nolint:errcheck

	raw, err := repository.NewCatalogFeedRepository(source, timeout).Fetch(context.Background())
	if err != nil {
		log.Fatalf("failed to fetch feed: %v", err)
	}
	feed, err := repository.DecodeFeed(raw)
	if err != nil {
		log.Fatalf("failed to decode feed: %v", err)
	}

	catalog, stats := service.NormalizeFeed(feed, logger)
	result := audit{Version: repository.FeedVersion(raw), Stats: stats, Findings: inspect(catalog)}

	critical := printReport(result, maxPrint)
	if critical > 0 {
		os.Exit(1)
	}
}

func inspect(catalog *models.Catalog) []finding {
	var findings []finding
	for _, course := range catalog.Courses() {
		if len(course.Sections) == 0 {
			findings = append(findings, finding{Kind: "empty-course", CourseID: course.ID, Detail: "no sections"})
		}
		for _, section := range course.Sections {
			findings = append(findings, inspectSection(course, section)...)
		}
	}
	return findings
}

func inspectSection(course *models.Course, section *models.Section) []finding {
	var findings []finding
	add := func(kind, detail string, critical bool) {
		findings = append(findings, finding{Kind: kind, CourseID: course.ID, Section: section.Number, Detail: detail, Critical: critical})
	}

	if section.SeatsAvailable > section.Seats {
		add("seats", fmt.Sprintf("%d available of %d seats", section.SeatsAvailable, section.Seats), false)
	}
	if section.Seats < 0 || section.SeatsAvailable < 0 {
		add("seats", fmt.Sprintf("negative seat count %d/%d", section.SeatsAvailable, section.Seats), true)
	}
	if section.ActualWaitlist > section.MaxWaitlist && section.MaxWaitlist > 0 {
		add("waitlist", fmt.Sprintf("waitlist %d exceeds limit %d", section.ActualWaitlist, section.MaxWaitlist), false)
	}
	if !term.IsValidLetter(section.ComputedTerm) {
		add("term", fmt.Sprintf("computed term %q", section.ComputedTerm), true)
	}
	for _, period := range section.Periods {
		if period.StartTime.After(period.EndTime) {
			add("period", fmt.Sprintf("%s %s-%s ends before it starts", period.Type, period.StartTime.DisplayTime, period.EndTime.DisplayTime), true)
		}
		if period.Days.IsEmpty() {
			add("period", fmt.Sprintf("%s meets on no days", period.Type), false)
		}
	}
	return findings
}

func printReport(result audit, maxPrint int) int {
	fmt.Println("Catalog Audit Report")
	fmt.Println("====================")
	fmt.Printf("Version: %s\n", result.Version)
	fmt.Printf("Courses: %d, Sections: %d\n", result.Stats.Courses, result.Stats.Sections)
	fmt.Printf("Repaired terms: %d, Invalid times: %d, Duplicate courses: %d\n",
		result.Stats.RepairedTerms, result.Stats.InvalidTimes, result.Stats.DuplicateCourses)

	byKind := make(map[string][]finding)
	critical := 0
	for _, f := range result.Findings {
		byKind[f.Kind] = append(byKind[f.Kind], f)
		if f.Critical {
			critical++
		}
	}
	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		list := byKind[kind]
		fmt.Printf("\n[%s] %d finding(s)\n", kind, len(list))
		for i, f := range list {
			if i == maxPrint {
				fmt.Printf("  ... %d more\n", len(list)-maxPrint)
				break
			}
			level := "WARN"
			if f.Critical {
				level = "FAIL"
			}
			fmt.Printf("  %s %s %s: %s\n", level, f.CourseID, f.Section, f.Detail)
		}
	}

	fmt.Printf("\nCritical findings: %d, Total findings: %d\n", critical, len(result.Findings))
	return critical
}
