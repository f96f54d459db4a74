// Command grade runs the grading pipeline once, without the server or
// the queue: grade a submission path against an assignment spec and
// print the result, or just print a template's analysis report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/feichai0017/pbit-mentor/internal/assignment"
	"github.com/feichai0017/pbit-mentor/internal/pbit"
	"github.com/feichai0017/pbit-mentor/internal/service/grading"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
)

func main() {
	var (
		specPath   = flag.String("assignment", "", "path to the assignment spec YAML (omit to only print the template report)")
		backend    = flag.String("backend", "gemini", "evaluator backend (gemini or vertex)")
		reportOnly = flag.Bool("report", false, "print the .pbit analysis report and exit")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: grade [flags] <submission path>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("console"),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *reportOnly || *specPath == "" {
		report, err := pbit.NewAnalyzer(log).Analyze(path)
		if err != nil {
			log.Fatal("Failed to analyze template", logger.Error(err))
		}
		fmt.Println(report)
		return
	}

	spec, err := assignment.Load(*specPath)
	if err != nil {
		log.Fatal("Failed to load assignment spec", logger.Error(err))
	}

	eval, err := grading.NewEvaluator(*backend, log)
	if err != nil {
		log.Fatal("Failed to create evaluator", logger.Error(err))
	}

	service := grading.NewService(eval, nil, nil, log, nil)
	result, err := service.GradeSubmission(context.Background(), path, spec)
	if err != nil {
		log.Fatal("Failed to grade submission", logger.Error(err))
	}

	fmt.Printf("Score: %.2f/100\n\n%s\n", result.Score, result.Feedback)
}
