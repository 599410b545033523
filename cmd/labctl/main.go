package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/devtutor/backend/conf"
	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/gensrvc"
	"github.com/devtutor/backend/gradesrvc"
	"github.com/devtutor/backend/progress"
)

const usage = `usage: labctl <command> [flags]

commands:
  create    generate a new lab workspace
  open      mark a lab as started
  submit    grade the lab's current submission
  reset     restore the submission directory from the starter files
  progress  print the progress of a course
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := conf.GetEngineFromEnv()
	root, err := fslab.NewRoot(cfg.RootDir)
	if err != nil {
		log.Fatalf("failed to open lab root %s: %v", cfg.RootDir, err)
	}
	progressStore, err := progress.NewStore(root.ProgressDir())
	if err != nil {
		log.Fatalf("failed to open progress store: %v", err)
	}
	srvc := gradesrvc.New(root, progressStore, cfg)

	switch os.Args[1] {
	case "create":
		runCreate(root, os.Args[2:])
	case "open":
		runOpen(root, progressStore, os.Args[2:])
	case "submit":
		runSubmit(srvc, os.Args[2:])
	case "reset":
		runReset(root, os.Args[2:])
	case "progress":
		runProgress(progressStore, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runCreate(root *fslab.Root, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	course := fs.String("course", "", "course id")
	unit := fs.String("unit", "", "unit id")
	lab := fs.String("lab", "", "lab id (generated when empty)")
	kind := fs.String("kind", fslab.KindFull, "lab kind: full, bugfix or fill")
	language := fs.String("language", "python", "programming language id")
	fs.Parse(args)

	if *course == "" || *unit == "" {
		log.Fatal("both -course and -unit are required")
	}

	labCtx := fslab.LabCtx{CourseID: *course, UnitID: *unit, LabID: *lab}
	created, err := gensrvc.CreateLab(context.Background(), root, gensrvc.StaticGen{}, labCtx, *kind, *language)
	if err != nil {
		log.Fatalf("failed to create lab: %v", err)
	}
	fmt.Printf("created lab %s at %s\n", created.ID, created.Dir().AbsPath)
}

func runOpen(root *fslab.Root, store *progress.Store, args []string) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	labID := fs.String("lab", "", "lab id")
	fs.Parse(args)

	lab, err := root.ReadLab(*labID)
	if err != nil {
		log.Fatalf("failed to read lab: %v", err)
	}
	labCtx := fslab.LabCtx{CourseID: lab.CourseID, UnitID: lab.UnitID, LabID: lab.ID}
	if err := store.TouchLab(labCtx); err != nil {
		log.Fatalf("failed to mark lab as started: %v", err)
	}
	fmt.Printf("lab %s: %s\n", lab.ID, lab.Dir().SubmissionDir())
}

func runSubmit(srvc *gradesrvc.GradeSrvc, args []string) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	labID := fs.String("lab", "", "lab id")
	fs.Parse(args)

	grade, err := srvc.Submit(context.Background(), fslab.LabCtx{LabID: *labID})
	if err != nil {
		log.Fatalf("failed to grade submission: %v", err)
	}
	out, err := json.MarshalIndent(grade, "", "  ")
	if err != nil {
		log.Fatalf("failed to render grade: %v", err)
	}
	fmt.Println(string(out))
}

func runReset(root *fslab.Root, args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	labID := fs.String("lab", "", "lab id")
	fs.Parse(args)

	if err := root.ResetSubmission(*labID); err != nil {
		log.Fatalf("failed to reset submission: %v", err)
	}
	fmt.Printf("submission of lab %s restored from starter files\n", *labID)
}

func runProgress(store *progress.Store, args []string) {
	fs := flag.NewFlagSet("progress", flag.ExitOnError)
	course := fs.String("course", "", "course id")
	fs.Parse(args)

	units, err := store.GetCourse(*course)
	if err != nil {
		log.Fatalf("failed to read course progress: %v", err)
	}
	out, err := json.MarshalIndent(units, "", "  ")
	if err != nil {
		log.Fatalf("failed to render progress: %v", err)
	}
	fmt.Println(string(out))
}
