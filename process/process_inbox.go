package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MedbouZZ004/Smart-Assurance-ValidatorX/models"
	"github.com/MedbouZZ004/Smart-Assurance-ValidatorX/pkg/format"
	"github.com/MedbouZZ004/Smart-Assurance-ValidatorX/pkg/validator"
)

// Global DB handle for helper funcs
var db *gorm.DB

// global flags (parsed in main)
var (
	verbose  bool
	username string
)

// Inbox processor: batch-side companion of the HTTP API. Other systems drop
// claim-request JSON files (raw_text, tech_report, forced_doc_type,
// proposed_result) into the inbox; every file is validated through the same
// engine and stored as an audit record, then moved to done/ or failed/.
func main() {
	inbox := flag.String("inbox", envOr("INBOX_DIR", "inbox"), "directory to watch for claim-request JSON files")
	flag.BoolVar(&verbose, "verbose", false, "log per-file details")
	flag.StringVar(&username, "user", "admin", "username to attribute stored validations to")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	engine, err := validator.New(validator.DefaultConfig(), format.Checks())
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	user, err := lookupUser(username)
	if err != nil {
		log.Fatalf("user %q not found: %v", username, err)
	}

	for _, d := range []string{*inbox, filepath.Join(*inbox, "done"), filepath.Join(*inbox, "failed")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			log.Fatalf("mkdir %s: %v", d, err)
		}
	}

	// Process whatever is already waiting before watching for new drops.
	entries, err := os.ReadDir(*inbox)
	if err != nil {
		log.Fatalf("read inbox: %v", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			processFile(engine, user.ID, filepath.Join(*inbox, e.Name()))
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(*inbox); err != nil {
		log.Fatalf("watch %s: %v", *inbox, err)
	}
	log.Printf("watching %s", *inbox)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			// writers may still be flushing; give them a moment
			time.Sleep(200 * time.Millisecond)
			processFile(engine, user.ID, ev.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func processFile(engine *validator.Engine, userID uint, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		// likely already moved by a previous event for the same file
		return
	}
	var in validator.Input
	if err := json.Unmarshal(data, &in); err != nil {
		log.Printf("%s: bad request file: %v", filepath.Base(path), err)
		moveTo(path, "failed")
		return
	}
	res := engine.Validate(in)
	resultJSON, _ := json.Marshal(res)
	rec := models.ValidationRecord{
		Reference:      uuid.NewString(),
		UserID:         userID,
		DocType:        string(res.DocType),
		Decision:       string(res.Decision),
		Score:          res.Score,
		FraudSuspected: res.FraudSuspected,
		Reason:         res.Reason,
		RawText:        in.RawText,
		ProposedJSON:   in.Proposed,
		ResultJSON:     resultJSON,
	}
	if err := db.Create(&rec).Error; err != nil {
		log.Printf("%s: store failed: %v", filepath.Base(path), err)
		moveTo(path, "failed")
		return
	}
	if verbose {
		log.Printf("%s: %s score=%d ref=%s", filepath.Base(path), res.Decision, res.Score, rec.Reference)
	}
	moveTo(path, "done")
}

func moveTo(path, sub string) {
	dest := filepath.Join(filepath.Dir(path), sub, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		log.Printf("move %s to %s: %v", path, sub, err)
	}
}

func lookupUser(name string) (*models.User, error) {
	var u models.User
	if err := db.Where("username = ?", name).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
