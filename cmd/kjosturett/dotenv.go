// ABOUTME: Loads environment variables from .env files at startup via godotenv.
// ABOUTME: Variables already present in the environment are never overwritten.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadDotEnvAuto loads .env files from the current directory and its
// parents, then next to the executable. Missing files are skipped; the
// first file to set a variable wins.
func loadDotEnvAuto() {
	seen := map[string]bool{}

	load := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		if _, err := os.Stat(p); err != nil {
			return
		}
		if err := godotenv.Load(p); err != nil {
			log.Printf("config: skipping env file path=%s err=%v", p, err)
		}
	}

	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for {
			load(filepath.Join(dir, ".env"))
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if exe, err := os.Executable(); err == nil {
		load(filepath.Join(filepath.Dir(exe), ".env"))
	}
}
