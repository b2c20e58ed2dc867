// ABOUTME: Tests for the conversion cache covering hits, error pass-through, and concurrent access.
package content

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

type countingConverter struct {
	mu    sync.Mutex
	n     int
	err   error
	delay time.Duration
}

func (c *countingConverter) Convert(source []byte) (string, error) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if c.err != nil {
		return "", c.err
	}
	return "<p>" + string(source) + "</p>", nil
}

func (c *countingConverter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestCachedConverterReturnsCachedResult(t *testing.T) {
	next := &countingConverter{}
	cache := NewCachedConverter(next)

	for i := 0; i < 3; i++ {
		html, err := cache.Convert([]byte("halló"))
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if html != "<p>halló</p>" {
			t.Errorf("expected <p>halló</p>, got %q", html)
		}
	}
	if next.calls() != 1 {
		t.Errorf("expected 1 underlying call, got %d", next.calls())
	}
	hits, misses := cache.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("expected 2 hits and 1 miss, got %d and %d", hits, misses)
	}
}

func TestCachedConverterDoesNotCacheErrors(t *testing.T) {
	next := &countingConverter{err: errors.New("boom")}
	cache := NewCachedConverter(next)

	for i := 0; i < 2; i++ {
		if _, err := cache.Convert([]byte("x")); err == nil {
			t.Fatal("expected error")
		}
	}
	if next.calls() != 2 {
		t.Errorf("expected 2 underlying calls, got %d", next.calls())
	}
	if hits, misses := cache.Stats(); hits != 0 || misses != 0 {
		t.Errorf("expected failed conversions to be uncounted, got %d hits and %d misses", hits, misses)
	}
}

func TestCachedConverterConcurrentAccess(t *testing.T) {
	next := &countingConverter{delay: time.Millisecond}
	cache := NewCachedConverter(next)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := fmt.Sprintf("source-%d", i%5)
			html, err := cache.Convert([]byte(src))
			if err != nil {
				t.Errorf("convert: %v", err)
				return
			}
			if html != "<p>"+src+"</p>" {
				t.Errorf("unexpected html %q", html)
			}
		}(i)
	}
	wg.Wait()

	if next.calls() != 5 {
		t.Errorf("expected 5 conversions, got %d", next.calls())
	}
	if hits, misses := cache.Stats(); hits != 45 || misses != 5 {
		t.Errorf("expected 45 hits and 5 misses, got %d and %d", hits, misses)
	}
}

func TestMarkdownConverter(t *testing.T) {
	c := NewMarkdownConverter()

	html, err := c.Convert([]byte("**Feitt** letur"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if html != "<p><strong>Feitt</strong> letur</p>\n" {
		t.Errorf("unexpected html %q", html)
	}

	table, err := c.Convert([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(table, "<table>") {
		t.Errorf("expected GFM table, got %q", table)
	}

	empty, err := c.Convert(nil)
	if err != nil || empty != "" {
		t.Errorf("expected empty output for empty input, got %q, %v", empty, err)
	}
}
