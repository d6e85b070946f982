//go:build ignore
// +build ignore

// Package main provides a manual race check for author deletion against a running
// LocalLibrary server.
//
// Usage:
//
//	go run ./scripts/concurrency_test.go <author_id> [n_books]
//
// Or use the convenience environment variables:
//
//	AUTHOR_ID=<uuid>  N_BOOKS=20  go run ./scripts/concurrency_test.go
//
// What it does:
//  1. Fires N goroutines each creating a book for the author, plus one goroutine
//     deleting that author, all released at once.
//  2. Prints how many books were created and whether the delete went through.
//  3. Verifies the author was only deleted if no book for it was created.
//
// Prerequisites:
//   - Server must be running (library serve).
//   - The author must exist and have no books yet.

package main

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultServerAddr = "http://localhost:8080"

type result struct {
	Kind       string // "book" or "delete"
	StatusCode int
	Location   string
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_URL")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	authorID := os.Getenv("AUTHOR_ID")
	n := 20
	if v := os.Getenv("N_BOOKS"); v != "" {
		n, _ = strconv.Atoi(v)
	}

	args := os.Args[1:]
	if len(args) >= 1 {
		authorID = args[0]
	}
	if len(args) >= 2 {
		n, _ = strconv.Atoi(args[1])
	}

	if authorID == "" || n < 1 {
		log.Fatal("Usage: AUTHOR_ID=<uuid> N_BOOKS=<n> go run ./scripts/concurrency_test.go\n" +
			"  or: go run ./scripts/concurrency_test.go <author_id> [n_books]")
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	fmt.Printf("=== LocalLibrary Delete Race ===\n")
	fmt.Printf("Server : %s\n", serverAddr)
	fmt.Printf("Author : %s\n", authorID)
	fmt.Printf("Books  : %d\n\n", n)

	results := make([]result, n+1)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			form := url.Values{
				"title":   {fmt.Sprintf("Race Book %d", idx)},
				"author":  {authorID},
				"summary": {"Created while the author was being deleted"},
				"isbn":    {fmt.Sprintf("RACE%06d", idx)},
			}
			results[idx] = postForm(client, serverAddr+"/catalog/book/create", form, "book")
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		results[n] = postForm(client, serverAddr+"/catalog/author/"+authorID+"/delete", url.Values{}, "delete")
	}()

	fmt.Println("Firing all requests simultaneously...")
	close(start)
	wg.Wait()
	fmt.Println("All requests completed.")
	fmt.Println()

	var created, rejected, failures int
	deleted := false
	for _, r := range results {
		switch {
		case r.Err != nil:
			failures++
			fmt.Printf("  [ERR ] %-6s err=%v\n", r.Kind, r.Err)
		case r.Kind == "book" && r.StatusCode == http.StatusFound:
			created++
		case r.Kind == "book" && r.StatusCode == http.StatusOK:
			rejected++
		case r.Kind == "delete" && r.StatusCode == http.StatusFound:
			deleted = true
			fmt.Printf("  [DEL ] author deleted\n")
		case r.Kind == "delete" && r.StatusCode == http.StatusOK:
			fmt.Printf("  [BLCK] author delete blocked\n")
		default:
			failures++
			fmt.Printf("  [FAIL] %-6s status=%d unexpected response\n", r.Kind, r.StatusCode)
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Books created  : %d\n", created)
	fmt.Printf("Books rejected : %d\n", rejected)
	fmt.Printf("Author deleted : %t\n", deleted)
	fmt.Printf("Failures       : %d\n\n", failures)

	fmt.Println("--- Invariant Check ---")
	if deleted && created > 0 {
		fmt.Printf("[BROKEN] author was deleted but %d book(s) referencing it were created\n", created)
		os.Exit(1)
	}
	fmt.Println("OK: the author was never deleted while a book referenced it.")

	if failures > 0 {
		fmt.Printf("\n[WARNING] %d request(s) failed - check server logs for details.\n", failures)
		os.Exit(1)
	}
}

func postForm(client *http.Client, target string, form url.Values, kind string) result {
	resp, err := client.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return result{Kind: kind, Err: err}
	}
	defer resp.Body.Close()
	return result{Kind: kind, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
}
