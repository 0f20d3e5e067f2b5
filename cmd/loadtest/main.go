package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// User represents the structure of a user document to insert
type User struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// findResult is the part of a find response the load test reads
type findResult struct {
	Documents []map[string]interface{} `json:"documents"`
	Total     int64                    `json:"total"`
	UsedIndex string                   `json:"used_index"`
}

// generateRandomName generates a random 6-letter name
func generateRandomName(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 6)
	for i := range name {
		name[i] = letters[rng.Intn(len(letters))]
	}
	// Capitalize first letter
	name[0] = name[0] - 32
	return string(name)
}

// generateRandomAge generates a random age between 18 and 99
func generateRandomAge(rng *rand.Rand) int {
	return rng.Intn(82) + 18
}

type client struct {
	baseURL    string
	collection string
	http       *http.Client
}

// insertUsers sends one batch insert request
func (c *client) insertUsers(ctx context.Context, users []User) error {
	body, err := json.Marshal(map[string]interface{}{"documents": users})
	if err != nil {
		return errors.Wrap(err, "failed to marshal users")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/collections/"+c.collection+"/batch", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// findRange queries an age range and decodes the lz4 compressed response
func (c *client) findRange(ctx context.Context, from, to int) (*findResult, error) {
	url := fmt.Sprintf("%s/collections/%s/find?age=between:%d,%d&limit=10", c.baseURL, c.collection, from, to)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Encoding", "lz4")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "lz4" {
		body = lz4.NewReader(resp.Body)
	}

	var result findResult
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to decode find response")
	}
	return &result, nil
}

// createIndex indexes the age field so range queries are served by the index
func (c *client) createIndex(ctx context.Context, field string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/collections/"+c.collection+"/indexes/"+field, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func main() {
	var (
		serverURL  = flag.String("url", "http://localhost:8080", "Server URL")
		collection = flag.String("collection", "users", "Target collection")
		numUsers   = flag.Int("users", 10000, "Number of users to insert")
		batchSize  = flag.Int("batch", 100, "Documents per batch insert")
		workers    = flag.Int("workers", 8, "Concurrent workers")
		queries    = flag.Int("queries", 1000, "Range queries to run while inserting")
	)
	flag.Parse()

	if *numUsers <= 0 || *batchSize <= 0 || *workers <= 0 {
		fmt.Println("Error: -users, -batch and -workers must be greater than 0")
		os.Exit(1)
	}

	c := &client{
		baseURL:    strings.TrimRight(*serverURL, "/"),
		collection: *collection,
		http:       &http.Client{Timeout: 30 * time.Second},
	}

	fmt.Printf("Starting load test: inserting %d users to %s with %d workers\n", *numUsers, c.baseURL, *workers)

	ctx := context.Background()

	// The collection must exist before it can be indexed
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := c.insertUsers(ctx, []User{{Name: generateRandomName(seed), Age: generateRandomAge(seed)}}); err != nil {
		fmt.Printf("Error: seeding collection failed: %v\n", err)
		os.Exit(1)
	}
	if err := c.createIndex(ctx, "age"); err != nil {
		fmt.Printf("Error: creating index failed: %v\n", err)
		os.Exit(1)
	}

	var (
		inserted     atomic.Int64
		insertErrors atomic.Int64
		queried      atomic.Int64
		queryErrors  atomic.Int64
		indexed      atomic.Int64
	)

	startTime := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers + 1)

	batches := (*numUsers + *batchSize - 1) / *batchSize
	g.Go(func() error {
		rng := rand.New(rand.NewSource(time.Now().UnixNano() + 1))
		for i := 0; i < *queries; i++ {
			from := generateRandomAge(rng)
			result, err := c.findRange(gctx, from, from+5)
			if err != nil {
				queryErrors.Add(1)
				continue
			}
			queried.Add(1)
			if result.UsedIndex == "age" {
				indexed.Add(1)
			}
		}
		return nil
	})

	for b := 0; b < batches; b++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(b)))
			n := min(*batchSize, *numUsers-b*(*batchSize))
			users := make([]User, n)
			for i := range users {
				name := generateRandomName(rng)
				users[i] = User{Name: name, Age: generateRandomAge(rng), Email: name + "@example.com"}
			}
			if err := c.insertUsers(gctx, users); err != nil {
				insertErrors.Add(int64(n))
				fmt.Printf("Error inserting batch %d: %v\n", b, err)
				return nil
			}
			inserted.Add(int64(n))
			return nil
		})
	}

	_ = g.Wait()
	totalTime := time.Since(startTime)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("LOAD TEST COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Successful inserts:    %d\n", inserted.Load())
	fmt.Printf("Failed inserts:        %d\n", insertErrors.Load())
	fmt.Printf("Range queries:         %d (%d served by index)\n", queried.Load(), indexed.Load())
	fmt.Printf("Failed queries:        %d\n", queryErrors.Load())
	fmt.Printf("Total time:            %v\n", totalTime)
	fmt.Printf("Average insert rate:   %.2f users/sec\n", float64(inserted.Load())/totalTime.Seconds())

	if insertErrors.Load() > 0 || queryErrors.Load() > 0 {
		fmt.Println("\nWarning: errors occurred during the load test")
		os.Exit(1)
	}
}
