// Package main provides a small CLI client for poking the daemon.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
)

var (
	app    = kingpin.New("quaverctl", "quaver player control client")
	server = app.Flag("server", "Daemon address").Default("http://localhost:8090").String()

	// status command
	statusCmd = app.Command("status", "Show the current player state")

	// navigate command
	navigateCmd  = app.Command("navigate", "Navigate to a view")
	navigateView = navigateCmd.Arg("view", "View name").Required().String()
	navigateID   = navigateCmd.Arg("id", "Detail id (detail views only)").String()
	navigatePage = navigateCmd.Flag("page", "Page number").Int()

	// search command
	searchCmd  = app.Command("search", "Search the catalog")
	searchTerm = searchCmd.Arg("term", "Search term").Required().String()

	// next / prev commands
	nextCmd = app.Command("next", "Skip to the next track")
	prevCmd = app.Command("prev", "Return to the previous track")

	// hash command
	hashCmd   = app.Command("hash", "Show or set the location hash")
	hashValue = hashCmd.Arg("value", "New hash (omit to show the current one)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	switch command {
	case statusCmd.FullCommand():
		get("/api/state")
	case navigateCmd.FullCommand():
		post("/api/navigate", map[string]any{
			"view": *navigateView,
			"id":   *navigateID,
			"page": *navigatePage,
		})
	case searchCmd.FullCommand():
		get("/api/search?term=" + *searchTerm)
	case nextCmd.FullCommand():
		post("/api/playback/next", nil)
	case prevCmd.FullCommand():
		post("/api/playback/prev", nil)
	case hashCmd.FullCommand():
		if *hashValue == "" {
			get("/api/hash")
		} else {
			put("/api/hash", map[string]any{"hash": *hashValue})
		}
	}
}

func get(path string) {
	resp, err := http.Get(*server + path)
	if err != nil {
		fail(err)
	}
	printResponse(resp)
}

func post(path string, body map[string]any) {
	do(http.MethodPost, path, body)
}

func put(path string, body map[string]any) {
	do(http.MethodPut, path, body)
}

func do(method, path string, body map[string]any) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			fail(err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, *server+path, reader)
	if err != nil {
		fail(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fail(err)
	}
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		fail(err)
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(raw))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}
