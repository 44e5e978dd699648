package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := flag.Int("port", 8080, "Port to run the demo server on")
	host := flag.String("host", "localhost", "Host to bind the demo server to")
	flag.Parse()

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", *host, *port),
		Handler: createHandler(time.Now),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Demo server starting on http://%s:%d", *host, *port)
		log.Printf("Section page available at: http://%s:%d/innovation", *host, *port)
		log.Printf("Articles available at: http://%s:%d/news/articles/[1-%d]", *host, *port, len(stories))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down demo server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Demo server stopped")
}

type story struct {
	title   string
	summary string
	// age is how long before the request the story was published.
	age  time.Duration
	body string
}

var stories = []story{
	{
		title:   "Hospitals trial AI that drafts discharge letters",
		summary: "Doctors say a language model saves them an hour a shift, but patient groups want checks.",
		age:     3 * time.Hour,
		body:    "<p>Several NHS trusts are testing a system that turns ward notes into discharge letters for a doctor to approve.</p>",
	},
	{
		title:   "The seaside town that rebuilt its pier",
		summary: "Volunteers raised the money over five winters.",
		age:     26 * time.Hour,
		body:    "<p>After the storm of 2019 the pier was closed. This summer it reopens with a cafe at the far end.</p>",
	},
	{
		title:   "Chip makers race to meet demand from AI data centres",
		summary: "",
		age:     30 * time.Hour,
		body:    "<p>Orders for accelerator chips have doubled, with new fabs planned on three continents.</p>",
	},
	{
		title:   "Robot lawnmowers learn to spot hedgehogs",
		summary: "A computer vision model stops the blades when it sees wildlife.",
		age:     50 * time.Hour,
		body:    "<p>Researchers trained the model on thousands of night-time garden images.</p>",
	},
}

// createHandler creates the HTTP handler for the demo server
func createHandler(now func() time.Time) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/innovation", func(w http.ResponseWriter, r *http.Request) {
		sectionHandler(w, r, now())
	})
	mux.HandleFunc("/news/articles/", articlesHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			homeHandler(w, r)
		} else {
			http.NotFound(w, r)
		}
	})
	return mux
}

// homeHandler serves a simple home page explaining the demo server
func homeHandler(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	baseURL := strings.TrimSuffix(fmt.Sprintf("%s://%s", scheme, r.Host), "/")

	html := `<!DOCTYPE html>
<html>
<head>
    <title>ainews Demo Server</title>
</head>
<body>
    <h1>ainews Demo Server</h1>
    <p>This server provides a mock news section page for demonstrating ainews.</p>
    <h2>Usage with ainews</h2>
    <pre>ainews fetch --url %[1]s/innovation --date YYYY-MM-DD</pre>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, html, baseURL)
}

type card struct {
	ID       int
	Title    string
	Summary  string
	Stamp    string
	Datetime string
}

var sectionTemplate = template.Must(template.New("section").Parse(`<!DOCTYPE html>
<html lang="en-GB">
<head><meta charset="UTF-8"><title>Innovation - Demo News</title></head>
<body>
  <header><a href="/">Home</a> <a href="https://www.example.org/elsewhere">Partner site</a></header>
  <main>
  {{- range .}}
    <div data-indexcard="true">
      <a href="/news/articles/{{.ID}}#comments">
        <h2 data-testid="card-headline">{{.Title}}</h2>
      </a>
      {{- if .Summary}}
      <p data-testid="card-description">{{.Summary}}</p>
      {{- end}}
      <span data-testid="card-metadata-lastupdated"{{if .Datetime}} datetime="{{.Datetime}}"{{end}}>{{.Stamp}}</span>
    </div>
  {{- end}}
    <div data-indexcard="true">
      <h2 data-testid="card-headline">Sign up for our newsletter</h2>
    </div>
  </main>
</body>
</html>`))

// sectionHandler renders the story cards the way the BBC does: recent
// stories show a relative age, older ones a day-first date.
func sectionHandler(w http.ResponseWriter, r *http.Request, now time.Time) {
	cards := make([]card, 0, len(stories))
	for i, s := range stories {
		published := now.Add(-s.age).UTC()
		c := card{ID: i + 1, Title: s.title, Summary: s.summary}
		switch {
		case s.age < 24*time.Hour:
			c.Stamp = fmt.Sprintf("%d hrs ago", int(s.age.Hours()))
		case i%2 == 0:
			c.Stamp = published.Format("2 Jan 2006")
			c.Datetime = published.Format(time.RFC3339)
		default:
			c.Stamp = published.Format("2 January 2006")
		}
		cards = append(cards, c)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := sectionTemplate.Execute(w, cards); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// articlesHandler serves individual article content
func articlesHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/news/articles/")
	if path == "" {
		http.Error(w, "Article ID required", http.StatusBadRequest)
		return
	}

	articleID, err := strconv.Atoi(path)
	if err != nil || articleID < 1 || articleID > len(stories) {
		http.Error(w, fmt.Sprintf("Invalid article ID (use 1-%d)", len(stories)), http.StatusBadRequest)
		return
	}
	s := stories[articleID-1]

	htmlTemplate := `<!DOCTYPE html>
<html lang="en-GB">
<head>
    <meta charset="UTF-8">
    <title>%[1]s</title>
</head>
<body>
    <h1>%[1]s</h1>
    %[2]s
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, htmlTemplate, template.HTMLEscapeString(s.title), s.body)
}
