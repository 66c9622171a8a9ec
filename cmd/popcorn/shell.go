package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/teo/popcorn/internal/catalog"
	"github.com/teo/popcorn/internal/config"
	"github.com/teo/popcorn/internal/keybind"
	"github.com/teo/popcorn/internal/metrics"
	"github.com/teo/popcorn/internal/session"
	"github.com/teo/popcorn/internal/store"
	"github.com/teo/popcorn/internal/watchlist"
)

// swappableClient lets a config reload replace the catalog client while the
// session keeps a stable Searcher/Fetcher reference.
type swappableClient struct {
	mu     sync.Mutex
	client *catalog.Client
}

func (s *swappableClient) current() *catalog.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

func (s *swappableClient) swap(c *catalog.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = c
}

func (s *swappableClient) Search(ctx context.Context, query string) ([]catalog.MovieSummary, error) {
	return s.current().Search(ctx, query)
}

func (s *swappableClient) Detail(ctx context.Context, imdbID string) (*catalog.MovieDetail, error) {
	return s.current().Detail(ctx, imdbID)
}

// shell is the interactive front end wiring the session, watchlist, and key
// bindings together.
type shell struct {
	out     io.Writer
	client  *swappableClient
	search  *session.Controller
	detail  *session.DetailLoader
	watched *store.Cell[[]watchlist.Entry]
	binder  *keybind.Binder

	mu              sync.Mutex
	pendingRating   int
	ratingDecisions int
}

func newShell(cfg *config.Config, watched *store.Cell[[]watchlist.Entry], rec metrics.Recorder, out io.Writer) *shell {
	sh := &shell{
		out:     out,
		watched: watched,
		binder:  keybind.NewBinder(),
	}

	sh.client = &swappableClient{client: newCatalogClient(cfg)}

	sh.detail = session.NewDetailLoader(session.DetailLoaderConfig{
		Fetcher:  sh.client,
		SetLabel: sh.setTerminalTitle,
		OnChange: sh.renderDetail,
		Metrics:  rec,
	})

	sh.search = session.NewController(session.ControllerConfig{
		Searcher:       sh.client,
		MinQueryLength: cfg.Search.MinQueryLength,
		// Typing a new query closes any open detail view
		OnQueryChange: func(string) { sh.detail.Clear() },
		OnChange:      sh.renderSearch,
		Metrics:       rec,
	})

	// Enter clears the search box, Escape closes the detail view
	sh.binder.Bind("enter", func() { sh.search.SetQuery("") })
	sh.binder.Bind("escape", sh.detail.Clear)

	return sh
}

// applyConfig swaps in a freshly loaded configuration.
func (sh *shell) applyConfig(cfg *config.Config) {
	sh.client.swap(newCatalogClient(cfg))
}

func newCatalogClient(cfg *config.Config) *catalog.Client {
	return catalog.NewClient(catalog.ClientConfig{
		APIKey:          cfg.Catalog.APIKey,
		Endpoint:        cfg.Catalog.Endpoint,
		TimeoutSeconds:  cfg.Catalog.TimeoutSeconds,
		RateLimitPerSec: cfg.Catalog.RateLimitPerSec,
	})
}

// run reads commands until EOF or quit.
func (sh *shell) run(in io.Reader) {
	fmt.Fprintln(sh.out, "usePopcorn — type a title to search, 'help' for commands")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if !sh.handle(line) {
			return
		}
	}
}

// handle executes one command line. Returns false to exit.
func (sh *shell) handle(line string) bool {
	if line == "" {
		sh.binder.Dispatch("enter")
		return true
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "quit", "q", "exit":
		return false

	case "esc":
		sh.binder.Dispatch("escape")

	case "open":
		sh.open(arg)

	case "rate":
		sh.rate(arg)

	case "add":
		sh.add()

	case "rm":
		sh.remove(arg)

	case "list":
		sh.list()

	case "stats":
		sh.stats()

	case "help":
		sh.help()

	default:
		// Anything else is a search query
		sh.search.SetQuery(line)
	}
	return true
}

// open selects the nth search result (1-based) for the detail view.
func (sh *shell) open(arg string) {
	n, err := strconv.Atoi(arg)
	results := sh.search.State().Results
	if err != nil || n < 1 || n > len(results) {
		fmt.Fprintf(sh.out, "open: expected a result number between 1 and %d\n", len(results))
		return
	}

	id := results[n-1].IMDBID
	// Re-opening the already-open movie closes it instead
	if sh.detail.State().SelectedID == id {
		sh.detail.Clear()
		return
	}

	sh.mu.Lock()
	sh.pendingRating = 0
	sh.ratingDecisions = 0
	sh.mu.Unlock()

	sh.detail.Select(id)
}

// rate records a star rating for the open detail view. Each call counts as
// one rating decision, mirroring how often the user touched the widget.
func (sh *shell) rate(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > 10 {
		fmt.Fprintln(sh.out, "rate: expected a rating between 1 and 10")
		return
	}
	if sh.detail.State().Detail == nil {
		fmt.Fprintln(sh.out, "rate: no movie open")
		return
	}

	sh.mu.Lock()
	sh.pendingRating = n
	sh.ratingDecisions++
	sh.mu.Unlock()

	fmt.Fprintf(sh.out, "rating set to %d — 'add' to save\n", n)
}

// add commits the rated movie to the watched collection.
func (sh *shell) add() {
	detail := sh.detail.State().Detail
	if detail == nil {
		fmt.Fprintln(sh.out, "add: no movie open")
		return
	}

	sh.mu.Lock()
	rating := sh.pendingRating
	decisions := sh.ratingDecisions
	sh.mu.Unlock()

	if rating == 0 {
		fmt.Fprintln(sh.out, "add: rate the movie first")
		return
	}

	// Duplicates are allowed and append, but the user gets a heads-up
	if watchlist.Contains(sh.watched.Get(), detail.IMDBID) {
		fmt.Fprintf(sh.out, "note: %s is already on the watched list, adding again\n", detail.IMDBID)
	}

	entry := watchlist.Entry{
		IMDBID:          detail.IMDBID,
		Title:           detail.Title,
		Year:            detail.Year,
		Poster:          detail.Poster,
		Runtime:         detail.RuntimeMinutes(),
		IMDBRating:      detail.Rating(),
		UserRating:      rating,
		RatingDecisions: decisions,
	}
	sh.watched.Update(func(list []watchlist.Entry) []watchlist.Entry {
		return watchlist.Add(list, entry)
	})

	fmt.Fprintf(sh.out, "added %s (%s) with rating %d\n", entry.Title, entry.IMDBID, rating)
	sh.detail.Clear()
}

// remove deletes a watched entry by imdbID.
func (sh *shell) remove(arg string) {
	if arg == "" {
		fmt.Fprintln(sh.out, "rm: expected an imdbID")
		return
	}
	sh.watched.Update(func(list []watchlist.Entry) []watchlist.Entry {
		return watchlist.Remove(list, arg)
	})
	fmt.Fprintf(sh.out, "removed %s\n", arg)
}

// list prints the watched collection.
func (sh *shell) list() {
	list := sh.watched.Get()
	if len(list) == 0 {
		fmt.Fprintln(sh.out, "watched list is empty")
		return
	}
	for _, e := range list {
		fmt.Fprintf(sh.out, "  %s  %s (%s)  imdb %.1f  you %d  %d min\n",
			e.IMDBID, e.Title, e.Year, e.IMDBRating, e.UserRating, e.Runtime)
	}
}

// stats prints the aggregate summary.
func (sh *shell) stats() {
	s := watchlist.Summarize(sh.watched.Get())
	fmt.Fprintf(sh.out, "%d movies watched — imdb %.1f, your rating %.1f, %.0f min\n",
		s.Count,
		watchlist.Round1(s.AvgIMDBRating),
		watchlist.Round1(s.AvgUserRating),
		watchlist.Round0(s.AvgRuntime),
	)
}

func (sh *shell) help() {
	fmt.Fprintln(sh.out, `commands:
  <text>       search for a title (3+ characters)
  open <n>     open the nth result
  rate <1-10>  rate the open movie
  add          save the rated movie to the watched list
  rm <imdbID>  remove a watched entry
  list         show the watched list
  stats        show watched aggregates
  esc          close the detail view
  quit         exit`)
}

// renderSearch prints search state transitions.
func (sh *shell) renderSearch(snap session.Snapshot) {
	switch snap.Status {
	case session.StatusLoading:
		fmt.Fprintln(sh.out, "searching…")
	case session.StatusError:
		fmt.Fprintln(sh.out, snap.ErrMsg)
	case session.StatusSuccess:
		for i, m := range snap.Results {
			fmt.Fprintf(sh.out, "  %2d. %s (%s)\n", i+1, m.Title, m.Year)
		}
	}
}

// renderDetail prints detail state transitions.
func (sh *shell) renderDetail(snap session.DetailSnapshot) {
	switch snap.Status {
	case session.StatusLoading:
		fmt.Fprintln(sh.out, "loading…")
	case session.StatusError:
		fmt.Fprintln(sh.out, snap.ErrMsg)
	case session.StatusSuccess:
		d := snap.Detail
		fmt.Fprintf(sh.out, "%s (%s) — %s, %s\n", d.Title, d.Year, d.Runtime, d.Genre)
		fmt.Fprintf(sh.out, "  %s\n", d.Plot)
		fmt.Fprintf(sh.out, "  imdb %s — %s — directed by %s\n", d.IMDBRating, d.Actors, d.Director)
	}
}

// setTerminalTitle sets the terminal window title via the xterm escape.
func (sh *shell) setTerminalTitle(title string) {
	fmt.Fprintf(sh.out, "\x1b]0;%s\x07", title)
}

func (sh *shell) close() {
	sh.search.Close()
	sh.detail.Close()
	sh.binder.Close()
}
