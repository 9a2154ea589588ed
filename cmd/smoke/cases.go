// README: Smoke cases; environment checks, the reference route scenarios, and a short load run.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

// routeBody is the subset of the /api/routes response the checks read.
type routeBody struct {
	Routes []struct {
		Kind       string `json:"kind"`
		Accessible bool   `json:"isWheelchairAccessible"`
		Score      int    `json:"score"`
		Scores     struct {
			Comfort int `json:"comfort"`
		} `json:"scores"`
		Segments []struct {
			Mode string `json:"mode"`
		} `json:"segments"`
	} `json:"routes"`
	Distance         float64 `json:"distance"`
	TransferRequired bool    `json:"transferRequired"`
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.DSN == "" {
					return Result{Status: statusSkip, Note: "dsn not set"}
				}
				if r.db == nil {
					return Result{Status: statusFail, Note: "could not open pool"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not set"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: statusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("%d tables", len(tables))}
			},
		},
		{
			Name: "API: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				code, body, err := r.get(ctx, "/health")
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if code != http.StatusOK || strings.TrimSpace(string(body)) != "OK" {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d body=%q", code, body)}
				}
				return Result{Status: statusPass, Latency: time.Since(start)}
			},
		},

		routeCase("Route: Flushing -> Times Square (speed) has a subway option",
			url.Values{"from": {"Flushing"}, "to": {"Times Square"}, "priority": {"speed"}},
			func(b routeBody) string {
				if b.Distance < 9 || b.Distance > 12 {
					return fmt.Sprintf("distance=%.2f", b.Distance)
				}
				for _, rt := range b.Routes {
					for _, s := range rt.Segments {
						if s.Mode == "subway" {
							return ""
						}
					}
				}
				return "no route uses the subway"
			}),

		routeCase("Route: Staten Island -> Manhattan uses express bus or ferry",
			url.Values{"from": {"Staten Island"}, "to": {"Manhattan"}},
			func(b routeBody) string {
				found := false
				for _, rt := range b.Routes {
					switch rt.Kind {
					case "bus":
						return "local bus offered across the harbor"
					case "express_bus", "ferry":
						found = true
					}
				}
				if !found {
					return "no express bus or ferry"
				}
				if !b.TransferRequired {
					return "transferRequired=false"
				}
				return ""
			}),

		routeCase("Route: wheelchair returns only accessible routes",
			url.Values{"from": {"Brooklyn"}, "to": {"Bronx"}, "wheelchair": {"true"}},
			func(b routeBody) string {
				for _, rt := range b.Routes {
					if !rt.Accessible {
						return "inaccessible route: " + rt.Kind
					}
				}
				return ""
			}),

		{
			Name: "Route: bags lower walk comfort (comfort priority)",
			Run: func(ctx context.Context, r *Runner) Result {
				base := url.Values{"from": {"Central Park"}, "to": {"Times Square"}, "priority": {"comfort"}}
				light, err := r.routes(ctx, base, "0")
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				heavy, err := r.routes(ctx, base, "3")
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for kind, c0 := range walkComfort(light) {
					if c3, ok := walkComfort(heavy)[kind]; ok {
						if c3 >= c0 {
							return Result{Status: statusFail, Note: fmt.Sprintf("%s comfort %d -> %d", kind, c0, c3)}
						}
						return Result{Status: statusPass, Note: fmt.Sprintf("%s comfort %d -> %d", kind, c0, c3)}
					}
				}
				return Result{Status: statusFail, Note: "no walk-containing route in both responses"}
			},
		},

		statusCase("Route: missing origin -> 400", "/api/routes?to=Times+Square", http.StatusBadRequest),
		statusCase("Route: missing destination -> 400", "/api/routes?from=Flushing", http.StatusBadRequest),
		statusCase("Route: bad priority -> 400", "/api/routes?from=a&to=b&priority=fastest", http.StatusBadRequest),

		{
			Name: "API: metrics exposed",
			Run: func(ctx context.Context, r *Runner) Result {
				code, body, err := r.get(ctx, "/metrics")
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if code != http.StatusOK || !strings.Contains(string(body), "routebee_http_requests_total") {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", code)}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Perf: /api/routes load",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.Duration <= 0 {
					return Result{Status: statusSkip, Note: "duration=0"}
				}
				return perfLoad(ctx, r, "/api/routes?from=Flushing&to=Times+Square")
			},
		},
	}
}

func (r *Runner) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func (r *Runner) routes(ctx context.Context, q url.Values, bags string) (routeBody, error) {
	q = cloneValues(q)
	q.Set("bags", bags)
	code, body, err := r.get(ctx, "/api/routes?"+q.Encode())
	if err != nil {
		return routeBody{}, err
	}
	if code != http.StatusOK {
		return routeBody{}, fmt.Errorf("status=%d", code)
	}
	var b routeBody
	err = json.Unmarshal(body, &b)
	return b, err
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// walkComfort maps route kind to its comfort sub-score for routes with a walk leg.
func walkComfort(b routeBody) map[string]int {
	out := map[string]int{}
	for _, rt := range b.Routes {
		for _, s := range rt.Segments {
			if s.Mode == "walk" {
				out[rt.Kind] = rt.Scores.Comfort
				break
			}
		}
	}
	return out
}

// routeCase expects a 200 and hands the decoded body to check, which returns
// an empty string on success.
func routeCase(name string, q url.Values, check func(routeBody) string) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			code, body, err := r.get(ctx, "/api/routes?"+q.Encode())
			latency := time.Since(start)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			if code != http.StatusOK {
				return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d", code)}
			}
			var b routeBody
			if err := json.Unmarshal(body, &b); err != nil {
				return Result{Status: statusFail, Latency: latency, Note: err.Error()}
			}
			if len(b.Routes) == 0 {
				return Result{Status: statusFail, Latency: latency, Note: "no routes"}
			}
			if msg := check(b); msg != "" {
				return Result{Status: statusFail, Latency: latency, Note: msg}
			}
			return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("routes=%d", len(b.Routes))}
		},
	}
}

func statusCase(name, path string, want int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			code, _, err := r.get(ctx, path)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			if code != want {
				return Result{Status: statusFail, Latency: time.Since(start), Note: fmt.Sprintf("status=%d want=%d", code, want)}
			}
			return Result{Status: statusPass, Latency: time.Since(start)}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, path string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				code, _, err := r.get(ctx, path)
				if err != nil || code != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
