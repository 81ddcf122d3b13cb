// README: Smoke checks for the environment (DB, Redis, migration) and the HTTP API, plus a load check.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

const sessionHeader = "X-Session-ID"

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
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 60 * time.Second},
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
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
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
	base := r.cfg.BaseURL
	validTrip := map[string]any{
		"mode":           "distance",
		"distance_km":    150,
		"vehicle":        "Hatchback",
		"fuel":           "Petrol",
		"driving_style":  "Normal",
		"road_condition": "Mixed",
		"ac_on":          true,
	}
	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "quota database reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name:  "Env: Redis connect",
			Focus: "session store reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name:  "Migration: apply (optional)",
			Focus: "optionally apply migration SQL",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: StatusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name:  "Migration: tables exist",
			Focus: "tables from the migration file exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: StatusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: StatusPass}
			},
		},

		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}, nil),
		httpCaseMethod("API: trip options", http.MethodGet, base+"/api/trip/options", nil, []int{200}, nil),
		httpCaseMethod("API: current slot for new session", http.MethodGet, base+"/api/sessions/current", nil, []int{200}, nil),
		httpCaseMethod("API: quota", http.MethodGet, base+"/api/quota", nil, []int{200}, nil),

		// Validation never reaches the AI service.
		httpCase("Estimate: zero distance -> 400", base+"/api/estimates", map[string]any{
			"mode":        "distance",
			"distance_km": 0,
		}, []int{400}, nil),
		httpCase("Estimate: route missing destination -> 400", base+"/api/estimates", map[string]any{
			"mode":   "route",
			"origin": "Mumbai",
		}, []int{400}, nil),
		httpCase("Estimate: unknown vehicle -> 400", base+"/api/estimates", map[string]any{
			"mode":        "distance",
			"distance_km": 10,
			"vehicle":     "Rocket",
		}, []int{400}, nil),

		liveCase("Estimate: 150 km hatchback", func(ctx context.Context, r *Runner) Result {
			return r.estimateScenario(ctx, base, validTrip)
		}),
		liveCase("Session: overlapping submissions keep the latest", func(ctx context.Context, r *Runner) Result {
			return r.overlappingSubmits(ctx, base, validTrip)
		}),

		{
			Name:  "Perf: trip options load",
			Focus: "read-only endpoint throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/trip/options")
			},
		},
	}
}

func liveCase(name string, run func(ctx context.Context, r *Runner) Result) TestCase {
	return TestCase{
		Name:  name,
		Focus: "calls the AI service",
		Run: func(ctx context.Context, r *Runner) Result {
			if !r.cfg.Live {
				return Result{Status: StatusSkip, Note: "live=false"}
			}
			return run(ctx, r)
		},
	}
}

type outcome struct {
	Seq        int64 `json:"seq"`
	Superseded bool  `json:"superseded"`
	Result     *struct {
		TripDistanceKm  float64 `json:"tripDistanceKm"`
		PrimaryEstimate struct {
			VehicleType string `json:"vehicleType"`
		} `json:"primaryEstimate"`
	} `json:"result"`
}

type slot struct {
	Seq    int64  `json:"seq"`
	Status string `json:"status"`
}

func (r *Runner) estimateScenario(ctx context.Context, base string, body any) Result {
	start := time.Now()
	status, raw, err := r.postJSON(ctx, base+"/api/estimates", uuid.NewString(), body)
	latency := time.Since(start)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status == http.StatusServiceUnavailable {
		return Result{Status: StatusPending, Latency: latency, Note: "AI service not configured"}
	}
	if status != http.StatusOK {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
	}
	var out outcome
	if err := json.Unmarshal(raw, &out); err != nil || out.Result == nil {
		return Result{Status: StatusFail, Latency: latency, Note: "malformed response"}
	}
	if out.Result.TripDistanceKm != 150 || out.Result.PrimaryEstimate.VehicleType != "Hatchback" {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("distance=%v vehicle=%s",
			out.Result.TripDistanceKm, out.Result.PrimaryEstimate.VehicleType)}
	}
	return Result{Status: StatusPass, Latency: latency}
}

// overlappingSubmits fires several estimates for one session at once; the
// slot must end on the highest sequence number that was handed out.
func (r *Runner) overlappingSubmits(ctx context.Context, base string, body any) Result {
	n := r.cfg.Concurrency
	if n > 3 {
		n = 3
	}
	session := uuid.NewString()

	var mu sync.Mutex
	var maxSeq int64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, raw, err := r.postJSON(ctx, base+"/api/estimates", session, body)
			if err != nil || status != http.StatusOK {
				return
			}
			var out outcome
			if json.Unmarshal(raw, &out) != nil {
				return
			}
			mu.Lock()
			if out.Seq > maxSeq {
				maxSeq = out.Seq
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxSeq == 0 {
		return Result{Status: StatusPending, Note: "no submission succeeded"}
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/sessions/current", nil)
	req.Header.Set(sessionHeader, session)
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	defer resp.Body.Close()
	var cur slot
	if err := json.NewDecoder(resp.Body).Decode(&cur); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if cur.Seq < maxSeq || cur.Status == "in_flight" {
		return Result{Status: StatusFail, Note: fmt.Sprintf("slot seq=%d status=%s, latest=%d", cur.Seq, cur.Status, maxSeq)}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("seq=%d", cur.Seq)}
}

func (r *Runner) postJSON(ctx context.Context, url, session string, body any) (int, []byte, error) {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sessionHeader, session)
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	return resp.StatusCode, raw, err
}

func httpCase(name, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses, pendingStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = strings.NewReader(string(b))
			}
			req, _ := http.NewRequestWithContext(ctx, method, url, reader)
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			if contains(okStatuses, resp.StatusCode) {
				return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			}
			if contains(pendingStatuses, resp.StatusCode) {
				return Result{Status: StatusPending, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			}
			return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count int64
	var errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
				resp, err := r.httpc.Do(req)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
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
	cleaned := strings.Join(filtered, "\n")
	parts := strings.Split(cleaned, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
