package smoketest

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	medhttp "github.com/aukilabs/medtouch/http"
	"github.com/aukilabs/medtouch/models"
	"github.com/segmentio/encoding/json"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Options struct {
	// The screen size trackers are created with.
	Screen models.ScreenSize

	// An optional function called with the results of each run.
	SendResult func(context.Context, SmokeTestResults) error
}

// SmokeTestRequest selects the scenarios to run. All scenarios run when none
// is named.
type SmokeTestRequest struct {
	Scenarios []string `json:"scenarios,omitempty"`
}

type ScenarioResult struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

type SmokeTestResults struct {
	Status    string           `json:"status"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Results   []ScenarioResult `json:"results"`
}

// Failed returns the names of the scenarios that failed.
func (r SmokeTestResults) Failed() []string {
	var names []string
	for _, res := range r.Results {
		if res.Status != StatusSuccess {
			names = append(names, res.Name)
		}
	}
	return names
}

func HandleSmokeTest(ctx context.Context, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			logs.Warn(errors.New("reading body failed").Wrap(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var req SmokeTestRequest
		if len(b) != 0 {
			if err := json.Unmarshal(b, &req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		}

		scenarios, err := selectScenarios(req.Scenarios)
		if err != nil {
			logs.Warn(err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		res := RunSmokeTest(ctx, opts.Screen, scenarios...)
		if res.Status != StatusSuccess {
			logs.WithTag("failed", res.Failed()).Warn(errors.New("smoke test failed"))
		}

		if opts.SendResult != nil {
			if err := opts.SendResult(ctx, res); err != nil {
				logs.Warn(errors.New("sending smoke test result failed").Wrap(err))
			}
		}

		medhttp.WriteJSON(w, http.StatusOK, res)
	}
}

// RunSmokeTest runs the given scenarios, each on a fresh unnamed tracker so
// that runs do not show up in the tracker metrics. It stops early when ctx is
// done, reporting the remaining scenarios as failed.
func RunSmokeTest(ctx context.Context, screen models.ScreenSize, scenarios ...Scenario) SmokeTestResults {
	res := SmokeTestResults{
		Status:    StatusSuccess,
		StartedAt: time.Now(),
		Results:   make([]ScenarioResult, 0, len(scenarios)),
	}

	for _, s := range scenarios {
		r := runScenario(ctx, screen, s)
		if r.Status != StatusSuccess {
			res.Status = StatusFailed
		}
		res.Results = append(res.Results, r)
	}

	res.Duration = time.Since(res.StartedAt)
	return res
}

func runScenario(ctx context.Context, screen models.ScreenSize, s Scenario) ScenarioResult {
	start := time.Now()
	res := ScenarioResult{
		Name:   s.Name,
		Status: StatusSuccess,
	}

	err := ctx.Err()
	if err == nil {
		var t *models.CursorTracker
		t, err = models.NewCursorTracker(s.MaxCursors, screen)
		if err == nil {
			err = s.Run(t)
			t.Reset()
		}
	}

	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
	}

	res.Duration = time.Since(start)
	return res
}

func selectScenarios(names []string) ([]Scenario, error) {
	all := Scenarios()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]Scenario, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}

	scenarios := make([]Scenario, 0, len(names))
	for _, n := range names {
		s, ok := byName[n]
		if !ok {
			return nil, errors.New("unknown smoke test scenario").
				WithTag("scenario", n)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
