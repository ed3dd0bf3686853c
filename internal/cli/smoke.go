package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"activityapi/internal/client"
	"activityapi/internal/shared"
)

// SmokeResult is one check of the smoke run.
type SmokeResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type smokeCheck struct {
	name string
	run  func(ctx context.Context, c *client.Client) error
}

func NewSmokeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Exercise every endpoint against a live server",
		Long: `Exercise every endpoint against a live server.

The run creates and then removes one status item, and appends one log entry.
It needs --token (or ADMIN_TOKEN) to match the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			results := RunSmoke(cmd.Context(), opts.Client(), out.VerboseLog)

			failed := 0
			for _, r := range results {
				if !r.OK {
					failed++
				}
			}
			if err := out.Success(results, func(w io.Writer) {
				// Colour only when w is a terminal.
				re := lipgloss.NewRenderer(w)
				pass := re.NewStyle().Foreground(lipgloss.Color("2")).Render("ok  ")
				fail := re.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render("FAIL")
				for _, r := range results {
					if r.OK {
						fmt.Fprintf(w, "%s %s\n", pass, r.Name)
					} else {
						fmt.Fprintf(w, "%s %s: %s\n", fail, r.Name, r.Error)
					}
				}
				fmt.Fprintf(w, "%d passed, %d failed\n", len(results)-failed, failed)
			}); err != nil {
				return err
			}
			if failed > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d smoke checks failed", failed))
			}
			return nil
		},
	}
}

// RunSmoke runs every check in order. Later checks still run after a
// failure, except that delete is skipped when create found no id.
func RunSmoke(ctx context.Context, c *client.Client, logf func(string, ...any)) []SmokeResult {
	var createdID int64
	title := "smoke " + strconv.FormatInt(time.Now().UnixNano(), 36)

	checks := []smokeCheck{
		{"GET /", func(ctx context.Context, c *client.Client) error {
			info, err := c.Info(ctx)
			if err != nil {
				return err
			}
			if info.Service == "" {
				return fmt.Errorf("missing service key")
			}
			return nil
		}},
		{"GET /status", func(ctx context.Context, c *client.Client) error {
			code, body, err := c.Raw(ctx, http.MethodGet, "/status", nil, false)
			if err := expectStatus(code, err, http.StatusOK); err != nil {
				return err
			}
			var raw map[string]json.RawMessage
			if err := json.Unmarshal(body, &raw); err != nil {
				return err
			}
			for _, sec := range shared.Sections {
				if _, ok := raw[string(sec)]; !ok {
					return fmt.Errorf("missing %s", sec)
				}
			}
			return nil
		}},
		{"POST /status (unauthorized)", func(ctx context.Context, c *client.Client) error {
			code, _, err := c.Raw(ctx, http.MethodPost, "/status", nil, false)
			return expectStatus(code, err, http.StatusUnauthorized)
		}},
		{"POST /status (create)", func(ctx context.Context, c *client.Client) error {
			if err := c.UpsertStatus(ctx, shared.StatusUpsertRequest{
				Section:     shared.Some(shared.SectionBuilding),
				Title:       shared.Some(title),
				Description: shared.Some("created by activity-admin smoke"),
				Position:    shared.Some(int64(0)),
			}); err != nil {
				return err
			}
			list, err := c.ListStatus(ctx)
			if err != nil {
				return err
			}
			for _, it := range list[shared.SectionBuilding] {
				if it.Title == title {
					createdID = it.ID
					return nil
				}
			}
			return fmt.Errorf("status not created")
		}},
		{"DELETE /status/:id", func(ctx context.Context, c *client.Client) error {
			if createdID == 0 {
				return fmt.Errorf("skipped: nothing was created")
			}
			return c.DeleteStatus(ctx, createdID)
		}},
		{"GET /logs", func(ctx context.Context, c *client.Client) error {
			code, body, err := c.Raw(ctx, http.MethodGet, "/logs", nil, false)
			if err := expectStatus(code, err, http.StatusOK); err != nil {
				return err
			}
			var entries []json.RawMessage
			if err := json.Unmarshal(body, &entries); err != nil || entries == nil {
				return fmt.Errorf("expected array")
			}
			return nil
		}},
		{"POST /logs (missing fields)", func(ctx context.Context, c *client.Client) error {
			code, _, err := c.Raw(ctx, http.MethodPost, "/logs", []byte(`{}`), true)
			return expectStatus(code, err, http.StatusBadRequest)
		}},
		{"POST /logs (authorized)", func(ctx context.Context, c *client.Client) error {
			return c.CreateLog(ctx, "tech", "activity-admin smoke run")
		}},
		{"GET /logs?limit=1", func(ctx context.Context, c *client.Client) error {
			entries, err := c.ListLogs(ctx, 1)
			if err != nil {
				return err
			}
			if len(entries) > 1 {
				return fmt.Errorf("expected at most 1 entry, got %d", len(entries))
			}
			return nil
		}},
		{"GET /unknown", func(ctx context.Context, c *client.Client) error {
			code, _, err := c.Raw(ctx, http.MethodGet, "/unknown-route", nil, false)
			return expectStatus(code, err, http.StatusNotFound)
		}},
	}

	results := make([]SmokeResult, 0, len(checks))
	for _, check := range checks {
		logf("running %s", check.name)
		res := SmokeResult{Name: check.name, OK: true}
		if err := check.run(ctx, c); err != nil {
			res.OK = false
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

func expectStatus(code int, err error, want int) error {
	if err != nil {
		return err
	}
	if code != want {
		return fmt.Errorf("expected status %d, got %d", want, code)
	}
	return nil
}
