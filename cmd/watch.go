package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/config"
	"github.com/chargefront/chargefront/internal/domain"
	"github.com/chargefront/chargefront/internal/format"
	"github.com/chargefront/chargefront/internal/state"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor connector status changes in real-time",
	Long: `Monitor connector status changes in real-time.

USAGE:
    chargefront watch [OPTIONS]

OPTIONS:
    --search <text>      Free-text search
    --site-area <id>     Filter by site area ID
    --interval <secs>    Poll interval (default: refresh_medium_millis)

Polls the charging station list and prints one line per connector status
transition. Press Ctrl+C to stop. On backend errors polling temporarily
drops to the refresh_on_error_millis interval until a poll succeeds.`,
	RunE: runWatch,
}

var (
	watchSearch   string
	watchSiteArea string
	watchInterval float64
)

// WatchOptions holds all parameters for watching connector status.
type WatchOptions struct {
	Search   string
	SiteArea string
	// Interval is the polling interval.
	Interval time.Duration
	// ErrorInterval is the polling interval while the backend is failing.
	ErrorInterval time.Duration
	// Output is where transitions are written (default os.Stdout).
	Output io.Writer
	// TickChan is an optional tick source for testing. If nil, a ticker
	// with Interval is created.
	TickChan <-chan time.Time
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchSearch, "search", "", "Free-text search")
	watchCmd.Flags().StringVar(&watchSiteArea, "site-area", "", "Filter by site area ID")
	watchCmd.Flags().Float64Var(&watchInterval, "interval", 0, "Poll interval in seconds")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireSession(); err != nil {
		return err
	}

	interval := time.Duration(config.GetInt("refresh_medium_millis", 10000)) * time.Millisecond
	if watchInterval > 0 {
		interval = time.Duration(watchInterval * float64(time.Second))
	}
	opts := WatchOptions{
		Search:        watchSearch,
		SiteArea:      watchSiteArea,
		Interval:      interval,
		ErrorInterval: time.Duration(config.GetInt("refresh_on_error_millis", 2000)) * time.Millisecond,
		Output:        cmd.OutOrStdout(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watch(ctx, a, opts)
}

// watch polls the charging station list and prints connector status
// transitions until the context is canceled.
func watch(ctx context.Context, a *app, opts WatchOptions) error {
	filters := state.NewFilterState(screenChargers)
	if opts.SiteArea != "" {
		filters.SetFilter(domain.FilterSiteAreaID, opts.SiteArea)
	}

	var loadErr error
	list := state.NewPagedList(100, loadChargers(a, filters), func(err error) { loadErr = err })
	list.SetSearch(opts.Search)

	known := make(map[string]domain.ConnectorStatus)
	degraded := false

	var sched *state.Scheduler
	refresh := func(ctx context.Context) {
		loadErr = nil
		list.Refresh(ctx)
		if !sched.Mounted() {
			return
		}
		if loadErr != nil {
			colors.Warning("poll failed: " + loadErr.Error())
			if !degraded {
				degraded = true
				sched.Start(opts.ErrorInterval)
			}
			return
		}
		if degraded {
			degraded = false
			sched.Start(opts.Interval)
		}
		printTransitions(opts.Output, list.Items(), known)
	}

	var schedOpts []state.SchedulerOption
	if opts.TickChan != nil {
		schedOpts = append(schedOpts, state.WithTickChan(opts.TickChan))
	}
	sched = state.NewScheduler(refresh, schedOpts...)

	// Initial poll before the first tick.
	sched.TryRefresh(ctx)
	sched.Start(opts.Interval)
	defer sched.Unmount()

	<-ctx.Done()
	return nil
}

// printTransitions diffs the fetched connector statuses against the known
// map and prints one line per change, updating the map in place.
func printTransitions(w io.Writer, chargers []domain.ChargingStation, known map[string]domain.ConnectorStatus) {
	now := time.Now().Format("15:04:05")
	for _, charger := range chargers {
		for _, connector := range charger.Connectors {
			key := charger.ID + "/" + domain.ConnectorLetterFromID(connector.ID)
			previous, seen := known[key]
			if seen && previous == connector.Status {
				continue
			}
			known[key] = connector.Status
			if !seen {
				fmt.Fprintf(w, "[%s] %s %s%s%s\n", now, key,
					format.StatusColor(connector.Status), connector.Status, colors.Reset)
				continue
			}
			fmt.Fprintf(w, "[%s] %s %s -> %s%s%s\n", now, key,
				previous, format.StatusColor(connector.Status), connector.Status, colors.Reset)
		}
	}
}
