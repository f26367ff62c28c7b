package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bcflow/internal/bc"
	"bcflow/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
)

var doctorDump *string

func init() {
	doctorDump = doctorCmd.Flags().String("dump", "", "Write every http exchange of the probes to this directory.")
	rootCmd.AddCommand(doctorCmd)
}

type check struct {
	name   string
	ok     bool
	detail string
}

func checkBrowser(a *app) check {
	if a.cfg.Browser.DebuggerURL != "" {
		return check{name: "browser", ok: true, detail: "connecting to " + a.cfg.Browser.DebuggerURL}
	}
	if a.cfg.Browser.Bin != "" {
		return check{name: "browser", ok: true, detail: a.cfg.Browser.Bin}
	}
	path, found := launcher.LookPath()
	if !found {
		return check{name: "browser", ok: true, detail: "no chromium found, one will be downloaded on first run"}
	}
	return check{name: "browser", ok: true, detail: path}
}

func checkCredentials(a *app) check {
	err := a.cfg.Credentials().Validate()
	if err != nil {
		return check{name: "credentials", detail: "set BCFLOW_EMAIL and BCFLOW_PASSWORD (or EMAIL and PASSWORD)"}
	}
	return check{name: "credentials", ok: true, detail: a.cfg.Credentials().Email}
}

func checkHost(ctx context.Context) check {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return check{name: "host", detail: err.Error()}
	}
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return check{name: "host", detail: err.Error()}
	}
	// a headful chromium on a web client page wants roughly a gigabyte
	const minAvailable = 1 << 30
	return check{
		name: "host",
		ok:   vmem.Available >= minAvailable,
		detail: fmt.Sprintf(
			"%s %s %s, %d MB of %d MB memory available",
			info.Hostname, info.Platform, info.PlatformVersion,
			vmem.Available>>20, vmem.Total>>20,
		),
	}
}

// checkStrayBrowsers looks for chromium processes left behind by runs that
// were killed before they could close their browser.
func checkStrayBrowsers(ctx context.Context) check {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return check{name: "stray browsers", detail: err.Error()}
	}
	count := 0
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		name = strings.ToLower(name)
		if !strings.Contains(name, "chrom") {
			continue
		}
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || !strings.Contains(cmdline, "--remote-debugging-port") {
			continue
		}
		count++
	}
	if count > 0 {
		return check{name: "stray browsers", detail: fmt.Sprintf("%d automated chromium processes are running", count)}
	}
	return check{name: "stray browsers", ok: true, detail: "none"}
}

func checkReachable(ctx context.Context, a *app, client *resty.Client, name, target string) check {
	res, err := bc.Probe(ctx, client, target, a.tel)
	if err != nil {
		return check{name: name, detail: err.Error()}
	}
	return check{
		name:   name,
		ok:     true,
		detail: fmt.Sprintf("%d in %s", res.Status, res.Latency.Round(time.Millisecond)),
	}
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Checks that workflows can run on this machine.",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp(cmd)
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 45*time.Second)
		defer cancel()

		client := resty.New().SetTimeout(15 * time.Second)
		var output restyutil.Output
		if *doctorDump != "" {
			dir, err := restyutil.NewDirOutput(*doctorDump)
			if err != nil {
				a.tel.ReportWarning("doctor.dump", err)
			} else {
				output = dir
			}
		}
		restyutil.Instrument(client, nil, output)

		checks := []check{
			checkCredentials(a),
			checkBrowser(a),
			checkHost(ctx),
			checkStrayBrowsers(ctx),
			checkReachable(ctx, a, client, "sign in page", a.cfg.BC.LoginURL),
			checkReachable(ctx, a, client, "web client", a.cfg.BC.BaseURL),
		}
		for _, name := range a.cfg.BC.PageNames() {
			target, err := a.cfg.BC.PageURL(name)
			if err != nil {
				checks = append(checks, check{name: "page " + name, detail: err.Error()})
				continue
			}
			checks = append(checks, check{name: "page " + name, ok: true, detail: target})
		}

		t := newTable()
		t.AppendHeader(table.Row{"Check", "OK", "Detail"})
		failed := 0
		for _, c := range checks {
			mark := "yes"
			if !c.ok {
				mark = "no"
				failed++
			}
			t.AppendRow(table.Row{c.name, mark, c.detail})
		}
		t.Render()

		if failed > 0 {
			a.Close()
			fatal("doctor found problems", fmt.Errorf("%d checks failed", failed))
		}
	},
}
