package bc

import (
	"context"
	"fmt"
	"time"

	"bcflow/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

const report_probe = "probe"

type ProbeResult struct {
	URL     string
	Status  int
	Latency time.Duration
}

// Probe checks that the web client answers over http before a browser is
// launched for it. Any status below 500 counts as reachable, the sign in
// redirect included.
func Probe(ctx context.Context, client *resty.Client, target string, tel telemetry.API) (ProbeResult, error) {
	ctx, span := tracer.Start(ctx, "Probe")
	defer span.End()

	if client == nil {
		client = resty.New().SetTimeout(15 * time.Second)
	}
	start := time.Now()
	res, err := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(target)
	latency := time.Since(start)
	if err != nil {
		tel.ReportWarning(report_probe, target, err)
		return ProbeResult{URL: target, Latency: latency}, fmt.Errorf("probe %s: %w", target, err)
	}
	if body := res.RawBody(); body != nil {
		body.Close()
	}

	result := ProbeResult{URL: target, Status: res.StatusCode(), Latency: latency}
	if res.StatusCode() >= 500 {
		tel.ReportWarning(report_probe, target, res.Status())
		return result, fmt.Errorf("probe %s: server answered %s", target, res.Status())
	}
	tel.ReportDebug("probe succeeded", target, res.StatusCode(), latency.String())
	return result, nil
}
