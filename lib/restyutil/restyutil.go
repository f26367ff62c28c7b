// Package restyutil traces resty requests and can keep a copy of every
// exchange on disk for debugging.
package restyutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

// Output receives one formatted request/response exchange per call.
type Output interface {
	Write(id string, contents string)
}

// DirOutput writes each exchange to <dir>/<id>.txt.
type DirOutput struct {
	dir string
}

func NewDirOutput(dir string) (DirOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return DirOutput{}, err
	}
	return DirOutput{dir: dir}, nil
}

func (o DirOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.dir, id+".txt"), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write http exchange", "id", id, "err", err.Error())
	}
}

type messageIDKey struct{}

type instrument struct {
	output    Output
	tracer    trace.Tracer
	idcounter *uint64
}

// Instrument starts a span for every request made by client. `tracer` can be
// nil, it will default to a library name of "resty". `output` can also be nil,
// in which case exchanges are only traced.
func Instrument(client *resty.Client, tracer trace.Tracer, output Output) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}
	var idcounter uint64
	i := instrument{output: output, tracer: tracer, idcounter: &idcounter}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrument) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), req.Method)
	messageID := strconv.FormatUint(atomic.AddUint64(i.idcounter, 1), 10)
	ctx = context.WithValue(ctx, messageIDKey{}, messageID)
	slog.DebugContext(ctx, "start request", "method", req.Method, "url", req.URL, "message_id", messageID)
	req.SetContext(ctx)
	return nil
}

func (i instrument) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// request attributes are only known here, RawRequest is nil before the request is sent
	span.SetName(fmt.Sprintf("http %s", res.Request.Method))
	if res.RawResponse != nil {
		span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	}
	if res.Request.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	}

	messageID, _ := ctx.Value(messageIDKey{}).(string)
	if i.output != nil {
		i.output.Write(messageID, formatExchange(res))
	}
	slog.DebugContext(
		ctx, "request finished",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"message_id", messageID,
	)
	return nil
}

func (i instrument) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
	span.SetName(fmt.Sprintf("http %s", req.Method))
	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	}

	messageID, _ := ctx.Value(messageIDKey{}).(string)
	slog.DebugContext(
		ctx, "request failed",
		"method", req.Method,
		"url", req.URL,
		"err", err.Error(),
		"message_id", messageID,
	)
}
