package db

import _ "embed"

//go:embed schema.sql
var Schema string

type Status string

const (
	STATUS_RUNNING   Status = "running"
	STATUS_SUCCEEDED Status = "succeeded"
	STATUS_FAILED    Status = "failed"
)
