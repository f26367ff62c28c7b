package main

import (
	"bcflow/cmd/bcflow/commands"
	"bcflow/lib/osutil"
)

func main() {
	ctx, cancel := osutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
