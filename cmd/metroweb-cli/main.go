package main

import (
	"metroweb-extractor/cmd/metroweb-cli/commands"
	"metroweb-extractor/lib/telemetry"
	"metroweb-extractor/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "metroweb-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}
