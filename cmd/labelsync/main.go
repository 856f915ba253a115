package main

import (
	"context"
	"log"
	"os"

	_ "golang.org/x/crypto/x509roots/fallback"
	"golang.org/x/term"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"labelsync/internal/cmd"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(logOptions()),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	if err := cmd.Execute(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("labelsync command failed")
		return 1
	}
	return 0
}

// logOptions picks console output for an interactive stderr and JSON lines
// otherwise, so piped runs and containers get machine-readable logs.
func logOptions() pslog.Options {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return pslog.Options{Mode: pslog.ModeConsole}
	}
	return pslog.Options{Mode: pslog.ModeStructured, NoColor: true}
}
