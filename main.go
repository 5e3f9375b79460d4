package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"collector/cmd"
	"collector/pkg/collect"
	"collector/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	switch {
	case err == nil, errors.Is(err, cmd.ErrHelpRequested):
	case collect.IsNoMatch(err):
		logging.Logger.Warn("collector found no matching files", zap.Error(err))
	default:
		logging.Logger.Error("collector execution failed", zap.Error(err))
	}
	syncLogger()

	if err != nil {
		return 1
	}
	return 0
}

// syncLogger flushes the logger when stderr can be synced at all.
func syncLogger() {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if syncErr := logging.Logger.Sync(); syncErr != nil {
		lowerErr := strings.ToLower(syncErr.Error())
		if !strings.Contains(lowerErr, "invalid argument") {
			log.Printf("Logger sync failed: %v", syncErr)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
