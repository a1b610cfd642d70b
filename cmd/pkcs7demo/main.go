package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/chenjie199234/pkcs7/cerror"
	"github.com/chenjie199234/pkcs7/cotel"
	"github.com/chenjie199234/pkcs7/demo"
	"github.com/chenjie199234/pkcs7/log"
)

// exit code is always 0
func main() {
	run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) {
	if e := log.Init(stderr); e != nil {
		slog.Error("[main] init log failed,use info level", slog.String("error", e.Error()))
	}
	if e := cotel.Init("pkcs7demo"); e != nil {
		//telemetry is optional,go on without it
		slog.Error("[main] init telemetry failed", slog.Int64("code", cerror.GetCodeFromStdError(e)), slog.String("error", e.Error()))
	}
	demo.Run(context.Background(), stdout, args)
	//must before Stop,the prometheus reader can't be collected after shutdown
	if e := cotel.WritePrometheus(stderr); e != nil {
		slog.Error("[main] write prometheus metrics failed", slog.String("error", e.Error()))
	}
	cotel.Stop()
}
