// Package demo pads and unpads each input with PKCS#7 and prints the results.
package demo

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chenjie199234/pkcs7/cerror"
	"github.com/chenjie199234/pkcs7/cotel"
	"github.com/chenjie199234/pkcs7/secure"
	"github.com/chenjie199234/pkcs7/util/common"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otrace "go.opentelemetry.io/otel/trace"
)

const Sample = "Criando meu Proprio Algoritmo de encriptação de Criptografia Teorico!"

// Run never fails,errors of a single input are logged and the next input goes on
func Run(ctx context.Context, w io.Writer, args []string) {
	fmt.Fprintf(w, "text has %d bytes\n", common.ByteLen(Sample))
	enc, e := secure.NewEncoder(secure.DefaultBlockSize)
	if e != nil {
		slog.ErrorContext(ctx, "[demo] create encoder failed", slog.Int("block_size", secure.DefaultBlockSize), slog.String("error", e.Error()))
		return
	}
	roundTrips(ctx, w, enc, args)
	//key and iv are generated but never used
	key, e := secure.MakeKey()
	if e != nil {
		slog.ErrorContext(ctx, "[demo] make key failed", slog.String("error", e.Error()))
		return
	}
	iv, e := secure.MakeIV()
	if e != nil {
		slog.ErrorContext(ctx, "[demo] make iv failed", slog.String("error", e.Error()))
		return
	}
	slog.DebugContext(ctx, "[demo] key and iv generated", slog.Int("key_len", len(key)), slog.Int("iv_len", len(iv)))
}

func roundTrips(ctx context.Context, w io.Writer, enc *secure.Encoder, args []string) {
	for _, arg := range args {
		if line, e := RoundTrip(ctx, enc, arg); e != nil {
			slog.ErrorContext(ctx, "[demo] round trip failed",
				slog.String("input", arg),
				slog.Int64("code", cerror.GetCodeFromStdError(e)),
				slog.String("error", e.Error()))
		} else {
			io.WriteString(w, line)
		}
	}
}

// RoundTrip encodes then decodes arg and returns the printed line
func RoundTrip(ctx context.Context, enc *secure.Encoder, arg string) (line string, e error) {
	ctx, span := cotel.Start(ctx, "pkcs7.roundtrip", otrace.WithAttributes(
		attribute.Int("block_size", enc.BlockSize()),
		attribute.Int("input_len", len(arg))))
	defer func() {
		if e != nil {
			span.RecordError(e)
			span.SetStatus(codes.Error, e.Error())
		}
		span.End()
	}()
	padded, e := enc.Encode(common.STB(arg))
	cotel.RecordPadding(ctx, "encode", len(padded)-len(arg), e)
	if e != nil {
		return "", e
	}
	decoded, e := enc.Decode(padded)
	cotel.RecordPadding(ctx, "decode", len(padded)-len(decoded), e)
	if e != nil {
		return "", e
	}
	return fmt.Sprintf("[%q] encode -> [%q] decode -> [%q]\n", arg, padded, decoded), nil
}
