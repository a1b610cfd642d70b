package log

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
)

var ErrLevelEnv = errors.New("[log] os env LOG_LEVEL error,must in [debug,info(default),warning,error]")

// LOG_LEVEL: debug,info(default),warning,error
func getlevel() (slog.Level, error) {
	str := strings.TrimSpace(strings.ToLower(os.Getenv("LOG_LEVEL")))
	level, ok := parselevel(str)
	if !ok {
		return slog.LevelInfo, ErrLevelEnv
	}
	return level, nil
}

func parselevel(str string) (slog.Level, bool) {
	switch str {
	case "debug":
		return slog.LevelDebug, true
	case "<log_level>":
		//default info
		fallthrough
	case "":
		//default info
		fallthrough
	case "info":
		return slog.LevelInfo, true
	case "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

// Init sets the default slog logger,output to w(normally os.Stderr) in json
// when os env LOG_LEVEL is wrong,info level is used and the error is returned
func Init(w io.Writer) error {
	level, e := getlevel()
	slog.SetDefault(New(w, level))
	return e
}

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && attr.Key == "function" {
				return slog.Attr{}
			}
			if len(groups) == 0 && attr.Key == slog.SourceKey {
				if s, ok := attr.Value.Any().(*slog.Source); ok {
					if index := strings.Index(s.File, "pkcs7@v"); index != -1 {
						s.File = s.File[index:]
					} else if index = strings.Index(s.File, "pkcs7/"); index != -1 {
						s.File = s.File[index:]
					}
				}
			}
			return attr
		}}).WithGroup("msg_kvs"))
}
