package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	out     = log.New(os.Stderr, "", 0)
	verbose bool
)

// Init redirects output and toggles debug messages.
func Init(w io.Writer, debug bool) {
	mu.Lock()
	defer mu.Unlock()
	out = log.New(w, "", 0)
	verbose = debug
}

func Info(format string, args ...any) {
	sendLog("[*]", format, args...)
}

func Warn(format string, args ...any) {
	sendLog("[!]", format, args...)
}

func Error(format string, args ...any) {
	sendLog("[-]", format, args...)
}

func Success(format string, args ...any) {
	sendLog("[+++]", format, args...)
}

func Debug(format string, args ...any) {
	mu.RLock()
	on := verbose
	mu.RUnlock()
	if on {
		sendLog("[debug]", format, args...)
	}
}

func sendLog(prefix, format string, args ...any) {
	mu.RLock()
	l := out
	mu.RUnlock()
	l.Printf("%s %s", prefix, fmt.Sprintf(format, args...))
}

// LogWithErr logs message at info level, or at error level with err attached.
func LogWithErr(message string, err error) {
	if err == nil {
		Info("%s", message)
		return
	}
	Error("%s: %v", message, err)
}
