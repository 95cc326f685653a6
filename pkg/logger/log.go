package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

type LogStatus int

const (
	VERBOSE LogStatus = iota
	DEBUG
	INFO
	SUCCESS
	NEW
	REMOVE
	STOP
	WARNING
	ERROR
	FATAL
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(INFO))
}

// SetMinLoggingLevel adjusts the minimum status a message must have
// to be printed. Messages below this level are silently dropped.
func SetMinLoggingLevel(level LogStatus) {
	minLevel.Store(int32(level))
}

func (e LogStatus) Level() LogStatus { return e }

var levelNames = map[string]LogStatus{
	"VERBOSE": VERBOSE,
	"DEBUG":   DEBUG,
	"INFO":    INFO,
	"WARNING": WARNING,
	"ERROR":   ERROR,
}

// ParseLevel returns the status with the given (case-insensitive) name. Only
// the levels which make sense as a minimum logging level are accepted.
func ParseLevel(name string) (LogStatus, error) {
	if level, ok := levelNames[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return level, nil
	}

	return INFO, fmt.Errorf("unknown log level '%s'", name)
}

func (e LogStatus) String() string {
	return []string{
		"V",
		"D",
		"I",
		"✓",
		"+",
		"-",
		"X",
		"!",
		"!!",
		"PANIC",
	}[e]
}

func (e LogStatus) Color() *color.Color {
	return []*color.Color{
		color.New(color.FgWhite, color.Italic),                //Verbose
		color.New(color.FgWhite, color.Italic),                //Debug
		color.New(color.FgWhite),                              //Info
		color.New(color.FgHiGreen),                            //Success
		color.New(color.FgGreen, color.Italic),                //New
		color.New(color.FgYellow, color.Italic),               //Remove
		color.New(color.FgHiYellow),                           //Stop
		color.New(color.FgYellow, color.Underline),            //Warning
		color.New(color.FgHiRed, color.Bold),                  //Error
		color.New(color.FgHiRed, color.Bold, color.Underline), //PANIC
	}[e]
}

// Logger is a named logger. The Printf and Fatalf methods allow a Logger to
// be handed to libraries which expect a stdlib-like logger (e.g. goose).
type Logger interface {
	Emit(LogStatus, string, ...any)
	Verbosef(string, ...any)
	Debugf(string, ...any)
	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
	Printf(string, ...any)
	Fatalf(string, ...any)
}

type loggerImpl struct {
	name string
}

func (l *loggerImpl) Emit(status LogStatus, message string, interpolations ...any) {
	Log.Emit(status, l.name, message, interpolations...)
}

func (l *loggerImpl) Verbosef(message string, args ...any) { l.Emit(VERBOSE, message, args...) }
func (l *loggerImpl) Debugf(message string, args ...any)   { l.Emit(DEBUG, message, args...) }
func (l *loggerImpl) Infof(message string, args ...any)    { l.Emit(INFO, message, args...) }
func (l *loggerImpl) Warnf(message string, args ...any)    { l.Emit(WARNING, message, args...) }
func (l *loggerImpl) Errorf(message string, args ...any)   { l.Emit(ERROR, message, args...) }
func (l *loggerImpl) Printf(message string, args ...any)   { l.Emit(INFO, withNewline(message), args...) }

func (l *loggerImpl) Fatalf(message string, args ...any) {
	l.Emit(FATAL, withNewline(message), args...)
	os.Exit(1)
}

type LoggerManager interface {
	GetLogger(string) Logger
	Emit(LogStatus, string, string, ...any)
}

var Log LoggerManager = &loggerMgr{offset: 0}

type loggerMgr struct {
	sync.Mutex
	offset int
}

func (l *loggerMgr) GetLogger(name string) Logger {
	return &loggerImpl{name: name}
}

func (l *loggerMgr) Emit(status LogStatus, name string, message string, interpolations ...any) {
	if int32(status) < minLevel.Load() {
		return
	}

	l.Lock()
	defer l.Unlock()

	l.setNameOffset(len(name))
	padding := strings.Repeat(" ", l.offset-len(name))
	msg := fmt.Sprintf("[%s] %s(%s) %s", name, padding, status, fmt.Sprintf(message, interpolations...))

	status.Color().Print(msg)
}

func (l *loggerMgr) setNameOffset(offset int) {
	if offset > l.offset {
		l.offset = offset
	}
}

func withNewline(message string) string {
	if strings.HasSuffix(message, "\n") {
		return message
	}

	return message + "\n"
}

func Get(name string) Logger {
	return Log.GetLogger(name)
}
