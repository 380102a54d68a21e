package zapemitter

// Configuration keys read by this backend in addition to the sink keys.
const (
	KeyFormat = "format"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Record keys written by the encoder. They follow the layout the rest of the
// platform already parses: unix seconds under "ts", lowercase level labels.
const (
	TimeKey    = "ts"
	LevelKey   = "level"
	MessageKey = "msg"
)
