package styles

// Symbols mark the status of a diagnostic line.
type Symbols struct {
	OK   string
	Warn string
	Fail string
	Info string
}

var (
	unicodeSymbols = Symbols{OK: "✓", Warn: "!", Fail: "✗", Info: "·"}
	asciiSymbols   = Symbols{OK: "ok", Warn: "!!", Fail: "XX", Info: "--"}
)

var currentSymbols = unicodeSymbols

// SetASCII switches to symbols that survive dumb terminals and logs.
func SetASCII(enabled bool) {
	if enabled {
		currentSymbols = asciiSymbols
	} else {
		currentSymbols = unicodeSymbols
	}
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}
