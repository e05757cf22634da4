package recovery

import "fmt"

// Recovery log event keywords. "recieve" is the preserved on-disk
// misspelling; it must not be corrected.
const (
	EventHDRoot  = "hdroot"
	EventUnused  = "unused"
	EventPay     = "pay"
	EventRecieve = "recieve"
	EventChange  = "change"
	EventMining  = "mining"
)

// FormatLine renders a recovery log line: "<unix-seconds> <event> <payload>".
func FormatLine(timestamp int64, event, payload string) string {
	return fmt.Sprintf("%d %s %s", timestamp, event, payload)
}

// FormatRootLine renders the line written once, at root creation:
// "<timestamp> hdroot <hex> version=1".
func FormatRootLine(timestamp int64, rootHex string) string {
	return FormatLine(timestamp, EventHDRoot, fmt.Sprintf("%s version=%d", rootHex, 1))
}
