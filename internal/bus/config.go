package bus

// Names exported by the lrcshow-rs daemon. They are part of the wire
// protocol and must not change.
const (
	ServiceName     = "com.github.nikola_kocic.lrcshow_rs"
	LyricsPath      = "/com/github/nikola_kocic/lrcshow_rs/Lyrics"
	LyricsInterface = ServiceName + ".Lyrics"
	DaemonPath      = "/com/github/nikola_kocic/lrcshow_rs/Daemon"
	DaemonInterface = ServiceName + ".Daemon"

	MethodGetCurrentLyrics         = LyricsInterface + ".GetCurrentLyrics"
	MethodGetCurrentLyricsPosition = LyricsInterface + ".GetCurrentLyricsPosition"

	SignalSegmentChanged = "ActiveLyricsSegmentChanged"
	SignalLyricsChanged  = "ActiveLyricsChanged"
)

// signalBuffer is the capacity of the channel godbus delivers signals on.
const signalBuffer = 64
