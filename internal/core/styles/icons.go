package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconCheck   = ""           //
	IconCross   = ""           //
	IconPending = ""           //
	IconSparkle = "\U000F09D0" // 󰧐
	IconWarning = ""           //
)
