package weekstats

// WeekdayLabels follows the natural Google Fit week ordering, starting on Sunday.
var WeekdayLabels = [DaysInWeek]string{"S", "M", "T", "W", "T", "F", "S"}

// AlignDayLabels rotates the label template left by one when the week starts on Monday.
// Only the labels move; the bucket dates are not checked against them.
func AlignDayLabels(template [DaysInWeek]string, startOnMonday bool) [DaysInWeek]string {
	if !startOnMonday {
		return template
	}

	var aligned [DaysInWeek]string
	copy(aligned[:], template[1:])
	aligned[DaysInWeek-1] = template[0]
	return aligned
}
