package format

import "golang.org/x/text/language"

type calendarNames struct {
	shortMonths, longMonths     [12]string
	shortWeekdays, longWeekdays [7]string
	ampm                        [2]string
}

func (n *calendarNames) months(width int) []string {
	if width >= 4 {
		return n.longMonths[:]
	}
	return n.shortMonths[:]
}

func (n *calendarNames) weekdays(width int) []string {
	if width >= 4 {
		return n.longWeekdays[:]
	}
	return n.shortWeekdays[:]
}

var enNames = calendarNames{
	shortMonths:   [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	longMonths:    [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	shortWeekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	longWeekdays:  [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	ampm:          [2]string{"AM", "PM"},
}

var jaNames = calendarNames{
	shortMonths:   [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
	longMonths:    [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
	shortWeekdays: [7]string{"日", "月", "火", "水", "木", "金", "土"},
	longWeekdays:  [7]string{"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"},
	ampm:          [2]string{"午前", "午後"},
}

var nameMatcher = language.NewMatcher([]language.Tag{language.English, language.Japanese})

func namesFor(tag language.Tag) *calendarNames {
	if _, i, _ := nameMatcher.Match(tag); i == 1 {
		return &jaNames
	}
	return &enNames
}
