package formatting

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadFormat ввод пользователя не разобран
var ErrBadFormat = errors.New("bad format")

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateWithWeekday 01.01.2024 (Пн)
func FormatDateWithWeekday(t time.Time) string {
	return fmt.Sprintf("%s (%s)", t.Format("02.01.2006"), GetWeekdayShortName(int(t.Weekday())))
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday int) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}

// ParseDate разбирает "ДД.ММ" или "ДД.ММ.ГГГГ", а также "сегодня" и "завтра".
// Без года берётся ближайшая такая дата не раньше today.
func ParseDate(text string, today time.Time) (time.Time, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	loc := today.Location()
	base := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	switch text {
	case "сегодня", "today":
		return base, nil
	case "завтра", "tomorrow":
		return base.AddDate(0, 0, 1), nil
	}

	if d, err := time.ParseInLocation("02.01.2006", text, loc); err == nil {
		return d, nil
	}

	d, err := time.ParseInLocation("02.01", text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrBadFormat, text)
	}
	d = time.Date(base.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	if d.Before(base) {
		d = d.AddDate(1, 0, 0)
	}
	return d, nil
}

// ParseTimeRange разбирает "18:00-19:30" в интервал внутри date.
// Конец "24:00" или "00:00" означает полночь следующего дня.
func ParseTimeRange(text string, date time.Time) (time.Time, time.Time, error) {
	text = strings.NewReplacer(" ", "", "–", "-", "—", "-").Replace(text)
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: time range %q", ErrBadFormat, text)
	}

	start, err := clockOn(parts[0], date, false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := clockOn(parts[1], date, true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func clockOn(text string, date time.Time, isEnd bool) (time.Time, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if isEnd && (text == "24:00" || text == "00:00") {
		return day.AddDate(0, 0, 1), nil
	}

	t, err := time.Parse("15:04", text)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrBadFormat, text)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// ParseDateRange разбирает "01.01.2024-07.01.2024", конец включительно.
// Возвращает полуоткрытый интервал [from, to).
func ParseDateRange(text string, loc *time.Location) (time.Time, time.Time, error) {
	text = strings.NewReplacer(" ", "", "–", "-", "—", "-").Replace(text)
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date range %q", ErrBadFormat, text)
	}

	from, err := time.ParseInLocation("02.01.2006", parts[0], loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date %q", ErrBadFormat, parts[0])
	}
	to, err := time.ParseInLocation("02.01.2006", parts[1], loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date %q", ErrBadFormat, parts[1])
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range end before start", ErrBadFormat)
	}
	return from, to.AddDate(0, 0, 1), nil
}
