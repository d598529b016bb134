package slot

import (
	"errors"
	"time"
)

// ErrEmptyInterval возвращается, когда конец интервала не позже начала
var ErrEmptyInterval = errors.New("end must be after start")

// TimeSlot полуоткрытый интервал [Start, End) на одном поле.
// Все сравнения по дате и часу идут в той локации, в которой заданы Start и End.
type TimeSlot struct {
	FieldID int64     `json:"field_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// New создаёт слот и проверяет, что End > Start
func New(fieldID int64, start, end time.Time) (TimeSlot, error) {
	if !end.After(start) {
		return TimeSlot{}, ErrEmptyInterval
	}
	return TimeSlot{FieldID: fieldID, Start: start, End: end}, nil
}

// Duration длительность слота
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Minutes длительность в целых минутах
func (s TimeSlot) Minutes() int {
	return int(s.Duration() / time.Minute)
}

// Date возвращает полночь локальной даты начала слота
func (s TimeSlot) Date() time.Time {
	y, m, d := s.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.Start.Location())
}

// SameDate проверяет, что оба слота начинаются в одну локальную дату
func (s TimeSlot) SameDate(other TimeSlot) bool {
	y1, m1, d1 := s.Start.Date()
	y2, m2, d2 := other.Start.In(s.Start.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Touches true, если слоты стыкуются границами
func (s TimeSlot) Touches(other TimeSlot) bool {
	return s.Start.Equal(other.End) || s.End.Equal(other.Start)
}

// Overlaps сравнивает только интервалы, без учёта поля и даты.
// Строгие неравенства: общий конец/начало пересечением не считается.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}

// EndsWithinDay true, если слот заканчивается не позже полуночи даты начала
func (s TimeSlot) EndsWithinDay() bool {
	return !s.End.After(s.Date().AddDate(0, 0, 1))
}
