package slot

// IsOverlapping сообщает, конфликтует ли candidate хотя бы с одним из existing.
//
// Сравниваются только слоты того же поля с той же локальной датой начала.
// Слоты, стыкующиеся границами (10:00-11:00 и 11:00-12:00), не конфликтуют.
// Собственный прежний интервал при обновлении брони вызывающий код должен исключить сам.
func IsOverlapping(candidate TimeSlot, existing []TimeSlot) bool {
	for _, other := range existing {
		if Conflicts(candidate, other) {
			return true
		}
	}
	return false
}

// Conflicts проверяет одну пару слотов
func Conflicts(a, b TimeSlot) bool {
	if a.FieldID != b.FieldID {
		return false
	}
	if !a.SameDate(b) {
		return false
	}
	return a.Overlaps(b)
}
