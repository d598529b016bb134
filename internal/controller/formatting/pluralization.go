package formatting

func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeBookings возвращает правильное склонение слова "бронь"
func PluralizeBookings(count int) string {
	return pluralize(count, "бронь", "брони", "броней")
}

// PluralizeFields возвращает правильное склонение слова "поле"
func PluralizeFields(count int) string {
	return pluralize(count, "поле", "поля", "полей")
}
