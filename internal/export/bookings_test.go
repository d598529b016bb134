package export

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	at := func(day, hour int) time.Time { return time.Date(2024, time.January, day, hour, 0, 0, 0, loc) }

	report := Report{
		From: at(1, 0),
		To:   at(8, 0),
		Bookings: []*model.Booking{
			{ID: 2, UserID: 20, FieldID: 1, StartTime: at(2, 18), EndTime: at(2, 20), Status: model.BookingStatusPaid, TotalAmount: 1200},
			{ID: 1, UserID: 10, FieldID: 1, StartTime: at(1, 13), EndTime: at(1, 15), Status: model.BookingStatusPending, TotalAmount: 800},
			{ID: 3, UserID: 10, FieldID: 2, StartTime: at(1, 18), EndTime: at(1, 19), Status: model.BookingStatusCancelled, TotalAmount: 600},
		},
		Fields: map[int64]string{1: "Поле 1", 2: "Поле 2"},
		Users:  map[int64]string{10: "Anna"},
	}

	buf, err := Workbook(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{bookingsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Период: 01.01.2024 - 07.01.2024", rows[0][0])

	// отсортировано по началу
	assert.Equal(t, []string{"1", "01.01.2024", "13:00", "15:00", "Поле 1", "Anna", "⏳ Ожидает оплаты", "800"}, rows[2])
	assert.Equal(t, "3", rows[3][0])
	assert.Equal(t, "#20", rows[4][5])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 2, "cancelled bookings are excluded from totals")
	assert.Equal(t, []string{"Поле 1", "2", "4", "1200", "800"}, summary[1])
}

func TestFileName(t *testing.T) {
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	name := FileName(from, from.AddDate(0, 0, 7))

	assert.True(t, strings.HasPrefix(name, "bookings_2024-01-01_2024-01-07_"))
	assert.True(t, strings.HasSuffix(name, ".xlsx"))
	assert.NotEqual(t, name, FileName(from, from.AddDate(0, 0, 7)))
}
