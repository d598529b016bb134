// Package export выгружает брони в Excel для администраторов.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	bookingsSheet = "Брони"
	summarySheet  = "Итоги"
)

var statusTitles = map[model.BookingStatus]string{
	model.BookingStatusPending:             "⏳ Ожидает оплаты",
	model.BookingStatusPendingConfirmation: "🧾 Чек на проверке",
	model.BookingStatusPaid:                "✅ Оплачено",
	model.BookingStatusCancelled:           "❌ Отменено",
}

var statusColors = map[model.BookingStatus]string{
	model.BookingStatusPending:             "#FFEB9C",
	model.BookingStatusPendingConfirmation: "#DDEBF7",
	model.BookingStatusPaid:                "#C6EFCE",
	model.BookingStatusCancelled:           "#FFC7CE",
}

// Report данные для выгрузки за период [From, To)
type Report struct {
	From     time.Time
	To       time.Time
	Bookings []*model.Booking
	Fields   map[int64]string // ID поля -> название
	Users    map[int64]string // ID пользователя -> имя
}

// FileName имя файла выгрузки, уникальное для каждого запроса
func FileName(from, to time.Time) string {
	return fmt.Sprintf("bookings_%s_%s_%s.xlsx",
		from.Format("2006-01-02"),
		to.AddDate(0, 0, -1).Format("2006-01-02"),
		uuid.NewString()[:8])
}

// Workbook строит xlsx: лист со всеми бронями и лист с итогами по полям
func Workbook(r Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := writeBookings(f, r); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := writeSummary(f, r); err != nil {
		return nil, err
	}

	// Удаляем стандартный лист "Sheet1"
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func writeBookings(f *excelize.File, r Report) error {
	title := fmt.Sprintf("Период: %s - %s",
		r.From.Format("02.01.2006"), r.To.AddDate(0, 0, -1).Format("02.01.2006"))
	if err := f.SetCellValue(bookingsSheet, "A1", title); err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	if err := f.MergeCell(bookingsSheet, "A1", "H1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}
	_ = f.SetCellStyle(bookingsSheet, "A1", "A1", titleStyle)

	headers := []any{"№", "Дата", "Начало", "Конец", "Поле", "Клиент", "Статус", "Сумма"}
	if err := f.SetSheetRow(bookingsSheet, "A2", &headers); err != nil {
		return fmt.Errorf("set headers: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	_ = f.SetCellStyle(bookingsSheet, "A2", "H2", headerStyle)

	bookings := append([]*model.Booking(nil), r.Bookings...)
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].StartTime.Equal(bookings[j].StartTime) {
			return bookings[i].StartTime.Before(bookings[j].StartTime)
		}
		return bookings[i].FieldID < bookings[j].FieldID
	})

	styles := make(map[model.BookingStatus]int)
	for i, b := range bookings {
		row := i + 3
		values := []any{
			b.ID,
			b.StartTime.Format("02.01.2006"),
			b.StartTime.Format("15:04"),
			b.EndTime.Format("15:04"),
			nameOr(r.Fields, b.FieldID, "Поле #%d"),
			nameOr(r.Users, b.UserID, "#%d"),
			statusTitle(b.Status),
			b.TotalAmount,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(bookingsSheet, cell, &values); err != nil {
			return fmt.Errorf("set row %d: %w", row, err)
		}

		style, ok := styles[b.Status]
		if !ok {
			style, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{statusColors[b.Status]}, Pattern: 1},
			})
			if err != nil {
				return fmt.Errorf("status style: %w", err)
			}
			styles[b.Status] = style
		}
		statusCell, _ := excelize.CoordinatesToCellName(7, row)
		_ = f.SetCellStyle(bookingsSheet, statusCell, statusCell, style)
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 8)
	_ = f.SetColWidth(bookingsSheet, "B", "D", 12)
	_ = f.SetColWidth(bookingsSheet, "E", "F", 22)
	_ = f.SetColWidth(bookingsSheet, "G", "G", 20)
	_ = f.SetColWidth(bookingsSheet, "H", "H", 10)

	return nil
}

type fieldTotals struct {
	fieldID  int64
	bookings int
	hours    float64
	paid     int64
	unpaid   int64
}

// writeSummary итоги по полям, отменённые брони не учитываются
func writeSummary(f *excelize.File, r Report) error {
	byField := make(map[int64]*fieldTotals)
	for _, b := range r.Bookings {
		if !b.IsActive() {
			continue
		}
		t, ok := byField[b.FieldID]
		if !ok {
			t = &fieldTotals{fieldID: b.FieldID}
			byField[b.FieldID] = t
		}
		t.bookings++
		t.hours += b.EndTime.Sub(b.StartTime).Hours()
		if b.IsPaid() {
			t.paid += b.TotalAmount
		} else {
			t.unpaid += b.TotalAmount
		}
	}

	totals := make([]*fieldTotals, 0, len(byField))
	for _, t := range byField {
		totals = append(totals, t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].fieldID < totals[j].fieldID })

	headers := []any{"Поле", "Броней", "Часов", "Оплачено", "Ожидает оплаты"}
	if err := f.SetSheetRow(summarySheet, "A1", &headers); err != nil {
		return fmt.Errorf("set summary headers: %w", err)
	}

	for i, t := range totals {
		values := []any{
			nameOr(r.Fields, t.fieldID, "Поле #%d"),
			t.bookings,
			t.hours,
			t.paid,
			t.unpaid,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("set summary row: %w", err)
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "E", 16)
	return nil
}

func statusTitle(s model.BookingStatus) string {
	if title, ok := statusTitles[s]; ok {
		return title
	}
	return string(s)
}

func nameOr(names map[int64]string, id int64, format string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf(format, id)
}
